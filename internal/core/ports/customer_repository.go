package ports

import (
	"context"

	"github.com/customer-directory/customer-api/internal/core/domain"
)

// CustomerRepository is the storage port every backend implements with
// identical semantics.
//
// Lookups return a domain not-found error when no record matches. Emails are
// matched exactly (case-sensitive).
type CustomerRepository interface {
	// ListAll returns every record in backend-natural order; an empty store
	// yields an empty slice.
	ListAll(ctx context.Context) ([]domain.Customer, error)
	FindByID(ctx context.Context, id int64) (*domain.Customer, error)
	FindByEmail(ctx context.Context, email string) (*domain.Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// Insert stores a not-yet-persisted record and writes the fresh ID back
	// into c.
	Insert(ctx context.Context, c *domain.Customer) error

	// Update writes only the set or cleared fields of patch to the record
	// with the given id. An empty patch is a no-op.
	Update(ctx context.Context, id int64, patch domain.CustomerPatch) error

	// DeleteByID hard-deletes the record. Callers check existence first.
	DeleteByID(ctx context.Context, id int64) error
}
