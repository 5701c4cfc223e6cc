package ports

import (
	"context"
)

// RegisterCustomerInput carries a self-registration. Password is plaintext and
// is consumed by the hasher immediately.
type RegisterCustomerInput struct {
	Name     string
	Password string
	Email    string
	Age      int
	Gender   string
}

// UpdateCustomerInput carries a partial update; nil means "leave unchanged".
type UpdateCustomerInput struct {
	Name  *string
	Email *string
	Age   *int
}

// CustomerSummary is the read projection returned to callers.
type CustomerSummary struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Gender   string   `json:"gender"`
	Age      int      `json:"age"`
	Roles    []string `json:"roles"`
	Username string   `json:"username"`
}

// CustomerService defines the customer directory use cases.
type CustomerService interface {
	ListAll(ctx context.Context) ([]CustomerSummary, error)
	Get(ctx context.Context, id int64) (*CustomerSummary, error)
	GetByEmail(ctx context.Context, email string) (*CustomerSummary, error)
	Register(ctx context.Context, input RegisterCustomerInput) (*CustomerSummary, error)
	Update(ctx context.Context, id int64, input UpdateCustomerInput) error
	Delete(ctx context.Context, id int64) error
}
