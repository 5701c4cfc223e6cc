// Package memory is the in-process CustomerRepository. It is safe for
// concurrent use and enforces email uniqueness like the SQL backends' unique
// constraint does.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/customer-directory/customer-api/internal/core/domain"
)

type CustomerRepository struct {
	mu     sync.RWMutex
	items  map[int64]domain.Customer
	lastID int64
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{items: make(map[int64]domain.Customer)}
}

// ListAll returns the records ordered by id.
func (r *CustomerRepository) ListAll(_ context.Context) ([]domain.Customer, error) {
	r.mu.RLock()
	out := make([]domain.Customer, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CustomerRepository) FindByID(_ context.Context, id int64) (*domain.Customer, error) {
	r.mu.RLock()
	c, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.CustomerNotFound(id)
	}
	return &c, nil
}

func (r *CustomerRepository) FindByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.byEmailLocked(email); ok {
		return &c, nil
	}
	return nil, domain.CustomerEmailNotFound(email)
}

func (r *CustomerRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmailLocked(email)
	return ok, nil
}

func (r *CustomerRepository) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	_, ok := r.items[id]
	r.mu.RUnlock()
	return ok, nil
}

func (r *CustomerRepository) Insert(_ context.Context, c *domain.Customer) error {
	if c.Persisted() {
		return domain.Validationf("customer already has id %d", c.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmailLocked(c.Email); taken {
		return domain.ErrEmailTaken
	}

	r.lastID++
	c.ID = r.lastID
	r.items[c.ID] = *c
	return nil
}

func (r *CustomerRepository) Update(_ context.Context, id int64, patch domain.CustomerPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	if patch.IsEmpty() {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok {
		return domain.CustomerNotFound(id)
	}
	if email, ok := patch.Email.Get(); ok && email != c.Email {
		if _, taken := r.byEmailLocked(email); taken {
			return domain.ErrEmailTaken
		}
	}

	c.Apply(patch)
	r.items[id] = c
	return nil
}

func (r *CustomerRepository) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.CustomerNotFound(id)
	}
	delete(r.items, id)
	return nil
}

// Ping always succeeds; it lets the store sit behind readiness probes.
func (r *CustomerRepository) Ping(context.Context) error { return nil }

func (r *CustomerRepository) byEmailLocked(email string) (domain.Customer, bool) {
	for _, c := range r.items {
		if c.Email == email {
			return c, true
		}
	}
	return domain.Customer{}, false
}
