package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/customer-directory/customer-api/internal/core/domain"
	"github.com/customer-directory/customer-api/internal/core/ports"
)

// CustomerService enforces the directory invariants on top of a
// ports.CustomerRepository: email uniqueness, existence checks and
// partial-update semantics.
type CustomerService struct {
	repo   ports.CustomerRepository
	hasher ports.PasswordHasher
	locks  ports.KeyLocker
	roles  domain.RolePolicy
}

func NewCustomerService(
	repo ports.CustomerRepository,
	hasher ports.PasswordHasher,
	locks ports.KeyLocker,
	roles domain.RolePolicy,
) *CustomerService {
	return &CustomerService{repo: repo, hasher: hasher, locks: locks, roles: roles}
}

func (s *CustomerService) ListAll(ctx context.Context) ([]ports.CustomerSummary, error) {
	customers, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	out := make([]ports.CustomerSummary, 0, len(customers))
	for _, c := range customers {
		out = append(out, toSummary(c, s.roles))
	}
	return out, nil
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*ports.CustomerSummary, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := toSummary(*c, s.roles)
	return &summary, nil
}

func (s *CustomerService) GetByEmail(ctx context.Context, email string) (*ports.CustomerSummary, error) {
	c, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	summary := toSummary(*c, s.roles)
	return &summary, nil
}

// Register stores a new customer after checking the email is free. The
// password is hashed before the record is built and is never stored in plain.
func (s *CustomerService) Register(ctx context.Context, in ports.RegisterCustomerInput) (*ports.CustomerSummary, error) {
	if in.Age < 0 {
		return nil, domain.ErrNegativeAge
	}

	unlock, err := s.acquire(ctx, emailKey(in.Email))
	if err != nil {
		return nil, err
	}
	defer unlock()

	taken, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("register customer: %w", err)
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register customer: hash password: %w", err)
	}

	c := &domain.Customer{
		Name:         in.Name,
		PasswordHash: hash,
		Email:        in.Email,
		Age:          in.Age,
		Gender:       in.Gender,
	}
	if err := s.repo.Insert(ctx, c); err != nil {
		return nil, fmt.Errorf("register customer: %w", err)
	}

	summary := toSummary(*c, s.roles)
	return &summary, nil
}

func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	unlock, err := s.acquire(ctx, idKey(id))
	if err != nil {
		return err
	}
	defer unlock()

	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if !exists {
		return domain.CustomerNotFound(id)
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

// Update stages every supplied field that differs from the stored value and
// writes them as one sparse patch. A request that changes nothing is
// rejected with domain.ErrNoDataChanges and the store is not written.
func (s *CustomerService) Update(ctx context.Context, id int64, in ports.UpdateCustomerInput) error {
	keys := []string{idKey(id)}
	if in.Email != nil {
		keys = append(keys, emailKey(*in.Email))
	}
	unlock, err := s.acquire(ctx, keys...)
	if err != nil {
		return err
	}
	defer unlock()

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	var patch domain.CustomerPatch

	if in.Name != nil && *in.Name != current.Name {
		patch.Name = domain.Set(*in.Name)
	}

	if in.Email != nil && *in.Email != current.Email {
		taken, err := s.repo.ExistsByEmail(ctx, *in.Email)
		if err != nil {
			return fmt.Errorf("update customer: %w", err)
		}
		if taken {
			return domain.ErrEmailTaken
		}
		patch.Email = domain.Set(*in.Email)
	}

	if in.Age != nil && *in.Age != current.Age {
		if *in.Age < 0 {
			return domain.ErrNegativeAge
		}
		patch.Age = domain.Set(*in.Age)
	}

	if patch.IsEmpty() {
		return domain.ErrNoDataChanges
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// acquire takes every key in sorted order so overlapping operations cannot
// deadlock, and returns a function releasing them in reverse.
func (s *CustomerService) acquire(ctx context.Context, keys ...string) (func(), error) {
	keys = slices.Clone(keys)
	slices.Sort(keys)
	keys = slices.Compact(keys)

	unlocks := make([]func(), 0, len(keys))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	for _, k := range keys {
		unlock, err := s.locks.Lock(ctx, k)
		if err != nil {
			release()
			return nil, fmt.Errorf("lock %s: %w", k, err)
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}

func idKey(id int64) string        { return "customer:" + strconv.FormatInt(id, 10) }
func emailKey(email string) string { return "email:" + email }

func toSummary(c domain.Customer, roles domain.RolePolicy) ports.CustomerSummary {
	return ports.CustomerSummary{
		ID:       c.ID,
		Name:     c.Name,
		Email:    c.Email,
		Gender:   c.Gender,
		Age:      c.Age,
		Roles:    roles.RolesFor(domain.SourceSelfRegistered),
		Username: c.Email,
	}
}
