// Package storetest is a conformance suite every ports.CustomerRepository
// must pass. Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customer-directory/customer-api/internal/core/domain"
	"github.com/customer-directory/customer-api/internal/core/ports"
)

// Factory returns an empty repository. It is called once per subtest.
type Factory func(t *testing.T) ports.CustomerRepository

var seq atomic.Int64

// NewCustomer returns an unsaved customer with a unique email.
func NewCustomer(name string) domain.Customer {
	n := seq.Add(1)
	return domain.Customer{
		Name:         name,
		PasswordHash: "$2a$10$hash",
		Email:        fmt.Sprintf("%s-%d@example.com", name, n),
		Age:          20 + int(n%50),
		Gender:       "Female",
	}
}

// Run executes the suite.
func Run(t *testing.T, newRepo Factory) {
	t.Helper()

	cases := []struct {
		name string
		fn   func(t *testing.T, repo ports.CustomerRepository)
	}{
		{"ListAllEmpty", testListAllEmpty},
		{"InsertAssignsIDs", testInsertAssignsIDs},
		{"InsertRejectsDuplicateEmail", testInsertRejectsDuplicateEmail},
		{"FindByID", testFindByID},
		{"FindByEmail", testFindByEmail},
		{"Exists", testExists},
		{"UpdateIsSparse", testUpdateIsSparse},
		{"UpdateEmptyPatchIsNoop", testUpdateEmptyPatchIsNoop},
		{"UpdateClearsPassword", testUpdateClearsPassword},
		{"UpdateRejectsDuplicateEmail", testUpdateRejectsDuplicateEmail},
		{"UpdateMissing", testUpdateMissing},
		{"DeleteIsFinal", testDeleteIsFinal},
		{"IDsAreNotReused", testIDsAreNotReused},
		{"ConcurrentInsertsSameEmail", testConcurrentInsertsSameEmail},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, newRepo(t))
		})
	}
}

func insert(t *testing.T, repo ports.CustomerRepository, c domain.Customer) domain.Customer {
	t.Helper()
	require.NoError(t, repo.Insert(context.Background(), &c))
	require.NotZero(t, c.ID)
	return c
}

func testListAllEmpty(t *testing.T, repo ports.CustomerRepository) {
	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func testInsertAssignsIDs(t *testing.T, repo ports.CustomerRepository) {
	a := insert(t, repo, NewCustomer("alice"))
	b := insert(t, repo, NewCustomer("bob"))
	assert.NotEqual(t, a.ID, b.ID)

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.ElementsMatch(t, []domain.Customer{a, b}, all)
}

func testInsertRejectsDuplicateEmail(t *testing.T, repo ports.CustomerRepository) {
	a := insert(t, repo, NewCustomer("alice"))

	dup := NewCustomer("other")
	dup.Email = a.Email
	err := repo.Insert(context.Background(), &dup)
	require.ErrorIs(t, err, domain.ErrDuplicate)

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Customer{a}, all)
}

func testFindByID(t *testing.T, repo ports.CustomerRepository) {
	a := insert(t, repo, NewCustomer("alice"))

	got, err := repo.FindByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, *got)

	_, err = repo.FindByID(context.Background(), a.ID+1000)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func testFindByEmail(t *testing.T, repo ports.CustomerRepository) {
	a := insert(t, repo, NewCustomer("alice"))

	got, err := repo.FindByEmail(context.Background(), a.Email)
	require.NoError(t, err)
	assert.Equal(t, a, *got)

	_, err = repo.FindByEmail(context.Background(), "missing@example.com")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func testExists(t *testing.T, repo ports.CustomerRepository) {
	ctx := context.Background()
	a := insert(t, repo, NewCustomer("alice"))

	ok, err := repo.ExistsByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByID(ctx, a.ID+1000)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.ExistsByEmail(ctx, a.Email)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByEmail(ctx, "missing@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func testUpdateIsSparse(t *testing.T, repo ports.CustomerRepository) {
	ctx := context.Background()
	a := insert(t, repo, NewCustomer("alice"))

	require.NoError(t, repo.Update(ctx, a.ID, domain.CustomerPatch{Name: domain.Set("Alice Liddell")}))

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	want := a
	want.Name = "Alice Liddell"
	assert.Equal(t, want, *got)

	require.NoError(t, repo.Update(ctx, a.ID, domain.CustomerPatch{
		Email: domain.Set("liddell@example.com"),
		Age:   domain.Set(99),
	}))
	got, err = repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	want.Email = "liddell@example.com"
	want.Age = 99
	assert.Equal(t, want, *got)
}

func testUpdateEmptyPatchIsNoop(t *testing.T, repo ports.CustomerRepository) {
	ctx := context.Background()
	a := insert(t, repo, NewCustomer("alice"))

	require.NoError(t, repo.Update(ctx, a.ID, domain.CustomerPatch{}))

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, *got)
}

func testUpdateClearsPassword(t *testing.T, repo ports.CustomerRepository) {
	ctx := context.Background()
	a := insert(t, repo, NewCustomer("alice"))

	require.NoError(t, repo.Update(ctx, a.ID, domain.CustomerPatch{PasswordHash: domain.Clear[string]()}))
	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, got.PasswordHash)
	assert.Equal(t, a.Name, got.Name)

	err = repo.Update(ctx, a.ID, domain.CustomerPatch{Name: domain.Clear[string]()})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func testUpdateRejectsDuplicateEmail(t *testing.T, repo ports.CustomerRepository) {
	ctx := context.Background()
	a := insert(t, repo, NewCustomer("alice"))
	b := insert(t, repo, NewCustomer("bob"))

	err := repo.Update(ctx, a.ID, domain.CustomerPatch{Email: domain.Set(b.Email)})
	require.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, *got)
}

func testUpdateMissing(t *testing.T, repo ports.CustomerRepository) {
	err := repo.Update(context.Background(), 424242, domain.CustomerPatch{Name: domain.Set("x")})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func testDeleteIsFinal(t *testing.T, repo ports.CustomerRepository) {
	ctx := context.Background()
	a := insert(t, repo, NewCustomer("alice"))
	b := insert(t, repo, NewCustomer("bob"))

	require.NoError(t, repo.DeleteByID(ctx, a.ID))

	_, err := repo.FindByID(ctx, a.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	ok, err := repo.ExistsByID(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Customer{b}, all)
}

func testIDsAreNotReused(t *testing.T, repo ports.CustomerRepository) {
	ctx := context.Background()
	a := insert(t, repo, NewCustomer("alice"))
	require.NoError(t, repo.DeleteByID(ctx, a.ID))

	b := insert(t, repo, NewCustomer("bob"))
	assert.Greater(t, b.ID, a.ID)
}

func testConcurrentInsertsSameEmail(t *testing.T, repo ports.CustomerRepository) {
	const workers = 8
	email := NewCustomer("race").Email

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := NewCustomer("race")
			c.Email = email
			if err := repo.Insert(context.Background(), &c); err == nil {
				successes.Add(1)
			} else {
				assert.ErrorIs(t, err, domain.ErrDuplicate)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
}
