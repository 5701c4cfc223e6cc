package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/customer-directory/customer-api/internal/core/domain"
)

const uniqueViolation = "23505"

const selectColumns = `SELECT id, name, COALESCE(password, ''), email, age, gender FROM customer`

type CustomerRepository struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

func NewCustomerRepository(pool *pgxpool.Pool, log zerolog.Logger) *CustomerRepository {
	return &CustomerRepository{pool: pool, log: log}
}

func (r *CustomerRepository) ListAll(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.pool.Query(ctx, selectColumns+` ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Customer, 0)
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.PasswordHash, &c.Email, &c.Age, &c.Gender); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return out, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	c, err := r.scanOne(ctx, selectColumns+` WHERE id = $1`, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.CustomerNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("find customer %d: %w", id, err)
	}
	return c, nil
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	c, err := r.scanOne(ctx, selectColumns+` WHERE email = $1`, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.CustomerEmailNotFound(email)
	}
	if err != nil {
		return nil, fmt.Errorf("find customer by email: %w", err)
	}
	return c, nil
}

func (r *CustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customer WHERE email = $1)`, email).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("customer email exists: %w", err)
	}
	return ok, nil
}

func (r *CustomerRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customer WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("customer id exists: %w", err)
	}
	return ok, nil
}

func (r *CustomerRepository) Insert(ctx context.Context, c *domain.Customer) error {
	if c.Persisted() {
		return domain.Validationf("customer already has id %d", c.ID)
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO customer (name, password, email, age, gender)
         VALUES ($1, NULLIF($2, ''), $3, $4, $5)
         RETURNING id`,
		c.Name, c.PasswordHash, c.Email, c.Age, c.Gender,
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// Update writes only the columns the patch touches in one statement.
func (r *CustomerRepository) Update(ctx context.Context, id int64, patch domain.CustomerPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	if patch.IsEmpty() {
		return nil
	}

	var (
		sets         []string
		args         []any
		argsPosition = 1
	)
	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argsPosition))
		args = append(args, value)
		argsPosition++
	}

	if v, ok := patch.Name.Get(); ok {
		add("name", v)
	}
	if v, ok := patch.Email.Get(); ok {
		add("email", v)
	}
	if v, ok := patch.Age.Get(); ok {
		add("age", v)
	}
	if v, ok := patch.Gender.Get(); ok {
		add("gender", v)
	}
	if v, ok := patch.PasswordHash.Get(); ok {
		add("password", v)
	} else if patch.PasswordHash.IsClear() {
		sets = append(sets, "password = NULL")
	}

	query := fmt.Sprintf("UPDATE customer SET %s WHERE id = $%d", strings.Join(sets, ", "), argsPosition)
	args = append(args, id)

	r.log.Debug().Int64("customer_id", id).Strs("fields", patch.Fields()).Msg("updating customer")

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("update customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.CustomerNotFound(id)
	}
	return nil
}

func (r *CustomerRepository) DeleteByID(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customer WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.CustomerNotFound(id)
	}
	return nil
}

func (r *CustomerRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *CustomerRepository) scanOne(ctx context.Context, query string, arg any) (*domain.Customer, error) {
	var c domain.Customer
	err := r.pool.QueryRow(ctx, query, arg).Scan(&c.ID, &c.Name, &c.PasswordHash, &c.Email, &c.Age, &c.Gender)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
