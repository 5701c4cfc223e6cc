package orm

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/customer-directory/customer-api/internal/core/domain"
)

type customerModel struct {
	ID       int64   `gorm:"primaryKey;autoIncrement"`
	Name     string  `gorm:"not null"`
	Password *string `gorm:"column:password"`
	Email    string  `gorm:"not null;uniqueIndex"`
	Age      int     `gorm:"not null;check:age >= 0"`
	Gender   string  `gorm:"not null"`
}

func (customerModel) TableName() string { return "customer" }

func (m customerModel) toDomain() domain.Customer {
	c := domain.Customer{
		ID:     m.ID,
		Name:   m.Name,
		Email:  m.Email,
		Age:    m.Age,
		Gender: m.Gender,
	}
	if m.Password != nil {
		c.PasswordHash = *m.Password
	}
	return c
}

func fromDomain(c domain.Customer) customerModel {
	m := customerModel{
		Name:   c.Name,
		Email:  c.Email,
		Age:    c.Age,
		Gender: c.Gender,
	}
	if c.PasswordHash != "" {
		hash := c.PasswordHash
		m.Password = &hash
	}
	return m
}

type CustomerRepository struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewCustomerRepository(db *gorm.DB, log zerolog.Logger) *CustomerRepository {
	return &CustomerRepository{db: db, log: log}
}

func (r *CustomerRepository) ListAll(ctx context.Context) ([]domain.Customer, error) {
	var models []customerModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	out := make([]domain.Customer, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var m customerModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.CustomerNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("find customer %d: %w", id, err)
	}
	c := m.toDomain()
	return &c, nil
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var m customerModel
	err := r.db.WithContext(ctx).First(&m, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.CustomerEmailNotFound(email)
	}
	if err != nil {
		return nil, fmt.Errorf("find customer by email: %w", err)
	}
	c := m.toDomain()
	return &c, nil
}

func (r *CustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *CustomerRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "id = ?", id)
}

func (r *CustomerRepository) Insert(ctx context.Context, c *domain.Customer) error {
	if c.Persisted() {
		return domain.Validationf("customer already has id %d", c.ID)
	}

	m := fromDomain(*c)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	c.ID = m.ID
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, id int64, patch domain.CustomerPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	if patch.IsEmpty() {
		return nil
	}

	r.log.Debug().Int64("customer_id", id).Strs("fields", patch.Fields()).Msg("updating customer")

	res := r.db.WithContext(ctx).Model(&customerModel{}).Where("id = ?", id).Updates(columns(patch))
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("update customer %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.CustomerNotFound(id)
	}
	return nil
}

func (r *CustomerRepository) DeleteByID(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&customerModel{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete customer %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.CustomerNotFound(id)
	}
	return nil
}

func (r *CustomerRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *CustomerRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&customerModel{}).Where(query, arg).Limit(1).Count(&n).Error; err != nil {
		return false, fmt.Errorf("customer exists: %w", err)
	}
	return n > 0, nil
}

// columns maps a patch onto an Updates map. A map is used rather than a
// struct so that zero values and NULL are written.
func columns(p domain.CustomerPatch) map[string]any {
	out := make(map[string]any, 5)
	if v, ok := p.Name.Get(); ok {
		out["name"] = v
	}
	if v, ok := p.Email.Get(); ok {
		out["email"] = v
	}
	if v, ok := p.Age.Get(); ok {
		out["age"] = v
	}
	if v, ok := p.Gender.Get(); ok {
		out["gender"] = v
	}
	if v, ok := p.PasswordHash.Get(); ok {
		out["password"] = v
	} else if p.PasswordHash.IsClear() {
		out["password"] = nil
	}
	return out
}
