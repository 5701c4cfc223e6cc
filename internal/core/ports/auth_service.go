package ports

import (
	"context"

	"github.com/customer-directory/customer-api/internal/core/domain"
)

// Authenticator verifies a login identity against its stored credential.
// It returns domain.ErrInvalidCredentials when verification fails.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*domain.Customer, error)
}

// AuthService is the authentication gate.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *CustomerSummary, error)
}
