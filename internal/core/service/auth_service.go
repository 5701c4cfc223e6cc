package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/customer-directory/customer-api/internal/core/domain"
	"github.com/customer-directory/customer-api/internal/core/ports"
)

// PasswordAuthenticator checks a login against the stored credential hash.
type PasswordAuthenticator struct {
	repo   ports.CustomerRepository
	hasher ports.PasswordHasher
}

func NewPasswordAuthenticator(repo ports.CustomerRepository, hasher ports.PasswordHasher) *PasswordAuthenticator {
	return &PasswordAuthenticator{repo: repo, hasher: hasher}
}

// Authenticate returns the customer when password matches. Unknown emails,
// accounts without a credential and wrong passwords all yield
// domain.ErrInvalidCredentials.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, password string) (*domain.Customer, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	c, err := a.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if c.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if a.hasher.Compare(c.PasswordHash, password) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return c, nil
}

// AuthService implements login: it delegates verification to an
// Authenticator and mints a token bound to the customer's email and roles.
type AuthService struct {
	authenticator ports.Authenticator
	tokens        ports.TokenIssuer
	roles         domain.RolePolicy
}

func NewAuthService(authenticator ports.Authenticator, tokens ports.TokenIssuer, roles domain.RolePolicy) *AuthService {
	return &AuthService{authenticator: authenticator, tokens: tokens, roles: roles}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *ports.CustomerSummary, error) {
	c, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	summary := toSummary(*c, s.roles)
	token, err := s.tokens.Issue(summary.Username, summary.Roles)
	if err != nil {
		return "", nil, fmt.Errorf("login: issue token: %w", err)
	}

	return token, &summary, nil
}
