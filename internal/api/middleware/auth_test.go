package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/customer-directory/customer-api/internal/core/domain"
	"github.com/customer-directory/customer-api/internal/core/ports"
	"github.com/customer-directory/customer-api/internal/infrastructure/security"
)

type stubResolver map[string]ports.CustomerSummary

func (s stubResolver) GetByEmail(_ context.Context, email string) (*ports.CustomerSummary, error) {
	c, ok := s[email]
	if !ok {
		return nil, domain.CustomerEmailNotFound(email)
	}
	return &c, nil
}

var alice = ports.CustomerSummary{ID: 7, Email: "alice@example.com", Roles: []string{domain.RoleUser}}

func runAuth(t *testing.T, tokens *security.TokenManager, header string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(tokens, stubResolver{alice.Email: alice})(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, c, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := security.NewTokenManager("secret", time.Hour)
	signed, err := tokens.Issue(alice.Email, []string{domain.RoleUser})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec, c, called := runAuth(t, tokens, "Bearer "+signed)

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if c.Get(CtxCustomerID) != int64(7) {
		t.Fatalf("customer id not set, got %v", c.Get(CtxCustomerID))
	}
	if c.Get(CtxCustomerEmail) != alice.Email {
		t.Fatalf("customer email not set")
	}
	roles, _ := c.Get(CtxRoles).([]string)
	if len(roles) != 1 || roles[0] != domain.RoleUser {
		t.Fatalf("roles not set, got %v", roles)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	tokens := security.NewTokenManager("secret", time.Hour)

	unknown, _ := tokens.Issue("ghost@example.com", []string{domain.RoleUser})
	foreign, _ := security.NewTokenManager("other-secret", time.Hour).Issue(alice.Email, []string{domain.RoleUser})
	expired, _ := security.NewTokenManager("secret", time.Minute,
		security.WithClock(func() time.Time { return time.Now().Add(-time.Hour) }),
	).Issue(alice.Email, []string{domain.RoleUser})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Token abc"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not-a-token"},
		{"unknown subject", "Bearer " + unknown},
		{"foreign signature", "Bearer " + foreign},
		{"expired", "Bearer " + expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, called := runAuth(t, tokens, tt.header)
			if called {
				t.Fatalf("should not reach next")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}
