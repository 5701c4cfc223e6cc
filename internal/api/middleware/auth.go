package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/customer-directory/customer-api/internal/core/ports"
)

// Context keys set by Auth.
const (
	CtxCustomerID    = "customer_id"
	CtxCustomerEmail = "customer_email"
	CtxRoles         = "roles"
)

// SubjectResolver resolves a token subject to a live account.
type SubjectResolver interface {
	GetByEmail(ctx context.Context, email string) (*ports.CustomerSummary, error)
}

// Auth requires a bearer token whose subject is an existing customer and whose
// signature and validity window check out against that subject.
func Auth(tokens ports.TokenValidator, customers SubjectResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}
			token := parts[1]

			subject, err := tokens.ExtractSubject(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			customer, err := customers.GetByEmail(c.Request().Context(), subject)
			if err != nil || !tokens.Validate(token, customer.Email) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			roles, err := tokens.ExtractRoles(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(CtxCustomerID, customer.ID)
			c.Set(CtxCustomerEmail, customer.Email)
			c.Set(CtxRoles, roles)

			return next(c)
		}
	}
}
