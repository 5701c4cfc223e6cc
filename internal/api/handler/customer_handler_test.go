package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/customer-directory/customer-api/internal/core/domain"
	"github.com/customer-directory/customer-api/internal/core/ports"
)

type stubCustomerService struct {
	ports.CustomerService
	registerFn func(ctx context.Context, in ports.RegisterCustomerInput) (*ports.CustomerSummary, error)
	updateFn   func(ctx context.Context, id int64, in ports.UpdateCustomerInput) error
	deleteFn   func(ctx context.Context, id int64) error
	getFn      func(ctx context.Context, id int64) (*ports.CustomerSummary, error)
}

func (s *stubCustomerService) Register(ctx context.Context, in ports.RegisterCustomerInput) (*ports.CustomerSummary, error) {
	return s.registerFn(ctx, in)
}

func (s *stubCustomerService) Update(ctx context.Context, id int64, in ports.UpdateCustomerInput) error {
	return s.updateFn(ctx, id, in)
}

func (s *stubCustomerService) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func (s *stubCustomerService) Get(ctx context.Context, id int64) (*ports.CustomerSummary, error) {
	return s.getFn(ctx, id)
}

type stubIssuer struct {
	subject string
	roles   []string
	err     error
}

func (s *stubIssuer) Issue(subject string, roles []string) (string, error) {
	s.subject, s.roles = subject, roles
	return "signed-token", s.err
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCustomerHandler_Register_Success(t *testing.T) {
	stub := &stubCustomerService{
		registerFn: func(ctx context.Context, in ports.RegisterCustomerInput) (*ports.CustomerSummary, error) {
			if in.Name != "Ada" || in.Email != "ada@example.com" || in.Age != 36 || in.Gender != "Female" || in.Password != "Secr3t@pw" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.CustomerSummary{ID: 12, Name: in.Name, Email: in.Email, Age: in.Age, Gender: in.Gender,
				Roles: []string{domain.RoleUser}, Username: in.Email}, nil
		},
	}
	issuer := &stubIssuer{}
	h := NewCustomerHandler(stub, issuer)

	c, rec := newContext(http.MethodPost, "/customers",
		`{"name":"Ada","password":"Secr3t@pw","email":"ada@example.com","age":36,"gender":"Female"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderAuthorization); got != "Bearer signed-token" {
		t.Fatalf("unexpected Authorization header %q", got)
	}
	if got := rec.Header().Get(echo.HeaderLocation); got != "/customers/12" {
		t.Fatalf("unexpected Location header %q", got)
	}
	if issuer.subject != "ada@example.com" || len(issuer.roles) != 1 || issuer.roles[0] != domain.RoleUser {
		t.Fatalf("token issued for %q %v", issuer.subject, issuer.roles)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != float64(12) || resp["username"] != "ada@example.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestCustomerHandler_Register_ZeroAgeIsAccepted(t *testing.T) {
	called := false
	stub := &stubCustomerService{
		registerFn: func(ctx context.Context, in ports.RegisterCustomerInput) (*ports.CustomerSummary, error) {
			called = true
			return &ports.CustomerSummary{ID: 1}, nil
		},
	}
	h := NewCustomerHandler(stub, &stubIssuer{})

	c, _ := newContext(http.MethodPost, "/customers",
		`{"name":"Baby","password":"Secr3t@pw","email":"b@example.com","age":0,"gender":"Male"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("expected service call")
	}
}

func TestCustomerHandler_Register_InvalidPayload(t *testing.T) {
	h := NewCustomerHandler(&stubCustomerService{}, &stubIssuer{})

	c, _ := newContext(http.MethodPost, "/customers", `{"name":`)
	err := h.Register(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 http error, got %v", err)
	}
}

func TestCustomerHandler_Register_ServiceErrorPropagates(t *testing.T) {
	stub := &stubCustomerService{
		registerFn: func(ctx context.Context, in ports.RegisterCustomerInput) (*ports.CustomerSummary, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	h := NewCustomerHandler(stub, &stubIssuer{})

	c, _ := newContext(http.MethodPost, "/customers",
		`{"name":"Ada","password":"Secr3t@pw","email":"ada@example.com","age":36,"gender":"Female"}`)

	if err := h.Register(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestCustomerHandler_Update_PassesOnlySuppliedFields(t *testing.T) {
	stub := &stubCustomerService{
		updateFn: func(ctx context.Context, id int64, in ports.UpdateCustomerInput) error {
			if id != 4 {
				t.Fatalf("unexpected id %d", id)
			}
			if in.Name != nil || in.Email == nil || *in.Email != "new@example.com" || in.Age == nil || *in.Age != 0 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return nil
		},
	}
	h := NewCustomerHandler(stub, &stubIssuer{})

	c, rec := newContext(http.MethodPut, "/customers/4", `{"email":"new@example.com","age":0}`)
	c.SetParamNames("id")
	c.SetParamValues("4")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestCustomerHandler_InvalidID(t *testing.T) {
	h := NewCustomerHandler(&stubCustomerService{}, &stubIssuer{})

	for _, raw := range []string{"abc", "0", "-3"} {
		c, _ := newContext(http.MethodDelete, "/customers/"+raw, "")
		c.SetParamNames("id")
		c.SetParamValues(raw)

		var he *echo.HTTPError
		if err := h.Delete(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("id %q: expected 400, got %v", raw, err)
		}
	}
}

func TestCustomerHandler_Delete(t *testing.T) {
	var deleted int64
	stub := &stubCustomerService{
		deleteFn: func(ctx context.Context, id int64) error {
			deleted = id
			return nil
		},
	}
	h := NewCustomerHandler(stub, &stubIssuer{})

	c, rec := newContext(http.MethodDelete, "/customers/9", "")
	c.SetParamNames("id")
	c.SetParamValues("9")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || deleted != 9 {
		t.Fatalf("expected 204 deleting 9, got %d deleting %d", rec.Code, deleted)
	}
}

func TestCustomerHandler_Get_NotFound(t *testing.T) {
	stub := &stubCustomerService{
		getFn: func(ctx context.Context, id int64) (*ports.CustomerSummary, error) {
			return nil, domain.CustomerNotFound(id)
		},
	}
	h := NewCustomerHandler(stub, &stubIssuer{})

	c, _ := newContext(http.MethodGet, "/customers/5", "")
	c.SetParamNames("id")
	c.SetParamValues("5")

	err := h.Get(c)
	if !errors.Is(err, domain.ErrNotFound) || err.Error() != "customer id [5] not found" {
		t.Fatalf("unexpected error: %v", err)
	}
}
