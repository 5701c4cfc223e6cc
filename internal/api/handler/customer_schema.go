package handler

import "github.com/customer-directory/customer-api/internal/core/ports"

// errorResponse is the envelope rendered for every 4xx/5xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type registerCustomerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Password string `json:"password" validate:"required,strongpassword"`
	Email    string `json:"email"    validate:"required,email"`
	Age      *int   `json:"age"      validate:"required"`
	Gender   string `json:"gender"   validate:"required"`
}

// updateCustomerRequest fields are optional; omitted fields stay unchanged.
type updateCustomerRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
	Age   *int    `json:"age"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token    string                 `json:"token"`
	Customer *ports.CustomerSummary `json:"customer"`
}
