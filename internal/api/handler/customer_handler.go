package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/customer-directory/customer-api/internal/api/metrics"
	"github.com/customer-directory/customer-api/internal/core/ports"
)

// CustomerHandler handles the /customers resource.
type CustomerHandler struct {
	service ports.CustomerService
	tokens  ports.TokenIssuer
}

func NewCustomerHandler(service ports.CustomerService, tokens ports.TokenIssuer) *CustomerHandler {
	return &CustomerHandler{service: service, tokens: tokens}
}

// List returns every customer.
//
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.CustomerSummary
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /customers [get]
func (h *CustomerHandler) List(c echo.Context) error {
	out, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one customer.
//
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Customer id"
// @Success      200  {object}  ports.CustomerSummary
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /customers/{id} [get]
func (h *CustomerHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	out, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Register creates a customer and signs them in.
//
// @Summary      Register a customer
// @Description  Returns the new customer; the bearer token is in the Authorization header.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body      registerCustomerRequest  true  "Registration details"
// @Success      201   {object}  ports.CustomerSummary
// @Header       201   {string}  Authorization  "Bearer token"
// @Header       201   {string}  Location       "/customers/{id}"
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /customers [post]
func (h *CustomerHandler) Register(c echo.Context) error {
	var req registerCustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	summary, err := h.service.Register(c.Request().Context(), toRegisterInput(req))
	if err != nil {
		return err
	}
	metrics.CustomersRegisteredTotal.Inc()

	token, err := h.tokens.Issue(summary.Username, summary.Roles)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	c.Response().Header().Set(echo.HeaderAuthorization, "Bearer "+token)
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/customers/%d", summary.ID))
	return c.JSON(http.StatusCreated, summary)
}

// Update applies a partial update.
//
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int                    true  "Customer id"
// @Param        body  body  updateCustomerRequest  true  "Fields to change"
// @Success      204
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateCustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.Update(c.Request().Context(), id, toUpdateInput(req)); err != nil {
		return err
	}
	metrics.CustomersUpdatedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a customer.
//
// @Summary      Delete a customer
// @Tags         customers
// @Security     BearerAuth
// @Param        id   path  int  true  "Customer id"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	metrics.CustomersDeletedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}
