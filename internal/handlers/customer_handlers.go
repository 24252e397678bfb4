package handlers

import (
	"errors"
	"log"
	"net/http"

	"crmhub/internal/common"
	"crmhub/internal/models"
	"crmhub/internal/services"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// CustomerHandlers handles customer-related HTTP requests
type CustomerHandlers struct {
	customerService services.CustomerService
}

// NewCustomerHandlers creates a new customer handlers instance
func NewCustomerHandlers(customerService services.CustomerService) *CustomerHandlers {
	return &CustomerHandlers{customerService: customerService}
}

// CreateCustomerRequest represents the customer creation request payload
type CreateCustomerRequest struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// CreateCustomer handles creating a new customer
func (h *CustomerHandlers) CreateCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Name == "" || req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name and email are required")
	}

	customer := &models.Customer{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := h.customerService.Create(ctx, customer); err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			return echo.NewHTTPError(http.StatusConflict, "A customer with this email already exists")
		}
		log.Printf("failed to create customer: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create customer")
	}

	return c.JSON(http.StatusCreated, customer)
}

// GetCustomer handles getting a customer by ID
func (h *CustomerHandlers) GetCustomer(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "customer id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	customer, err := h.customerService.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Customer")
		}
		log.Printf("failed to get customer: %v", err)
		return common.SendServerError(c, "Failed to get customer")
	}

	return c.JSON(http.StatusOK, customer)
}

// UpdateCustomerRequest represents the customer update request payload
type UpdateCustomerRequest struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// UpdateCustomer handles updating an existing customer
func (h *CustomerHandlers) UpdateCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "customer id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Name == "" || req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name and email are required")
	}

	existing, err := h.customerService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Customer")
		}
		log.Printf("failed to get customer: %v", err)
		return common.SendServerError(c, "Failed to get customer")
	}

	existing.Name = req.Name
	existing.Email = req.Email
	existing.Phone = req.Phone
	existing.Address = req.Address

	if err := h.customerService.Update(ctx, existing); err != nil {
		log.Printf("failed to update customer: %v", err)
		return common.SendServerError(c, "Failed to update customer")
	}

	return c.JSON(http.StatusOK, existing)
}

// DeleteCustomer handles deleting a customer. Records that reference the
// customer are not deleted with it.
func (h *CustomerHandlers) DeleteCustomer(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "customer id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	ctx := c.Request().Context()
	if _, err := h.customerService.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Customer")
		}
		log.Printf("failed to get customer: %v", err)
		return common.SendServerError(c, "Failed to get customer")
	}

	if err := h.customerService.Delete(ctx, id); err != nil {
		log.Printf("failed to delete customer: %v", err)
		return common.SendServerError(c, "Failed to delete customer")
	}

	return c.NoContent(http.StatusNoContent)
}

// ListCustomersRequest represents query parameters for listing customers
type ListCustomersRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListCustomers handles getting a paginated list of customers
func (h *CustomerHandlers) ListCustomers(c echo.Context) error {
	var req ListCustomersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	customers, err := h.customerService.List(c.Request().Context(), limit, offset)
	if err != nil {
		log.Printf("failed to list customers: %v", err)
		return common.SendServerError(c, "Failed to list customers")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"customers": customers,
		"limit":     limit,
		"offset":    offset,
	})
}
