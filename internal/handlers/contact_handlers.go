package handlers

import (
	"errors"
	"log"
	"net/http"

	"crmhub/internal/common"
	"crmhub/internal/models"
	"crmhub/internal/services"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// ContactHandlers handles contact-related HTTP requests
type ContactHandlers struct {
	contactService services.ContactService
}

// NewContactHandlers creates a new contact handlers instance
func NewContactHandlers(contactService services.ContactService) *ContactHandlers {
	return &ContactHandlers{contactService: contactService}
}

// CreateContactRequest represents the contact creation request payload
type CreateContactRequest struct {
	CustomerID string  `json:"customer_id" validate:"required,uuid"`
	Name       string  `json:"name" validate:"required"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
}

// CreateContact handles creating a new contact under a customer
func (h *ContactHandlers) CreateContact(c echo.Context) error {
	var req CreateContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}
	customerID, err := common.ValidateUUID(req.CustomerID, "customer_id")
	if err != nil {
		return common.SendValidationError(c, "customer_id", err.Error())
	}

	contact := &models.Contact{
		CustomerID: customerID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
	}
	if err := h.contactService.Create(c.Request().Context(), contact); err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return common.SendNotFoundError(c, "Customer")
		}
		log.Printf("failed to create contact: %v", err)
		return common.SendServerError(c, "Failed to create contact")
	}

	return c.JSON(http.StatusCreated, contact)
}

// GetContact handles getting a contact by ID
func (h *ContactHandlers) GetContact(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "contact id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	contact, err := h.contactService.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Contact")
		}
		log.Printf("failed to get contact: %v", err)
		return common.SendServerError(c, "Failed to get contact")
	}

	return c.JSON(http.StatusOK, contact)
}

// UpdateContactRequest represents the contact update request payload
type UpdateContactRequest struct {
	CustomerID string  `json:"customer_id" validate:"required,uuid"`
	Name       string  `json:"name" validate:"required"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
}

// UpdateContact handles updating an existing contact
func (h *ContactHandlers) UpdateContact(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "contact id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}

	var customerID uuid.UUID
	if req.CustomerID != "" {
		customerID, err = common.ValidateUUID(req.CustomerID, "customer_id")
		if err != nil {
			return common.SendValidationError(c, "customer_id", err.Error())
		}
	}

	existing, err := h.contactService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Contact")
		}
		log.Printf("failed to get contact: %v", err)
		return common.SendServerError(c, "Failed to get contact")
	}

	if customerID != uuid.Nil {
		existing.CustomerID = customerID
	}
	existing.Name = req.Name
	existing.Email = req.Email
	existing.Phone = req.Phone

	if err := h.contactService.Update(ctx, existing); err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return common.SendNotFoundError(c, "Customer")
		}
		log.Printf("failed to update contact: %v", err)
		return common.SendServerError(c, "Failed to update contact")
	}

	return c.JSON(http.StatusOK, existing)
}

// DeleteContact handles deleting a contact
func (h *ContactHandlers) DeleteContact(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "contact id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	ctx := c.Request().Context()
	if _, err := h.contactService.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Contact")
		}
		log.Printf("failed to get contact: %v", err)
		return common.SendServerError(c, "Failed to get contact")
	}

	if err := h.contactService.Delete(ctx, id); err != nil {
		log.Printf("failed to delete contact: %v", err)
		return common.SendServerError(c, "Failed to delete contact")
	}

	return c.NoContent(http.StatusNoContent)
}

// ListContactsRequest represents query parameters for listing contacts
type ListContactsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListContacts handles getting a paginated list of contacts
func (h *ContactHandlers) ListContacts(c echo.Context) error {
	var req ListContactsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	contacts, err := h.contactService.List(c.Request().Context(), limit, offset)
	if err != nil {
		log.Printf("failed to list contacts: %v", err)
		return common.SendServerError(c, "Failed to list contacts")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"contacts": contacts,
		"limit":    limit,
		"offset":   offset,
	})
}
