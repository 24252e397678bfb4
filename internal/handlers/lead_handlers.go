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

// LeadHandlers handles lead-related HTTP requests
type LeadHandlers struct {
	leadService services.LeadService
}

// NewLeadHandlers creates a new lead handlers instance
func NewLeadHandlers(leadService services.LeadService) *LeadHandlers {
	return &LeadHandlers{leadService: leadService}
}

// CreateLeadRequest represents the lead creation request payload
type CreateLeadRequest struct {
	CustomerID string `json:"customer_id" validate:"required,uuid"`
	Name       string `json:"name" validate:"required"`
	Status     string `json:"status"`
	Score      int    `json:"score"`
}

// CreateLead handles creating a new lead under a customer
func (h *LeadHandlers) CreateLead(c echo.Context) error {
	var req CreateLeadRequest
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

	status := req.Status
	if status == "" {
		status = "new"
	}

	lead := &models.Lead{
		CustomerID: customerID,
		Name:       req.Name,
		Status:     status,
		Score:      req.Score,
	}
	if err := h.leadService.Create(c.Request().Context(), lead); err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return common.SendNotFoundError(c, "Customer")
		}
		log.Printf("failed to create lead: %v", err)
		return common.SendServerError(c, "Failed to create lead")
	}

	return c.JSON(http.StatusCreated, lead)
}

// GetLead handles getting a lead by ID
func (h *LeadHandlers) GetLead(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "lead id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	lead, err := h.leadService.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Lead")
		}
		log.Printf("failed to get lead: %v", err)
		return common.SendServerError(c, "Failed to get lead")
	}

	return c.JSON(http.StatusOK, lead)
}

// UpdateLeadRequest represents the lead update request payload
type UpdateLeadRequest struct {
	Name   string `json:"name" validate:"required"`
	Status string `json:"status"`
	Score  int    `json:"score"`
}

// UpdateLead handles updating an existing lead
func (h *LeadHandlers) UpdateLead(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "lead id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateLeadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}

	existing, err := h.leadService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Lead")
		}
		log.Printf("failed to get lead: %v", err)
		return common.SendServerError(c, "Failed to get lead")
	}

	existing.Name = req.Name
	if req.Status != "" {
		existing.Status = req.Status
	}
	existing.Score = req.Score

	if err := h.leadService.Update(ctx, existing); err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return common.SendNotFoundError(c, "Customer")
		}
		log.Printf("failed to update lead: %v", err)
		return common.SendServerError(c, "Failed to update lead")
	}

	return c.JSON(http.StatusOK, existing)
}

// DeleteLead handles deleting a lead
func (h *LeadHandlers) DeleteLead(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "lead id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	ctx := c.Request().Context()
	if _, err := h.leadService.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Lead")
		}
		log.Printf("failed to get lead: %v", err)
		return common.SendServerError(c, "Failed to get lead")
	}

	if err := h.leadService.Delete(ctx, id); err != nil {
		log.Printf("failed to delete lead: %v", err)
		return common.SendServerError(c, "Failed to delete lead")
	}

	return c.NoContent(http.StatusNoContent)
}

// ListLeadsRequest represents query parameters for listing leads
type ListLeadsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListLeads handles getting a paginated list of leads
func (h *LeadHandlers) ListLeads(c echo.Context) error {
	var req ListLeadsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	leads, err := h.leadService.List(c.Request().Context(), limit, offset)
	if err != nil {
		log.Printf("failed to list leads: %v", err)
		return common.SendServerError(c, "Failed to list leads")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"leads":  leads,
		"limit":  limit,
		"offset": offset,
	})
}
