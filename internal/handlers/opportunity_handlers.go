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

// OpportunityHandlers handles opportunity-related HTTP requests
type OpportunityHandlers struct {
	opportunityService services.OpportunityService
}

// NewOpportunityHandlers creates a new opportunity handlers instance
func NewOpportunityHandlers(opportunityService services.OpportunityService) *OpportunityHandlers {
	return &OpportunityHandlers{opportunityService: opportunityService}
}

// CreateOpportunityRequest represents the opportunity creation request payload.
// Value is expressed in minor currency units.
type CreateOpportunityRequest struct {
	CustomerID string `json:"customer_id" validate:"required,uuid"`
	Name       string `json:"name" validate:"required"`
	Value      int64  `json:"value"`
	Stage      string `json:"stage"`
}

// CreateOpportunity handles creating a new opportunity under a customer
func (h *OpportunityHandlers) CreateOpportunity(c echo.Context) error {
	var req CreateOpportunityRequest
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
	if err := common.ValidateAmount(req.Value, "value"); err != nil {
		return common.SendValidationError(c, "value", err.Error())
	}

	stage := req.Stage
	if stage == "" {
		stage = "prospecting"
	}

	opportunity := &models.Opportunity{
		CustomerID: customerID,
		Name:       req.Name,
		Value:      req.Value,
		Stage:      stage,
	}
	if err := h.opportunityService.Create(c.Request().Context(), opportunity); err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return common.SendNotFoundError(c, "Customer")
		}
		log.Printf("failed to create opportunity: %v", err)
		return common.SendServerError(c, "Failed to create opportunity")
	}

	return c.JSON(http.StatusCreated, opportunity)
}

// GetOpportunity handles getting an opportunity by ID
func (h *OpportunityHandlers) GetOpportunity(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "opportunity id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	opportunity, err := h.opportunityService.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Opportunity")
		}
		log.Printf("failed to get opportunity: %v", err)
		return common.SendServerError(c, "Failed to get opportunity")
	}

	return c.JSON(http.StatusOK, opportunity)
}

// UpdateOpportunityRequest represents the opportunity update request payload
type UpdateOpportunityRequest struct {
	Name  string `json:"name" validate:"required"`
	Value int64  `json:"value"`
	Stage string `json:"stage"`
}

// UpdateOpportunity handles updating an existing opportunity
func (h *OpportunityHandlers) UpdateOpportunity(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "opportunity id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateOpportunityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}
	if err := common.ValidateAmount(req.Value, "value"); err != nil {
		return common.SendValidationError(c, "value", err.Error())
	}

	existing, err := h.opportunityService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Opportunity")
		}
		log.Printf("failed to get opportunity: %v", err)
		return common.SendServerError(c, "Failed to get opportunity")
	}

	existing.Name = req.Name
	existing.Value = req.Value
	if req.Stage != "" {
		existing.Stage = req.Stage
	}

	if err := h.opportunityService.Update(ctx, existing); err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return common.SendNotFoundError(c, "Customer")
		}
		log.Printf("failed to update opportunity: %v", err)
		return common.SendServerError(c, "Failed to update opportunity")
	}

	return c.JSON(http.StatusOK, existing)
}

// DeleteOpportunity handles deleting an opportunity
func (h *OpportunityHandlers) DeleteOpportunity(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "opportunity id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	ctx := c.Request().Context()
	if _, err := h.opportunityService.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Opportunity")
		}
		log.Printf("failed to get opportunity: %v", err)
		return common.SendServerError(c, "Failed to get opportunity")
	}

	if err := h.opportunityService.Delete(ctx, id); err != nil {
		log.Printf("failed to delete opportunity: %v", err)
		return common.SendServerError(c, "Failed to delete opportunity")
	}

	return c.NoContent(http.StatusNoContent)
}

// ListOpportunitiesRequest represents query parameters for listing opportunities
type ListOpportunitiesRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListOpportunities handles getting a paginated list of opportunities
func (h *OpportunityHandlers) ListOpportunities(c echo.Context) error {
	var req ListOpportunitiesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	opportunities, err := h.opportunityService.List(c.Request().Context(), limit, offset)
	if err != nil {
		log.Printf("failed to list opportunities: %v", err)
		return common.SendServerError(c, "Failed to list opportunities")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"opportunities": opportunities,
		"limit":         limit,
		"offset":        offset,
	})
}
