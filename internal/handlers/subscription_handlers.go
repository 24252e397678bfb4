package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"crmhub/internal/common"
	"crmhub/internal/models"
	"crmhub/internal/services"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// SubscriptionHandlers handles subscription-related HTTP requests
type SubscriptionHandlers struct {
	subscriptionService services.SubscriptionService
}

// NewSubscriptionHandlers creates a new subscription handlers instance
func NewSubscriptionHandlers(subscriptionService services.SubscriptionService) *SubscriptionHandlers {
	return &SubscriptionHandlers{subscriptionService: subscriptionService}
}

// CreateSubscriptionRequest represents the subscription creation request
// payload. Amount is the per-cycle charge in minor currency units.
type CreateSubscriptionRequest struct {
	CustomerID   string `json:"customer_id" validate:"required,uuid"`
	PlanName     string `json:"plan_name" validate:"required"`
	Amount       int64  `json:"amount" validate:"gte=0"`
	Currency     string `json:"currency"`
	BillingCycle string `json:"billing_cycle"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

// CreateSubscription handles creating a new subscription for a customer
func (h *SubscriptionHandlers) CreateSubscription(c echo.Context) error {
	var req CreateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	customerID, err := common.ValidateUUID(req.CustomerID, "customer_id")
	if err != nil {
		return common.SendValidationError(c, "customer_id", err.Error())
	}
	if req.PlanName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Plan name is required")
	}
	if err := common.ValidateAmount(req.Amount, "amount"); err != nil {
		return common.SendValidationError(c, "amount", err.Error())
	}
	if req.BillingCycle != "" && !models.ValidBillingCycle(req.BillingCycle) {
		return common.SendValidationError(c, "billing_cycle", "billing_cycle must be monthly or yearly")
	}

	subscription := &models.Subscription{
		CustomerID:   customerID,
		PlanName:     req.PlanName,
		Amount:       req.Amount,
		Currency:     req.Currency,
		BillingCycle: req.BillingCycle,
	}
	if req.StartDate != "" {
		startDate, err := time.Parse(time.RFC3339, req.StartDate)
		if err != nil {
			return common.SendValidationError(c, "start_date", "start_date must be RFC3339")
		}
		subscription.StartDate = startDate
	}
	if req.EndDate != "" {
		endDate, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			return common.SendValidationError(c, "end_date", "end_date must be RFC3339")
		}
		subscription.EndDate = &endDate
	}

	if err := h.subscriptionService.Create(c.Request().Context(), subscription); err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return common.SendNotFoundError(c, "Customer")
		}
		log.Printf("failed to create subscription: %v", err)
		return common.SendServerError(c, "Failed to create subscription")
	}

	return c.JSON(http.StatusCreated, subscription)
}

// GetSubscription handles getting a subscription by ID
func (h *SubscriptionHandlers) GetSubscription(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "subscription id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	subscription, err := h.subscriptionService.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Subscription")
		}
		log.Printf("failed to get subscription: %v", err)
		return common.SendServerError(c, "Failed to get subscription")
	}

	return c.JSON(http.StatusOK, subscription)
}

// UpdateSubscriptionRequest represents the subscription update request payload
type UpdateSubscriptionRequest struct {
	PlanName     string `json:"plan_name" validate:"required"`
	Amount       int64  `json:"amount" validate:"gte=0"`
	Status       string `json:"status"`
	BillingCycle string `json:"billing_cycle"`
	EndDate      string `json:"end_date"`
}

// UpdateSubscription handles updating an existing subscription
func (h *SubscriptionHandlers) UpdateSubscription(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "subscription id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.PlanName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Plan name is required")
	}
	if err := common.ValidateAmount(req.Amount, "amount"); err != nil {
		return common.SendValidationError(c, "amount", err.Error())
	}
	if req.Status != "" && !models.ValidSubscriptionStatus(req.Status) {
		return common.SendValidationError(c, "status", "unknown subscription status")
	}
	if req.BillingCycle != "" && !models.ValidBillingCycle(req.BillingCycle) {
		return common.SendValidationError(c, "billing_cycle", "billing_cycle must be monthly or yearly")
	}

	existing, err := h.subscriptionService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Subscription")
		}
		log.Printf("failed to get subscription: %v", err)
		return common.SendServerError(c, "Failed to get subscription")
	}

	existing.PlanName = req.PlanName
	existing.Amount = req.Amount
	if req.Status != "" {
		existing.Status = req.Status
	}
	if req.BillingCycle != "" {
		existing.BillingCycle = req.BillingCycle
	}
	if req.EndDate != "" {
		endDate, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			return common.SendValidationError(c, "end_date", "end_date must be RFC3339")
		}
		existing.EndDate = &endDate
	}

	if err := h.subscriptionService.Update(ctx, existing); err != nil {
		log.Printf("failed to update subscription: %v", err)
		return common.SendServerError(c, "Failed to update subscription")
	}

	return c.JSON(http.StatusOK, existing)
}

// CancelSubscription marks a subscription cancelled without deleting it
func (h *SubscriptionHandlers) CancelSubscription(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "subscription id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	subscription, err := h.subscriptionService.Cancel(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Subscription")
		}
		log.Printf("failed to cancel subscription: %v", err)
		return common.SendServerError(c, "Failed to cancel subscription")
	}

	return c.JSON(http.StatusOK, subscription)
}

// DeleteSubscription handles deleting a subscription record
func (h *SubscriptionHandlers) DeleteSubscription(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "subscription id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	ctx := c.Request().Context()
	if _, err := h.subscriptionService.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Subscription")
		}
		log.Printf("failed to get subscription: %v", err)
		return common.SendServerError(c, "Failed to get subscription")
	}

	if err := h.subscriptionService.Delete(ctx, id); err != nil {
		log.Printf("failed to delete subscription: %v", err)
		return common.SendServerError(c, "Failed to delete subscription")
	}

	return c.NoContent(http.StatusNoContent)
}

// ListSubscriptionsRequest represents query parameters for listing subscriptions
type ListSubscriptionsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListSubscriptions handles getting a paginated list of subscriptions
func (h *SubscriptionHandlers) ListSubscriptions(c echo.Context) error {
	var req ListSubscriptionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	subscriptions, err := h.subscriptionService.List(c.Request().Context(), limit, offset)
	if err != nil {
		log.Printf("failed to list subscriptions: %v", err)
		return common.SendServerError(c, "Failed to list subscriptions")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"subscriptions": subscriptions,
		"limit":         limit,
		"offset":        offset,
	})
}
