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

// PaymentHandlers handles payment-related HTTP requests
type PaymentHandlers struct {
	paymentService services.PaymentService
}

// NewPaymentHandlers creates a new payment handlers instance
func NewPaymentHandlers(paymentService services.PaymentService) *PaymentHandlers {
	return &PaymentHandlers{paymentService: paymentService}
}

// CreatePaymentRequest represents the payment creation request payload.
// Amount is expressed in minor currency units.
type CreatePaymentRequest struct {
	InvoiceID     string  `json:"invoice_id" validate:"required,uuid"`
	Amount        int64   `json:"amount" validate:"gte=0"`
	Currency      string  `json:"currency"`
	PaymentMethod string  `json:"payment_method" validate:"required"`
	Status        string  `json:"status"`
	TransactionID *string `json:"transaction_id"`
}

// CreatePayment handles recording a payment against an invoice
func (h *PaymentHandlers) CreatePayment(c echo.Context) error {
	var req CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	invoiceID, err := common.ValidateUUID(req.InvoiceID, "invoice_id")
	if err != nil {
		return common.SendValidationError(c, "invoice_id", err.Error())
	}
	if req.PaymentMethod == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Payment method is required")
	}
	if err := common.ValidateAmount(req.Amount, "amount"); err != nil {
		return common.SendValidationError(c, "amount", err.Error())
	}

	payment := &models.Payment{
		InvoiceID:     invoiceID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
		TransactionID: req.TransactionID,
	}
	if err := h.paymentService.Create(c.Request().Context(), payment); err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			return common.SendNotFoundError(c, "Invoice")
		}
		log.Printf("failed to create payment: %v", err)
		return common.SendServerError(c, "Failed to create payment")
	}

	return c.JSON(http.StatusCreated, payment)
}

// GetPayment handles getting a payment by ID
func (h *PaymentHandlers) GetPayment(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "payment id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	payment, err := h.paymentService.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Payment")
		}
		log.Printf("failed to get payment: %v", err)
		return common.SendServerError(c, "Failed to get payment")
	}

	return c.JSON(http.StatusOK, payment)
}

// UpdatePaymentRequest represents the payment update request payload
type UpdatePaymentRequest struct {
	Amount        int64   `json:"amount" validate:"gte=0"`
	Status        string  `json:"status"`
	TransactionID *string `json:"transaction_id"`
}

// UpdatePayment handles updating an existing payment record
func (h *PaymentHandlers) UpdatePayment(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "payment id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateAmount(req.Amount, "amount"); err != nil {
		return common.SendValidationError(c, "amount", err.Error())
	}
	if req.Status != "" && !models.ValidPaymentStatus(req.Status) {
		return common.SendValidationError(c, "status", "unknown payment status")
	}

	existing, err := h.paymentService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Payment")
		}
		log.Printf("failed to get payment: %v", err)
		return common.SendServerError(c, "Failed to get payment")
	}

	existing.Amount = req.Amount
	if req.Status != "" {
		existing.Status = req.Status
	}
	if req.TransactionID != nil {
		existing.TransactionID = req.TransactionID
	}

	if err := h.paymentService.Update(ctx, existing); err != nil {
		log.Printf("failed to update payment: %v", err)
		return common.SendServerError(c, "Failed to update payment")
	}

	return c.JSON(http.StatusOK, existing)
}

// DeletePayment handles deleting a payment record
func (h *PaymentHandlers) DeletePayment(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "payment id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	ctx := c.Request().Context()
	if _, err := h.paymentService.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Payment")
		}
		log.Printf("failed to get payment: %v", err)
		return common.SendServerError(c, "Failed to get payment")
	}

	if err := h.paymentService.Delete(ctx, id); err != nil {
		log.Printf("failed to delete payment: %v", err)
		return common.SendServerError(c, "Failed to delete payment")
	}

	return c.NoContent(http.StatusNoContent)
}

// ListPaymentsRequest represents query parameters for listing payments
type ListPaymentsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListPayments handles getting a paginated list of payments
func (h *PaymentHandlers) ListPayments(c echo.Context) error {
	var req ListPaymentsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	payments, err := h.paymentService.List(c.Request().Context(), limit, offset)
	if err != nil {
		log.Printf("failed to list payments: %v", err)
		return common.SendServerError(c, "Failed to list payments")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"payments": payments,
		"limit":    limit,
		"offset":   offset,
	})
}
