package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"crmhub/internal/common"
	"crmhub/internal/models"
	"crmhub/internal/services"

	"github.com/jackc/pgx/v5"
	"github.com/jung-kurt/gofpdf"
	"github.com/labstack/echo/v4"
)

// InvoiceHandlers handles invoice-related HTTP requests
type InvoiceHandlers struct {
	invoiceService  services.InvoiceService
	customerService services.CustomerService
	documentService services.DocumentService
	pdfBucket       string
}

// NewInvoiceHandlers creates a new invoice handlers instance
func NewInvoiceHandlers(invoiceService services.InvoiceService, customerService services.CustomerService, documentService services.DocumentService, pdfBucket string) *InvoiceHandlers {
	return &InvoiceHandlers{
		invoiceService:  invoiceService,
		customerService: customerService,
		documentService: documentService,
		pdfBucket:       pdfBucket,
	}
}

// CreateInvoiceRequest represents the invoice creation request payload.
// Amount is expressed in minor currency units.
type CreateInvoiceRequest struct {
	CustomerID  string  `json:"customer_id" validate:"required,uuid"`
	Amount      int64   `json:"amount" validate:"gte=0"`
	Currency    string  `json:"currency"`
	Status      string  `json:"status"`
	DueDate     string  `json:"due_date" validate:"required"`
	Description *string `json:"description"`
}

// CreateInvoice handles creating a new invoice for a customer
func (h *InvoiceHandlers) CreateInvoice(c echo.Context) error {
	var req CreateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	customerID, err := common.ValidateUUID(req.CustomerID, "customer_id")
	if err != nil {
		return common.SendValidationError(c, "customer_id", err.Error())
	}
	if err := common.ValidateAmount(req.Amount, "amount"); err != nil {
		return common.SendValidationError(c, "amount", err.Error())
	}
	if req.Currency != "" {
		if err := common.ValidateCurrency(req.Currency); err != nil {
			return common.SendValidationError(c, "currency", err.Error())
		}
	}
	dueDate, err := time.Parse(time.RFC3339, req.DueDate)
	if err != nil {
		return common.SendValidationError(c, "due_date", "due_date must be RFC3339")
	}

	invoice := &models.Invoice{
		CustomerID:  customerID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Status:      req.Status,
		DueDate:     dueDate,
		Description: req.Description,
	}
	if err := h.invoiceService.Create(c.Request().Context(), invoice); err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return common.SendNotFoundError(c, "Customer")
		}
		log.Printf("failed to create invoice: %v", err)
		return common.SendServerError(c, "Failed to create invoice")
	}

	return c.JSON(http.StatusCreated, invoice)
}

// GetInvoice handles getting an invoice by ID
func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "invoice id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	invoice, err := h.invoiceService.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Invoice")
		}
		log.Printf("failed to get invoice: %v", err)
		return common.SendServerError(c, "Failed to get invoice")
	}

	return c.JSON(http.StatusOK, invoice)
}

// UpdateInvoiceRequest represents the invoice update request payload
type UpdateInvoiceRequest struct {
	Amount      int64   `json:"amount" validate:"gte=0"`
	Currency    string  `json:"currency"`
	DueDate     string  `json:"due_date"`
	Description *string `json:"description"`
}

// UpdateInvoice handles updating an existing invoice's mutable fields.
// Status changes go through UpdateInvoiceStatus so lifecycle rules apply.
func (h *InvoiceHandlers) UpdateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "invoice id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateAmount(req.Amount, "amount"); err != nil {
		return common.SendValidationError(c, "amount", err.Error())
	}

	existing, err := h.invoiceService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Invoice")
		}
		log.Printf("failed to get invoice: %v", err)
		return common.SendServerError(c, "Failed to get invoice")
	}

	existing.Amount = req.Amount
	if req.Currency != "" {
		if err := common.ValidateCurrency(req.Currency); err != nil {
			return common.SendValidationError(c, "currency", err.Error())
		}
		existing.Currency = req.Currency
	}
	if req.DueDate != "" {
		dueDate, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			return common.SendValidationError(c, "due_date", "due_date must be RFC3339")
		}
		existing.DueDate = dueDate
	}
	if req.Description != nil {
		existing.Description = req.Description
	}

	if err := h.invoiceService.Update(ctx, existing); err != nil {
		log.Printf("failed to update invoice: %v", err)
		return common.SendServerError(c, "Failed to update invoice")
	}

	return c.JSON(http.StatusOK, existing)
}

// UpdateInvoiceStatusRequest carries the target lifecycle status
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateInvoiceStatus moves an invoice through its lifecycle
func (h *InvoiceHandlers) UpdateInvoiceStatus(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "invoice id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateInvoiceStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Status is required")
	}

	invoice, err := h.invoiceService.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			return common.SendNotFoundError(c, "Invoice")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice handles deleting an invoice. Admin only at the route level.
func (h *InvoiceHandlers) DeleteInvoice(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "invoice id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	ctx := c.Request().Context()
	if _, err := h.invoiceService.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Invoice")
		}
		log.Printf("failed to get invoice: %v", err)
		return common.SendServerError(c, "Failed to get invoice")
	}

	if err := h.invoiceService.Delete(ctx, id); err != nil {
		log.Printf("failed to delete invoice: %v", err)
		return common.SendServerError(c, "Failed to delete invoice")
	}

	return c.NoContent(http.StatusNoContent)
}

// ListInvoicesRequest represents query parameters for listing invoices
type ListInvoicesRequest struct {
	CustomerID string `query:"customer_id"`
	Limit      int    `query:"limit"`
	Offset     int    `query:"offset"`
}

// ListInvoices handles getting invoices, optionally filtered by customer
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	var req ListInvoicesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	ctx := c.Request().Context()

	if req.CustomerID != "" {
		customerID, err := common.ValidateUUID(req.CustomerID, "customer_id")
		if err != nil {
			return common.SendValidationError(c, "customer_id", err.Error())
		}
		invoices, err := h.invoiceService.ListByCustomer(ctx, customerID)
		if err != nil {
			log.Printf("failed to list invoices: %v", err)
			return common.SendServerError(c, "Failed to list invoices")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"invoices": invoices})
	}

	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)
	invoices, err := h.invoiceService.List(ctx, limit, offset)
	if err != nil {
		log.Printf("failed to list invoices: %v", err)
		return common.SendServerError(c, "Failed to list invoices")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"limit":    limit,
		"offset":   offset,
	})
}

// GenerateInvoicePDF renders the invoice as a PDF, archives it in object
// storage, and returns a presigned download URL.
func (h *InvoiceHandlers) GenerateInvoicePDF(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "invoice id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	invoice, err := h.invoiceService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendNotFoundError(c, "Invoice")
		}
		log.Printf("failed to get invoice: %v", err)
		return common.SendServerError(c, "Failed to get invoice")
	}

	customer, err := h.customerService.GetByID(ctx, invoice.CustomerID)
	if err != nil {
		log.Printf("failed to get customer for invoice %s: %v", invoice.ID, err)
		return common.SendServerError(c, "Failed to get customer")
	}

	pdfBytes, err := renderInvoicePDF(invoice, customer)
	if err != nil {
		log.Printf("failed to render invoice PDF: %v", err)
		return common.SendServerError(c, "Failed to generate PDF")
	}

	objectName := fmt.Sprintf("invoices/%s.pdf", invoice.ID)
	if err := h.documentService.UploadPDF(ctx, h.pdfBucket, objectName, pdfBytes); err != nil {
		log.Printf("failed to upload invoice PDF: %v", err)
		return common.SendServerError(c, "Failed to store PDF")
	}

	url, err := h.documentService.GetPresignedURL(ctx, h.pdfBucket, objectName, 24*time.Hour)
	if err != nil {
		log.Printf("failed to presign invoice PDF: %v", err)
		return common.SendServerError(c, "Failed to create download link")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"invoice_id":   invoice.ID.String(),
		"download_url": url,
	})
}

// renderInvoicePDF lays out a single-page invoice document
func renderInvoicePDF(invoice *models.Invoice, customer *models.Customer) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(15)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Invoice Number: %s", invoice.ID.String()))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Issued: %s", invoice.IssuedDate.Format("02-Jan-2006")))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Due: %s", invoice.DueDate.Format("02-Jan-2006")))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", invoice.Status))
	pdf.Ln(13)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "BILL TO:")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, customer.Name)
	pdf.Ln(6)
	pdf.Cell(0, 6, customer.Email)
	pdf.Ln(6)
	if customer.Address != nil && *customer.Address != "" {
		pdf.Cell(0, 6, *customer.Address)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)

	headers := []string{"Description", "Currency", "Amount"}
	colWidths := []float64{100, 30, 40}
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(255, 255, 255)

	description := "Services rendered"
	if invoice.Description != nil && *invoice.Description != "" {
		description = *invoice.Description
	}
	pdf.CellFormat(colWidths[0], 8, description, "1", 0, "L", false, 0, "")
	pdf.CellFormat(colWidths[1], 8, invoice.Currency, "1", 0, "C", false, 0, "")
	pdf.CellFormat(colWidths[2], 8, formatMinorUnits(invoice.Amount), "1", 0, "R", false, 0, "")
	pdf.Ln(13)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(130, 8, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%s %s", invoice.Currency, formatMinorUnits(invoice.Amount)), "", 0, "R", false, 0, "")
	pdf.Ln(10)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatMinorUnits renders an amount held in minor units as a decimal string
func formatMinorUnits(amount int64) string {
	return fmt.Sprintf("%d.%02d", amount/100, amount%100)
}
