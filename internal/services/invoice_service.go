package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"crmhub/internal/models"
	"crmhub/internal/repositories"
)

type InvoiceService interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Invoice, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Invoice, error)
	MarkOverdue(ctx context.Context) (int64, error)
}

type invoiceService struct {
	invoiceRepo  repositories.InvoiceRepository
	customerRepo repositories.CustomerRepository
}

func NewInvoiceService(invoiceRepo repositories.InvoiceRepository, customerRepo repositories.CustomerRepository) InvoiceService {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
	}
}

func (s *invoiceService) Create(ctx context.Context, invoice *models.Invoice) error {
	if invoice.Amount < 0 {
		return errors.New("invoice amount must be non-negative")
	}

	// Parent must exist before any row is written
	if _, err := s.customerRepo.GetByID(ctx, invoice.CustomerID); err != nil {
		return ErrCustomerNotFound
	}

	if invoice.Currency == "" {
		invoice.Currency = "USD"
	}
	if invoice.Status == "" {
		invoice.Status = models.InvoiceStatusDraft
	}
	if !models.ValidInvoiceStatus(invoice.Status) {
		return fmt.Errorf("invalid invoice status %q", invoice.Status)
	}
	if invoice.IssuedDate.IsZero() {
		invoice.IssuedDate = time.Now()
	}

	invoice.ID = uuid.New()

	return s.invoiceRepo.Create(ctx, invoice)
}

func (s *invoiceService) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

func (s *invoiceService) Update(ctx context.Context, invoice *models.Invoice) error {
	if invoice.Amount < 0 {
		return errors.New("invoice amount must be non-negative")
	}
	if !models.ValidInvoiceStatus(invoice.Status) {
		return fmt.Errorf("invalid invoice status %q", invoice.Status)
	}

	if _, err := s.customerRepo.GetByID(ctx, invoice.CustomerID); err != nil {
		return ErrCustomerNotFound
	}

	return s.invoiceRepo.Update(ctx, invoice)
}

// invoiceTransitions lists the allowed lifecycle moves:
// draft -> sent -> paid/overdue/cancelled, overdue -> paid/cancelled.
var invoiceTransitions = map[string][]string{
	models.InvoiceStatusDraft:   {models.InvoiceStatusSent, models.InvoiceStatusCancelled},
	models.InvoiceStatusSent:    {models.InvoiceStatusPaid, models.InvoiceStatusOverdue, models.InvoiceStatusCancelled},
	models.InvoiceStatusOverdue: {models.InvoiceStatusPaid, models.InvoiceStatusCancelled},
}

func (s *invoiceService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Invoice, error) {
	if !models.ValidInvoiceStatus(status) {
		return nil, fmt.Errorf("invalid invoice status %q", status)
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrInvoiceNotFound
	}

	allowed := false
	for _, next := range invoiceTransitions[invoice.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("cannot transition invoice from %q to %q", invoice.Status, status)
	}

	invoice.Status = status
	if status == models.InvoiceStatusPaid {
		now := time.Now()
		invoice.PaidDate = &now
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	// Payments recorded against the invoice are intentionally not cascaded.
	return s.invoiceRepo.Delete(ctx, id)
}

func (s *invoiceService) List(ctx context.Context, limit, offset int) ([]*models.Invoice, error) {
	return s.invoiceRepo.List(ctx, limit, offset)
}

func (s *invoiceService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Invoice, error) {
	return s.invoiceRepo.ListByCustomer(ctx, customerID)
}

func (s *invoiceService) MarkOverdue(ctx context.Context) (int64, error) {
	return s.invoiceRepo.MarkOverdue(ctx, time.Now())
}
