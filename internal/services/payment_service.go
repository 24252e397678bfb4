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

type PaymentService interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Payment, error)
}

type paymentService struct {
	paymentRepo repositories.PaymentRepository
	invoiceRepo repositories.InvoiceRepository
}

func NewPaymentService(paymentRepo repositories.PaymentRepository, invoiceRepo repositories.InvoiceRepository) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
	}
}

func (s *paymentService) Create(ctx context.Context, payment *models.Payment) error {
	if payment.Amount < 0 {
		return errors.New("payment amount must be non-negative")
	}
	if payment.PaymentMethod == "" {
		return errors.New("payment method is required")
	}

	// Parent invoice must exist before any row is written
	if _, err := s.invoiceRepo.GetByID(ctx, payment.InvoiceID); err != nil {
		return ErrInvoiceNotFound
	}

	if payment.Currency == "" {
		payment.Currency = "USD"
	}
	if payment.Status == "" {
		payment.Status = models.PaymentStatusPending
	}
	if !models.ValidPaymentStatus(payment.Status) {
		return fmt.Errorf("invalid payment status %q", payment.Status)
	}
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = time.Now()
	}

	payment.ID = uuid.New()

	return s.paymentRepo.Create(ctx, payment)
}

func (s *paymentService) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return s.paymentRepo.GetByID(ctx, id)
}

func (s *paymentService) Update(ctx context.Context, payment *models.Payment) error {
	if payment.Amount < 0 {
		return errors.New("payment amount must be non-negative")
	}
	if !models.ValidPaymentStatus(payment.Status) {
		return fmt.Errorf("invalid payment status %q", payment.Status)
	}

	return s.paymentRepo.Update(ctx, payment)
}

func (s *paymentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.paymentRepo.Delete(ctx, id)
}

func (s *paymentService) List(ctx context.Context, limit, offset int) ([]*models.Payment, error) {
	return s.paymentRepo.List(ctx, limit, offset)
}
