package services

import (
	"context"
	"testing"

	"crmhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPaymentCreate_MissingInvoice(t *testing.T) {
	paymentRepo := new(MockPaymentRepository)
	invoiceRepo := new(MockInvoiceRepository)
	svc := NewPaymentService(paymentRepo, invoiceRepo)

	invoiceID := uuid.New()
	invoiceRepo.On("GetByID", mock.Anything, invoiceID).Return(nil, pgx.ErrNoRows)

	err := svc.Create(context.Background(), &models.Payment{
		InvoiceID:     invoiceID,
		Amount:        5000,
		PaymentMethod: "credit_card",
	})
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
	paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentCreate_MissingMethod(t *testing.T) {
	svc := NewPaymentService(new(MockPaymentRepository), new(MockInvoiceRepository))

	err := svc.Create(context.Background(), &models.Payment{
		InvoiceID: uuid.New(),
		Amount:    5000,
	})
	assert.Error(t, err)
}

func TestPaymentCreate_Defaults(t *testing.T) {
	paymentRepo := new(MockPaymentRepository)
	invoiceRepo := new(MockInvoiceRepository)
	svc := NewPaymentService(paymentRepo, invoiceRepo)

	invoiceID := uuid.New()
	invoiceRepo.On("GetByID", mock.Anything, invoiceID).Return(&models.Invoice{ID: invoiceID}, nil)
	paymentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	payment := &models.Payment{
		InvoiceID:     invoiceID,
		Amount:        5000,
		PaymentMethod: "bank_transfer",
	}
	err := svc.Create(context.Background(), payment)
	require.NoError(t, err)

	assert.Equal(t, "USD", payment.Currency)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.False(t, payment.PaymentDate.IsZero())
	assert.NotEqual(t, uuid.Nil, payment.ID)
}

func TestPaymentUpdate_RejectsUnknownStatus(t *testing.T) {
	svc := NewPaymentService(new(MockPaymentRepository), new(MockInvoiceRepository))

	err := svc.Update(context.Background(), &models.Payment{
		ID:     uuid.New(),
		Amount: 100,
		Status: "lost-in-the-mail",
	})
	assert.Error(t, err)
}
