package services

import (
	"context"
	"testing"
	"time"

	"crmhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInvoiceCreate_MissingCustomer(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	customerRepo := new(MockCustomerRepository)
	svc := NewInvoiceService(invoiceRepo, customerRepo)

	customerID := uuid.New()
	customerRepo.On("GetByID", mock.Anything, customerID).Return(nil, pgx.ErrNoRows)

	err := svc.Create(context.Background(), &models.Invoice{
		CustomerID: customerID,
		Amount:     5000,
		DueDate:    time.Now().Add(30 * 24 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
	invoiceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvoiceCreate_Defaults(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	customerRepo := new(MockCustomerRepository)
	svc := NewInvoiceService(invoiceRepo, customerRepo)

	customerID := uuid.New()
	customerRepo.On("GetByID", mock.Anything, customerID).Return(&models.Customer{ID: customerID}, nil)
	invoiceRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	invoice := &models.Invoice{
		CustomerID: customerID,
		Amount:     129900,
		DueDate:    time.Now().Add(14 * 24 * time.Hour),
	}
	err := svc.Create(context.Background(), invoice)
	require.NoError(t, err)

	assert.Equal(t, "USD", invoice.Currency)
	assert.Equal(t, models.InvoiceStatusDraft, invoice.Status)
	assert.False(t, invoice.IssuedDate.IsZero())
	assert.NotEqual(t, uuid.Nil, invoice.ID)
}

func TestInvoiceCreate_NegativeAmount(t *testing.T) {
	svc := NewInvoiceService(new(MockInvoiceRepository), new(MockCustomerRepository))

	err := svc.Create(context.Background(), &models.Invoice{
		CustomerID: uuid.New(),
		Amount:     -1,
	})
	assert.Error(t, err)
}

func TestInvoiceUpdateStatus_ValidTransition(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	svc := NewInvoiceService(invoiceRepo, new(MockCustomerRepository))

	id := uuid.New()
	invoiceRepo.On("GetByID", mock.Anything, id).Return(&models.Invoice{
		ID:     id,
		Status: models.InvoiceStatusDraft,
	}, nil)
	invoiceRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	invoice, err := svc.UpdateStatus(context.Background(), id, models.InvoiceStatusSent)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusSent, invoice.Status)
	assert.Nil(t, invoice.PaidDate)
}

func TestInvoiceUpdateStatus_PaidStampsPaidDate(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	svc := NewInvoiceService(invoiceRepo, new(MockCustomerRepository))

	id := uuid.New()
	invoiceRepo.On("GetByID", mock.Anything, id).Return(&models.Invoice{
		ID:     id,
		Status: models.InvoiceStatusSent,
	}, nil)
	invoiceRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	invoice, err := svc.UpdateStatus(context.Background(), id, models.InvoiceStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)
	require.NotNil(t, invoice.PaidDate)
	assert.WithinDuration(t, time.Now(), *invoice.PaidDate, time.Minute)
}

func TestInvoiceUpdateStatus_InvalidTransition(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	svc := NewInvoiceService(invoiceRepo, new(MockCustomerRepository))

	id := uuid.New()
	invoiceRepo.On("GetByID", mock.Anything, id).Return(&models.Invoice{
		ID:     id,
		Status: models.InvoiceStatusPaid,
	}, nil)

	_, err := svc.UpdateStatus(context.Background(), id, models.InvoiceStatusDraft)
	assert.Error(t, err)
	invoiceRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestInvoiceUpdateStatus_UnknownInvoice(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	svc := NewInvoiceService(invoiceRepo, new(MockCustomerRepository))

	id := uuid.New()
	invoiceRepo.On("GetByID", mock.Anything, id).Return(nil, pgx.ErrNoRows)

	_, err := svc.UpdateStatus(context.Background(), id, models.InvoiceStatusSent)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestInvoiceMarkOverdue(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	svc := NewInvoiceService(invoiceRepo, new(MockCustomerRepository))

	invoiceRepo.On("MarkOverdue", mock.Anything, mock.Anything).Return(int64(3), nil)

	marked, err := svc.MarkOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), marked)
}
