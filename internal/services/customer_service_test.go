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

func TestCustomerCreate_DuplicateEmail(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	cacheSvc := new(MockCacheService)
	svc := NewCustomerService(customerRepo, cacheSvc)

	customerRepo.On("GetByEmail", mock.Anything, "taken@example.com").
		Return(&models.Customer{ID: uuid.New(), Email: "taken@example.com"}, nil)

	err := svc.Create(context.Background(), &models.Customer{
		Name:  "Acme",
		Email: "taken@example.com",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	customerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCustomerCreate_AssignsID(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	svc := NewCustomerService(customerRepo, new(MockCacheService))

	customerRepo.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, pgx.ErrNoRows)
	customerRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	customer := &models.Customer{Name: "Acme", Email: "new@example.com"}
	err := svc.Create(context.Background(), customer)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, customer.ID)
}

func TestCustomerGetByID_CacheHit(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	cacheSvc := new(MockCacheService)
	svc := NewCustomerService(customerRepo, cacheSvc)

	id := uuid.New()
	cached := &models.Customer{ID: id, Name: "Cached Co"}
	cacheSvc.On("GetCustomer", mock.Anything, id).Return(cached, nil)

	customer, err := svc.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Cached Co", customer.Name)
	customerRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCustomerGetByID_CacheMissFillsCache(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	cacheSvc := new(MockCacheService)
	svc := NewCustomerService(customerRepo, cacheSvc)

	id := uuid.New()
	fromDB := &models.Customer{ID: id, Name: "Fresh Co"}
	cacheSvc.On("GetCustomer", mock.Anything, id).Return(nil, nil)
	customerRepo.On("GetByID", mock.Anything, id).Return(fromDB, nil)
	cacheSvc.On("SetCustomer", mock.Anything, fromDB, customerCacheTTL).Return(nil)

	customer, err := svc.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Fresh Co", customer.Name)
	cacheSvc.AssertCalled(t, "SetCustomer", mock.Anything, fromDB, customerCacheTTL)
}

func TestCustomerDelete_InvalidatesCache(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	cacheSvc := new(MockCacheService)
	svc := NewCustomerService(customerRepo, cacheSvc)

	id := uuid.New()
	customerRepo.On("Delete", mock.Anything, id).Return(nil)
	cacheSvc.On("DeleteCustomer", mock.Anything, id).Return(nil)

	err := svc.Delete(context.Background(), id)
	require.NoError(t, err)
	cacheSvc.AssertCalled(t, "DeleteCustomer", mock.Anything, id)
}
