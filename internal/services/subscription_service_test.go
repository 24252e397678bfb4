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

func TestSubscriptionCreate_MissingCustomer(t *testing.T) {
	subscriptionRepo := new(MockSubscriptionRepository)
	customerRepo := new(MockCustomerRepository)
	svc := NewSubscriptionService(subscriptionRepo, customerRepo)

	customerID := uuid.New()
	customerRepo.On("GetByID", mock.Anything, customerID).Return(nil, pgx.ErrNoRows)

	err := svc.Create(context.Background(), &models.Subscription{
		CustomerID: customerID,
		PlanName:   "Pro",
		Amount:     2900,
	})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
	subscriptionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubscriptionCreate_Defaults(t *testing.T) {
	subscriptionRepo := new(MockSubscriptionRepository)
	customerRepo := new(MockCustomerRepository)
	svc := NewSubscriptionService(subscriptionRepo, customerRepo)

	customerID := uuid.New()
	customerRepo.On("GetByID", mock.Anything, customerID).Return(&models.Customer{ID: customerID}, nil)
	subscriptionRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	subscription := &models.Subscription{
		CustomerID: customerID,
		PlanName:   "Pro",
		Amount:     2900,
	}
	err := svc.Create(context.Background(), subscription)
	require.NoError(t, err)

	assert.Equal(t, models.SubscriptionStatusActive, subscription.Status)
	assert.Equal(t, models.BillingCycleMonthly, subscription.BillingCycle)
	assert.Equal(t, "USD", subscription.Currency)
	assert.False(t, subscription.StartDate.IsZero())
}

func TestSubscriptionCancel(t *testing.T) {
	subscriptionRepo := new(MockSubscriptionRepository)
	svc := NewSubscriptionService(subscriptionRepo, new(MockCustomerRepository))

	id := uuid.New()
	subscriptionRepo.On("GetByID", mock.Anything, id).Return(&models.Subscription{
		ID:     id,
		Status: models.SubscriptionStatusActive,
	}, nil)
	subscriptionRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	subscription, err := svc.Cancel(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusCancelled, subscription.Status)
}

func TestSubscriptionCancelExpired(t *testing.T) {
	subscriptionRepo := new(MockSubscriptionRepository)
	svc := NewSubscriptionService(subscriptionRepo, new(MockCustomerRepository))

	subscriptionRepo.On("CancelExpired", mock.Anything, mock.Anything).Return(int64(2), nil)

	cancelled, err := svc.CancelExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), cancelled)
}
