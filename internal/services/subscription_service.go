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

type SubscriptionService interface {
	Create(ctx context.Context, subscription *models.Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	Update(ctx context.Context, subscription *models.Subscription) error
	Cancel(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Subscription, error)
	CancelExpired(ctx context.Context) (int64, error)
}

type subscriptionService struct {
	subscriptionRepo repositories.SubscriptionRepository
	customerRepo     repositories.CustomerRepository
}

func NewSubscriptionService(subscriptionRepo repositories.SubscriptionRepository, customerRepo repositories.CustomerRepository) SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		customerRepo:     customerRepo,
	}
}

func (s *subscriptionService) Create(ctx context.Context, subscription *models.Subscription) error {
	if subscription.PlanName == "" {
		return errors.New("plan name is required")
	}
	if subscription.Amount < 0 {
		return errors.New("subscription amount must be non-negative")
	}

	// Parent must exist before any row is written
	if _, err := s.customerRepo.GetByID(ctx, subscription.CustomerID); err != nil {
		return ErrCustomerNotFound
	}

	if subscription.Currency == "" {
		subscription.Currency = "USD"
	}
	if subscription.Status == "" {
		subscription.Status = models.SubscriptionStatusActive
	}
	if !models.ValidSubscriptionStatus(subscription.Status) {
		return fmt.Errorf("invalid subscription status %q", subscription.Status)
	}
	if subscription.BillingCycle == "" {
		subscription.BillingCycle = models.BillingCycleMonthly
	}
	if !models.ValidBillingCycle(subscription.BillingCycle) {
		return fmt.Errorf("invalid billing cycle %q", subscription.BillingCycle)
	}
	if subscription.StartDate.IsZero() {
		subscription.StartDate = time.Now()
	}

	subscription.ID = uuid.New()

	return s.subscriptionRepo.Create(ctx, subscription)
}

func (s *subscriptionService) GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	return s.subscriptionRepo.GetByID(ctx, id)
}

func (s *subscriptionService) Update(ctx context.Context, subscription *models.Subscription) error {
	if subscription.Amount < 0 {
		return errors.New("subscription amount must be non-negative")
	}
	if !models.ValidSubscriptionStatus(subscription.Status) {
		return fmt.Errorf("invalid subscription status %q", subscription.Status)
	}
	if !models.ValidBillingCycle(subscription.BillingCycle) {
		return fmt.Errorf("invalid billing cycle %q", subscription.BillingCycle)
	}

	return s.subscriptionRepo.Update(ctx, subscription)
}

func (s *subscriptionService) Cancel(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	subscription, err := s.subscriptionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	subscription.Status = models.SubscriptionStatusCancelled
	if err := s.subscriptionRepo.Update(ctx, subscription); err != nil {
		return nil, err
	}
	return subscription, nil
}

func (s *subscriptionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.subscriptionRepo.Delete(ctx, id)
}

func (s *subscriptionService) List(ctx context.Context, limit, offset int) ([]*models.Subscription, error) {
	return s.subscriptionRepo.List(ctx, limit, offset)
}

func (s *subscriptionService) CancelExpired(ctx context.Context) (int64, error) {
	return s.subscriptionRepo.CancelExpired(ctx, time.Now())
}
