package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"crmhub/internal/caching"
	"crmhub/internal/models"
	"crmhub/internal/repositories"
)

const customerCacheTTL = 5 * time.Minute

type CustomerService interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Customer, error)
}

type customerService struct {
	customerRepo repositories.CustomerRepository
	cacheSvc     caching.CacheService
}

func NewCustomerService(customerRepo repositories.CustomerRepository, cacheSvc caching.CacheService) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		cacheSvc:     cacheSvc,
	}
}

func (s *customerService) Create(ctx context.Context, customer *models.Customer) error {
	if customer.Name == "" {
		return errors.New("customer name is required")
	}
	if customer.Email == "" {
		return errors.New("customer email is required")
	}

	// Check for duplicate email
	existing, err := s.customerRepo.GetByEmail(ctx, customer.Email)
	if err == nil && existing != nil {
		return ErrDuplicateEmail
	}

	customer.ID = uuid.New()

	return s.customerRepo.Create(ctx, customer)
}

func (s *customerService) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	cached, err := s.cacheSvc.GetCustomer(ctx, id)
	if err != nil {
		log.Printf("Customer cache read failed: %v", err)
	}
	if cached != nil {
		return cached, nil
	}

	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cacheSvc.SetCustomer(ctx, customer, customerCacheTTL); err != nil {
		log.Printf("Customer cache write failed: %v", err)
	}

	return customer, nil
}

func (s *customerService) Update(ctx context.Context, customer *models.Customer) error {
	if customer.Name == "" {
		return errors.New("customer name is required")
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return err
	}

	if err := s.cacheSvc.DeleteCustomer(ctx, customer.ID); err != nil {
		log.Printf("Customer cache invalidation failed: %v", err)
	}

	return nil
}

func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	// Dependent contacts, leads, opportunities, invoices, and subscriptions
	// are intentionally not cascaded.
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cacheSvc.DeleteCustomer(ctx, id); err != nil {
		log.Printf("Customer cache invalidation failed: %v", err)
	}

	return nil
}

func (s *customerService) List(ctx context.Context, limit, offset int) ([]*models.Customer, error) {
	return s.customerRepo.List(ctx, limit, offset)
}
