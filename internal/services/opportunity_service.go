package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"crmhub/internal/models"
	"crmhub/internal/repositories"
)

type OpportunityService interface {
	Create(ctx context.Context, opportunity *models.Opportunity) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Opportunity, error)
	Update(ctx context.Context, opportunity *models.Opportunity) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Opportunity, error)
}

type opportunityService struct {
	opportunityRepo repositories.OpportunityRepository
	customerRepo    repositories.CustomerRepository
}

func NewOpportunityService(opportunityRepo repositories.OpportunityRepository, customerRepo repositories.CustomerRepository) OpportunityService {
	return &opportunityService{
		opportunityRepo: opportunityRepo,
		customerRepo:    customerRepo,
	}
}

func (s *opportunityService) Create(ctx context.Context, opportunity *models.Opportunity) error {
	if opportunity.Name == "" {
		return errors.New("opportunity name is required")
	}
	if opportunity.Value < 0 {
		return errors.New("opportunity value must be non-negative")
	}

	if _, err := s.customerRepo.GetByID(ctx, opportunity.CustomerID); err != nil {
		return ErrCustomerNotFound
	}

	opportunity.ID = uuid.New()

	return s.opportunityRepo.Create(ctx, opportunity)
}

func (s *opportunityService) GetByID(ctx context.Context, id uuid.UUID) (*models.Opportunity, error) {
	return s.opportunityRepo.GetByID(ctx, id)
}

func (s *opportunityService) Update(ctx context.Context, opportunity *models.Opportunity) error {
	if opportunity.Name == "" {
		return errors.New("opportunity name is required")
	}
	if opportunity.Value < 0 {
		return errors.New("opportunity value must be non-negative")
	}

	if _, err := s.customerRepo.GetByID(ctx, opportunity.CustomerID); err != nil {
		return ErrCustomerNotFound
	}

	return s.opportunityRepo.Update(ctx, opportunity)
}

func (s *opportunityService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.opportunityRepo.Delete(ctx, id)
}

func (s *opportunityService) List(ctx context.Context, limit, offset int) ([]*models.Opportunity, error) {
	return s.opportunityRepo.List(ctx, limit, offset)
}
