package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"crmhub/internal/models"
	"crmhub/internal/repositories"
)

type LeadService interface {
	Create(ctx context.Context, lead *models.Lead) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	Update(ctx context.Context, lead *models.Lead) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Lead, error)
}

type leadService struct {
	leadRepo     repositories.LeadRepository
	customerRepo repositories.CustomerRepository
}

func NewLeadService(leadRepo repositories.LeadRepository, customerRepo repositories.CustomerRepository) LeadService {
	return &leadService{
		leadRepo:     leadRepo,
		customerRepo: customerRepo,
	}
}

func (s *leadService) Create(ctx context.Context, lead *models.Lead) error {
	if lead.Name == "" {
		return errors.New("lead name is required")
	}
	if lead.Score < 0 {
		return errors.New("lead score must be non-negative")
	}

	if _, err := s.customerRepo.GetByID(ctx, lead.CustomerID); err != nil {
		return ErrCustomerNotFound
	}

	lead.ID = uuid.New()

	return s.leadRepo.Create(ctx, lead)
}

func (s *leadService) GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	return s.leadRepo.GetByID(ctx, id)
}

func (s *leadService) Update(ctx context.Context, lead *models.Lead) error {
	if lead.Name == "" {
		return errors.New("lead name is required")
	}
	if lead.Score < 0 {
		return errors.New("lead score must be non-negative")
	}

	if _, err := s.customerRepo.GetByID(ctx, lead.CustomerID); err != nil {
		return ErrCustomerNotFound
	}

	return s.leadRepo.Update(ctx, lead)
}

func (s *leadService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.leadRepo.Delete(ctx, id)
}

func (s *leadService) List(ctx context.Context, limit, offset int) ([]*models.Lead, error) {
	return s.leadRepo.List(ctx, limit, offset)
}
