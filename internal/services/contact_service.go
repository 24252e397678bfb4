package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"crmhub/internal/models"
	"crmhub/internal/repositories"
)

type ContactService interface {
	Create(ctx context.Context, contact *models.Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Contact, error)
}

type contactService struct {
	contactRepo  repositories.ContactRepository
	customerRepo repositories.CustomerRepository
}

func NewContactService(contactRepo repositories.ContactRepository, customerRepo repositories.CustomerRepository) ContactService {
	return &contactService{
		contactRepo:  contactRepo,
		customerRepo: customerRepo,
	}
}

func (s *contactService) Create(ctx context.Context, contact *models.Contact) error {
	if contact.Name == "" {
		return errors.New("contact name is required")
	}

	// Parent must exist before any row is written
	if _, err := s.customerRepo.GetByID(ctx, contact.CustomerID); err != nil {
		return ErrCustomerNotFound
	}

	contact.ID = uuid.New()

	return s.contactRepo.Create(ctx, contact)
}

func (s *contactService) GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	return s.contactRepo.GetByID(ctx, id)
}

func (s *contactService) Update(ctx context.Context, contact *models.Contact) error {
	if contact.Name == "" {
		return errors.New("contact name is required")
	}

	if _, err := s.customerRepo.GetByID(ctx, contact.CustomerID); err != nil {
		return ErrCustomerNotFound
	}

	return s.contactRepo.Update(ctx, contact)
}

func (s *contactService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.contactRepo.Delete(ctx, id)
}

func (s *contactService) List(ctx context.Context, limit, offset int) ([]*models.Contact, error) {
	return s.contactRepo.List(ctx, limit, offset)
}
