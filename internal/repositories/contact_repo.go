package repositories

import (
	"context"

	"crmhub/internal/models"

	"github.com/google/uuid"
)

type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Contact, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Contact, error)
}

type contactRepo struct {
	db Database
}

func NewContactRepo(db Database) ContactRepository {
	return &contactRepo{db: db}
}

func (r *contactRepo) Create(ctx context.Context, contact *models.Contact) error {
	query := `
		INSERT INTO contacts (id, customer_id, name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, contact.ID, contact.CustomerID, contact.Name, contact.Email, contact.Phone)
	return err
}

func (r *contactRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	contact := &models.Contact{}
	query := `
		SELECT id, customer_id, name, email, phone, created_at, updated_at
		FROM contacts
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&contact.ID, &contact.CustomerID, &contact.Name, &contact.Email, &contact.Phone, &contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return contact, nil
}

func (r *contactRepo) Update(ctx context.Context, contact *models.Contact) error {
	query := `
		UPDATE contacts
		SET customer_id = $1, name = $2, email = $3, phone = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, contact.CustomerID, contact.Name, contact.Email, contact.Phone, contact.ID)
	return err
}

func (r *contactRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM contacts WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *contactRepo) List(ctx context.Context, limit, offset int) ([]*models.Contact, error) {
	query := `
		SELECT id, customer_id, name, email, phone, created_at, updated_at
		FROM contacts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		contact := &models.Contact{}
		if err := rows.Scan(&contact.ID, &contact.CustomerID, &contact.Name, &contact.Email, &contact.Phone, &contact.CreatedAt, &contact.UpdatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}

func (r *contactRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Contact, error) {
	query := `
		SELECT id, customer_id, name, email, phone, created_at, updated_at
		FROM contacts
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		contact := &models.Contact{}
		if err := rows.Scan(&contact.ID, &contact.CustomerID, &contact.Name, &contact.Email, &contact.Phone, &contact.CreatedAt, &contact.UpdatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}
