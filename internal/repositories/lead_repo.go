package repositories

import (
	"context"

	"crmhub/internal/models"

	"github.com/google/uuid"
)

type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	Update(ctx context.Context, lead *models.Lead) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Lead, error)
}

type leadRepo struct {
	db Database
}

func NewLeadRepo(db Database) LeadRepository {
	return &leadRepo{db: db}
}

func (r *leadRepo) Create(ctx context.Context, lead *models.Lead) error {
	query := `
		INSERT INTO leads (id, customer_id, name, status, score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, lead.ID, lead.CustomerID, lead.Name, lead.Status, lead.Score)
	return err
}

func (r *leadRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	lead := &models.Lead{}
	query := `
		SELECT id, customer_id, name, status, score, created_at, updated_at
		FROM leads
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&lead.ID, &lead.CustomerID, &lead.Name, &lead.Status, &lead.Score, &lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (r *leadRepo) Update(ctx context.Context, lead *models.Lead) error {
	query := `
		UPDATE leads
		SET customer_id = $1, name = $2, status = $3, score = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, lead.CustomerID, lead.Name, lead.Status, lead.Score, lead.ID)
	return err
}

func (r *leadRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM leads WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *leadRepo) List(ctx context.Context, limit, offset int) ([]*models.Lead, error) {
	query := `
		SELECT id, customer_id, name, status, score, created_at, updated_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*models.Lead
	for rows.Next() {
		lead := &models.Lead{}
		if err := rows.Scan(&lead.ID, &lead.CustomerID, &lead.Name, &lead.Status, &lead.Score, &lead.CreatedAt, &lead.UpdatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}
