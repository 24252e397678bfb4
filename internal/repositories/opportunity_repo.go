package repositories

import (
	"context"

	"crmhub/internal/models"

	"github.com/google/uuid"
)

type OpportunityRepository interface {
	Create(ctx context.Context, opportunity *models.Opportunity) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Opportunity, error)
	Update(ctx context.Context, opportunity *models.Opportunity) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Opportunity, error)
}

type opportunityRepo struct {
	db Database
}

func NewOpportunityRepo(db Database) OpportunityRepository {
	return &opportunityRepo{db: db}
}

func (r *opportunityRepo) Create(ctx context.Context, opportunity *models.Opportunity) error {
	query := `
		INSERT INTO opportunities (id, customer_id, name, value, stage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, opportunity.ID, opportunity.CustomerID, opportunity.Name, opportunity.Value, opportunity.Stage)
	return err
}

func (r *opportunityRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Opportunity, error) {
	opportunity := &models.Opportunity{}
	query := `
		SELECT id, customer_id, name, value, stage, created_at, updated_at
		FROM opportunities
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&opportunity.ID, &opportunity.CustomerID, &opportunity.Name, &opportunity.Value, &opportunity.Stage, &opportunity.CreatedAt, &opportunity.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return opportunity, nil
}

func (r *opportunityRepo) Update(ctx context.Context, opportunity *models.Opportunity) error {
	query := `
		UPDATE opportunities
		SET customer_id = $1, name = $2, value = $3, stage = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, opportunity.CustomerID, opportunity.Name, opportunity.Value, opportunity.Stage, opportunity.ID)
	return err
}

func (r *opportunityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM opportunities WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *opportunityRepo) List(ctx context.Context, limit, offset int) ([]*models.Opportunity, error) {
	query := `
		SELECT id, customer_id, name, value, stage, created_at, updated_at
		FROM opportunities
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opportunities []*models.Opportunity
	for rows.Next() {
		opportunity := &models.Opportunity{}
		if err := rows.Scan(&opportunity.ID, &opportunity.CustomerID, &opportunity.Name, &opportunity.Value, &opportunity.Stage, &opportunity.CreatedAt, &opportunity.UpdatedAt); err != nil {
			return nil, err
		}
		opportunities = append(opportunities, opportunity)
	}
	return opportunities, rows.Err()
}
