package repositories

import (
	"context"

	"crmhub/internal/models"

	"github.com/google/uuid"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Payment, error)
	ListByInvoices(ctx context.Context, invoiceIDs []uuid.UUID) ([]*models.Payment, error)
}

type paymentRepo struct {
	db Database
}

func NewPaymentRepo(db Database) PaymentRepository {
	return &paymentRepo{db: db}
}

const paymentColumns = `id, invoice_id, amount, currency, payment_method, status, transaction_id, payment_date, created_at, updated_at`

func (r *paymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (id, invoice_id, amount, currency, payment_method, status, transaction_id, payment_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, payment.ID, payment.InvoiceID, payment.Amount, payment.Currency, payment.PaymentMethod, payment.Status, payment.TransactionID, payment.PaymentDate)
	return err
}

func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	payment := &models.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&payment.ID, &payment.InvoiceID, &payment.Amount, &payment.Currency, &payment.PaymentMethod, &payment.Status, &payment.TransactionID, &payment.PaymentDate, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *paymentRepo) Update(ctx context.Context, payment *models.Payment) error {
	query := `
		UPDATE payments
		SET amount = $1, currency = $2, payment_method = $3, status = $4, transaction_id = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, payment.Amount, payment.Currency, payment.PaymentMethod, payment.Status, payment.TransactionID, payment.ID)
	return err
}

func (r *paymentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM payments WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *paymentRepo) List(ctx context.Context, limit, offset int) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY payment_date DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(&payment.ID, &payment.InvoiceID, &payment.Amount, &payment.Currency, &payment.PaymentMethod, &payment.Status, &payment.TransactionID, &payment.PaymentDate, &payment.CreatedAt, &payment.UpdatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func (r *paymentRepo) ListByInvoices(ctx context.Context, invoiceIDs []uuid.UUID) ([]*models.Payment, error) {
	if len(invoiceIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE invoice_id = ANY($1) ORDER BY payment_date DESC`
	rows, err := r.db.Query(ctx, query, invoiceIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(&payment.ID, &payment.InvoiceID, &payment.Amount, &payment.Currency, &payment.PaymentMethod, &payment.Status, &payment.TransactionID, &payment.PaymentDate, &payment.CreatedAt, &payment.UpdatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}
