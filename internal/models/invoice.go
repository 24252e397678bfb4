package models

import (
	"time"

	"github.com/google/uuid"
)

// Invoice lifecycle: draft -> sent -> paid/overdue/cancelled.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// ValidInvoiceStatus reports whether status is a known invoice status.
func ValidInvoiceStatus(status string) bool {
	switch status {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

type Invoice struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	CustomerID  uuid.UUID  `json:"customer_id" db:"customer_id"`
	Amount      int64      `json:"amount" db:"amount"` // minor units, avoids floating point drift
	Currency    string     `json:"currency" db:"currency"`
	Status      string     `json:"status" db:"status"`
	DueDate     time.Time  `json:"due_date" db:"due_date"`
	IssuedDate  time.Time  `json:"issued_date" db:"issued_date"`
	Description *string    `json:"description" db:"description"`
	PaidDate    *time.Time `json:"paid_date" db:"paid_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
