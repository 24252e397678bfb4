package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusPaused    = "paused"
)

const (
	BillingCycleMonthly = "monthly"
	BillingCycleYearly  = "yearly"
)

// ValidSubscriptionStatus reports whether status is a known subscription status.
func ValidSubscriptionStatus(status string) bool {
	switch status {
	case SubscriptionStatusActive, SubscriptionStatusCancelled, SubscriptionStatusPaused:
		return true
	}
	return false
}

// ValidBillingCycle reports whether cycle is a known billing cycle.
func ValidBillingCycle(cycle string) bool {
	return cycle == BillingCycleMonthly || cycle == BillingCycleYearly
}

type Subscription struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	CustomerID   uuid.UUID  `json:"customer_id" db:"customer_id"`
	PlanName     string     `json:"plan_name" db:"plan_name"`
	Amount       int64      `json:"amount" db:"amount"` // minor units per cycle
	Currency     string     `json:"currency" db:"currency"`
	Status       string     `json:"status" db:"status"`
	BillingCycle string     `json:"billing_cycle" db:"billing_cycle"`
	StartDate    time.Time  `json:"start_date" db:"start_date"`
	EndDate      *time.Time `json:"end_date" db:"end_date"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}
