package models

import (
	"time"

	"github.com/google/uuid"
)

type Opportunity struct {
	ID         uuid.UUID `json:"id" db:"id"`
	CustomerID uuid.UUID `json:"customer_id" db:"customer_id"`
	Name       string    `json:"name" db:"name"`
	Value      int64     `json:"value" db:"value"` // minor units
	Stage      string    `json:"stage" db:"stage"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
