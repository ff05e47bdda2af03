package domain

import (
	"errors"
	"time"
)

// SaleType categorises how a sale was made.
type SaleType string

const (
	SaleTypeUpsell SaleType = "UPSELL"
	SaleTypeDirect SaleType = "DIRECT"
)

var ErrInvalidAmount = errors.New("sale amount must be positive")

// Sale is one committed sale record in the tenant's ledger. Appending one is
// the only way revenue and pending tickets move outside of reconciliation.
type Sale struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	TenantID    string    `json:"tenant_id" bson:"tenant_id"`
	Amount      float64   `json:"amount" bson:"amount"`
	Type        SaleType  `json:"type" bson:"type"`
	Description string    `json:"description" bson:"description"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
