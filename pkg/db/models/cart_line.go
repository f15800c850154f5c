package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is a single variant in a cart, owned by exactly one of an account
// or an anonymous session (enforced by a CHECK constraint plus partial unique
// indexes on (owner, variant)). UnitPrice is snapshotted at add time and never
// re-derived from the catalog.
type CartLine struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	AccountID *uuid.UUID      `gorm:"column:account_id;type:uuid"`
	SessionID *uuid.UUID      `gorm:"column:session_id;type:uuid"`
	VariantID uuid.UUID       `gorm:"column:variant_id;type:uuid;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
