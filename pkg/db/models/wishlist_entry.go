package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistEntry records a "like" of a product, optionally pinned to a specific
// variant. At the storage layer VariantID uses uuid.Nil as the "product
// generally" sentinel so the per-owner uniqueness index stays a plain column
// tuple; the API surface translates nil pointers to and from the sentinel.
type WishlistEntry struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	AccountID *uuid.UUID `gorm:"column:account_id;type:uuid"`
	SessionID *uuid.UUID `gorm:"column:session_id;type:uuid"`
	ProductID uuid.UUID  `gorm:"column:product_id;type:uuid;not null"`
	VariantID uuid.UUID  `gorm:"column:variant_id;type:uuid;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
