package wishlist

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lacewalk/lacewalk-backend/pkg/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WishlistRepository defines the persistence surface required by the wishlist
// service and the migration coordinator.
type WishlistRepository interface {
	WithTx(tx *gorm.DB) WishlistRepository
	Add(ctx context.Context, owner types.Owner, productID, variantID uuid.UUID) error
	Remove(ctx context.Context, owner types.Owner, productID, variantID uuid.UUID) (int64, error)
	List(ctx context.Context, owner types.Owner, cursor string, limit int) (PageDTO, error)
	MergeSessionInto(ctx context.Context, sessionID, accountID uuid.UUID) (int64, error)
}

// EntryDTO is a wishlist row joined with its product summary.
type EntryDTO struct {
	ProductID uuid.UUID       `json:"product_id"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	BasePrice decimal.Decimal `json:"base_price"`
	ImageURL  *string         `json:"image_url,omitempty"`
	LikedAt   time.Time       `json:"liked_at"`
}

// PageDTO is a cursor-paginated wishlist view.
type PageDTO struct {
	Items      []EntryDTO `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
	Total      int64      `json:"total"`
}

type entryRecord struct {
	EntryID   uuid.UUID       `gorm:"column:entry_id"`
	ProductID uuid.UUID       `gorm:"column:product_id"`
	VariantID uuid.UUID       `gorm:"column:variant_id"`
	Name      string          `gorm:"column:name"`
	Brand     string          `gorm:"column:brand"`
	BasePrice decimal.Decimal `gorm:"column:base_price"`
	ImageURL  *string         `gorm:"column:image_url"`
	LikedAt   time.Time       `gorm:"column:liked_at"`
}

func (r entryRecord) toDTO() EntryDTO {
	dto := EntryDTO{
		ProductID: r.ProductID,
		Name:      r.Name,
		Brand:     r.Brand,
		BasePrice: r.BasePrice,
		ImageURL:  r.ImageURL,
		LikedAt:   r.LikedAt,
	}
	if r.VariantID != uuid.Nil {
		id := r.VariantID
		dto.VariantID = &id
	}
	return dto
}
