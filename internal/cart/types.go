package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineRecord is the joined projection a cart read produces.
type LineRecord struct {
	LineID    uuid.UUID       `gorm:"column:line_id"`
	VariantID uuid.UUID       `gorm:"column:variant_id"`
	ProductID uuid.UUID       `gorm:"column:product_id"`
	Name      string          `gorm:"column:name"`
	Brand     string          `gorm:"column:brand"`
	SKU       string          `gorm:"column:sku"`
	Size      string          `gorm:"column:size"`
	Color     string          `gorm:"column:color"`
	ImageURL  *string         `gorm:"column:image_url"`
	Quantity  int             `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price"`
	CreatedAt time.Time       `gorm:"column:line_created_at"`
}

// LineDTO is a single cart row exposed to clients.
type LineDTO struct {
	VariantID uuid.UUID       `json:"variant_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	SKU       string          `json:"sku"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	ImageURL  *string         `json:"image_url,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartDTO is the full cart view with computed totals.
type CartDTO struct {
	Lines     []LineDTO       `json:"lines"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func (r LineRecord) toDTO() LineDTO {
	return LineDTO{
		VariantID: r.VariantID,
		ProductID: r.ProductID,
		Name:      r.Name,
		Brand:     r.Brand,
		SKU:       r.SKU,
		Size:      r.Size,
		Color:     r.Color,
		ImageURL:  r.ImageURL,
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
		LineTotal: r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity))),
	}
}
