package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VariantDTO is the purchasable unit exposed to clients.
type VariantDTO struct {
	ID        uuid.UUID       `json:"id"`
	SKU       string          `json:"sku"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Price     decimal.Decimal `json:"price"`
	StockQty  int             `json:"stock_qty"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

// ProductSummary is the browse-grid projection of a product.
type ProductSummary struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Category  string          `json:"category"`
	BasePrice decimal.Decimal `json:"base_price"`
	ImageURL  *string         `json:"image_url,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ProductDetail adds the variant matrix to the summary view.
type ProductDetail struct {
	ProductSummary
	Description *string      `json:"description,omitempty"`
	Variants    []VariantDTO `json:"variants"`
}

// ProductPage is a cursor-paginated slice of the catalog.
type ProductPage struct {
	Items      []ProductSummary `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
	Total      int64            `json:"total"`
}

// ListFilter narrows the browse query.
type ListFilter struct {
	Category string
	Brand    string
	Cursor   string
	Limit    int
}
