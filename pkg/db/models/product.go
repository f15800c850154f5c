package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a shoe model; sizing and color live on ProductVariant.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name        string          `gorm:"column:name;type:text;not null"`
	Brand       string          `gorm:"column:brand;type:text;not null"`
	Description *string         `gorm:"column:description;type:text"`
	Category    string          `gorm:"column:category;type:text;not null"`
	BasePrice   decimal.Decimal `gorm:"column:base_price;type:numeric(12,2);not null"`
	ImageURL    *string         `gorm:"column:image_url;type:text"`
	// No default tag: gorm drops default-tagged columns from the insert
	// when the value is zero, so false rows would land active.
	IsActive bool `gorm:"column:is_active;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Variants []ProductVariant `gorm:"foreignKey:ProductID"`
}
