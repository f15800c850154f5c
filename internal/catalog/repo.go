package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lacewalk/lacewalk-backend/pkg/db/models"
	"github.com/lacewalk/lacewalk-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository encapsulates catalog reads.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListProducts returns a cursor-paginated slice of active products.
func (r *Repository) ListProducts(ctx context.Context, filter ListFilter) (ProductPage, error) {
	normalizedLimit := pagination.NormalizeLimit(filter.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(filter.Limit)
	cursorValue := strings.TrimSpace(filter.Cursor)
	decodedCursor, err := pagination.ParseCursor(cursorValue)
	if err != nil {
		return ProductPage{}, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Brand != "" {
		query = query.Where("brand = ?", filter.Brand)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return ProductPage{}, err
	}

	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var records []models.Product
	if err := query.
		Order("created_at DESC").Order("id DESC").
		Limit(limitWithBuffer).
		Find(&records).Error; err != nil {
		return ProductPage{}, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	items := make([]ProductSummary, 0, len(resultRows))
	for _, record := range resultRows {
		items = append(items, toSummary(record))
	}

	return ProductPage{
		Items:      items,
		NextCursor: nextCursor,
		Total:      total,
	}, nil
}

// FindProductDetail loads one active product with its variant matrix.
func (r *Repository) FindProductDetail(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	var record models.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants", "is_active = ?", true).
		Where("id = ? AND is_active = ?", id, true).
		First(&record).Error; err != nil {
		return nil, err
	}

	variants := make([]VariantDTO, 0, len(record.Variants))
	for _, variant := range record.Variants {
		variants = append(variants, VariantDTO{
			ID:        variant.ID,
			SKU:       variant.SKU,
			Size:      variant.Size,
			Color:     variant.Color,
			Price:     variant.Price,
			StockQty:  variant.StockQty,
			IsActive:  variant.IsActive,
			CreatedAt: variant.CreatedAt,
		})
	}

	return &ProductDetail{
		ProductSummary: toSummary(record),
		Description:    record.Description,
		Variants:       variants,
	}, nil
}

// FindVariant loads a variant together with its parent product.
func (r *Repository) FindVariant(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, *models.Product, error) {
	var variant models.ProductVariant
	if err := r.db.WithContext(ctx).
		Where("id = ?", variantID).
		First(&variant).Error; err != nil {
		return nil, nil, err
	}

	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("id = ?", variant.ProductID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, gorm.ErrRecordNotFound
		}
		return nil, nil, err
	}

	return &variant, &product, nil
}

func toSummary(record models.Product) ProductSummary {
	return ProductSummary{
		ID:        record.ID,
		Name:      record.Name,
		Brand:     record.Brand,
		Category:  record.Category,
		BasePrice: record.BasePrice,
		ImageURL:  record.ImageURL,
		CreatedAt: record.CreatedAt,
	}
}
