package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lacewalk/lacewalk-backend/pkg/db/models"
	pkgerrors "github.com/lacewalk/lacewalk-backend/pkg/errors"
	"gorm.io/gorm"
)

// CatalogRepository defines the persistence surface required by the catalog service.
type CatalogRepository interface {
	ListProducts(ctx context.Context, filter ListFilter) (ProductPage, error)
	FindProductDetail(ctx context.Context, id uuid.UUID) (*ProductDetail, error)
	FindVariant(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, *models.Product, error)
}

// Service exposes catalog browsing.
type Service interface {
	ListProducts(ctx context.Context, filter ListFilter) (ProductPage, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error)
	GetSellableVariant(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, *models.Product, error)
}

type service struct {
	repo CatalogRepository
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo CatalogRepository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, filter ListFilter) (ProductPage, error) {
	page, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return ProductPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return page, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	detail, err := s.repo.FindProductDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return detail, nil
}

// GetSellableVariant returns the variant only when both it and its parent
// product are active.
func (s *service) GetSellableVariant(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, *models.Product, error) {
	if variantID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	variant, product, err := s.repo.FindVariant(ctx, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "variant not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}
	if !variant.IsActive || !product.IsActive {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not purchasable")
	}
	return variant, product, nil
}
