package wishlist

import (
	"context"

	"github.com/google/uuid"
	"github.com/lacewalk/lacewalk-backend/internal/catalog"
	pkgerrors "github.com/lacewalk/lacewalk-backend/pkg/errors"
	"github.com/lacewalk/lacewalk-backend/pkg/types"
)

type productChecker interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*catalog.ProductDetail, error)
}

// Service exposes wishlist operations for both guests and accounts.
type Service interface {
	GetWishlist(ctx context.Context, owner types.Owner, cursor string, limit int) (PageDTO, error)
	Like(ctx context.Context, owner types.Owner, productID uuid.UUID, variantID *uuid.UUID) error
	Unlike(ctx context.Context, owner types.Owner, productID uuid.UUID, variantID *uuid.UUID) error
}

type service struct {
	repo    WishlistRepository
	catalog productChecker
}

// NewService builds a wishlist service with the required dependencies.
func NewService(repo WishlistRepository, catalog productChecker) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog loader is required")
	}
	return &service{repo: repo, catalog: catalog}, nil
}

// GetWishlist returns the paginated wishlist for the owner.
func (s *service) GetWishlist(ctx context.Context, owner types.Owner, cursor string, limit int) (PageDTO, error) {
	if !owner.Valid() {
		return PageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "wishlist owner is required")
	}
	page, err := s.repo.List(ctx, owner, cursor, limit)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}
	return page, nil
}

// Like records the owner's interest in a product, optionally pinned to a
// variant. Liking twice is a no-op.
func (s *service) Like(ctx context.Context, owner types.Owner, productID uuid.UUID, variantID *uuid.UUID) error {
	if !owner.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "wishlist owner is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	detail, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return err
	}

	pinned := uuid.Nil
	if variantID != nil && *variantID != uuid.Nil {
		found := false
		for _, variant := range detail.Variants {
			if variant.ID == *variantID {
				found = true
				break
			}
		}
		if !found {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant does not belong to product")
		}
		pinned = *variantID
	}

	if err := s.repo.Add(ctx, owner, productID, pinned); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist entry")
	}
	return nil
}

// Unlike drops the entry regardless of prior state.
func (s *service) Unlike(ctx context.Context, owner types.Owner, productID uuid.UUID, variantID *uuid.UUID) error {
	if !owner.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "wishlist owner is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	pinned := uuid.Nil
	if variantID != nil {
		pinned = *variantID
	}
	if _, err := s.repo.Remove(ctx, owner, productID, pinned); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist entry")
	}
	return nil
}
