package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/lacewalk/lacewalk-backend/pkg/db/models"
	pkgerrors "github.com/lacewalk/lacewalk-backend/pkg/errors"
	"github.com/lacewalk/lacewalk-backend/pkg/types"
	"github.com/shopspring/decimal"
)

const maxLineQuantity = 99

type variantLoader interface {
	GetSellableVariant(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, *models.Product, error)
}

// Service exposes cart operations for both guests and accounts.
type Service interface {
	GetCart(ctx context.Context, owner types.Owner) (CartDTO, error)
	AddItem(ctx context.Context, owner types.Owner, variantID uuid.UUID, quantity int) (CartDTO, error)
	UpdateItem(ctx context.Context, owner types.Owner, variantID uuid.UUID, quantity int) (CartDTO, error)
	RemoveItem(ctx context.Context, owner types.Owner, variantID uuid.UUID) (CartDTO, error)
}

type service struct {
	repo    CartRepository
	catalog variantLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, catalog variantLoader) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repository is required")
	}
	if catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog loader is required")
	}
	return &service{repo: repo, catalog: catalog}, nil
}

// GetCart returns the owner's cart with computed totals.
func (s *service) GetCart(ctx context.Context, owner types.Owner) (CartDTO, error) {
	if !owner.Valid() {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	return s.load(ctx, owner)
}

// AddItem snapshots the variant's current price and adds the quantity to the
// owner's cart, summing with any existing line for the same variant.
func (s *service) AddItem(ctx context.Context, owner types.Owner, variantID uuid.UUID, quantity int) (CartDTO, error) {
	if !owner.Valid() {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	if err := validQuantity(quantity); err != nil {
		return CartDTO{}, err
	}

	variant, _, err := s.catalog.GetSellableVariant(ctx, variantID)
	if err != nil {
		return CartDTO{}, err
	}

	if err := s.repo.Upsert(ctx, owner, variant.ID, quantity, variant.Price); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert cart line")
	}
	return s.load(ctx, owner)
}

// UpdateItem replaces the line's quantity outright.
func (s *service) UpdateItem(ctx context.Context, owner types.Owner, variantID uuid.UUID, quantity int) (CartDTO, error) {
	if !owner.Valid() {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	if variantID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if err := validQuantity(quantity); err != nil {
		return CartDTO{}, err
	}

	affected, err := s.repo.UpdateQuantity(ctx, owner, variantID, quantity)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}
	if affected == 0 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "variant not in cart")
	}
	return s.load(ctx, owner)
}

// RemoveItem drops the line. Removing an absent variant is not an error.
func (s *service) RemoveItem(ctx context.Context, owner types.Owner, variantID uuid.UUID) (CartDTO, error) {
	if !owner.Valid() {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	if variantID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if _, err := s.repo.Remove(ctx, owner, variantID); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	return s.load(ctx, owner)
}

func (s *service) load(ctx context.Context, owner types.Owner) (CartDTO, error) {
	records, err := s.repo.List(ctx, owner)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart lines")
	}

	lines := make([]LineDTO, 0, len(records))
	itemCount := 0
	subtotal := decimal.Zero
	for _, record := range records {
		line := record.toDTO()
		lines = append(lines, line)
		itemCount += line.Quantity
		subtotal = subtotal.Add(line.LineTotal)
	}

	return CartDTO{
		Lines:     lines,
		ItemCount: itemCount,
		Subtotal:  subtotal,
	}, nil
}

func validQuantity(quantity int) error {
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if quantity > maxLineQuantity {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds the per-line limit")
	}
	return nil
}
