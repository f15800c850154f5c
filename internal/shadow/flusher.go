package shadow

import (
	"context"

	"github.com/google/uuid"
	"github.com/lacewalk/lacewalk-backend/internal/cart"
	pkgerrors "github.com/lacewalk/lacewalk-backend/pkg/errors"
	"github.com/lacewalk/lacewalk-backend/pkg/types"
	"go.uber.org/multierr"
)

type cartPusher interface {
	AddItem(ctx context.Context, owner types.Owner, variantID uuid.UUID, quantity int) (cart.CartDTO, error)
}

type wishlistPusher interface {
	Like(ctx context.Context, owner types.Owner, productID uuid.UUID, variantID *uuid.UUID) error
}

// Flusher replays a shadow store against the backing services.
type Flusher struct {
	cart     cartPusher
	wishlist wishlistPusher
}

// NewFlusher builds a flusher over the cart and wishlist services.
func NewFlusher(cartSvc cartPusher, wishlistSvc wishlistPusher) (*Flusher, error) {
	if cartSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart service is required")
	}
	if wishlistSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist service is required")
	}
	return &Flusher{cart: cartSvc, wishlist: wishlistSvc}, nil
}

// FlushTo replays every buffered entry for the owner. Entries that fail stay
// buffered; the store is cleared only when everything lands. The returned
// error aggregates all per-entry failures.
func (f *Flusher) FlushTo(ctx context.Context, store *Store, owner types.Owner) error {
	if store == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "shadow store is required")
	}
	if !owner.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner is required")
	}

	cartEntries, wishEntries := store.Snapshot()

	var errs error
	for _, entry := range cartEntries {
		if _, err := f.cart.AddItem(ctx, owner, entry.VariantID, entry.Quantity); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	for _, entry := range wishEntries {
		if err := f.wishlist.Like(ctx, owner, entry.ProductID, entry.VariantID); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if errs != nil {
		return errs
	}
	store.Clear()
	return nil
}
