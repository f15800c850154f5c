package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/lacewalk/lacewalk-backend/pkg/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartRepository defines the persistence surface required by the cart service
// and the migration coordinator.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	Upsert(ctx context.Context, owner types.Owner, variantID uuid.UUID, quantity int, unitPrice decimal.Decimal) error
	List(ctx context.Context, owner types.Owner) ([]LineRecord, error)
	UpdateQuantity(ctx context.Context, owner types.Owner, variantID uuid.UUID, quantity int) (int64, error)
	Remove(ctx context.Context, owner types.Owner, variantID uuid.UUID) (int64, error)
	MergeSessionInto(ctx context.Context, sessionID, accountID uuid.UUID) (int64, error)
}
