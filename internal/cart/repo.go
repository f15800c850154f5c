package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lacewalk/lacewalk-backend/pkg/db/models"
	"github.com/lacewalk/lacewalk-backend/pkg/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const upsertAccountLine = `
INSERT INTO cart_lines (id, account_id, variant_id, quantity, unit_price, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
ON CONFLICT (account_id, variant_id) WHERE account_id IS NOT NULL
DO UPDATE SET quantity = cart_lines.quantity + excluded.quantity, updated_at = CURRENT_TIMESTAMP`

const upsertSessionLine = `
INSERT INTO cart_lines (id, session_id, variant_id, quantity, unit_price, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
ON CONFLICT (session_id, variant_id) WHERE session_id IS NOT NULL
DO UPDATE SET quantity = cart_lines.quantity + excluded.quantity, updated_at = CURRENT_TIMESTAMP`

// claimSessionLines removes the session's lines and hands back their
// contents in the same statement. The delete is the per-row claim: a
// concurrent migration of the same session gets each row at most once, so
// quantities can never be applied to the account twice.
const claimSessionLines = `
DELETE FROM cart_lines
WHERE session_id = ?
RETURNING variant_id, quantity, unit_price, created_at`

// absorbClaimedLine lands one claimed line on the account, summing onto an
// existing line for the same variant. The original created_at rides along so
// cart ordering survives the handover.
const absorbClaimedLine = `
INSERT INTO cart_lines (id, account_id, variant_id, quantity, unit_price, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (account_id, variant_id) WHERE account_id IS NOT NULL
DO UPDATE SET quantity = cart_lines.quantity + excluded.quantity, updated_at = CURRENT_TIMESTAMP`

// Repository encapsulates cart persistence for both owner modes.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Upsert inserts a line for the owner or atomically adds to its quantity when
// the variant is already in the cart.
func (r *Repository) Upsert(ctx context.Context, owner types.Owner, variantID uuid.UUID, quantity int, unitPrice decimal.Decimal) error {
	if !owner.Valid() {
		return gorm.ErrInvalidValue
	}
	stmt := upsertSessionLine
	if owner.IsAccount() {
		stmt = upsertAccountLine
	}
	return r.db.WithContext(ctx).
		Exec(stmt, uuid.New(), owner.ID, variantID, quantity, unitPrice).
		Error
}

// List returns the owner's cart lines joined with variant and product fields,
// newest first.
func (r *Repository) List(ctx context.Context, owner types.Owner) ([]LineRecord, error) {
	if !owner.Valid() {
		return nil, gorm.ErrInvalidValue
	}

	var records []LineRecord
	err := r.db.WithContext(ctx).
		Table("cart_lines cl").
		Select(`cl.id AS line_id, cl.variant_id, cl.quantity, cl.unit_price, cl.created_at AS line_created_at,
			v.sku, v.size, v.color,
			p.id AS product_id, p.name, p.brand, p.image_url`).
		Joins("JOIN product_variants v ON v.id = cl.variant_id").
		Joins("JOIN products p ON p.id = v.product_id").
		Where(ownerClause(owner), owner.ID).
		Order("cl.created_at DESC").Order("cl.id DESC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// UpdateQuantity sets the line to an absolute quantity. The returned count is
// zero when the owner has no line for the variant.
func (r *Repository) UpdateQuantity(ctx context.Context, owner types.Owner, variantID uuid.UUID, quantity int) (int64, error) {
	if !owner.Valid() {
		return 0, gorm.ErrInvalidValue
	}
	result := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where(ownerClause(owner), owner.ID).
		Where("variant_id = ?", variantID).
		Update("quantity", quantity)
	return result.RowsAffected, result.Error
}

// Remove deletes the owner's line for the variant if present.
func (r *Repository) Remove(ctx context.Context, owner types.Owner, variantID uuid.UUID) (int64, error) {
	if !owner.Valid() {
		return 0, gorm.ErrInvalidValue
	}
	result := r.db.WithContext(ctx).
		Where(ownerClause(owner), owner.ID).
		Where("variant_id = ?", variantID).
		Delete(&models.CartLine{})
	return result.RowsAffected, result.Error
}

// claimedLine is one session cart row handed over by claimSessionLines.
type claimedLine struct {
	VariantID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
	CreatedAt time.Time
}

// MergeSessionInto folds the session's lines into the account cart: shared
// variants sum their quantities, the rest move across whole. Returns the
// number of session lines absorbed. Callers run this inside a transaction via
// WithTx.
func (r *Repository) MergeSessionInto(ctx context.Context, sessionID, accountID uuid.UUID) (int64, error) {
	if sessionID == uuid.Nil || accountID == uuid.Nil {
		return 0, gorm.ErrInvalidValue
	}

	conn := r.db.WithContext(ctx)

	var claimed []claimedLine
	if err := conn.Raw(claimSessionLines, sessionID).Scan(&claimed).Error; err != nil {
		return 0, err
	}

	for _, line := range claimed {
		err := conn.Exec(absorbClaimedLine,
			uuid.New(), accountID, line.VariantID, line.Quantity, line.UnitPrice, line.CreatedAt).Error
		if err != nil {
			return 0, err
		}
	}

	return int64(len(claimed)), nil
}

func ownerClause(owner types.Owner) string {
	if owner.IsAccount() {
		return "account_id = ?"
	}
	return "session_id = ?"
}
