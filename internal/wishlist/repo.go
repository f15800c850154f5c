package wishlist

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lacewalk/lacewalk-backend/pkg/db/models"
	"github.com/lacewalk/lacewalk-backend/pkg/pagination"
	"github.com/lacewalk/lacewalk-backend/pkg/types"
	"gorm.io/gorm"
)

// created_at is bound as a parameter rather than CURRENT_TIMESTAMP so the
// stored value carries the same precision the keyset cursor compares with.
const addAccountEntry = `
INSERT INTO wishlist_entries (id, account_id, product_id, variant_id, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (account_id, product_id, variant_id) WHERE account_id IS NOT NULL DO NOTHING`

const addSessionEntry = `
INSERT INTO wishlist_entries (id, session_id, product_id, variant_id, created_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (session_id, product_id, variant_id) WHERE session_id IS NOT NULL DO NOTHING`

// dropDuplicateSessionEntries removes guest likes the account already has so
// the follow-up re-own cannot trip the per-account uniqueness index.
const dropDuplicateSessionEntries = `
DELETE FROM wishlist_entries
WHERE session_id = ?
  AND EXISTS (
    SELECT 1 FROM wishlist_entries acc
    WHERE acc.account_id = ?
      AND acc.product_id = wishlist_entries.product_id
      AND acc.variant_id = wishlist_entries.variant_id
  )`

const reownSessionEntries = `
UPDATE wishlist_entries SET account_id = ?, session_id = NULL
WHERE session_id = ?`

// Repository encapsulates wishlist persistence for both owner modes.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) WishlistRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Add inserts a like and ignores duplicates. variantID is uuid.Nil for a
// product-level like.
func (r *Repository) Add(ctx context.Context, owner types.Owner, productID, variantID uuid.UUID) error {
	if !owner.Valid() || productID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	stmt := addSessionEntry
	if owner.IsAccount() {
		stmt = addAccountEntry
	}
	return r.db.WithContext(ctx).
		Exec(stmt, uuid.New(), owner.ID, productID, variantID, time.Now().UTC()).
		Error
}

// Remove deletes the like if it exists.
func (r *Repository) Remove(ctx context.Context, owner types.Owner, productID, variantID uuid.UUID) (int64, error) {
	if !owner.Valid() {
		return 0, gorm.ErrInvalidValue
	}
	result := r.db.WithContext(ctx).
		Where(ownerClause(owner), owner.ID).
		Where("product_id = ? AND variant_id = ?", productID, variantID).
		Delete(&models.WishlistEntry{})
	return result.RowsAffected, result.Error
}

// List returns the owner's likes joined with product fields, newest first.
func (r *Repository) List(ctx context.Context, owner types.Owner, cursor string, limit int) (PageDTO, error) {
	if !owner.Valid() {
		return PageDTO{}, gorm.ErrInvalidValue
	}

	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	cursorValue := strings.TrimSpace(cursor)
	decodedCursor, err := pagination.ParseCursor(cursorValue)
	if err != nil {
		return PageDTO{}, err
	}

	query := r.db.WithContext(ctx).
		Table("wishlist_entries we").
		Select(`we.id AS entry_id, we.product_id, we.variant_id, we.created_at AS liked_at,
			p.name, p.brand, p.base_price, p.image_url`).
		Joins("JOIN products p ON p.id = we.product_id").
		Where("we."+ownerClause(owner), owner.ID)

	if decodedCursor != nil {
		query = query.Where("(we.created_at < ?) OR (we.created_at = ? AND we.id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var records []entryRecord
	if err := query.
		Order("we.created_at DESC").Order("we.id DESC").
		Limit(limitWithBuffer).
		Scan(&records).Error; err != nil {
		return PageDTO{}, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.LikedAt,
			ID:        last.EntryID,
		})
	}

	items := make([]EntryDTO, 0, len(resultRows))
	for _, record := range resultRows {
		items = append(items, record.toDTO())
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.WishlistEntry{}).
		Where(ownerClause(owner), owner.ID).
		Count(&total).Error; err != nil {
		return PageDTO{}, err
	}

	return PageDTO{
		Items:      items,
		NextCursor: nextCursor,
		Total:      total,
	}, nil
}

// MergeSessionInto re-owns the session's likes to the account as a set union:
// duplicates are dropped, the rest flip ownership. Returns the number of likes
// the account gained. Callers run this inside a transaction via WithTx.
func (r *Repository) MergeSessionInto(ctx context.Context, sessionID, accountID uuid.UUID) (int64, error) {
	if sessionID == uuid.Nil || accountID == uuid.Nil {
		return 0, gorm.ErrInvalidValue
	}

	conn := r.db.WithContext(ctx)

	if err := conn.Exec(dropDuplicateSessionEntries, sessionID, accountID).Error; err != nil {
		return 0, err
	}

	reowned := conn.Exec(reownSessionEntries, accountID, sessionID)
	if reowned.Error != nil {
		return 0, reowned.Error
	}
	return reowned.RowsAffected, nil
}

func ownerClause(owner types.Owner) string {
	if owner.IsAccount() {
		return "account_id = ?"
	}
	return "session_id = ?"
}
