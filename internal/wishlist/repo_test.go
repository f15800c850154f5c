package wishlist

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lacewalk/lacewalk-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupWishlistTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	entries := `
CREATE TABLE IF NOT EXISTS wishlist_entries (
  id TEXT PRIMARY KEY,
  account_id TEXT,
  session_id TEXT,
  product_id TEXT NOT NULL,
  variant_id TEXT NOT NULL DEFAULT '00000000-0000-0000-0000-000000000000',
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  CHECK ((account_id IS NULL) <> (session_id IS NULL))
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  brand TEXT NOT NULL,
  description TEXT,
  category TEXT NOT NULL,
  base_price NUMERIC NOT NULL,
  image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`
	require.NoError(t, conn.Exec(entries).Error)
	require.NoError(t, conn.Exec(products).Error)
	require.NoError(t, conn.Exec(`CREATE UNIQUE INDEX idx_wishlist_account_product_variant ON wishlist_entries (account_id, product_id, variant_id) WHERE account_id IS NOT NULL`).Error)
	require.NoError(t, conn.Exec(`CREATE UNIQUE INDEX idx_wishlist_session_product_variant ON wishlist_entries (session_id, product_id, variant_id) WHERE session_id IS NOT NULL`).Error)
	return conn
}

func seedWishlistProduct(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO products (id, name, brand, category, base_price) VALUES (?, ?, ?, ?, ?)`,
		id, name, "Lacewalk", "running", 120,
	).Error)
	return id
}

func countEntries(t *testing.T, db *gorm.DB, clause string, ownerID uuid.UUID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM wishlist_entries WHERE "+clause, ownerID).Scan(&count).Error)
	return count
}

func TestAddIgnoresDuplicates(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	productID := seedWishlistProduct(t, db, "runner")
	owner := types.AccountOwner(uuid.New())

	require.NoError(t, repo.Add(ctx, owner, productID, uuid.Nil))
	require.NoError(t, repo.Add(ctx, owner, productID, uuid.Nil))
	assert.Equal(t, int64(1), countEntries(t, db, "account_id = ?", owner.ID))

	// a variant-pinned like is a distinct entry
	variantID := uuid.New()
	require.NoError(t, repo.Add(ctx, owner, productID, variantID))
	assert.Equal(t, int64(2), countEntries(t, db, "account_id = ?", owner.ID))
}

func TestRemoveScopesToOwner(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	productID := seedWishlistProduct(t, db, "runner")
	owner := types.SessionOwner(uuid.New())
	other := types.SessionOwner(uuid.New())

	require.NoError(t, repo.Add(ctx, owner, productID, uuid.Nil))

	removed, err := repo.Remove(ctx, other, productID, uuid.Nil)
	require.NoError(t, err)
	assert.Zero(t, removed)

	removed, err = repo.Remove(ctx, owner, productID, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestListPaginatesNewestFirst(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := types.AccountOwner(uuid.New())
	for i := 0; i < 4; i++ {
		productID := seedWishlistProduct(t, db, fmt.Sprintf("runner-%d", i))
		require.NoError(t, repo.Add(ctx, owner, productID, uuid.Nil))
	}

	page, err := repo.List(ctx, owner, "", 3)
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, int64(4), page.Total)
	require.NotEmpty(t, page.NextCursor)
	assert.Nil(t, page.Items[0].VariantID)

	rest, err := repo.List(ctx, owner, page.NextCursor, 3)
	require.NoError(t, err)
	assert.Len(t, rest.Items, 1)
	assert.Empty(t, rest.NextCursor)
}

func TestMergeSessionIntoIsSetUnion(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	shared := seedWishlistProduct(t, db, "shared")
	guestOnly := seedWishlistProduct(t, db, "guest-only")

	accountID := uuid.New()
	sessionID := uuid.New()
	account := types.AccountOwner(accountID)
	session := types.SessionOwner(sessionID)

	require.NoError(t, repo.Add(ctx, account, shared, uuid.Nil))
	require.NoError(t, repo.Add(ctx, session, shared, uuid.Nil))
	require.NoError(t, repo.Add(ctx, session, guestOnly, uuid.Nil))

	moved, err := repo.MergeSessionInto(ctx, sessionID, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), moved)

	assert.Equal(t, int64(2), countEntries(t, db, "account_id = ?", accountID))
	assert.Zero(t, countEntries(t, db, "session_id = ?", sessionID))

	// replay finds nothing to move
	moved, err = repo.MergeSessionInto(ctx, sessionID, accountID)
	require.NoError(t, err)
	assert.Zero(t, moved)
	assert.Equal(t, int64(2), countEntries(t, db, "account_id = ?", accountID))
}
