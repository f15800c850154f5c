package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lacewalk/lacewalk-backend/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	cartLines := `
CREATE TABLE IF NOT EXISTS cart_lines (
  id TEXT PRIMARY KEY,
  account_id TEXT,
  session_id TEXT,
  variant_id TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  unit_price NUMERIC NOT NULL,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  CHECK ((account_id IS NULL) <> (session_id IS NULL))
);`
	variants := `
CREATE TABLE IF NOT EXISTS product_variants (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  sku TEXT NOT NULL,
  size TEXT NOT NULL,
  color TEXT NOT NULL,
  price NUMERIC NOT NULL,
  stock_qty INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
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
	for _, stmt := range []string{cartLines, variants, products} {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	require.NoError(t, conn.Exec(`CREATE UNIQUE INDEX idx_cart_lines_account_variant ON cart_lines (account_id, variant_id) WHERE account_id IS NOT NULL`).Error)
	require.NoError(t, conn.Exec(`CREATE UNIQUE INDEX idx_cart_lines_session_variant ON cart_lines (session_id, variant_id) WHERE session_id IS NOT NULL`).Error)
	return conn
}

func seedCatalogRow(t *testing.T, db *gorm.DB, variantID uuid.UUID) {
	t.Helper()
	productID := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO products (id, name, brand, category, base_price) VALUES (?, ?, ?, ?, ?)`,
		productID, "runner", "Lacewalk", "running", 120,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO product_variants (id, product_id, sku, size, color, price, stock_qty) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		variantID, productID, "SKU-"+variantID.String()[:8], "42", "black", 129, 10,
	).Error)
}

func quantityFor(t *testing.T, db *gorm.DB, clause string, ownerID, variantID uuid.UUID) int {
	t.Helper()
	var quantity int
	require.NoError(t, db.Raw(
		"SELECT quantity FROM cart_lines WHERE "+clause+" AND variant_id = ?", ownerID, variantID,
	).Scan(&quantity).Error)
	return quantity
}

func TestUpsertSumsQuantityPerOwner(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	variantID := uuid.New()
	seedCatalogRow(t, db, variantID)
	account := types.AccountOwner(uuid.New())
	session := types.SessionOwner(uuid.New())
	price := decimal.NewFromInt(129)

	require.NoError(t, repo.Upsert(ctx, account, variantID, 2, price))
	require.NoError(t, repo.Upsert(ctx, account, variantID, 3, price))
	assert.Equal(t, 5, quantityFor(t, db, "account_id = ?", account.ID, variantID))

	// the same variant under a session is a separate line
	require.NoError(t, repo.Upsert(ctx, session, variantID, 1, price))
	assert.Equal(t, 1, quantityFor(t, db, "session_id = ?", session.ID, variantID))
}

func TestListScopesToOwner(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	variantID := uuid.New()
	seedCatalogRow(t, db, variantID)
	account := types.AccountOwner(uuid.New())
	other := types.AccountOwner(uuid.New())
	price := decimal.NewFromInt(129)

	require.NoError(t, repo.Upsert(ctx, account, variantID, 2, price))

	records, err := repo.List(ctx, account)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, variantID, records[0].VariantID)
	assert.Equal(t, 2, records[0].Quantity)
	assert.Equal(t, "runner", records[0].Name)

	empty, err := repo.List(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUpdateQuantityAndRemoveReportAffectedRows(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	variantID := uuid.New()
	seedCatalogRow(t, db, variantID)
	account := types.AccountOwner(uuid.New())

	affected, err := repo.UpdateQuantity(ctx, account, variantID, 4)
	require.NoError(t, err)
	assert.Zero(t, affected)

	require.NoError(t, repo.Upsert(ctx, account, variantID, 2, decimal.NewFromInt(129)))

	affected, err = repo.UpdateQuantity(ctx, account, variantID, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.Equal(t, 4, quantityFor(t, db, "account_id = ?", account.ID, variantID))

	removed, err := repo.Remove(ctx, account, variantID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	removed, err = repo.Remove(ctx, account, variantID)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestMergeSessionIntoSumsAndReowns(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	shared := uuid.New()
	guestOnly := uuid.New()
	accountOnly := uuid.New()
	for _, id := range []uuid.UUID{shared, guestOnly, accountOnly} {
		seedCatalogRow(t, db, id)
	}

	accountID := uuid.New()
	sessionID := uuid.New()
	account := types.AccountOwner(accountID)
	session := types.SessionOwner(sessionID)
	price := decimal.NewFromInt(129)

	require.NoError(t, repo.Upsert(ctx, account, shared, 2, price))
	require.NoError(t, repo.Upsert(ctx, account, accountOnly, 1, price))
	require.NoError(t, repo.Upsert(ctx, session, shared, 3, price))
	require.NoError(t, repo.Upsert(ctx, session, guestOnly, 4, price))

	moved, err := repo.MergeSessionInto(ctx, sessionID, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), moved)

	// shared variant sums quantities, guest-only line flips ownership
	assert.Equal(t, 5, quantityFor(t, db, "account_id = ?", accountID, shared))
	assert.Equal(t, 4, quantityFor(t, db, "account_id = ?", accountID, guestOnly))
	assert.Equal(t, 1, quantityFor(t, db, "account_id = ?", accountID, accountOnly))

	var remaining int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM cart_lines WHERE session_id = ?", sessionID).Scan(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestMergeSessionIntoCarriesLineSnapshot(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	variantID := uuid.New()
	seedCatalogRow(t, db, variantID)

	accountID := uuid.New()
	sessionID := uuid.New()
	price := decimal.RequireFromString("89.95")
	require.NoError(t, repo.Upsert(ctx, types.SessionOwner(sessionID), variantID, 2, price))

	var before struct{ CreatedAt time.Time }
	require.NoError(t, db.Raw("SELECT created_at FROM cart_lines WHERE session_id = ?", sessionID).Scan(&before).Error)

	moved, err := repo.MergeSessionInto(ctx, sessionID, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), moved)

	// the moved line keeps its price snapshot and original timestamp
	var after struct {
		UnitPrice decimal.Decimal
		CreatedAt time.Time
	}
	require.NoError(t, db.Raw(
		"SELECT unit_price, created_at FROM cart_lines WHERE account_id = ? AND variant_id = ?",
		accountID, variantID,
	).Scan(&after).Error)
	assert.True(t, price.Equal(after.UnitPrice))
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt))
}

func TestMergeSessionIntoIsIdempotent(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	variantID := uuid.New()
	seedCatalogRow(t, db, variantID)

	accountID := uuid.New()
	sessionID := uuid.New()
	require.NoError(t, repo.Upsert(ctx, types.SessionOwner(sessionID), variantID, 3, decimal.NewFromInt(129)))

	moved, err := repo.MergeSessionInto(ctx, sessionID, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), moved)

	// a second pass finds no session rows and must not double quantities
	moved, err = repo.MergeSessionInto(ctx, sessionID, accountID)
	require.NoError(t, err)
	assert.Zero(t, moved)
	assert.Equal(t, 3, quantityFor(t, db, "account_id = ?", accountID, variantID))
}
