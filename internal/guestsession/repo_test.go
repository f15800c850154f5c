package guestsession

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lacewalk/lacewalk-backend/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSessionTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS anonymous_sessions (
  id TEXT PRIMARY KEY,
  token TEXT NOT NULL UNIQUE,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  last_seen_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func TestRepositoryCreateAndFindByToken(t *testing.T) {
	db := setupSessionTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	record := &models.AnonymousSession{Token: "gs_test-token"}
	require.NoError(t, repo.Create(ctx, record))
	assert.NotEqual(t, uuid.Nil, record.ID)
	assert.False(t, record.CreatedAt.IsZero())

	found, err := repo.FindByToken(ctx, "gs_test-token")
	require.NoError(t, err)
	assert.Equal(t, record.ID, found.ID)

	_, err = repo.FindByToken(ctx, "gs_missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryCreateRejectsDuplicateToken(t *testing.T) {
	db := setupSessionTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.AnonymousSession{Token: "gs_dup"}))
	err := repo.Create(ctx, &models.AnonymousSession{Token: "gs_dup"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint failed")
}

func TestRepositoryTouchLastSeen(t *testing.T) {
	db := setupSessionTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	record := &models.AnonymousSession{Token: "gs_touch"}
	require.NoError(t, repo.Create(ctx, record))

	later := time.Now().Add(time.Hour).UTC()
	require.NoError(t, repo.TouchLastSeen(ctx, record.ID, later))

	found, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, later, found.LastSeenAt, time.Second)
}
