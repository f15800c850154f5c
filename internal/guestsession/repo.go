package guestsession

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lacewalk/lacewalk-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository encapsulates anonymous session persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a session repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) SessionRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new anonymous session row.
func (r *Repository) Create(ctx context.Context, record *models.AnonymousSession) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.LastSeenAt.IsZero() {
		record.LastSeenAt = now
	}
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByToken loads the session row matching an opaque token.
func (r *Repository) FindByToken(ctx context.Context, token string) (*models.AnonymousSession, error) {
	var record models.AnonymousSession
	if err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByID loads the session row by its primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.AnonymousSession, error) {
	var record models.AnonymousSession
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// TouchLastSeen advances the session's last activity marker.
func (r *Repository) TouchLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.AnonymousSession{}).
		Where("id = ?", id).
		Update("last_seen_at", at.UTC()).
		Error
}
