package models

import (
	"time"

	"github.com/google/uuid"
)

// AnonymousSession is the durable identity minted for a visitor before they
// authenticate. Token is the opaque value the client echoes back; the row id
// is what cart/wishlist rows reference. Sessions are never deleted; after
// migration they simply stop owning rows.
type AnonymousSession struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Token      string    `gorm:"column:token;type:text;not null;uniqueIndex:anonymous_sessions_token_key"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	LastSeenAt time.Time `gorm:"column:last_seen_at;not null"`
}
