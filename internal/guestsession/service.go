package guestsession

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lacewalk/lacewalk-backend/pkg/db"
	"github.com/lacewalk/lacewalk-backend/pkg/db/models"
	pkgerrors "github.com/lacewalk/lacewalk-backend/pkg/errors"
	"gorm.io/gorm"
)

const (
	tokenPrefix = "gs_"
	tokenBytes  = 32

	// createRetries bounds how often a freshly minted token is re-rolled
	// when it collides with an existing row.
	createRetries = 3
)

// SessionRepository defines the persistence surface required by the issuer.
type SessionRepository interface {
	WithTx(tx *gorm.DB) SessionRepository
	Create(ctx context.Context, record *models.AnonymousSession) error
	FindByToken(ctx context.Context, token string) (*models.AnonymousSession, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.AnonymousSession, error)
	TouchLastSeen(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Service issues and resolves anonymous browse sessions.
type Service interface {
	IssueOrResolve(ctx context.Context, token string) (*models.AnonymousSession, bool, error)
	Resolve(ctx context.Context, token string) (*models.AnonymousSession, error)
	Issue(ctx context.Context) (*models.AnonymousSession, error)
}

type service struct {
	repo SessionRepository
	now  func() time.Time
}

// NewService builds a session issuer backed by the provided repository.
func NewService(repo SessionRepository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session repo is required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// IssueOrResolve returns the session for a presented token, minting a fresh
// one when the token is absent, malformed, or unknown. The boolean reports
// whether a new session was issued.
func (s *service) IssueOrResolve(ctx context.Context, token string) (*models.AnonymousSession, bool, error) {
	if ValidTokenShape(token) {
		record, err := s.Resolve(ctx, token)
		if err == nil {
			return record, false, nil
		}
		// Any resolution failure falls through to minting. A flaky read
		// must not cost the shopper their ability to keep a cart.
	}

	record, err := s.Issue(ctx)
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// Resolve loads the session behind a token and advances its activity marker.
func (s *service) Resolve(ctx context.Context, token string) (*models.AnonymousSession, error) {
	if !ValidTokenShape(token) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unknown guest session")
	}
	record, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "unknown guest session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest session")
	}

	// Last-seen updates are advisory. A failed touch never blocks the request.
	_ = s.repo.TouchLastSeen(ctx, record.ID, s.now())

	return record, nil
}

// Issue mints a session with a fresh opaque token.
func (s *service) Issue(ctx context.Context) (*models.AnonymousSession, error) {
	var lastErr error
	for attempt := 0; attempt <= createRetries; attempt++ {
		token, err := newToken()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint guest token")
		}

		record := &models.AnonymousSession{Token: token}
		if err := s.repo.Create(ctx, record); err != nil {
			if db.IsUniqueViolation(err, "") {
				lastErr = err
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist guest session")
		}
		return record, nil
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, lastErr, "guest token collisions exhausted retries")
}

// ValidTokenShape reports whether the value looks like a token this service minted.
func ValidTokenShape(token string) bool {
	token = strings.TrimSpace(token)
	if !strings.HasPrefix(token, tokenPrefix) {
		return false
	}
	payload := strings.TrimPrefix(token, tokenPrefix)
	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return false
	}
	return len(decoded) == tokenBytes
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return tokenPrefix + base64.RawURLEncoding.EncodeToString(buf), nil
}
