package middleware

import (
	"context"

	"github.com/google/uuid"

	pkgAuth "github.com/lacewalk/lacewalk-backend/pkg/auth"
	"github.com/lacewalk/lacewalk-backend/pkg/db/models"
	"github.com/lacewalk/lacewalk-backend/pkg/types"
)

type contextKey string

const (
	ctxOwner        contextKey = "owner"
	ctxAccessClaims contextKey = "access_claims"
	ctxGuestSession contextKey = "guest_session"
)

// OwnerFromContext returns the resolved cart/wishlist owner for the request.
// The zero Owner means the request carries no usable identity.
func OwnerFromContext(ctx context.Context) types.Owner {
	if ctx == nil {
		return types.Owner{}
	}
	if v, ok := ctx.Value(ctxOwner).(types.Owner); ok {
		return v
	}
	return types.Owner{}
}

// AccessClaimsFromContext returns the verified token claims, or nil for
// unauthenticated requests.
func AccessClaimsFromContext(ctx context.Context) *pkgAuth.AccessTokenClaims {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxAccessClaims).(*pkgAuth.AccessTokenClaims); ok {
		return v
	}
	return nil
}

// GuestSessionFromContext returns the anonymous session resolved for the
// request, or nil when the caller is authenticated or fully anonymous.
func GuestSessionFromContext(ctx context.Context) *models.AnonymousSession {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxGuestSession).(*models.AnonymousSession); ok {
		return v
	}
	return nil
}

// GuestSessionIDFromContext returns the anonymous session row id, or uuid.Nil.
func GuestSessionIDFromContext(ctx context.Context) uuid.UUID {
	if sess := GuestSessionFromContext(ctx); sess != nil {
		return sess.ID
	}
	return uuid.Nil
}

// WithOwner injects the resolved owner into the context.
func WithOwner(ctx context.Context, owner types.Owner) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxOwner, owner)
}

// WithGuestSession injects the anonymous session into the context.
func WithGuestSession(ctx context.Context, sess *models.AnonymousSession) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxGuestSession, sess)
}

func withAccessClaims(ctx context.Context, claims *pkgAuth.AccessTokenClaims) context.Context {
	return context.WithValue(ctx, ctxAccessClaims, claims)
}
