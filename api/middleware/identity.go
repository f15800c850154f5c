package middleware

import (
	"net/http"

	"github.com/lacewalk/lacewalk-backend/api/responses"
	"github.com/lacewalk/lacewalk-backend/internal/guestsession"
	pkgAuth "github.com/lacewalk/lacewalk-backend/pkg/auth"
	"github.com/lacewalk/lacewalk-backend/pkg/auth/session"
	"github.com/lacewalk/lacewalk-backend/pkg/config"
	pkgerrors "github.com/lacewalk/lacewalk-backend/pkg/errors"
	"github.com/lacewalk/lacewalk-backend/pkg/logger"
	"github.com/lacewalk/lacewalk-backend/pkg/types"
)

// Identity resolves who the request acts as. A valid bearer token wins and
// yields an account owner. Otherwise the guest token is read from the
// configured header (taking precedence) or cookie and resolved through the
// issuer; a fresh session is minted for mutating requests that arrive without
// one. The active token is echoed back on both transports so clients can
// persist it. Resolution failures leave the request anonymous rather than
// failing it.
func Identity(jwtCfg config.JWTConfig, guestCfg config.GuestConfig, issuer guestsession.Service, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if token := bearerToken(r); token != "" {
				claims, err := pkgAuth.ParseAccessToken(jwtCfg, token)
				if err == nil && claims.ID != "" {
					live := true
					if verifier != nil {
						live, err = verifier.HasSession(ctx, claims.ID)
					}
					if err == nil && live {
						ctx = withAccessClaims(ctx, claims)
						ctx = WithOwner(ctx, types.AccountOwner(claims.UserID))
						if logg != nil {
							ctx = logg.WithAccountID(ctx, claims.UserID.String())
						}
						next.ServeHTTP(w, r.WithContext(ctx))
						return
					}
				}
				// A stale or malformed bearer token degrades to the guest
				// path instead of blocking the storefront.
			}

			candidate := guestToken(r, guestCfg)
			if candidate == "" && !mutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			sess, minted, err := issuer.IssueOrResolve(ctx, candidate)
			if err != nil {
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "guest_token_present", candidate != ""), "guest.identity.unavailable")
				}
				next.ServeHTTP(w, r)
				return
			}

			echoGuestToken(w, guestCfg, sess.Token)

			ctx = WithGuestSession(ctx, sess)
			ctx = WithOwner(ctx, types.SessionOwner(sess.ID))
			if logg != nil {
				ctx = logg.WithGuestSessionID(ctx, sess.ID.String())
				if minted {
					logg.Info(ctx, "guest.session.minted")
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ResolveGuest looks up an already issued guest session without ever minting
// one. Login and register use it so a presented guest token can hand its cart
// off to the account, while tokenless logins stay session-free.
func ResolveGuest(guestCfg config.GuestConfig, issuer guestsession.Service, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			candidate := guestToken(r, guestCfg)
			if candidate == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := issuer.Resolve(r.Context(), candidate)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithGuestSession(r.Context(), sess)
			if logg != nil {
				ctx = logg.WithGuestSessionID(ctx, sess.ID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireOwner rejects requests that resolved to no identity at all.
func RequireOwner(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !OwnerFromContext(r.Context()).Valid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func guestToken(r *http.Request, cfg config.GuestConfig) string {
	if v := r.Header.Get(cfg.HeaderName); v != "" {
		return v
	}
	if c, err := r.Cookie(cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

func echoGuestToken(w http.ResponseWriter, cfg config.GuestConfig, token string) {
	w.Header().Set(cfg.HeaderName, token)
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.CookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
