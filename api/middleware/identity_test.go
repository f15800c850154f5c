package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lacewalk/lacewalk-backend/pkg/config"
	"github.com/lacewalk/lacewalk-backend/pkg/db/models"
	"github.com/lacewalk/lacewalk-backend/pkg/types"
)

func testGuestConfig() config.GuestConfig {
	return config.GuestConfig{
		CookieName:   "lw_guest_session",
		HeaderName:   "X-Guest-Session",
		CookieMaxAge: 720 * time.Hour,
	}
}

type stubIssuer struct {
	session   *models.AnonymousSession
	minted    bool
	err       error
	candidate string
	calls     int
}

func (s *stubIssuer) IssueOrResolve(ctx context.Context, token string) (*models.AnonymousSession, bool, error) {
	s.calls++
	s.candidate = token
	if s.err != nil {
		return nil, false, s.err
	}
	return s.session, s.minted, nil
}

func (s *stubIssuer) Resolve(ctx context.Context, token string) (*models.AnonymousSession, error) {
	sess, _, err := s.IssueOrResolve(ctx, token)
	return sess, err
}

func (s *stubIssuer) Issue(ctx context.Context) (*models.AnonymousSession, error) {
	sess, _, err := s.IssueOrResolve(ctx, "")
	return sess, err
}

func guestHandler(captured *types.Owner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = OwnerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestIdentityResolvesGuestFromHeader(t *testing.T) {
	jwtCfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	sess := &models.AnonymousSession{ID: uuid.New(), Token: "gs_known"}
	issuer := &stubIssuer{session: sess}

	var owner types.Owner
	handler := Identity(jwtCfg, testGuestConfig(), issuer, nil, nil)(guestHandler(&owner))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("X-Guest-Session", "gs_known")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if owner.Kind != types.OwnerKindSession || owner.ID != sess.ID {
		t.Fatalf("expected session owner %s got %+v", sess.ID, owner)
	}
	if issuer.candidate != "gs_known" {
		t.Fatalf("expected candidate from header, got %q", issuer.candidate)
	}
	if rec.Header().Get("X-Guest-Session") != "gs_known" {
		t.Fatal("expected token echoed on response header")
	}
}

func TestIdentityHeaderWinsOverCookie(t *testing.T) {
	jwtCfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	issuer := &stubIssuer{session: &models.AnonymousSession{ID: uuid.New(), Token: "gs_header"}}

	var owner types.Owner
	handler := Identity(jwtCfg, testGuestConfig(), issuer, nil, nil)(guestHandler(&owner))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("X-Guest-Session", "gs_header")
	req.AddCookie(&http.Cookie{Name: "lw_guest_session", Value: "gs_cookie"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if issuer.candidate != "gs_header" {
		t.Fatalf("header should take precedence, got %q", issuer.candidate)
	}
}

func TestIdentityMintsOnMutatingRequestWithoutToken(t *testing.T) {
	jwtCfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	sess := &models.AnonymousSession{ID: uuid.New(), Token: "gs_fresh"}
	issuer := &stubIssuer{session: sess, minted: true}

	var owner types.Owner
	handler := Identity(jwtCfg, testGuestConfig(), issuer, nil, nil)(guestHandler(&owner))

	req := httptest.NewRequest(http.MethodPost, "/cart/items", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if issuer.calls != 1 {
		t.Fatalf("expected one issuer call, got %d", issuer.calls)
	}
	if owner.ID != sess.ID {
		t.Fatalf("expected fresh session owner, got %+v", owner)
	}
	if rec.Header().Get("X-Guest-Session") != "gs_fresh" {
		t.Fatal("expected fresh token echoed on header")
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "gs_fresh" {
		t.Fatalf("expected fresh token cookie, got %+v", cookies)
	}
}

func TestIdentitySkipsMintingOnAnonymousRead(t *testing.T) {
	jwtCfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	issuer := &stubIssuer{session: &models.AnonymousSession{ID: uuid.New()}}

	var owner types.Owner
	handler := Identity(jwtCfg, testGuestConfig(), issuer, nil, nil)(guestHandler(&owner))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if issuer.calls != 0 {
		t.Fatalf("read without a token should not mint, got %d calls", issuer.calls)
	}
	if owner.Valid() {
		t.Fatalf("expected anonymous request, got %+v", owner)
	}
}

func TestIdentityPrefersValidBearerToken(t *testing.T) {
	jwtCfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	userID := uuid.New()
	token := mintTestToken(t, jwtCfg, userID)
	issuer := &stubIssuer{session: &models.AnonymousSession{ID: uuid.New()}}

	var owner types.Owner
	handler := Identity(jwtCfg, testGuestConfig(), issuer, stubSessionVerifier{ok: true}, nil)(guestHandler(&owner))

	req := httptest.NewRequest(http.MethodPost, "/cart/items", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Guest-Session", "gs_stale")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if issuer.calls != 0 {
		t.Fatal("authenticated request should not touch the guest issuer")
	}
	if !owner.IsAccount() || owner.ID != userID {
		t.Fatalf("expected account owner %s got %+v", userID, owner)
	}
}

func TestIdentityFailsOpenWhenIssuerUnavailable(t *testing.T) {
	jwtCfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	issuer := &stubIssuer{err: errors.New("store down")}

	var owner types.Owner
	handler := Identity(jwtCfg, testGuestConfig(), issuer, nil, nil)(guestHandler(&owner))

	req := httptest.NewRequest(http.MethodPost, "/cart/items", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("issuer failure must not fail the request, got %d", rec.Code)
	}
	if owner.Valid() {
		t.Fatalf("expected anonymous fallback, got %+v", owner)
	}
}

func TestRequireOwnerRejectsAnonymous(t *testing.T) {
	handler := RequireOwner(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestRequireOwnerPassesWithOwner(t *testing.T) {
	handler := RequireOwner(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req = req.WithContext(WithOwner(req.Context(), types.SessionOwner(uuid.New())))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}
