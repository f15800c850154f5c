package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/lacewalk/lacewalk-backend/api/responses"
	pkgerrors "github.com/lacewalk/lacewalk-backend/pkg/errors"
	"github.com/lacewalk/lacewalk-backend/pkg/logger"
	"github.com/lacewalk/lacewalk-backend/pkg/metrics"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// AuthRateLimitPolicy defines the throttling parameters for one auth surface,
// such as login or register.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

// NewAuthRateLimitPolicy builds a policy with the supplied window and limits.
func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	return AuthRateLimitPolicy{
		name:       strings.ToLower(strings.TrimSpace(name)),
		window:     window,
		ipLimit:    ipLimit,
		emailLimit: emailLimit,
	}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

func (p AuthRateLimitPolicy) normalizedName() string {
	if p.name == "" {
		return "auth"
	}
	return p.name
}

// limitScope is one fixed-window counter a request must pass. The subject is
// the client IP for the ip scope and a sha256 hash for the email scope; raw
// emails stay out of redis keys and log lines.
type limitScope struct {
	kind    string
	subject string
	key     string
	limit   int
}

func (p AuthRateLimitPolicy) ipScope(r *http.Request) (limitScope, bool) {
	if p.ipLimit <= 0 {
		return limitScope{}, false
	}
	ip := clientIP(r)
	if ip == "" {
		return limitScope{}, false
	}
	return limitScope{
		kind:    "ip",
		subject: ip,
		key:     fmt.Sprintf("rl:ip:%s:%s", p.normalizedName(), ip),
		limit:   p.ipLimit,
	}, true
}

func (p AuthRateLimitPolicy) emailScope(body []byte) (limitScope, bool) {
	if p.emailLimit <= 0 {
		return limitScope{}, false
	}
	email := normalizeEmail(extractEmail(body))
	if email == "" {
		return limitScope{}, false
	}
	hash := hashValue(email)
	return limitScope{
		kind:    "email",
		subject: hash,
		key:     fmt.Sprintf("rl:email:%s:%s", p.normalizedName(), hash),
		limit:   p.emailLimit,
	}, true
}

// AuthRateLimit enforces the policy's per-IP and per-email counters in front
// of an auth endpoint. Limit hits land on the throttle metrics and in the
// logs; the shopper gets a bare rate-limit error either way.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, throttle *metrics.ThrottleMetrics, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			scopes := make([]limitScope, 0, 2)
			if scope, ok := policy.ipScope(r); ok {
				scopes = append(scopes, scope)
			}

			if policy.emailLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				// The body is consumed to read the email; restore it
				// for the handler behind us.
				r.Body = io.NopCloser(bytes.NewReader(body))

				if scope, ok := policy.emailScope(body); ok {
					scopes = append(scopes, scope)
				}
			}

			for _, scope := range scopes {
				count, err := store.IncrWithTTL(ctx, scope.key, policy.window)
				if err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if count > int64(scope.limit) {
					throttle.ObserveBlocked(policy.normalizedName(), scope.kind)
					if logg != nil {
						logCtx := logg.WithFields(ctx, map[string]any{
							"scope":          scope.kind,
							"subject":        scope.subject,
							"policy":         policy.normalizedName(),
							"attempts":       count,
							"limit":          scope.limit,
							"window_seconds": int(policy.window.Seconds()),
						})
						logg.Warn(logCtx, "auth.rate_limit.blocked")
					}
					responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func extractEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Email
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
