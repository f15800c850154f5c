package validators

import (
	"net/http"
	"strings"
)

// BearerToken extracts the bearer token from the Authorization header,
// returning the empty string when none is present.
func BearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
