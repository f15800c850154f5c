package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/lacewalk/lacewalk-backend/pkg/config"
)

// CORS returns middleware that applies the API's allowed origin policy. The
// guest session header is exposed so browser clients can persist it.
func CORS(cfg config.CORSConfig, guest config.GuestConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", guest.HeaderName},
		ExposedHeaders:   []string{guest.HeaderName},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
