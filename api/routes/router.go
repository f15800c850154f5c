package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lacewalk/lacewalk-backend/api/controllers"
	"github.com/lacewalk/lacewalk-backend/api/middleware"
	"github.com/lacewalk/lacewalk-backend/internal/auth"
	"github.com/lacewalk/lacewalk-backend/internal/cart"
	"github.com/lacewalk/lacewalk-backend/internal/catalog"
	"github.com/lacewalk/lacewalk-backend/internal/guestsession"
	"github.com/lacewalk/lacewalk-backend/internal/wishlist"
	"github.com/lacewalk/lacewalk-backend/pkg/auth/session"
	"github.com/lacewalk/lacewalk-backend/pkg/config"
	"github.com/lacewalk/lacewalk-backend/pkg/logger"
	"github.com/lacewalk/lacewalk-backend/pkg/metrics"
	"github.com/lacewalk/lacewalk-backend/pkg/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             pinger
	Redis          *redis.Client
	SessionChecker session.AccessSessionChecker
	GuestIssuer    guestsession.Service
	AuthService    auth.Service
	CatalogService catalog.Service
	CartService    cart.Service
	WishService    wishlist.Service
	HTTPMetrics    *metrics.HTTPMetrics
	Throttle       *metrics.ThrottleMetrics
	Registry       *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS, cfg.Guest),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.ResolveGuest(cfg.Guest, deps.GuestIssuer, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, deps.Throttle, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, deps.Throttle, logg)).Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, deps.SessionChecker, logg)).Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.CatalogList(deps.CatalogService, logg))
		r.Get("/{productID}", controllers.CatalogDetail(deps.CatalogService, logg))
	})

	// Shopper surfaces work for accounts and guests alike. The identity
	// middleware settles which one the request acts as.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity(cfg.JWT, cfg.Guest, deps.GuestIssuer, deps.SessionChecker, logg))
		r.Use(middleware.RequireOwner(logg))

		r.Route("/api/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.CartService, logg))
			r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
			r.Put("/items/{variantID}", controllers.CartUpdateItem(deps.CartService, logg))
			r.Delete("/items/{variantID}", controllers.CartRemoveItem(deps.CartService, logg))
		})

		r.Route("/api/v1/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistGet(deps.WishService, logg))
			r.Post("/", controllers.WishlistLike(deps.WishService, logg))
			r.Delete("/", controllers.WishlistUnlike(deps.WishService, logg))
		})
	})

	return r
}
