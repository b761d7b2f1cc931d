package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/careerhub/careerhub/internal/middleware"
)

// Routes groups the handlers mounted by NewRouter.
type Routes struct {
	Root         *Handler
	Health       *HealthHandler
	Metrics      *MetricsHandler
	Jobs         *JobHandler
	Applications *ApplicationHandler
	Auth         *AuthHandler
	Payments     *PaymentHandler
}

// RouterConfig holds the middleware settings for NewRouter.
type RouterConfig struct {
	Logger             *slog.Logger
	Security           middleware.SecurityConfig
	CORS               middleware.CORSConfig
	RateLimit          middleware.RateLimitConfig
	MaxRequestBodySize int64
}

// Rate limit buckets. Routes in one bucket share a per-IP budget.
const (
	bucketAuth     = "auth"
	bucketApply    = "apply"
	bucketPayments = "payments"
)

// NewRouter mounts every route with its middleware chain.
func NewRouter(routes Routes, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(cfg.Security))
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.MaxRequestBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
	}

	r.Get("/", routes.Root.Root)
	r.Get("/healthz", routes.Health.Healthz)
	r.Get("/readyz", routes.Health.Readyz)
	r.Get("/metrics", routes.Metrics.Metrics)

	r.Get("/jobs", routes.Jobs.List)
	r.Get("/jobs/{id}", routes.Jobs.Get)

	r.Get("/applications", routes.Applications.List)
	r.With(middleware.RateLimitIP(cfg.RateLimit, bucketApply)).Post("/apply", routes.Applications.Apply)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitIP(cfg.RateLimit, bucketAuth))
		r.Post("/jwt", routes.Auth.Issue)
		r.Post("/logout", routes.Auth.Logout)
	})

	r.With(middleware.RateLimitIP(cfg.RateLimit, bucketPayments)).Post("/create-payment-intent", routes.Payments.CreateIntent)

	r.NotFound(routes.Root.NotFound)
	r.MethodNotAllowed(routes.Root.MethodNotAllowed)

	return r
}
