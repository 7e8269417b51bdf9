package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iho/gowallet/internal/adapter/http/handler"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler     *handler.AuthHandler
	WalletHandler   *handler.WalletHandler
	TransferHandler *handler.TransferHandler
	HealthHandler   *handler.HealthHandler

	TokenVerifier middleware.TokenVerifier

	// Optional.
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler
	Logger           *zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggingMiddleware(logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics(cfg.Metrics))
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(cfg.TokenVerifier, cfg.Metrics))

			// Keys are scoped by caller, so this runs after authentication.
			if cfg.IdempotencyStore != nil {
				r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
			}

			r.Post("/auth/refresh", cfg.AuthHandler.Refresh)

			r.Route("/wallet", func(r chi.Router) {
				r.Get("/", cfg.WalletHandler.Get)
				r.Post("/deposit", cfg.WalletHandler.Deposit)
				r.Post("/withdraw", cfg.WalletHandler.Withdraw)
				r.Get("/reconciliation", cfg.WalletHandler.Reconcile)
			})

			r.Route("/transfers", func(r chi.Router) {
				r.Post("/", cfg.TransferHandler.Create)
				r.Get("/history", cfg.TransferHandler.History)
			})
		})
	})

	return r
}
