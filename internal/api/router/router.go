package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/alertflow/alertflow/internal/api/docs"
	"github.com/alertflow/alertflow/internal/api/handlers"
	"github.com/alertflow/alertflow/internal/api/middleware"
	"github.com/alertflow/alertflow/internal/config"
	"github.com/alertflow/alertflow/internal/pkg/errors"
	"github.com/alertflow/alertflow/internal/pkg/logger"
	"github.com/alertflow/alertflow/internal/pkg/metrics"
	"github.com/alertflow/alertflow/internal/pkg/utils"
)

// Function endpoint paths. Each is also served under /api/v1.
const (
	ShareAlertPath   = "/functions/v1/share-alert"
	ExportAlertsPath = "/functions/v1/export-alerts"
)

type Handlers struct {
	Health *handlers.HealthHandler
	Share  *handlers.ShareHandler
	Export *handlers.ExportHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers, limiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(metrics.Middleware)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, errors.NotFound("Route"))
	})

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
		r.Use(middleware.Recovery(log))

		// Swagger documentation
		r.Get("/swagger/*", httpSwagger.WrapHandler)

		// Health checks
		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)

		r.Handle("/metrics", metrics.Handler())
	})

	// Share and export endpoints. Every method reaches the handler so that
	// preflights get their CORS answer and wrong methods get a JSON 405.
	// Recovery sits inside the CORS layer so a 500 still carries its headers.
	r.Group(func(r chi.Router) {
		r.Use(middleware.PermissiveCORS)
		r.Use(middleware.Recovery(log))
		r.Use(middleware.OptionalAuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.Audience))
		r.Use(limiter.Middleware)
		r.Use(middleware.SecurityHeaders(cfg.IsProduction()))

		for _, prefix := range []string{"/functions/v1", "/api/v1"} {
			r.Handle(prefix+"/share-alert", http.HandlerFunc(h.Share.Handle))
			r.Handle(prefix+"/export-alerts", http.HandlerFunc(h.Export.Export))
		}
	})

	return r
}
