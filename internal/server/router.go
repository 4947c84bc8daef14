package server

import (
	"net/http"

	clickshttp "go-linktrack/internal/clicks/delivery/http"
	"go-linktrack/internal/folders"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter creates a new Chi router with all middleware and routes
func NewRouter(
	clicks *clickshttp.Handler,
	folderHandler *folders.Handler,
	health *HealthHandler,
	rateLimiter *RateLimiter,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware chain
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.With(rateLimiter.Middleware).Post("/track/click", clicks.TrackClick)
		r.Patch("/folders/{folderId}/users/{userId}", folderHandler.UpdateUserRole)
	})

	// Root-level redirect route
	r.Get("/{key}", clicks.Redirect)

	return r
}
