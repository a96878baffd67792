/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logging:    zap request log + Prometheus HTTP metrics
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. RealIP:     Only with TrustProxy, client address from proxy headers
  5. RateLimit:  Per-client token bucket (disabled when rps is 0)
  6. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/period-types     Registry listing
  /api/periods/*        Resolution and calendars
  /api/runs/*           Persisted extraction runs
  /metrics              Prometheus scrape endpoint
  /healthz              Liveness with database ping

SECURITY NOTE:
  No authentication middleware. All endpoints are read-only except
  POST /api/runs.

SEE ALSO:
  - handlers.go: Handler implementations
  - middleware.go: Logging, metrics and rate limiting
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions carries transport settings from configuration.
type RouterOptions struct {
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int

	// TrustProxy keys clients on X-Forwarded-For / X-Real-IP. Enable only
	// behind a proxy that sets these headers itself.
	TrustProxy bool
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(LoggingMiddleware(h.Logger, "/metrics", "/healthz"))
	r.Use(middleware.Recoverer)
	if opts.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(RateLimitMiddleware(opts.RateLimitRPS, opts.RateLimitBurst))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", h.Health)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/period-types", h.ListPeriodTypes)

		// Period routes
		r.Route("/periods", func(r chi.Router) {
			r.Get("/resolve", h.ResolvePeriod)
			r.Get("/calendar", h.PeriodCalendar)
			r.Get("/latest", h.LatestClosedPeriod)
		})

		// Run routes
		r.Route("/runs", func(r chi.Router) {
			r.Get("/", h.ListRuns)
			r.Post("/", h.CreateRun)
			r.Get("/label/{label}", h.RunsByLabel)
			r.Get("/{id}", h.GetRun)
		})
	})

	return r
}
