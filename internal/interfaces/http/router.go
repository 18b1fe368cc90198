// Package http exposes the lifecycle service over a chi router.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Lifecycle/internal/interfaces/http/handlers"
	"github.com/turtacn/KeyIP-Lifecycle/internal/interfaces/http/middleware"
)

// DefaultMetricsPath is where MetricsHandler is mounted when MetricsPath is
// empty.
const DefaultMetricsPath = "/metrics"

// RouterConfig aggregates the handlers and middleware dependencies of the
// route tree.  Nil handlers leave their routes unregistered.
type RouterConfig struct {
	// Handlers
	TemplateHandler  *handlers.TemplateHandler
	PatentHandler    *handlers.PatentHandler
	PortfolioHandler *handlers.PortfolioHandler
	HealthHandler    *handlers.HealthHandler

	// Infrastructure
	Logger         logging.Logger
	LoggingConfig  *middleware.LoggingConfig
	Metrics        middleware.HTTPMetrics
	MetricsHandler http.Handler
	MetricsPath    string
	MaxBodySize    int64
}

// NewRouter builds the route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// --- Global middleware ---
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	logCfg := middleware.DefaultLoggingConfig()
	if cfg.LoggingConfig != nil {
		logCfg = *cfg.LoggingConfig
	}
	r.Use(middleware.RequestLogging(cfg.Logger, logCfg))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(chimw.Recoverer)
	if cfg.MaxBodySize > 0 {
		r.Use(chimw.RequestSize(cfg.MaxBodySize))
	}

	// --- Health ---
	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/healthz/detail", cfg.HealthHandler.Detailed)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = DefaultMetricsPath
		}
		r.Handle(path, cfg.MetricsHandler)
	}

	// --- API v1 ---
	r.Route("/api/v1", func(api chi.Router) {
		registerTemplateRoutes(api, cfg.TemplateHandler)
		registerPatentRoutes(api, cfg.PatentHandler)
		registerPortfolioRoutes(api, cfg.PortfolioHandler)
	})

	return r
}

// registerTemplateRoutes mounts the stage template registry under /templates.
func registerTemplateRoutes(r chi.Router, h *handlers.TemplateHandler) {
	if h == nil {
		return
	}
	r.Route("/templates", func(tr chi.Router) {
		tr.Get("/", h.List)
		tr.Post("/", h.Add)
		tr.Patch("/{id}", h.Update)
		tr.Delete("/{id}", h.Remove)
	})
}

// registerPatentRoutes mounts patents and their stages under /patents.
func registerPatentRoutes(r chi.Router, h *handlers.PatentHandler) {
	if h == nil {
		return
	}
	r.Route("/patents", func(pr chi.Router) {
		pr.Get("/", h.List)
		pr.Post("/", h.Create)
		pr.Route("/{id}", func(item chi.Router) {
			item.Get("/", h.Get)
			item.Delete("/", h.Delete)
			item.Patch("/stages/{stageID}", h.UpdateStage)
		})
	})
}

// registerPortfolioRoutes mounts the read-only views under /portfolio.
func registerPortfolioRoutes(r chi.Router, h *handlers.PortfolioHandler) {
	if h == nil {
		return
	}
	r.Route("/portfolio", func(pr chi.Router) {
		pr.Get("/dashboard", h.Dashboard)
		pr.Get("/history", h.History)
		pr.Get("/overdue", h.Overdue)
	})
}

//Personal.AI order the ending
