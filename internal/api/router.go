// Package api provides the HTTP API for the note-route service.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/noteroute/noteroute/internal/api/handler"
	"github.com/noteroute/noteroute/internal/api/middleware"
	"github.com/noteroute/noteroute/internal/fetcher"
	"github.com/noteroute/noteroute/internal/parser/llm"
	"github.com/noteroute/noteroute/internal/planner"
	"github.com/noteroute/noteroute/internal/route"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	ServiceName string
	Logger      zerolog.Logger

	// Metrics instruments HTTP requests (optional).
	Metrics *middleware.Metrics

	// ParseMetrics instruments note-parse outcomes (optional).
	ParseMetrics *middleware.ParseMetrics

	// Parser resolves notes through the extraction strategies.
	Parser handler.NoteParser

	// Source fetches note pages for URL-only parse requests (optional).
	Source fetcher.Source

	// Routes is the saved-route service.
	Routes *route.Service

	// Planner is the base walking-route planner configuration.
	Planner planner.Config

	// DB reports database reachability for the status endpoint (optional).
	DB handler.Pinger

	// ModelUsage reports model-call consumption (optional).
	ModelUsage func() *llm.UsageStats
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "noteroute-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequireJSON)
	r.Use(middleware.ContentTypeJSON)

	var strategies []string
	if cfg.Parser != nil {
		strategies = cfg.Parser.Strategies()
	}

	noteHandler := handler.NewNoteHandler(handler.NoteHandlerConfig{
		Parser:  cfg.Parser,
		Source:  cfg.Source,
		Metrics: cfg.ParseMetrics,
		Logger:  cfg.Logger,
	})
	routeHandler := handler.NewRouteHandler(handler.RouteHandlerConfig{
		Routes:  cfg.Routes,
		Planner: cfg.Planner,
	})
	opsHandler := handler.NewOpsHandler(handler.OpsHandlerConfig{
		Version:    cfg.Version,
		BuildTime:  cfg.BuildTime,
		DB:         cfg.DB,
		Strategies: strategies,
		ModelUsage: cfg.ModelUsage,
	})

	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit)
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)

	// Ops endpoints (public, unmetered)
	r.Get("/healthz", opsHandler.Health)
	r.Get("/version", opsHandler.Version)

	r.Route("/v1", func(r chi.Router) {
		// Parse fans out to page fetches and model calls - strict tier
		r.With(expensiveRateLimit).Post("/notes/parse", noteHandler.ParseNote)

		r.Route("/routes", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Post("/plan", routeHandler.PlanRoute)
			r.Get("/stats", routeHandler.GetStatistics)
			r.Get("/", routeHandler.ListRoutes)
			r.Post("/", routeHandler.SaveRoute)
			r.Route("/{routeID}", func(r chi.Router) {
				r.Get("/", routeHandler.GetRoute)
				r.Delete("/", routeHandler.DeleteRoute)
			})
		})

		r.Route("/ops", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/status", opsHandler.Status)
		})
	})

	return r
}
