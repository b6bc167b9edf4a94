package handler

import (
	"context"
	"net/http"

	"github.com/noteroute/noteroute/internal/api/models"
	"github.com/noteroute/noteroute/internal/api/response"
	"github.com/noteroute/noteroute/internal/parser/llm"
)

// Pinger reports database reachability. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpsHandlerConfig holds configuration for the ops handler.
type OpsHandlerConfig struct {
	Version   string
	BuildTime string

	// DB is the database pool (optional; nil when running in-memory).
	DB Pinger

	// Strategies are the configured extraction strategy names.
	Strategies []string

	// ModelUsage reports model-call consumption (optional).
	ModelUsage func() *llm.UsageStats
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version    string
	buildTime  string
	db         Pinger
	strategies []string
	modelUsage func() *llm.UsageStats
}

// NewOpsHandler creates an ops handler.
func NewOpsHandler(cfg OpsHandlerConfig) *OpsHandler {
	return &OpsHandler{
		version:    cfg.Version,
		buildTime:  cfg.BuildTime,
		db:         cfg.DB,
		strategies: cfg.Strategies,
		modelUsage: cfg.ModelUsage,
	}
}

// Health handles GET /healthz.
func (h *OpsHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.HealthResponse{Status: "ok"})
}

// Version handles GET /version.
func (h *OpsHandler) Version(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.VersionResponse{
		Version:   h.version,
		BuildTime: h.buildTime,
	})
}

// Status handles GET /v1/ops/status.
func (h *OpsHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := models.StatusResponse{
		Status:     "ok",
		Database:   "not_configured",
		Strategies: h.strategies,
	}

	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			status.Status = "degraded"
			status.Database = "unreachable"
		} else {
			status.Database = "ok"
		}
	}
	if h.modelUsage != nil {
		status.ModelUsage = h.modelUsage()
	}

	response.JSON(w, r, http.StatusOK, status)
}
