package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/noteroute/noteroute/internal/api/models"
	"github.com/noteroute/noteroute/internal/api/response"
	"github.com/noteroute/noteroute/internal/planner"
	"github.com/noteroute/noteroute/internal/route"
)

// RouteHandlerConfig holds configuration for the route handler.
type RouteHandlerConfig struct {
	// Routes is the saved-route service (required).
	Routes *route.Service

	// Planner is the base planner configuration; a plan request may
	// override the loop policy.
	Planner planner.Config
}

// RouteHandler handles route planning and saved-route endpoints.
type RouteHandler struct {
	routes     *route.Service
	plannerCfg planner.Config
}

// NewRouteHandler creates a route handler.
func NewRouteHandler(cfg RouteHandlerConfig) *RouteHandler {
	return &RouteHandler{
		routes:     cfg.Routes,
		plannerCfg: cfg.Planner,
	}
}

// PlanRoute handles POST /v1/routes/plan.
func (h *RouteHandler) PlanRoute(w http.ResponseWriter, r *http.Request) {
	var req models.PlanRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}
	if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
		response.BadRequest(w, r, "invalid plan request", fieldErrs)
		return
	}

	cfg := h.plannerCfg
	cfg.Loop = req.LoopPolicy(cfg.Loop)

	planned, err := planner.New(cfg).PlanWalkingRoute(req.ToPlaces())
	if err != nil {
		if errors.Is(err, planner.ErrTooFewPlaces) {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		response.InternalError(w, r, "failed to plan the route")
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewPlanRouteResponse(planned))
}

// SaveRoute handles POST /v1/routes.
func (h *RouteHandler) SaveRoute(w http.ResponseWriter, r *http.Request) {
	var req models.SaveRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}
	if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
		response.BadRequest(w, r, "invalid route", fieldErrs)
		return
	}

	saved, err := h.routes.Save(r.Context(), route.SaveInput{
		Name:        req.Name,
		Description: req.Description,
		Source:      req.Source,
		SourceURL:   req.SourceURL,
		Places:      req.Places,
		Tags:        req.Tags,
		Planned: &planner.PlannedRoute{
			Route:           req.Route,
			DistanceKm:      req.DistanceKm,
			DurationMinutes: req.DurationMinutes,
			Waypoints:       len(req.Route),
		},
	})
	if err != nil {
		if errors.Is(err, route.ErrNameRequired) || errors.Is(err, route.ErrPlacesRequired) {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		response.InternalError(w, r, "failed to save the route")
		return
	}

	response.Created(w, r, "/v1/routes/"+saved.ID, saved)
}

// ListRoutes handles GET /v1/routes. A q parameter switches to search.
func (h *RouteHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	opts := listOptionsFromQuery(r)
	query := r.URL.Query().Get("q")

	result, err := h.routes.Search(r.Context(), query, opts)
	if err != nil {
		response.InternalError(w, r, "failed to list routes")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// GetRoute handles GET /v1/routes/{routeID}.
func (h *RouteHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "routeID")

	saved, err := h.routes.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, route.ErrRouteNotFound) {
			response.NotFound(w, r, "route "+id+" does not exist")
			return
		}
		response.InternalError(w, r, "failed to load the route")
		return
	}

	response.JSON(w, r, http.StatusOK, saved)
}

// DeleteRoute handles DELETE /v1/routes/{routeID}.
func (h *RouteHandler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "routeID")

	if err := h.routes.Delete(r.Context(), id); err != nil {
		if errors.Is(err, route.ErrRouteNotFound) {
			response.NotFound(w, r, "route "+id+" does not exist")
			return
		}
		response.InternalError(w, r, "failed to delete the route")
		return
	}

	response.NoContent(w, r)
}

// GetStatistics handles GET /v1/routes/stats.
func (h *RouteHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.routes.Statistics(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to compute route statistics")
		return
	}

	response.JSON(w, r, http.StatusOK, stats)
}

func listOptionsFromQuery(r *http.Request) route.ListOptions {
	var opts route.ListOptions
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		opts.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		opts.Offset = offset
	}
	return opts
}
