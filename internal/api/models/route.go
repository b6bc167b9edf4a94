package models

import (
	"strings"

	"github.com/noteroute/noteroute/internal/note"
	"github.com/noteroute/noteroute/internal/planner"
	"github.com/noteroute/noteroute/pkg/geo"
)

// PlanPlace is one waypoint in a plan request.
type PlanPlace struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PlanRouteRequest is the request body for POST /v1/routes/plan.
type PlanRouteRequest struct {
	Places []PlanPlace `json:"places"`

	// Loop selects the loop-closing policy: "auto" (default), "always",
	// or "never".
	Loop string `json:"loop"`
}

// Validate returns field errors for an invalid request.
func (r *PlanRouteRequest) Validate() []FieldError {
	var errs []FieldError

	if len(r.Places) < 2 {
		errs = append(errs, FieldError{
			Field:   "places",
			Message: "at least 2 places are required to plan a route",
			Code:    "too_few",
		})
	}
	for _, p := range r.Places {
		if err := geo.Validate(geo.Point{Lat: p.Latitude, Lon: p.Longitude}); err != nil {
			errs = append(errs, FieldError{
				Field:   "places",
				Message: "place " + p.Name + " has invalid coordinates",
				Code:    "invalid_coordinates",
			})
		}
	}

	switch r.Loop {
	case "", "auto", "always", "never":
	default:
		errs = append(errs, FieldError{
			Field:   "loop",
			Message: "loop must be one of auto, always, never",
			Code:    "invalid_value",
		})
	}

	return errs
}

// LoopPolicy maps the request loop value onto the planner policy.
func (r *PlanRouteRequest) LoopPolicy(fallback planner.LoopPolicy) planner.LoopPolicy {
	switch r.Loop {
	case "auto":
		return planner.LoopAuto
	case "always":
		return planner.LoopAlways
	case "never":
		return planner.LoopNever
	default:
		return fallback
	}
}

// ToPlaces converts the request waypoints into domain places.
func (r *PlanRouteRequest) ToPlaces() []note.Place {
	places := make([]note.Place, 0, len(r.Places))
	for _, p := range r.Places {
		places = append(places, note.Place{
			Name:        p.Name,
			Coordinates: note.Coordinates{Latitude: p.Latitude, Longitude: p.Longitude},
		})
	}
	return places
}

// PlanRouteResponse is the response body for POST /v1/routes/plan.
type PlanRouteResponse struct {
	Route           []planner.RoutePoint `json:"route"`
	Geometry        string               `json:"geometry"`
	DistanceKm      float64              `json:"distance"`
	DurationMinutes int                  `json:"duration"`
	Waypoints       int                  `json:"waypoints"`
}

// NewPlanRouteResponse converts a planned route into the response shape.
func NewPlanRouteResponse(planned *planner.PlannedRoute) *PlanRouteResponse {
	return &PlanRouteResponse{
		Route:           planned.Route,
		Geometry:        planned.Geometry,
		DistanceKm:      planned.DistanceKm,
		DurationMinutes: planned.DurationMinutes,
		Waypoints:       planned.Waypoints,
	}
}

// SaveRouteRequest is the request body for POST /v1/routes.
type SaveRouteRequest struct {
	Name            string               `json:"name"`
	Description     string               `json:"description"`
	Source          string               `json:"source"`
	SourceURL       string               `json:"source_url"`
	Places          []note.Place         `json:"places"`
	Route           []planner.RoutePoint `json:"route"`
	DistanceKm      float64              `json:"distance"`
	DurationMinutes int                  `json:"duration"`
	Tags            []string             `json:"tags"`
}

// Validate returns field errors for an invalid request.
func (r *SaveRouteRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required", Code: "required"})
	}
	if len(r.Places) == 0 {
		errs = append(errs, FieldError{Field: "places", Message: "at least one place is required", Code: "required"})
	}
	return errs
}
