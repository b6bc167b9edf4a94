// Package planner turns an ordered place list into a walking-route
// summary with estimated distance and duration.
package planner

import (
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/noteroute/noteroute/internal/note"
	"github.com/noteroute/noteroute/pkg/geo"
	"github.com/noteroute/noteroute/pkg/polyline"
)

// Planner errors.
var (
	// ErrTooFewPlaces indicates fewer than two places were supplied.
	ErrTooFewPlaces = errors.New("at least 2 places are required to plan a route")
)

// LoopPolicy controls whether the route is closed back to its start.
type LoopPolicy int

const (
	// LoopAuto closes the loop whenever the route has more than two
	// places. This mirrors the historical behavior of treating longer
	// notes as circular walks; point-to-point callers should prefer
	// LoopNever.
	LoopAuto LoopPolicy = iota
	// LoopAlways closes the loop for every planned route.
	LoopAlways
	// LoopNever leaves the route open.
	LoopNever
)

// DefaultWalkingSpeedKmh is the assumed walking pace for duration
// estimates.
const DefaultWalkingSpeedKmh = 5.0

// Config holds configuration for the planner.
type Config struct {
	// Loop selects the loop-closing policy (default: LoopAuto).
	Loop LoopPolicy

	// WalkingSpeedKmh overrides the assumed walking speed (default: 5).
	WalkingSpeedKmh float64

	// Logger for planner operations.
	Logger zerolog.Logger
}

// Planner computes walking-route summaries.
type Planner struct {
	loop   LoopPolicy
	speed  float64
	logger zerolog.Logger
}

// New creates a Planner from config, applying defaults.
func New(cfg Config) *Planner {
	speed := cfg.WalkingSpeedKmh
	if speed <= 0 {
		speed = DefaultWalkingSpeedKmh
	}

	return &Planner{
		loop:   cfg.Loop,
		speed:  speed,
		logger: cfg.Logger,
	}
}

// RoutePoint is one coordinate along the planned route, in input order.
type RoutePoint struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Elevation *float64   `json:"elevation"`
	Timestamp *time.Time `json:"timestamp"`
}

// PlannedRoute is the walking-route summary for an ordered place list.
// Geometry is the polyline-encoded route for map rendering.
type PlannedRoute struct {
	Route           []RoutePoint `json:"route"`
	Geometry        string       `json:"geometry"`
	DistanceKm      float64      `json:"distance"`
	DurationMinutes int          `json:"duration"`
	Waypoints       int          `json:"waypoints"`
}

// PlanWalkingRoute computes the route summary for the given places in
// input order. Returns ErrTooFewPlaces for fewer than two places.
// Distance sums consecutive great-circle segments; depending on the
// loop policy a closing segment back to the first place is added.
// Duration is rounded from distance at the configured walking speed.
func (p *Planner) PlanWalkingRoute(places []note.Place) (*PlannedRoute, error) {
	if len(places) < 2 {
		return nil, ErrTooFewPlaces
	}

	points := make([]geo.Point, len(places))
	for i, place := range places {
		points[i] = geo.Point{Lat: place.Coordinates.Latitude, Lon: place.Coordinates.Longitude}
	}

	distance := geo.PathDistance(points)
	if p.closeLoop(len(points)) {
		distance += geo.Haversine(points[len(points)-1], points[0])
	}

	duration := int(math.Round(distance / p.speed * 60))

	route := make([]RoutePoint, len(places))
	coords := make([]polyline.Coordinate, len(places))
	for i, place := range places {
		route[i] = RoutePoint{
			Latitude:  place.Coordinates.Latitude,
			Longitude: place.Coordinates.Longitude,
		}
		coords[i] = polyline.Coordinate{
			Lat: place.Coordinates.Latitude,
			Lon: place.Coordinates.Longitude,
		}
	}

	p.logger.Debug().
		Int("waypoints", len(places)).
		Float64("distance_km", distance).
		Int("duration_min", duration).
		Msg("planned walking route")

	return &PlannedRoute{
		Route:           route,
		Geometry:        polyline.Encode(coords),
		DistanceKm:      distance,
		DurationMinutes: duration,
		Waypoints:       len(places),
	}, nil
}

// closeLoop decides whether a closing segment is added for a route of
// the given length.
func (p *Planner) closeLoop(n int) bool {
	switch p.loop {
	case LoopAlways:
		return true
	case LoopNever:
		return false
	default:
		return n > 2
	}
}
