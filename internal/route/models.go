// Package route manages saved walking routes: the persisted outcome of
// parsing a note and planning a route over its places.
package route

import (
	"time"

	"github.com/noteroute/noteroute/internal/note"
	"github.com/noteroute/noteroute/internal/planner"
)

// SavedRoute is a persisted parse-and-plan result.
type SavedRoute struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	Description     string               `json:"description"`
	Source          string               `json:"source"`
	SourceURL       string               `json:"source_url"`
	Places          []note.Place         `json:"places"`
	Route           []planner.RoutePoint `json:"route"`
	DistanceKm      float64              `json:"distance"`
	DurationMinutes int                  `json:"duration"`
	Tags            []string             `json:"tags"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// ListOptions controls pagination for route listings.
type ListOptions struct {
	// Limit is the maximum number of routes to return (default: 50).
	Limit int

	// Offset is the number of routes to skip.
	Offset int
}

// ListResult is a page of routes.
type ListResult struct {
	Routes  []*SavedRoute `json:"routes"`
	HasMore bool          `json:"has_more"`
}

// Statistics summarizes the saved-route collection.
type Statistics struct {
	TotalRoutes     int            `json:"total_routes"`
	TotalPlaces     int            `json:"total_places"`
	TotalDistanceKm float64        `json:"total_distance_km"`
	BySource        map[string]int `json:"by_source"`
}
