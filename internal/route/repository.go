package route

import (
	"context"
	"errors"
)

// Repository errors.
var (
	ErrRouteNotFound = errors.New("route not found")
)

// Repository defines the interface for saved-route persistence.
type Repository interface {
	// Create persists a new route.
	Create(ctx context.Context, route *SavedRoute) error

	// Get retrieves a route by ID.
	Get(ctx context.Context, id string) (*SavedRoute, error)

	// List retrieves routes newest first, with pagination.
	List(ctx context.Context, opts ListOptions) (*ListResult, error)

	// Search retrieves routes whose name, description, tags, or place
	// names match the query, newest first.
	Search(ctx context.Context, query string, opts ListOptions) (*ListResult, error)

	// Delete removes a route by ID.
	Delete(ctx context.Context, id string) error

	// Statistics summarizes the stored routes.
	Statistics(ctx context.Context) (*Statistics, error)
}
