package route

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/noteroute/noteroute/internal/note"
	"github.com/noteroute/noteroute/internal/planner"
)

// InMemoryRepository is an in-memory implementation of Repository,
// used in tests and when no database is configured.
type InMemoryRepository struct {
	mu     sync.RWMutex
	routes map[string]*SavedRoute
}

// NewInMemoryRepository creates a new in-memory route repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		routes: make(map[string]*SavedRoute),
	}
}

// Create persists a new route.
func (r *InMemoryRepository) Create(_ context.Context, route *SavedRoute) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.routes[route.ID] = copyRoute(route)
	return nil
}

// Get retrieves a route by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*SavedRoute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	route, ok := r.routes[id]
	if !ok {
		return nil, ErrRouteNotFound
	}
	return copyRoute(route), nil
}

// List retrieves routes newest first, with pagination.
func (r *InMemoryRepository) List(_ context.Context, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return paginate(r.sorted(), opts), nil
}

// Search retrieves routes matching the query, newest first.
func (r *InMemoryRepository) Search(_ context.Context, query string, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(query))

	var matched []*SavedRoute
	for _, route := range r.sorted() {
		if matchesQuery(route, needle) {
			matched = append(matched, route)
		}
	}
	return paginate(matched, opts), nil
}

// Delete removes a route by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.routes[id]; !ok {
		return ErrRouteNotFound
	}
	delete(r.routes, id)
	return nil
}

// Statistics summarizes the stored routes.
func (r *InMemoryRepository) Statistics(_ context.Context) (*Statistics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &Statistics{BySource: make(map[string]int)}
	for _, route := range r.routes {
		stats.TotalRoutes++
		stats.TotalPlaces += len(route.Places)
		stats.TotalDistanceKm += route.DistanceKm
		if route.Source != "" {
			stats.BySource[route.Source]++
		}
	}
	return stats, nil
}

// sorted returns all routes newest first. Caller holds r.mu.
func (r *InMemoryRepository) sorted() []*SavedRoute {
	routes := make([]*SavedRoute, 0, len(r.routes))
	for _, route := range r.routes {
		routes = append(routes, route)
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].CreatedAt.Equal(routes[j].CreatedAt) {
			return routes[i].ID > routes[j].ID
		}
		return routes[i].CreatedAt.After(routes[j].CreatedAt)
	})
	return routes
}

func matchesQuery(route *SavedRoute, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(route.Name), needle) ||
		strings.Contains(strings.ToLower(route.Description), needle) {
		return true
	}
	for _, tag := range route.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	for _, place := range route.Places {
		if strings.Contains(strings.ToLower(place.Name), needle) {
			return true
		}
	}
	return false
}

func paginate(routes []*SavedRoute, opts ListOptions) *ListResult {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	if offset >= len(routes) {
		return &ListResult{Routes: []*SavedRoute{}}
	}

	end := offset + limit
	hasMore := end < len(routes)
	if end > len(routes) {
		end = len(routes)
	}

	page := make([]*SavedRoute, 0, end-offset)
	for _, route := range routes[offset:end] {
		page = append(page, copyRoute(route))
	}
	return &ListResult{Routes: page, HasMore: hasMore}
}

// copyRoute returns a deep copy to prevent mutation through shared
// slices.
func copyRoute(route *SavedRoute) *SavedRoute {
	c := *route
	c.Places = append([]note.Place(nil), route.Places...)
	c.Route = append([]planner.RoutePoint(nil), route.Route...)
	c.Tags = append([]string(nil), route.Tags...)
	return &c
}
