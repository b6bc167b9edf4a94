package route

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noteroute/noteroute/internal/note"
	"github.com/noteroute/noteroute/internal/planner"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
// Places, route points, and tags are stored as JSONB columns; a route
// is always read and written as a whole.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL route repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const routeColumns = `
	id, name, description, source, source_url,
	places, route, distance_km, duration_minutes, tags,
	created_at, updated_at
`

// Create persists a new route.
func (r *PostgresRepository) Create(ctx context.Context, route *SavedRoute) error {
	places, routePoints, tags, err := marshalRouteJSON(route)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO routes (` + routeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.pool.Exec(ctx, query,
		route.ID,
		route.Name,
		route.Description,
		route.Source,
		route.SourceURL,
		places,
		routePoints,
		route.DistanceKm,
		route.DurationMinutes,
		tags,
		route.CreatedAt,
		route.UpdatedAt,
	)
	return err
}

// Get retrieves a route by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*SavedRoute, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE id = $1`

	route, err := scanRoute(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}
	return route, nil
}

// List retrieves routes newest first, with pagination.
func (r *PostgresRepository) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	query := `
		SELECT ` + routeColumns + `
		FROM routes
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	return r.queryPage(ctx, query, opts)
}

// Search retrieves routes matching the query, newest first. Matching
// covers name, description, tags, and place names.
func (r *PostgresRepository) Search(ctx context.Context, search string, opts ListOptions) (*ListResult, error) {
	query := `
		SELECT ` + routeColumns + `
		FROM routes
		WHERE name ILIKE '%' || $3 || '%'
		   OR description ILIKE '%' || $3 || '%'
		   OR tags::text ILIKE '%' || $3 || '%'
		   OR places::text ILIKE '%' || $3 || '%'
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	return r.queryPage(ctx, query, opts, search)
}

// Delete removes a route by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM routes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRouteNotFound
	}
	return nil
}

// Statistics summarizes the stored routes.
func (r *PostgresRepository) Statistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{BySource: make(map[string]int)}

	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(jsonb_array_length(places)), 0),
			COALESCE(SUM(distance_km), 0)
		FROM routes
	`).Scan(&stats.TotalRoutes, &stats.TotalPlaces, &stats.TotalDistanceKm)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT source, COUNT(*)
		FROM routes
		WHERE source <> ''
		GROUP BY source
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, err
		}
		stats.BySource[source] = count
	}
	return stats, rows.Err()
}

// queryPage runs a paginated route query. The limit and offset are
// always the first two placeholders.
func (r *PostgresRepository) queryPage(ctx context.Context, query string, opts ListOptions, extra ...any) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	// Fetch one extra row to determine if there are more results.
	args := append([]any{limit + 1, offset}, extra...)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := []*SavedRoute{}
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hasMore := len(routes) > limit
	if hasMore {
		routes = routes[:limit]
	}
	return &ListResult{Routes: routes, HasMore: hasMore}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoute(row rowScanner) (*SavedRoute, error) {
	var route SavedRoute
	var places, routePoints, tags []byte

	err := row.Scan(
		&route.ID,
		&route.Name,
		&route.Description,
		&route.Source,
		&route.SourceURL,
		&places,
		&routePoints,
		&route.DistanceKm,
		&route.DurationMinutes,
		&tags,
		&route.CreatedAt,
		&route.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(places, &route.Places); err != nil {
		return nil, fmt.Errorf("decoding places for route %s: %w", route.ID, err)
	}
	if err := json.Unmarshal(routePoints, &route.Route); err != nil {
		return nil, fmt.Errorf("decoding route points for route %s: %w", route.ID, err)
	}
	if err := json.Unmarshal(tags, &route.Tags); err != nil {
		return nil, fmt.Errorf("decoding tags for route %s: %w", route.ID, err)
	}
	return &route, nil
}

func marshalRouteJSON(route *SavedRoute) (places, routePoints, tags []byte, err error) {
	if route.Places == nil {
		route.Places = []note.Place{}
	}
	if route.Route == nil {
		route.Route = []planner.RoutePoint{}
	}
	if route.Tags == nil {
		route.Tags = []string{}
	}

	if places, err = json.Marshal(route.Places); err != nil {
		return nil, nil, nil, fmt.Errorf("encoding places: %w", err)
	}
	if routePoints, err = json.Marshal(route.Route); err != nil {
		return nil, nil, nil, fmt.Errorf("encoding route points: %w", err)
	}
	if tags, err = json.Marshal(route.Tags); err != nil {
		return nil, nil, nil, fmt.Errorf("encoding tags: %w", err)
	}
	return places, routePoints, tags, nil
}
