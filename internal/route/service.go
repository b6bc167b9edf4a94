package route

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noteroute/noteroute/internal/note"
	"github.com/noteroute/noteroute/internal/planner"
)

// Service errors.
var (
	ErrNameRequired   = errors.New("route name is required")
	ErrPlacesRequired = errors.New("at least one place is required")
)

// ServiceConfig holds configuration for the route service.
type ServiceConfig struct {
	// Repository persists routes (required).
	Repository Repository

	// Logger for service operations.
	Logger zerolog.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time

	// NewID overrides ID generation, for tests.
	NewID func() string
}

// Service owns saved-route business logic over a Repository.
type Service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
	newID  func() string
}

// NewService creates a route service from config, applying defaults.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	newID := cfg.NewID
	if newID == nil {
		newID = func() string { return "rt_" + uuid.NewString() }
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
		now:    now,
		newID:  newID,
	}
}

// SaveInput is the material for a new saved route.
type SaveInput struct {
	Name        string
	Description string
	Source      string
	SourceURL   string
	Places      []note.Place
	Planned     *planner.PlannedRoute
	Tags        []string
}

// Save validates and persists a new route, assigning its ID and
// timestamps.
func (s *Service) Save(ctx context.Context, in SaveInput) (*SavedRoute, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrNameRequired
	}
	if len(in.Places) == 0 {
		return nil, ErrPlacesRequired
	}

	now := s.now()
	saved := &SavedRoute{
		ID:          s.newID(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Source:      in.Source,
		SourceURL:   in.SourceURL,
		Places:      in.Places,
		Tags:        in.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Planned != nil {
		saved.Route = in.Planned.Route
		saved.DistanceKm = in.Planned.DistanceKm
		saved.DurationMinutes = in.Planned.DurationMinutes
	}

	if err := s.repo.Create(ctx, saved); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("route_id", saved.ID).
		Str("name", saved.Name).
		Int("places", len(saved.Places)).
		Msg("route saved")

	return saved, nil
}

// Get retrieves a route by ID.
func (s *Service) Get(ctx context.Context, id string) (*SavedRoute, error) {
	return s.repo.Get(ctx, id)
}

// List retrieves routes newest first.
func (s *Service) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	return s.repo.List(ctx, opts)
}

// Search retrieves routes matching the query. An empty query behaves
// like List.
func (s *Service) Search(ctx context.Context, query string, opts ListOptions) (*ListResult, error) {
	if strings.TrimSpace(query) == "" {
		return s.repo.List(ctx, opts)
	}
	return s.repo.Search(ctx, query, opts)
}

// Delete removes a route by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("route_id", id).Msg("route deleted")
	return nil
}

// Statistics summarizes the stored routes.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	return s.repo.Statistics(ctx)
}
