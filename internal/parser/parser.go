// Package parser orchestrates note-extraction strategies behind a single
// resolver chain with configurable fallback policy.
package parser

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/noteroute/noteroute/internal/note"
)

// Sentinel errors for parse operations.
var (
	// ErrEmptyNote indicates there was no note text to extract from.
	ErrEmptyNote = errors.New("note text is empty")
	// ErrNoPlaces indicates every strategy ran and none found a place.
	ErrNoPlaces = errors.New("no places could be extracted from the note")
)

// Input carries the note text and its source reference into an extractor.
type Input struct {
	// Text is the extracted note text. May be empty when only a URL was
	// supplied and no cached text exists.
	Text string
	// URL is the original note reference, opaque to the extractors.
	URL string
}

// Extractor is one extraction strategy. Implementations report failure
// through the error return; a nil extraction with nil error is treated
// as a miss.
type Extractor interface {
	// TryExtract attempts to extract places from the note.
	TryExtract(ctx context.Context, in Input) (*note.Extraction, error)
	// Name returns the strategy identifier for logging.
	Name() string
	// Available reports whether the strategy can currently be used.
	Available() bool
}

// TextCache supplies previously fetched note text keyed by source URL.
// The page-fetch collaborator populates it; absence of an entry is not
// an error.
type TextCache interface {
	Get(url string) (string, bool)
}

// ChainConfig holds configuration for the resolver chain.
type ChainConfig struct {
	// AI is the model-backed extractor (optional).
	AI Extractor

	// Rules is the rule-based extractor (optional).
	Rules Extractor

	// UseAIFirst places the AI extractor at the head of the chain.
	UseAIFirst bool

	// FallbackToRules appends the rule-based extractor after the AI
	// extractor. When UseAIFirst is false this makes rules the only
	// strategy.
	FallbackToRules bool

	// Cache is consulted for note text when a caller supplies only a
	// URL (optional).
	Cache TextCache

	// Logger for chain operations.
	Logger zerolog.Logger
}

// Chain resolves a note through an ordered list of strategies: the
// first strategy that yields at least one place wins; everything else,
// including a strategy that nominally succeeds with zero places, routes
// to the next strategy.
type Chain struct {
	strategies []Extractor
	cache      TextCache
	logger     zerolog.Logger
}

// NewChain builds the strategy order from the policy flags.
func NewChain(cfg ChainConfig) *Chain {
	var strategies []Extractor
	if cfg.UseAIFirst && cfg.AI != nil {
		strategies = append(strategies, cfg.AI)
	}
	if cfg.FallbackToRules && cfg.Rules != nil {
		strategies = append(strategies, cfg.Rules)
	}

	return &Chain{
		strategies: strategies,
		cache:      cfg.Cache,
		logger:     cfg.Logger,
	}
}

// Strategies returns the names of the configured strategies in order.
func (c *Chain) Strategies() []string {
	names := make([]string, 0, len(c.strategies))
	for _, s := range c.strategies {
		names = append(names, s.Name())
	}
	return names
}

// ParseNote runs the chain over the note. When text is empty and a URL
// is given, previously cached page text is used if present. Returns
// ErrEmptyNote when no usable text exists and ErrNoPlaces when every
// strategy comes up empty; both surface as "no result", never a panic.
func (c *Chain) ParseNote(ctx context.Context, text, url string) (*note.Extraction, error) {
	if text == "" && url != "" && c.cache != nil {
		if cached, ok := c.cache.Get(url); ok {
			c.logger.Debug().
				Str("url", url).
				Int("text_len", len(cached)).
				Msg("using cached note text")
			text = cached
		}
	}

	if text == "" {
		return nil, ErrEmptyNote
	}

	in := Input{Text: text, URL: url}

	for _, strategy := range c.strategies {
		if !strategy.Available() {
			c.logger.Debug().
				Str("strategy", strategy.Name()).
				Msg("strategy unavailable, skipping")
			continue
		}

		result, err := strategy.TryExtract(ctx, in)
		if err != nil {
			c.logger.Warn().Err(err).
				Str("strategy", strategy.Name()).
				Msg("extraction strategy failed")
			continue
		}
		if result == nil || result.PlaceCount() == 0 {
			c.logger.Info().
				Str("strategy", strategy.Name()).
				Msg("extraction strategy found no places")
			continue
		}

		c.logger.Info().
			Str("strategy", strategy.Name()).
			Int("places", result.PlaceCount()).
			Bool("multi_route", result.MultiRoute()).
			Msg("note parsed")
		return result, nil
	}

	return nil, ErrNoPlaces
}
