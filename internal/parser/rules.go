package parser

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/noteroute/noteroute/internal/note"
)

// RuleExtractor adapts the rule-based mining pipeline to the Extractor
// interface. It is always available and never fails; a note with no
// recognizable places yields an extraction with zero places.
type RuleExtractor struct {
	logger zerolog.Logger
}

// NewRuleExtractor creates a rule-based extractor.
func NewRuleExtractor(logger zerolog.Logger) *RuleExtractor {
	return &RuleExtractor{logger: logger}
}

// Name returns the strategy identifier.
func (e *RuleExtractor) Name() string { return "rules" }

// Available always reports true; the rule pipeline has no dependencies.
func (e *RuleExtractor) Available() bool { return true }

// TryExtract runs the symbol/format/keyword pipeline over the note text.
func (e *RuleExtractor) TryExtract(_ context.Context, in Input) (*note.Extraction, error) {
	result := note.BuildExtraction(in.Text, in.URL)

	e.logger.Debug().
		Int("places", result.PlaceCount()).
		Int("tags", len(result.Tags)).
		Msg("rule-based extraction complete")

	return result, nil
}

var _ Extractor = (*RuleExtractor)(nil)
