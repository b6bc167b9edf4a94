// Package handler implements the HTTP handlers for the note-route API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/noteroute/noteroute/internal/api/middleware"
	"github.com/noteroute/noteroute/internal/api/models"
	"github.com/noteroute/noteroute/internal/api/response"
	"github.com/noteroute/noteroute/internal/fetcher"
	"github.com/noteroute/noteroute/internal/note"
	"github.com/noteroute/noteroute/internal/parser"
)

// NoteParser resolves a note through the configured extraction
// strategies.
type NoteParser interface {
	ParseNote(ctx context.Context, text, url string) (*note.Extraction, error)
	Strategies() []string
}

// NoteHandlerConfig holds configuration for the note handler.
type NoteHandlerConfig struct {
	// Parser resolves notes (required).
	Parser NoteParser

	// Source fetches note pages for URL-only requests (optional).
	Source fetcher.Source

	// Metrics records parse outcomes (optional).
	Metrics *middleware.ParseMetrics

	// Logger for handler operations.
	Logger zerolog.Logger
}

// NoteHandler handles note-parse endpoints.
type NoteHandler struct {
	parser  NoteParser
	source  fetcher.Source
	metrics *middleware.ParseMetrics
	logger  zerolog.Logger
}

// NewNoteHandler creates a note handler.
func NewNoteHandler(cfg NoteHandlerConfig) *NoteHandler {
	return &NoteHandler{
		parser:  cfg.Parser,
		source:  cfg.Source,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}
}

// ParseNote handles POST /v1/notes/parse.
func (h *NoteHandler) ParseNote(w http.ResponseWriter, r *http.Request) {
	var req models.ParseNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}
	if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
		response.BadRequest(w, r, "invalid parse request", fieldErrs)
		return
	}

	ctx := r.Context()

	text := req.Text
	if text == "" && req.URL != "" && h.source != nil {
		fetched, err := h.source.FetchText(ctx, req.URL)
		if err != nil {
			// The chain may still find cached text for this URL.
			h.logger.Warn().Err(err).
				Str("url", req.URL).
				Msg("note page fetch failed")
		} else {
			text = fetched
		}
	}

	start := time.Now()
	ext, err := h.parser.ParseNote(ctx, text, req.URL)
	if h.metrics != nil {
		h.metrics.RecordParse(extractionStrategy(ext), time.Since(start), placeCount(ext), err)
	}

	if err != nil {
		switch {
		case errors.Is(err, parser.ErrEmptyNote):
			response.UnprocessableNote(w, r, "the note is empty or its page could not be retrieved")
		case errors.Is(err, parser.ErrNoPlaces):
			response.UnprocessableNote(w, r, "no places could be extracted from this note")
		default:
			h.logger.Error().Err(err).Msg("note parse failed")
			response.InternalError(w, r, "failed to parse the note")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewParseNoteResponse(ext))
}

// extractionStrategy reports which strategy family produced the
// extraction, based on the place provenance.
func extractionStrategy(ext *note.Extraction) string {
	if ext == nil {
		return "none"
	}
	places := ext.AllPlaces()
	if len(places) == 0 {
		return "none"
	}
	if places[0].Source == note.SourceAI {
		return "ai"
	}
	return "rules"
}

func placeCount(ext *note.Extraction) int {
	if ext == nil {
		return 0
	}
	return ext.PlaceCount()
}
