package models

import "github.com/noteroute/noteroute/internal/note"

// ParseNoteRequest is the request body for POST /v1/notes/parse.
// Either Text or URL must be given; when only a URL is given the note
// page is fetched first.
type ParseNoteRequest struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// Validate returns field errors for an invalid request.
func (r *ParseNoteRequest) Validate() []FieldError {
	if r.Text == "" && r.URL == "" {
		return []FieldError{{
			Field:   "text",
			Message: "either text or url is required",
			Code:    "required",
		}}
	}
	return nil
}

// ParseNoteResponse is the response body for POST /v1/notes/parse.
type ParseNoteResponse struct {
	Title      string       `json:"title"`
	Content    string       `json:"content"`
	Tags       []string     `json:"tags"`
	Places     []note.Place `json:"places,omitempty"`
	Routes     []note.Route `json:"routes,omitempty"`
	MultiRoute bool         `json:"multi_route"`
	PlaceCount int          `json:"place_count"`
	SourceURL  string       `json:"source_url,omitempty"`
}

// NewParseNoteResponse converts an extraction into the response shape.
func NewParseNoteResponse(ext *note.Extraction) *ParseNoteResponse {
	return &ParseNoteResponse{
		Title:      ext.Title,
		Content:    ext.Content,
		Tags:       ext.Tags,
		Places:     ext.Places,
		Routes:     ext.Routes,
		MultiRoute: ext.MultiRoute(),
		PlaceCount: ext.PlaceCount(),
		SourceURL:  ext.SourceURL,
	}
}
