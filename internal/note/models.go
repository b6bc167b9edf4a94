// Package note provides the travel-note data model and the rule-based
// extraction pipeline that mines points of interest from noisy note text.
package note

// Category classifies a point of interest.
type Category string

// Known place categories.
const (
	CategoryTransportation Category = "transportation"
	CategoryAttraction     Category = "attraction"
	CategoryShopping       Category = "shopping"
	CategoryRestaurant     Category = "restaurant"
	CategoryPark           Category = "park"
	CategoryOther          Category = "other"
)

// Source records which extraction strategy produced a place candidate.
// It is used for trust ranking only, never for display.
type Source string

// Known provenance tags.
const (
	SourceSymbol  Source = "symbol"
	SourceFormat  Source = "format"
	SourceKeyword Source = "keyword"
	SourceAI      Source = "ai"
)

// Priority returns the trust rank of the source. Higher ranks win when
// candidates are re-ordered after deduplication.
func (s Source) Priority() int {
	switch s {
	case SourceSymbol:
		return 3
	case SourceFormat:
		return 2
	case SourceKeyword:
		return 1
	default:
		return 0
	}
}

// Coordinates is a geographic position in decimal degrees.
// Placeholder values are an accepted approximation when no geocoder is
// configured, not an error.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Place is a candidate or confirmed point of interest.
type Place struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Address     string      `json:"address"`
	Coordinates Coordinates `json:"coordinates"`
	Category    Category    `json:"category"`
	Source      Source      `json:"source"`
}

// Route groups places when a note describes several independent
// day-by-day routes.
type Route struct {
	ID          string  `json:"route_id"`
	Name        string  `json:"route_name"`
	Description string  `json:"route_description,omitempty"`
	Places      []Place `json:"places"`
}

// Extraction is the top-level result of parsing a note. It is a closed
// union of two shapes: a single implicit route (Places) or multiple named
// routes (Routes). Routes takes precedence when non-empty; consumers
// should branch on MultiRoute rather than inspecting both fields.
type Extraction struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	Places    []Place  `json:"places,omitempty"`
	Routes    []Route  `json:"routes,omitempty"`
	SourceURL string   `json:"source_url,omitempty"`
}

// MultiRoute reports whether the note was recognized as containing
// multiple day-segmented routes.
func (e *Extraction) MultiRoute() bool {
	return len(e.Routes) > 0
}

// PlaceCount returns the total number of places across either shape.
func (e *Extraction) PlaceCount() int {
	if e.MultiRoute() {
		n := 0
		for _, r := range e.Routes {
			n += len(r.Places)
		}
		return n
	}
	return len(e.Places)
}

// AllPlaces returns every place in the extraction in route order.
func (e *Extraction) AllPlaces() []Place {
	if !e.MultiRoute() {
		return e.Places
	}
	var places []Place
	for _, r := range e.Routes {
		places = append(places, r.Places...)
	}
	return places
}
