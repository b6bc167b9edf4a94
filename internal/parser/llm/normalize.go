package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/noteroute/noteroute/internal/note"
)

// ErrMalformedResponse indicates the model reply carried no JSON object.
var ErrMalformedResponse = errors.New("model response does not contain a JSON object")

// placeholderCoordinates marks model-sourced places whose coordinates
// have not been geocoded yet.
var placeholderCoordinates = note.Coordinates{Latitude: 35.7278, Longitude: 139.7708}

// categoryAliases maps the labels the model is asked to emit (and their
// common English variants) onto canonical categories.
var categoryAliases = map[string]note.Category{
	"交通":             note.CategoryTransportation,
	"transportation": note.CategoryTransportation,
	"transport":      note.CategoryTransportation,
	"景点":             note.CategoryAttraction,
	"attraction":     note.CategoryAttraction,
	"sightseeing":    note.CategoryAttraction,
	"购物":             note.CategoryShopping,
	"shopping":       note.CategoryShopping,
	"美食":             note.CategoryRestaurant,
	"餐厅":             note.CategoryRestaurant,
	"restaurant":     note.CategoryRestaurant,
	"food":           note.CategoryRestaurant,
	"公园":             note.CategoryPark,
	"park":           note.CategoryPark,
	"其他":             note.CategoryOther,
	"other":          note.CategoryOther,
}

type modelPlace struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Category    string `json:"category"`
}

type modelRoute struct {
	ID          string       `json:"route_id"`
	Name        string       `json:"route_name"`
	Description string       `json:"route_description"`
	Places      []modelPlace `json:"places"`
}

type modelResult struct {
	Title   string       `json:"title"`
	Content string       `json:"content"`
	Tags    []string     `json:"tags"`
	Places  []modelPlace `json:"places"`
	Routes  []modelRoute `json:"routes"`
}

// ParseModelOutput normalizes a raw model reply into an extraction.
// The reply may wrap the JSON object in commentary or code fences; the
// substring from the first '{' to the last '}' is decoded. Missing
// fields are defaulted, never treated as errors: nameless places are
// dropped, a missing address falls back to the place name, unknown
// categories map to other, and coordinates are set to the placeholder
// pending geocoding. Pure function, no I/O.
func ParseModelOutput(raw, sourceURL string) (*note.Extraction, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return nil, ErrMalformedResponse
	}

	var result modelResult
	if err := json.Unmarshal([]byte(raw[start:end+1]), &result); err != nil {
		return nil, fmt.Errorf("decoding model JSON: %w", err)
	}

	ext := &note.Extraction{
		Title:     result.Title,
		Content:   result.Content,
		Tags:      normalizeTags(result.Tags),
		SourceURL: sourceURL,
	}
	if ext.Title == "" {
		ext.Title = "未命名路线"
	}

	if len(result.Routes) > 0 {
		ext.Routes = make([]note.Route, 0, len(result.Routes))
		for i, r := range result.Routes {
			route := note.Route{
				ID:          r.ID,
				Name:        r.Name,
				Description: r.Description,
				Places:      normalizePlaces(r.Places),
			}
			if route.ID == "" {
				route.ID = fmt.Sprintf("route_%d", i+1)
			}
			if route.Name == "" {
				route.Name = fmt.Sprintf("路线%d", i+1)
			}
			ext.Routes = append(ext.Routes, route)
		}
		return ext, nil
	}

	ext.Places = normalizePlaces(result.Places)
	return ext, nil
}

func normalizePlaces(raw []modelPlace) []note.Place {
	places := make([]note.Place, 0, len(raw))
	for _, p := range raw {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		address := strings.TrimSpace(p.Address)
		if address == "" {
			address = name
		}
		places = append(places, note.Place{
			Name:        name,
			Description: strings.TrimSpace(p.Description),
			Address:     address,
			Coordinates: placeholderCoordinates,
			Category:    normalizeCategory(p.Category),
			Source:      note.SourceAI,
		})
	}
	return places
}

func normalizeCategory(raw string) note.Category {
	if c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return c
	}
	return note.CategoryOther
}

func normalizeTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, t := range raw {
		tag := strings.TrimPrefix(strings.TrimSpace(t), "#")
		if len([]rune(tag)) <= 1 {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
		if len(tags) >= note.MaxTags {
			break
		}
	}
	return tags
}
