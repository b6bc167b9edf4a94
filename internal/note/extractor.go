package note

import (
	"regexp"
	"strings"
)

// Placeholder coordinates used when no geocoder is configured. Extraction
// accepts approximate positions; precision is the planner's concern only
// to the extent the placeholder allows.
var placeholderCoordinates = Coordinates{Latitude: 35.6762, Longitude: 139.6503}

// symbolRe captures the text between a location-pin marker and the next
// sentence delimiter.
var symbolRe = regexp.MustCompile(`📍\s*([^，。\n]+)`)

// formatRes are the three address-shaped patterns: numbered road/street/
// lane references, administrative-division references, and bare Latin
// address fragments.
var formatRes = []*regexp.Regexp{
	regexp.MustCompile(`([^，。\n]*\d+[^，。\n]*[路街巷号][^，。\n]*)`),
	regexp.MustCompile(`([^，。\n]*[省市区县][^，。\n]*)`),
	regexp.MustCompile(`([^，。\n]*[A-Za-z]+\s*[A-Za-z]+[^，。\n]*)`),
}

// keywordRes match fragments ending in a POI-type keyword.
var keywordRes = []*regexp.Regexp{
	regexp.MustCompile(`([^，。\n]*站[^，。\n]*)`),
	regexp.MustCompile(`([^，。\n]*馆[^，。\n]*)`),
	regexp.MustCompile(`([^，。\n]*街[^，。\n]*)`),
	regexp.MustCompile(`([^，。\n]*店[^，。\n]*)`),
	regexp.MustCompile(`([^，。\n]*神社[^，。\n]*)`),
	regexp.MustCompile(`([^，。\n]*公园[^，。\n]*)`),
}

// markerRe strips pin and transit emoji from address fragments.
var markerRe = regexp.MustCompile(`[📍🚉⛩🍔\x{FE0F}]`)

// labelRe strips "address:"/"location:" style labels in either width.
var labelRe = regexp.MustCompile(`(地址|位置)[：:]`)

// ExtractPlaces mines place candidates from note text by running the
// symbol, format, and keyword strategies over the same input,
// concatenating their outputs, then deduplicating and ranking by source
// trust. A text with no recognizable places yields an empty (non-nil)
// slice.
func ExtractPlaces(text string) []Place {
	var candidates []Place
	candidates = append(candidates, extractBySymbol(text)...)
	candidates = append(candidates, extractByFormat(text)...)
	candidates = append(candidates, extractByKeywords(text)...)
	return MergePlaces(candidates)
}

// extractBySymbol finds addresses announced by a location-pin marker.
func extractBySymbol(text string) []Place {
	var places []Place
	for _, m := range symbolRe.FindAllStringSubmatch(text, -1) {
		address := strings.TrimSpace(m[1])
		if !IsLikelyAddress(address) {
			continue
		}
		name := placeNameFromAddress(address)
		places = append(places, Place{
			Name:        name,
			Address:     address,
			Coordinates: placeholderCoordinates,
			Category:    Categorize(name),
			Source:      SourceSymbol,
		})
	}
	return places
}

// extractByFormat finds address-shaped substrings without a marker.
func extractByFormat(text string) []Place {
	var places []Place
	for _, re := range formatRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			address := strings.TrimSpace(m[1])
			if !IsLikelyAddress(address) || len([]rune(address)) <= 5 {
				continue
			}
			name := placeNameFromAddress(address)
			places = append(places, Place{
				Name:        name,
				Address:     address,
				Coordinates: placeholderCoordinates,
				Category:    Categorize(name),
				Source:      SourceFormat,
			})
		}
	}
	return places
}

// extractByKeywords finds fragments ending in a POI-type keyword and
// passes them through the name cleaner before validating.
func extractByKeywords(text string) []Place {
	var places []Place
	for _, re := range keywordRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			name := CleanPlaceName(strings.TrimSpace(m[1]))
			if name == "" || !IsPlausiblePlaceName(name) {
				continue
			}
			places = append(places, Place{
				Name:        name,
				Address:     name,
				Coordinates: placeholderCoordinates,
				Category:    Categorize(name),
				Source:      SourceKeyword,
			})
		}
	}
	return places
}

// nameSeparators are tried in order when shortening a long address into
// a display name.
var nameSeparators = []string{"，", "、", " ", ",", "-"}

// placeNameFromAddress derives a display name from an address fragment.
func placeNameFromAddress(address string) string {
	name := strings.TrimSpace(address)
	name = markerRe.ReplaceAllString(name, "")
	name = labelRe.ReplaceAllString(name, "")

	if len([]rune(name)) > 20 {
		for _, sep := range nameSeparators {
			if i := strings.Index(name, sep); i >= 0 {
				name = name[:i]
				break
			}
		}
	}

	return strings.TrimSpace(name)
}

var titleRes = []*regexp.Regexp{
	regexp.MustCompile(`小红书\s*\n\s*([^\n]+)`),
	regexp.MustCompile(`([^#\n]{5,30})`),
}

// ExtractTitle picks a best-effort title line from note text.
func ExtractTitle(text string) string {
	for _, re := range titleRes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		title := strings.TrimSpace(m[1])
		if len([]rune(title)) > 3 && !strings.Contains(title, "小红书") {
			return title
		}
	}
	return ""
}

// ExtractContent returns up to five meaningful body lines as a summary.
func ExtractContent(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len([]rune(line)) <= 10 || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
		if len(lines) >= 5 {
			break
		}
	}
	return strings.Join(lines, "\n")
}

// BuildExtraction runs the full rule-based pipeline over note text and
// assembles the result. The returned extraction may contain zero places;
// the caller decides whether that counts as failure.
func BuildExtraction(text, sourceURL string) *Extraction {
	title := ExtractTitle(text)
	if title == "" {
		title = "未命名路线"
	}

	return &Extraction{
		Title:     title,
		Content:   ExtractContent(text),
		Places:    ExtractPlaces(text),
		Tags:      ExtractTags(text),
		SourceURL: sourceURL,
	}
}
