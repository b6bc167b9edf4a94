package note

import (
	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// categoryGroup is one keyword group in the categorizer. Groups are
// checked in declaration order; the first group with a match wins.
type categoryGroup struct {
	category Category
	keywords []string
}

var categoryGroups = []categoryGroup{
	{CategoryTransportation, []string{"站", "Station"}},
	{CategoryAttraction, []string{"馆", "Museum", "Gallery"}},
	{CategoryShopping, []string{"街", "Street", "Mall"}},
	{CategoryRestaurant, []string{"店", "Restaurant", "Shop"}},
	{CategoryAttraction, []string{"神社", "Temple", "Shrine"}},
	{CategoryPark, []string{"公园", "Park", "Square"}},
}

var (
	categoryMatcher ahocorasick.AhoCorasick
	keywordGroup    map[string]int
)

func init() {
	var patterns []string
	keywordGroup = make(map[string]int)
	for i, group := range categoryGroups {
		for _, kw := range group.keywords {
			patterns = append(patterns, kw)
			if _, seen := keywordGroup[kw]; !seen {
				keywordGroup[kw] = i
			}
		}
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		MatchKind: ahocorasick.StandardMatch,
	})
	categoryMatcher = builder.Build(patterns)
}

// Categorize maps a place name to its category by keyword membership.
// The earliest-declared matching keyword group wins; names matching no
// group are CategoryOther. Total: always returns a valid category.
func Categorize(name string) Category {
	if name == "" {
		return CategoryOther
	}

	bestGroup := len(categoryGroups)
	for _, match := range categoryMatcher.FindAll(name) {
		keyword := name[match.Start():match.End()]
		if group, ok := keywordGroup[keyword]; ok && group < bestGroup {
			bestGroup = group
		}
	}

	if bestGroup == len(categoryGroups) {
		return CategoryOther
	}
	return categoryGroups[bestGroup].category
}
