package note

import "sort"

// MergePlaces deduplicates candidates by exact name and re-sorts the
// whole list descending by source trust. The first occurrence of a name
// wins its content; later duplicates are dropped, but the kept entry
// absorbs the highest trust rank seen for that name, so a place found by
// both the keyword and symbol strategies ranks as a symbol find. The
// sort is stable: candidates of equal trust keep their dedup order.
// Final order is confidence order, not reading order; callers that need
// text order must not rely on it. Always returns a non-nil slice.
func MergePlaces(candidates []Place) []Place {
	unique := make([]Place, 0, len(candidates))
	index := make(map[string]int, len(candidates))

	for _, p := range candidates {
		if p.Name == "" {
			continue
		}
		if i, dup := index[p.Name]; dup {
			if p.Source.Priority() > unique[i].Source.Priority() {
				unique[i].Source = p.Source
			}
			continue
		}
		index[p.Name] = len(unique)
		unique = append(unique, p)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Source.Priority() > unique[j].Source.Priority()
	})

	return unique
}
