package note

import "regexp"

// MaxTags caps the number of tags kept per note.
const MaxTags = 15

var tagRe = regexp.MustCompile(`#([^#\s]+)`)

// ExtractTags collects hashtag tags from note text, stripped of the
// marker character. Order of first mention is preserved, duplicates are
// dropped, single-character tags are rejected, and at most MaxTags are
// returned.
func ExtractTags(text string) []string {
	matches := tagRe.FindAllStringSubmatch(text, -1)

	tags := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))

	for _, m := range matches {
		tag := m[1]
		if len([]rune(tag)) <= 1 {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
		if len(tags) == MaxTags {
			break
		}
	}

	return tags
}
