package note

import (
	"regexp"
	"strings"
)

// imageIndexRe matches photo-index prefixes like "p12" or "P3" plus any
// trailing filler up to the first letter or CJK character.
var imageIndexRe = regexp.MustCompile(`^[pP]\d+[^a-zA-Z\x{4e00}-\x{9fff}]*`)

// boilerplatePhrases are noise fragments that social-media notes attach to
// place mentions. Stripped in order before any structural cleanup.
var boilerplatePhrases = []string{
	"是一家叫",
	"好吃！",
	"好吃",
	"可以逛逛打发时间",
	"进去了就出不来了",
	"太可爱了！",
	"太可爱了",
	"店主大叔人超级亲切",
	"还送了我们面包超人的小零食",
	"午餐推荐",
	"是有名的",
	"还蛮小的",
	"距离商业街要走一段路",
	"从神社一路走回日暮里站",
	"途经安静的住宅区",
	"途中还遇到了小朋友们放学",
}

// descriptiveSuffixRe matches a trailing "的..." descriptor, e.g. the
// "的牛肉汉堡店" in "Museca Times的牛肉汉堡店".
var descriptiveSuffixRe = regexp.MustCompile(`的[\x{4e00}-\x{9fff}]*$`)

var whitespaceRe = regexp.MustCompile(`\s+`)

// edgePunctuation covers both full-width and half-width punctuation
// trimmed from the ends of a cleaned name.
const edgePunctuation = " 　，。！？、,.!?;；:：-"

// CleanPlaceName normalizes a raw text fragment into a candidate place
// name. It strips image-index prefixes, boilerplate phrases, and
// descriptive suffixes, collapses whitespace, and trims surrounding
// punctuation. An empty return value means nothing meaningful remained;
// callers must discard it.
func CleanPlaceName(raw string) string {
	if raw == "" {
		return ""
	}

	cleaned := imageIndexRe.ReplaceAllString(raw, "")

	for _, phrase := range boilerplatePhrases {
		cleaned = strings.ReplaceAll(cleaned, phrase, "")
	}

	cleaned = descriptiveSuffixRe.ReplaceAllString(cleaned, "")
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.Trim(cleaned, edgePunctuation)

	return cleaned
}

// numericOnlyRe matches strings made of digits, whitespace, and dashes.
var numericOnlyRe = regexp.MustCompile(`^[0-9\s\-_]+$`)

// imageTokenRe matches names that still look like photo indexes.
var imageTokenRe = regexp.MustCompile(`^[pP]\d+`)

// descriptorDenylist rejects fragments that describe people or feelings
// rather than places.
var descriptorDenylist = []string{"店主", "大叔", "小朋友", "好吃", "可爱", "亲切"}

// IsPlausiblePlaceName reports whether a cleaned fragment looks like a
// real place name rather than leftover description.
func IsPlausiblePlaceName(name string) bool {
	if len([]rune(name)) < 2 {
		return false
	}
	if numericOnlyRe.MatchString(name) || imageTokenRe.MatchString(name) {
		return false
	}
	for _, word := range descriptorDenylist {
		if strings.Contains(name, word) {
			return false
		}
	}
	return true
}

// addressTokens are road, unit, and administrative-division markers that
// qualify a fragment as an address.
var addressTokens = []string{"路", "街", "巷", "号", "省", "市", "区", "县", "Chome", "Street", "Road"}

// IsLikelyAddress reports whether a fragment is address-shaped: long
// enough and carrying at least one road/unit/administrative token.
func IsLikelyAddress(fragment string) bool {
	if len([]rune(fragment)) < 5 {
		return false
	}
	for _, token := range addressTokens {
		if strings.Contains(fragment, token) {
			return true
		}
	}
	return false
}
