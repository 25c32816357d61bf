package domain

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SKUPrefix starts every generated product SKU.
const SKUPrefix = "SKU-"

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[-\s]+`)
)

// Slugify derives a URL-safe identifier from a display name. Accented
// letters are folded to ASCII, anything else outside letters, digits,
// underscores and hyphens is dropped, and whitespace runs become a single
// hyphen. The result is deterministic for a given name.
func Slugify(name string) string {
	ascii, _, err := transform.String(
		transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(isNonASCII))),
		name,
	)
	if err != nil {
		ascii = name
	}

	slug := slugStrip.ReplaceAllString(strings.ToLower(ascii), "")
	slug = slugCollapse.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-_")
}

func isNonASCII(r rune) bool {
	return r > unicode.MaxASCII
}

// GenerateSKU returns SKU- followed by 8 uppercase hex characters.
// Uniqueness is left to the database constraint.
func GenerateSKU() string {
	return SKUPrefix + strings.ToUpper(uuid.New().String()[:8])
}
