package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugDashes       = regexp.MustCompile(`-+`)
)

// GenerateSlug turns a title into a URL slug.
// "Héllo, Wörld!" → "hello-world"
func GenerateSlug(input string) string {
	lower := strings.ToLower(RemoveDiacritics(input))

	hyphenated := strings.Join(strings.Fields(lower), "-")
	cleaned := slugInvalidChars.ReplaceAllString(hyphenated, "")
	normalized := slugDashes.ReplaceAllString(cleaned, "-")

	return strings.Trim(normalized, "-")
}

// letters that do not decompose under NFD
var diacriticFallbacks = strings.NewReplacer(
	"đ", "d", "Đ", "D",
	"ø", "o", "Ø", "O",
	"ł", "l", "Ł", "L",
	"ß", "ss",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
)

// RemoveDiacritics strips combining marks: "Nguyễn Ánh" → "Nguyen Anh".
func RemoveDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, input)
	if err != nil {
		out = input
	}
	return diacriticFallbacks.Replace(out)
}
