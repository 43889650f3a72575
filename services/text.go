package services

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold lower-cases s and strips diacritics so "Bucureşti", "București" and
// "bucuresti" compare equal.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// sectorRegexp matches the ways listings spell a sector: "Sector 3",
// "Sectorul 3", "sector3".
var sectorRegexp = regexp.MustCompile(`\bsector(?:ul)?\s*(\d)\b`)

// foldPlace folds s and rewrites every sector spelling to "sector N".
func foldPlace(s string) string {
	return sectorRegexp.ReplaceAllString(fold(s), "sector $1")
}

// containsFolded reports whether needle occurs in any of haystacks, ignoring
// case, diacritics and the sector spelling. An empty needle never matches.
func containsFolded(needle string, haystacks ...string) bool {
	n := foldPlace(strings.TrimSpace(needle))
	if n == "" {
		return false
	}
	for _, h := range haystacks {
		if strings.Contains(foldPlace(h), n) {
			return true
		}
	}
	return false
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
