package scraper

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// Strategy is one way of reading a field out of a listing card: the first
// element matching Selector, read as text or as the attribute Attr.
// An empty Selector reads the card element itself.
type Strategy struct {
	Selector string
	Attr     string
}

// Text reads the text content of the first element matching selector.
func Text(selector string) Strategy {
	return Strategy{Selector: selector}
}

// Attr reads attribute attr of the first element matching selector.
func Attr(selector, attr string) Strategy {
	return Strategy{Selector: selector, Attr: attr}
}

func (s Strategy) read(card *goquery.Selection) string {
	sel := card
	if s.Selector != "" {
		sel = card.Find(s.Selector).First()
	}
	if sel.Length() == 0 {
		return ""
	}
	if s.Attr != "" {
		return strings.TrimSpace(sel.AttrOr(s.Attr, ""))
	}
	return collapseSpace(sel.Text())
}

// Predicate decides whether a candidate value is plausible for a field.
type Predicate func(string) bool

// Field is an ordered list of strategies plus the predicate a value must pass.
type Field struct {
	Name       string
	Strategies []Strategy
	Accept     Predicate
}

// Resolve returns the first non-empty, accepted value, or "" when every
// strategy misses.
func (f Field) Resolve(card *goquery.Selection) string {
	for _, s := range f.Strategies {
		v := s.read(card)
		if v == "" {
			continue
		}
		if f.Accept != nil && !f.Accept(v) {
			continue
		}
		return v
	}
	return ""
}

var (
	digitRegexp    = regexp.MustCompile(`\d`)
	sizeUnitRegexp = regexp.MustCompile(`(?i)(m²|m2|mp|sqm)`)
	roomRegexp     = regexp.MustCompile(`(?i)(cam|garsonier|\d\s*rooms?)`)
)

// MinLength accepts values longer than n runes.
func MinLength(n int) Predicate {
	return func(v string) bool {
		return len([]rune(strings.TrimSpace(v))) > n
	}
}

// HasPriceMarker accepts values containing a digit or a currency marker.
func HasPriceMarker(v string) bool {
	lower := strings.ToLower(v)
	return strings.Contains(v, "€") ||
		strings.Contains(lower, "eur") ||
		strings.Contains(lower, "lei") ||
		strings.Contains(lower, "ron") ||
		digitRegexp.MatchString(v)
}

// HasSizeUnit accepts values carrying a surface unit (m², mp, m2, sqm).
func HasSizeUnit(v string) bool {
	return sizeUnitRegexp.MatchString(v)
}

// HasRoomMarker accepts values naming a room count.
func HasRoomMarker(v string) bool {
	return roomRegexp.MatchString(v)
}

// NotEmpty accepts any non-blank value.
func NotEmpty(v string) bool {
	return strings.TrimSpace(v) != ""
}

func collapseSpace(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
