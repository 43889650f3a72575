package services

import (
	"regexp"
	"strconv"
	"strings"

	"housing-agent/models"
	"housing-agent/utils"
)

// ronPerEUR is the fixed conversion rate for prices quoted in lei.
const ronPerEUR = 5.0

// Plausible ranges; anything outside is treated as a misparse.
const (
	minPriceEUR  = 1_000
	maxPriceEUR  = 50_000_000
	minSqm       = 10
	maxSqm       = 2_000
	maxRooms     = 20
	maxBathrooms = 10
	minYear      = 1850
	maxYear      = 2035
)

// All patterns below run on folded (lower-case, diacritic-free) text.
var (
	// magnitudeRegexp captures a number with optional thousands groups and decimals.
	magnitudeRegexp = regexp.MustCompile(`\d+(?:[.,\x{0020}\x{00a0}\x{202f}]\d{3})*(?:[.,]\d+)?`)
	leiRegexp       = regexp.MustCompile(`\b(?:lei|ron)\b`)
	sizeTextRegexp  = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:m²|mp|m2|sqm|metri patrati)(?:[^a-z0-9]|$)`)
	roomsRegexp     = regexp.MustCompile(`(\d+)\s*(?:camere|camera|cam\b|rooms?\b)`)
	roomsAfterRegex = regexp.MustCompile(`(?:camere|rooms)\s*:?\s*(\d+)`)
	studioRegexp    = regexp.MustCompile(`garsonier`)
	bathroomsRegexp = regexp.MustCompile(`(\d+)\s*(?:bai|baie|bathrooms?|baths?|grupuri sanitare)\b`)
	yearRegexp      = regexp.MustCompile(`\b(?:constructie|construit[a]?|built|finalizat[a]?|bloc(?: nou)?|an(?:ul)?)\D{0,12}\b((?:18|19|20)\d{2})\b`)
	leadingIntRegex = regexp.MustCompile(`^\s*(\d{1,2})\b`)

	closedKitchenRegexp = regexp.MustCompile(`bucatari[ae] (?:inchisa|separata)|closed kitchen|separate kitchen`)
	openKitchenRegexp   = regexp.MustCompile(`bucatari[ae] (?:deschisa|open)|open kitchen|open[ -]space`)

	stairwellRegexp = regexp.MustCompile(`\bcasa scarii\b`)
	houseRegexp     = regexp.MustCompile(`\b(?:casa|case|vila|vile|house|villa|individuala)\b`)
	apartmentRegexp = regexp.MustCompile(`\b(?:apartament\w*|apartment|garsonier\w*|flat|penthouse)\b`)
	houseURLRegexp  = regexp.MustCompile(`/(?:casa|case|vila|vile|case-vile|casa-vila)\b`)
	aptURLRegexp    = regexp.MustCompile(`/apartament`)

	rentTitleRegexp = regexp.MustCompile(`\b(?:inchiriere|inchiriez|de inchiriat|chirie|for rent|to let)\b`)
	rentDescRegexp  = regexp.MustCompile(`\b(?:inchiriez|ofer spre inchiriere|for rent)\b`)
)

// Normalizer turns RawListings into NormalizedListings with explicit Unknowns.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// NormalizeAll normalizes every listing, keeping input order.
func (n *Normalizer) NormalizeAll(raw []models.RawListing) []models.NormalizedListing {
	out := make([]models.NormalizedListing, 0, len(raw))
	unknownPrice := 0
	for _, r := range raw {
		l := Normalize(r)
		if !l.PriceEUR.IsKnown() {
			unknownPrice++
			n.logger.Debug("[normalizer] Unparsed price %q for %s", r.Price, r.URL)
		}
		out = append(out, l)
	}
	n.logger.Info("[normalizer] Normalized %d listings (%d without a usable price)", len(out), unknownPrice)
	return out
}

// Normalize parses the free-text fields of r. It never fails: anything that
// cannot be read with confidence is left Unknown.
func Normalize(r models.RawListing) models.NormalizedListing {
	title := fold(r.Title)
	desc := fold(r.Description)

	return models.NormalizedListing{
		Source:    r.Source,
		Title:     normaliseText(r.Title),
		PriceEUR:  parsePrice(r.Price),
		Sqm:       parseSqm(r.Size, title, desc),
		Rooms:     parseRooms(r.Rooms, title, desc),
		Bathrooms: scanInt(bathroomsRegexp, 1, maxBathrooms, title, desc),
		YearBuilt: scanInt(yearRegexp, minYear, maxYear, title, desc),
		Kitchen:   parseKitchen(title, desc),
		Kind:      parseKind(title, desc, strings.ToLower(r.URL)),
		ForRent:   isForRent(title, desc, strings.ToLower(r.URL)),
		Area:      normaliseText(r.Area),
		URL:       r.URL,
	}
}

// parseMagnitude reads the first number in s. A separator followed by exactly
// three digits groups thousands; any other final separator is the decimal point.
func parseMagnitude(s string) (float64, bool) {
	m := magnitudeRegexp.FindString(s)
	if m == "" {
		return 0, false
	}
	m = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f':
			return -1
		}
		return r
	}, m)

	stripSeps := strings.NewReplacer(".", "", ",", "")
	if last := strings.LastIndexAny(m, ".,"); last >= 0 {
		frac := m[last+1:]
		if len(frac) == 3 {
			m = stripSeps.Replace(m)
		} else {
			m = stripSeps.Replace(m[:last]) + "." + frac
		}
	}

	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parsePrice(raw string) models.Field[float64] {
	v, ok := parseMagnitude(raw)
	if !ok {
		return models.Unknown[float64]()
	}
	if leiRegexp.MatchString(fold(raw)) {
		v /= ronPerEUR
	}
	if v < minPriceEUR || v > maxPriceEUR {
		return models.Unknown[float64]()
	}
	return models.Known(v)
}

func parseSqm(size, title, desc string) models.Field[float64] {
	if v, ok := parseMagnitude(size); ok && v >= minSqm && v <= maxSqm {
		return models.Known(v)
	}
	for _, text := range []string{title, desc} {
		for _, m := range sizeTextRegexp.FindAllStringSubmatch(text, -1) {
			if v, ok := parseMagnitude(m[1]); ok && v >= minSqm && v <= maxSqm {
				return models.Known(v)
			}
		}
	}
	return models.Unknown[float64]()
}

func parseRooms(rooms, title, desc string) models.Field[int] {
	structured := fold(rooms)
	if studioRegexp.MatchString(structured) {
		return models.Known(1)
	}
	if f := scanInt(roomsRegexp, 1, maxRooms, structured); f.IsKnown() {
		return f
	}
	if f := scanInt(roomsAfterRegex, 1, maxRooms, structured); f.IsKnown() {
		return f
	}
	if f := scanInt(leadingIntRegex, 1, maxRooms, structured); f.IsKnown() {
		return f
	}
	if f := scanInt(roomsRegexp, 1, maxRooms, title, desc); f.IsKnown() {
		return f
	}
	if studioRegexp.MatchString(title) {
		return models.Known(1)
	}
	return models.Unknown[int]()
}

// scanInt returns the first capture of re, across texts in order, that falls
// within [lo, hi].
func scanInt(re *regexp.Regexp, lo, hi int, texts ...string) models.Field[int] {
	for _, text := range texts {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			v, err := strconv.Atoi(m[1])
			if err == nil && v >= lo && v <= hi {
				return models.Known(v)
			}
		}
	}
	return models.Unknown[int]()
}

func parseKitchen(title, desc string) models.Field[models.Kitchen] {
	text := title + " " + desc
	closed := closedKitchenRegexp.MatchString(text)
	open := openKitchenRegexp.MatchString(text)
	switch {
	case closed && !open:
		return models.Known(models.KitchenClosed)
	case open && !closed:
		return models.Known(models.KitchenOpen)
	}
	return models.Unknown[models.Kitchen]()
}

func parseKind(title, desc, url string) models.PropertyKind {
	if k := kindOf(title); k != models.KindUnknown {
		return k
	}
	switch {
	case houseURLRegexp.MatchString(url):
		return models.KindHouse
	case aptURLRegexp.MatchString(url):
		return models.KindApartment
	}
	return kindOf(desc)
}

func kindOf(text string) models.PropertyKind {
	text = stairwellRegexp.ReplaceAllString(text, "")
	// Apartment wins when both appear, e.g. "apartament in vila".
	switch {
	case apartmentRegexp.MatchString(text):
		return models.KindApartment
	case houseRegexp.MatchString(text):
		return models.KindHouse
	}
	return models.KindUnknown
}

func isForRent(title, desc, url string) bool {
	return strings.Contains(url, "/inchiriere") ||
		rentTitleRegexp.MatchString(title) ||
		rentDescRegexp.MatchString(desc)
}
