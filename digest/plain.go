package digest

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"housing-agent/models"
)

const divider = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// Plain renders the digest locally from a fixed template. It is used when no
// OpenAI key is configured.
type Plain struct{}

// Summarize implements services.Summarizer. It never fails.
func (Plain) Summarize(ctx context.Context, listings []models.NormalizedListing, rules models.DigestRules) (string, error) {
	p := message.NewPrinter(language.English)
	c := rules.Criteria
	var b strings.Builder

	fmt.Fprintf(&b, "Hi,\n\nFound %d new listings matching your criteria!\n\n", len(listings))

	for _, l := range listings {
		b.WriteString(divider + "\n")
		fmt.Fprintf(&b, "📍 %s\n", l.Title)

		if v, ok := l.PriceEUR.Get(); ok {
			note := ""
			if v < c.FavorablePrice {
				note = " (good value)"
			}
			b.WriteString(p.Sprintf("💰 Price: €%d%s\n", int64(v), note))
		} else {
			b.WriteString("💰 Price: verify\n")
		}
		fmt.Fprintf(&b, "📐 Size: %s sqm\n", show(l.Sqm, func(v float64) string { return p.Sprintf("%.0f", v) }))
		fmt.Fprintf(&b, "🚪 Rooms: %s | 🚿 Bathrooms: %s\n", show(l.Rooms, itoa), show(l.Bathrooms, itoa))
		fmt.Fprintf(&b, "🍳 Kitchen: %s\n", show(l.Kitchen, func(k models.Kitchen) string { return string(k) }))

		built := show(l.YearBuilt, itoa)
		if y, ok := l.YearBuilt.Get(); ok && y >= c.PriorityYear {
			built += " ★ recent build"
		}
		fmt.Fprintf(&b, "🏗️ Built: %s\n", built)

		area := l.Area
		if area == "" {
			area = "verify"
		}
		fmt.Fprintf(&b, "📌 Area: %s\n", area)
		fmt.Fprintf(&b, "🔗 %s\n", l.URL)
		fmt.Fprintf(&b, "⭐ Score: %d/100\n", l.Score)
		if l.Notes != "" {
			fmt.Fprintf(&b, "📝 Notes: %s\n", l.Notes)
		}
		b.WriteString(divider + "\n\n")
	}

	fmt.Fprintf(&b, "Total new listings screened: %d\n", rules.Screened)
	fmt.Fprintf(&b, "Passed filters: %d\n", rules.Passed)
	fmt.Fprintf(&b, "Top listings shown: %d\n\n", len(listings))
	b.WriteString("---\nHousing Agent\n")
	return b.String(), nil
}

func show[T any](f models.Field[T], format func(T) string) string {
	if v, ok := f.Get(); ok {
		return format(v)
	}
	return "verify"
}

func itoa(v int) string { return fmt.Sprint(v) }
