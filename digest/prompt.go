// Package digest turns the ranked listings of a run into the text of the
// digest message.
package digest

import (
	"encoding/json"
	"fmt"
	"strings"

	"housing-agent/models"
)

func systemPrompt(r models.DigestRules) string {
	c := r.Criteria
	var b strings.Builder

	fmt.Fprintf(&b, "You are a precise real estate analyst helping find the perfect home in Bucharest.\n\n")
	fmt.Fprintf(&b, "The listings you receive are already normalized, filtered and scored. ")
	fmt.Fprintf(&b, "Write an email-ready digest presenting the best %d-%d of them, in the order given.\n\n", r.MinListings, r.MaxListings)

	fmt.Fprintf(&b, "FILTERING CRITERIA THEY PASSED:\n")
	fmt.Fprintf(&b, "- Buy listings only (no rent)\n")
	fmt.Fprintf(&b, "- Price: max €%.0f\n", c.MaxPrice)
	fmt.Fprintf(&b, "- Size: min %.0f sqm\n", c.MinSqm)
	fmt.Fprintf(&b, "- Rooms: min %d\n", c.MinRooms)
	fmt.Fprintf(&b, "- Bathrooms: min %d\n", c.MinBathrooms)
	if c.RequireClosedKitchen {
		fmt.Fprintf(&b, "- Kitchen: closed\n")
	}
	if len(c.Areas) > 0 {
		fmt.Fprintf(&b, "- Areas: %s\n", strings.Join(c.Areas, ", "))
	}
	fmt.Fprintf(&b, "- Strong preference for buildings from %d or later\n\n", c.PriorityYear)

	fmt.Fprintf(&b, "RANKING SCORE (0-100):\n")
	for _, w := range r.Weights {
		fmt.Fprintf(&b, "+%d points: %s\n", w.Points, w.Rule)
	}

	fmt.Fprintf(&b, "\nFor each listing show title, price in EUR, size, rooms, bathrooms, kitchen, year built, area, url, score and notes. ")
	fmt.Fprintf(&b, "A value of \"verify\" means the data was missing; keep it visible so the reader can double-check.\n\n")
	fmt.Fprintf(&b, "End with:\nTotal new listings screened: %d\nPassed filters: %d\nTop listings shown: [X]\n", r.Screened, r.Passed)
	return b.String()
}

func userPrompt(listings []models.NormalizedListing) (string, error) {
	data, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return "", fmt.Errorf("digest: encode listings: %w", err)
	}
	return fmt.Sprintf("Generate the digest for these %d listings:\n\n%s\n\n"+
		"Remember:\n- Prioritize recent buildings\n- Be concise but informative\n"+
		"- Include warnings about \"verify\" fields", len(listings), data), nil
}
