package olx

import (
	"housing-agent/models"
	"housing-agent/scraper"
	"housing-agent/utils"
)

// DefaultSearchURL lists Bucharest apartments for sale.
const DefaultSearchURL = "https://www.olx.ro/imobiliare/apartamente-garsoniere-de-vanzare/bucuresti/"

// OLX renames its CSS classes often, hence the long fallback lists.
func layout(searchURL string) scraper.Layout {
	return scraper.Layout{
		Source:       models.SourceOLX,
		SearchURL:    searchURL,
		BaseURL:      "https://www.olx.ro",
		WaitSelector: `[data-cy="l-card"]`,
		Cards:        []string{`[data-cy="l-card"]`, `.css-1sw7q4x`, `[data-testid="l-card"]`},
		StripQuery:   true,

		Title: scraper.Field{
			Name: "title",
			Strategies: []scraper.Strategy{
				scraper.Text("h6"),
				scraper.Text(`[data-cy="ad-card-title"] h4`),
				scraper.Text(`[data-cy="ad-card-title"]`),
				scraper.Text(".css-16v5mdi"),
			},
			Accept: scraper.MinLength(scraper.MinTitleLength),
		},
		Price: scraper.Field{
			Name: "price",
			Strategies: []scraper.Strategy{
				scraper.Text(".css-8kqr5l"),
				scraper.Text(`p[data-testid="ad-price"]`),
				scraper.Text(`[data-testid="ad-price"]`),
			},
			Accept: scraper.HasPriceMarker,
		},
		Link: scraper.Field{
			Name: "url",
			Strategies: []scraper.Strategy{
				scraper.Attr(`a[href*="/d/oferta/"]`, "href"),
				scraper.Attr("a", "href"),
			},
			Accept: scraper.NotEmpty,
		},
		Area: scraper.Field{
			Name: "area",
			Strategies: []scraper.Strategy{
				scraper.Text(`[data-testid="location-date"]`),
			},
			Accept: scraper.MinLength(2),
		},
		Size: scraper.Field{
			Name: "size",
			Strategies: []scraper.Strategy{
				scraper.Text(`[data-testid="blueprint-card-param-icon"] + span`),
				scraper.Text(`span:contains("m²")`),
			},
			Accept: scraper.HasSizeUnit,
		},
		Description: scraper.Field{
			Name:       "description",
			Strategies: []scraper.Strategy{scraper.Text("p")},
			Accept:     scraper.NotEmpty,
		},
	}
}

// New creates the OLX extractor.
func New(searchURL string, renderer scraper.Renderer, logger *utils.Logger) *scraper.Extractor {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	return scraper.NewExtractor(layout(searchURL), renderer, logger)
}
