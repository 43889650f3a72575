package trimbitasu

import (
	"housing-agent/models"
	"housing-agent/scraper"
	"housing-agent/utils"
)

// DefaultSearchURL lists Bucharest apartments for sale.
const DefaultSearchURL = "https://www.trimbitasu.ro/imobiliare/bucuresti/apartamente-vanzare"

// The site has no stable markup, so every field falls back to broad
// class-substring selectors.
func layout(searchURL string) scraper.Layout {
	return scraper.Layout{
		Source:       models.SourceTrimbitasu,
		SearchURL:    searchURL,
		BaseURL:      "https://www.trimbitasu.ro",
		WaitSelector: `.listing-item, .property-card, .ad-card, article, [data-testid="listing"]`,
		Cards: []string{
			".listing-item",
			".property-card",
			".ad-card",
			"article",
			`[class*="listing"]`,
		},

		Title: scraper.Field{
			Name: "title",
			Strategies: []scraper.Strategy{
				scraper.Text("h2"),
				scraper.Text("h3"),
				scraper.Text(".title"),
				scraper.Text(".listing-title"),
				scraper.Text(`[class*="title"]`),
				scraper.Text(`a[href*="apartament"]`),
			},
			Accept: scraper.MinLength(scraper.MinTitleLength),
		},
		Price: scraper.Field{
			Name: "price",
			Strategies: []scraper.Strategy{
				scraper.Text(".price"),
				scraper.Text(".listing-price"),
				scraper.Text(`[class*="price"]`),
				scraper.Text(`span[class*="price"]`),
				scraper.Text(`div[class*="price"]`),
			},
			Accept: scraper.HasPriceMarker,
		},
		Link: scraper.Field{
			Name: "url",
			Strategies: []scraper.Strategy{
				scraper.Attr(`a[href*="/imobiliare/"]`, "href"),
				scraper.Attr(`a[href*="/apartament"]`, "href"),
				scraper.Attr("a", "href"),
				scraper.Attr("", "href"),
			},
			Accept: scraper.NotEmpty,
		},
		Area: scraper.Field{
			Name: "area",
			Strategies: []scraper.Strategy{
				scraper.Text(".location"),
				scraper.Text(".area"),
				scraper.Text(`[class*="location"]`),
				scraper.Text(`[class*="address"]`),
				scraper.Text(`span[class*="area"]`),
			},
			Accept: scraper.MinLength(2),
		},
		Size: scraper.Field{
			Name: "size",
			Strategies: []scraper.Strategy{
				scraper.Text(`[class*="surface"]`),
				scraper.Text(`[class*="size"]`),
				scraper.Text(`[class*="sqm"]`),
				scraper.Text(`[class*="mp"]`),
			},
			Accept: scraper.HasSizeUnit,
		},
		Rooms: scraper.Field{
			Name: "rooms",
			Strategies: []scraper.Strategy{
				scraper.Text(`[class*="room"]`),
				scraper.Text(`[class*="camere"]`),
				scraper.Text(`span:contains("camere")`),
				scraper.Text(`span:contains("cam")`),
			},
			Accept: scraper.HasRoomMarker,
		},
	}
}

// New creates the trimbitasu.ro extractor.
func New(searchURL string, renderer scraper.Renderer, logger *utils.Logger) *scraper.Extractor {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	return scraper.NewExtractor(layout(searchURL), renderer, logger)
}
