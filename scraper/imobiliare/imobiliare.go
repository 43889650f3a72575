package imobiliare

import (
	"housing-agent/models"
	"housing-agent/scraper"
	"housing-agent/utils"
)

// DefaultSearchURL lists Bucharest apartments for sale.
const DefaultSearchURL = "https://www.imobiliare.ro/vanzare-apartamente/bucuresti"

func layout(searchURL string) scraper.Layout {
	return scraper.Layout{
		Source:       models.SourceImobiliare,
		SearchURL:    searchURL,
		BaseURL:      "https://www.imobiliare.ro",
		WaitSelector: `[data-cy="ad-card"]`,
		Cards:        []string{`[data-cy="ad-card"]`, `[id^="listing-"]`},

		Title: scraper.Field{
			Name: "title",
			Strategies: []scraper.Strategy{
				scraper.Text(`[data-cy="ad-card-title"]`),
				scraper.Text("h2"),
				scraper.Text("h3"),
			},
			Accept: scraper.MinLength(scraper.MinTitleLength),
		},
		Price: scraper.Field{
			Name: "price",
			Strategies: []scraper.Strategy{
				scraper.Text(`[data-cy="ad-price"]`),
				scraper.Text(`[class*="price"]`),
			},
			Accept: scraper.HasPriceMarker,
		},
		Link: scraper.Field{
			Name: "url",
			Strategies: []scraper.Strategy{
				scraper.Attr(`a[href*="/vanzare-apartamente/"]`, "href"),
				scraper.Attr(`a[href*="/oferta/"]`, "href"),
			},
			Accept: scraper.NotEmpty,
		},
		Area: scraper.Field{
			Name: "area",
			Strategies: []scraper.Strategy{
				scraper.Text(`[data-cy="ad-location"]`),
				scraper.Text(`[class*="location"]`),
			},
			Accept: scraper.MinLength(2),
		},
		Size: scraper.Field{
			Name: "size",
			Strategies: []scraper.Strategy{
				scraper.Text(`[data-cy="ad-size"]`),
				scraper.Text(`li:contains("mp")`),
			},
			Accept: scraper.HasSizeUnit,
		},
		Rooms: scraper.Field{
			Name: "rooms",
			Strategies: []scraper.Strategy{
				scraper.Text(`[data-cy="ad-rooms"]`),
				scraper.Text(`li:contains("camer")`),
			},
			Accept: scraper.HasRoomMarker,
		},
	}
}

// New creates the imobiliare.ro extractor.
func New(searchURL string, renderer scraper.Renderer, logger *utils.Logger) *scraper.Extractor {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	return scraper.NewExtractor(layout(searchURL), renderer, logger)
}
