package storia

import (
	"housing-agent/models"
	"housing-agent/scraper"
	"housing-agent/utils"
)

// DefaultSearchURL pre-filters on the portal side by area and price.
const DefaultSearchURL = "https://www.storia.ro/ro/rezultate/vanzare/apartament/bucuresti?limit=72&market=ALL&areaMin=80&priceMax=340000&by=DEFAULT&direction=DESC&viewType=listing"

func layout(searchURL string) scraper.Layout {
	return scraper.Layout{
		Source:       models.SourceStoria,
		SearchURL:    searchURL,
		BaseURL:      "https://www.storia.ro",
		WaitSelector: `[data-cy="listing-item"]`,
		Cards:        []string{`[data-cy="listing-item"]`, `[data-testid="listing-item"]`},

		Title: scraper.Field{
			Name: "title",
			Strategies: []scraper.Strategy{
				scraper.Text(`[data-cy="listing-item-title"]`),
				scraper.Text("h3"),
			},
			Accept: scraper.MinLength(scraper.MinTitleLength),
		},
		Price: scraper.Field{
			Name: "price",
			Strategies: []scraper.Strategy{
				scraper.Text(`[data-cy="listing-item-price"]`),
				scraper.Text(`[data-testid="listing-item-price"]`),
				scraper.Text(`span[direction="horizontal"]`),
			},
			Accept: scraper.HasPriceMarker,
		},
		Link: scraper.Field{
			Name: "url",
			Strategies: []scraper.Strategy{
				scraper.Attr(`a[href*="/oferta/"]`, "href"),
				scraper.Attr(`[data-cy="listing-item-link"]`, "href"),
			},
			Accept: scraper.NotEmpty,
		},
		Area: scraper.Field{
			Name: "area",
			Strategies: []scraper.Strategy{
				scraper.Text(`[data-cy="listing-item-location"]`),
				scraper.Text(`[data-testid="advert-card-address"]`),
				scraper.Text("address"),
			},
			Accept: scraper.MinLength(2),
		},
		Size: scraper.Field{
			Name: "size",
			Strategies: []scraper.Strategy{
				scraper.Text(`[data-cy="listing-item-area"]`),
				scraper.Text(`dd:contains("m²")`),
			},
			Accept: scraper.HasSizeUnit,
		},
		Rooms: scraper.Field{
			Name: "rooms",
			Strategies: []scraper.Strategy{
				scraper.Text(`[data-cy="listing-item-rooms"]`),
				scraper.Text(`dd:contains("camer")`),
			},
			Accept: scraper.HasRoomMarker,
		},
	}
}

// New creates the storia.ro extractor.
func New(searchURL string, renderer scraper.Renderer, logger *utils.Logger) *scraper.Extractor {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	return scraper.NewExtractor(layout(searchURL), renderer, logger)
}
