package scraper

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"housing-agent/models"
	"housing-agent/utils"
)

// MinTitleLength rejects decorative fragments picked up as titles.
const MinTitleLength = 5

// Layout describes where a source site keeps its listing data.
type Layout struct {
	Source    models.Source
	SearchURL string
	// BaseURL resolves relative links found on cards.
	BaseURL string
	// WaitSelector is awaited after navigation before the DOM is read.
	WaitSelector string
	// Cards are container selectors; the first one matching anything wins.
	Cards []string
	// StripQuery drops tracking query strings from listing links.
	StripQuery bool

	Title       Field
	Price       Field
	Link        Field
	Area        Field
	Size        Field
	Rooms       Field
	Description Field
}

// Extractor turns a rendered search page of one source into raw listings.
type Extractor struct {
	layout   Layout
	base     *url.URL
	renderer Renderer
	logger   *utils.Logger
}

// NewExtractor creates an Extractor for layout. renderer may be nil when the
// extractor is only used on already-rendered pages.
func NewExtractor(layout Layout, renderer Renderer, logger *utils.Logger) *Extractor {
	base, err := url.Parse(layout.BaseURL)
	if err != nil || layout.BaseURL == "" {
		base = nil
	}
	return &Extractor{layout: layout, base: base, renderer: renderer, logger: logger}
}

// Source returns the site this extractor handles.
func (e *Extractor) Source() models.Source {
	return e.layout.Source
}

// Collect renders the source's search page and extracts every admitted card.
func (e *Extractor) Collect(ctx context.Context) ([]models.RawListing, error) {
	if e.renderer == nil {
		return nil, fmt.Errorf("%s: no renderer configured", e.layout.Source)
	}

	start := time.Now()
	e.logger.Info("[%s] Navigating to %s", e.layout.Source, e.layout.SearchURL)

	page, err := e.renderer.Render(ctx, PageRequest{
		Source:       e.layout.Source,
		URL:          e.layout.SearchURL,
		WaitSelector: e.layout.WaitSelector,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: render: %w", e.layout.Source, err)
	}

	listings, err := e.Extract(page)
	if err != nil {
		return nil, err
	}
	out := slices.Collect(listings)

	e.logger.Info("[%s] Scraped %d listings in %v", e.layout.Source, len(out), time.Since(start).Round(time.Millisecond))
	return out, nil
}

// Extract parses page and returns its admitted listings in document order.
// A card that fails to extract is logged and skipped.
func (e *Extractor) Extract(page string) (iter.Seq[models.RawListing], error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("%s: parse page: %w", e.layout.Source, err)
	}

	cards := e.findCards(doc)
	e.logger.Debug("[%s] Found %d potential listing cards", e.layout.Source, cards.Length())

	return func(yield func(models.RawListing) bool) {
		cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
			listing, err := e.extractCard(card)
			if err != nil {
				e.logger.Warn("[%s] Error parsing card %d: %v", e.layout.Source, i, err)
				return true
			}
			if listing == nil {
				return true
			}
			return yield(*listing)
		})
	}, nil
}

func (e *Extractor) findCards(doc *goquery.Document) *goquery.Selection {
	for _, selector := range e.layout.Cards {
		if cards := doc.Find(selector); cards.Length() > 0 {
			return cards
		}
	}
	return doc.Selection.Slice(0, 0)
}

// extractCard returns nil without error when the card lacks a title or link.
func (e *Extractor) extractCard(card *goquery.Selection) (listing *models.RawListing, err error) {
	defer func() {
		if r := recover(); r != nil {
			listing, err = nil, fmt.Errorf("card extraction panicked: %v", r)
		}
	}()

	title := e.layout.Title.Resolve(card)
	if len([]rune(title)) <= MinTitleLength {
		return nil, nil
	}

	link := e.absoluteURL(e.layout.Link.Resolve(card))
	if link == "" {
		return nil, nil
	}

	return &models.RawListing{
		Source:      e.layout.Source,
		Title:       title,
		Price:       e.layout.Price.Resolve(card),
		URL:         link,
		Area:        e.layout.Area.Resolve(card),
		Size:        e.layout.Size.Resolve(card),
		Rooms:       e.layout.Rooms.Resolve(card),
		Description: e.layout.Description.Resolve(card),
	}, nil
}

func (e *Extractor) absoluteURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if !u.IsAbs() {
		if e.base == nil {
			return ""
		}
		u = e.base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}

	u.Fragment = ""
	if e.layout.StripQuery {
		u.RawQuery = ""
	}
	return u.String()
}
