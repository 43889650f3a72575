package scraper

import (
	"context"
	"fmt"

	"github.com/gocolly/colly/v2"

	"housing-agent/utils"
)

// StaticFetcher fetches pages over plain HTTP without executing scripts.
// It suits sources that server-render their result lists and hosts without a
// Chrome binary.
type StaticFetcher struct {
	timeouts Timeouts
	logger   *utils.Logger
}

// NewStaticFetcher creates a StaticFetcher.
func NewStaticFetcher(timeouts Timeouts, logger *utils.Logger) *StaticFetcher {
	return &StaticFetcher{timeouts: timeouts, logger: logger}
}

// Render implements Renderer. The collector is created per call so that
// concurrent sources never share cookies or state.
func (f *StaticFetcher) Render(ctx context.Context, req PageRequest) (string, error) {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(f.timeouts.Navigate)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", acceptLanguage)
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	})

	var (
		body     string
		fetchErr error
	)
	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("fetch %s (status %d): %w", r.Request.URL, r.StatusCode, err)
	})

	if err := c.Visit(req.URL); err != nil {
		return "", fmt.Errorf("visit %s: %w", req.URL, err)
	}
	c.Wait()

	if fetchErr != nil {
		return "", fetchErr
	}
	f.logger.Debug("[%s] Fetched %d bytes without browser", req.Source, len(body))
	return body, nil
}
