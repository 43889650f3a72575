package scraper

import (
	"context"
	"time"

	"housing-agent/models"
)

// PageRequest asks a Renderer for the DOM of one search page.
type PageRequest struct {
	Source       models.Source
	URL          string
	WaitSelector string
}

// Renderer produces the HTML of a page after its dynamic content has loaded.
type Renderer interface {
	Render(ctx context.Context, req PageRequest) (string, error)
}

// Timeouts bounds each blocking step of a render.
type Timeouts struct {
	Navigate time.Duration
	Settle   time.Duration
	Wait     time.Duration
}

// DefaultTimeouts mirrors what the source sites need in practice.
var DefaultTimeouts = Timeouts{
	Navigate: 60 * time.Second,
	Settle:   3 * time.Second,
	Wait:     15 * time.Second,
}
