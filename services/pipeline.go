package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"housing-agent/models"
	"housing-agent/storage"
	"housing-agent/utils"
)

// ErrStateNotPersisted marks a run whose digest went out but whose seen-set
// could not be saved. The next run will report the same listings again.
var ErrStateNotPersisted = errors.New("seen listings not persisted")

var errCollectorAborted = errors.New("collector did not finish")

// Collector scrapes one source.
type Collector interface {
	Source() models.Source
	Collect(ctx context.Context) ([]models.RawListing, error)
}

// Summarizer renders the digest text for the selected listings.
type Summarizer interface {
	Summarize(ctx context.Context, listings []models.NormalizedListing, rules models.DigestRules) (string, error)
}

// Deliverer sends a finished digest.
type Deliverer interface {
	Deliver(ctx context.Context, subject, body string) error
}

// PipelineConfig wires a Pipeline. RawWriter is optional.
type PipelineConfig struct {
	Collectors  []Collector
	Store       storage.SeenStore
	Summarizer  Summarizer
	Deliverer   Deliverer
	RawWriter   storage.RawListingWriter
	Criteria    models.FilterCriteria
	MinListings int
	MaxListings int
	// DeliveryAttempts bounds retries of a failed delivery.
	DeliveryAttempts int
	// SourceStaggerMs spaces out the start of each collector.
	SourceStaggerMs int
}

// Pipeline runs one collect, dedupe, rank and deliver cycle per Run call.
type Pipeline struct {
	cfg        PipelineConfig
	normalizer *Normalizer
	retry      *utils.RetryConfig
	now        func() time.Time
	logger     *utils.Logger
}

// NewPipeline creates a Pipeline. Zero listing bounds default to 8 and 15.
func NewPipeline(cfg PipelineConfig, logger *utils.Logger) *Pipeline {
	if cfg.MinListings <= 0 {
		cfg.MinListings = 8
	}
	if cfg.MaxListings <= 0 {
		cfg.MaxListings = 15
	}
	return &Pipeline{
		cfg:        cfg,
		normalizer: NewNormalizer(logger),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.DeliveryAttempts,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		now:    time.Now,
		logger: logger,
	}
}

// DigestSubject is the subject line of the digest sent at t.
func DigestSubject(t time.Time) string {
	return "Bucharest Housing Digest - " + t.Format("2006-01-02")
}

// Run executes one cycle. Source failures only shrink the result set. A
// summarize or deliver failure aborts the run before anything is marked seen.
// When the seen-set cannot be saved the report is still returned, together
// with an error wrapping ErrStateNotPersisted.
func (p *Pipeline) Run(ctx context.Context) (*models.RunReport, error) {
	report := &models.RunReport{
		RunID:     uuid.NewString(),
		StartedAt: p.now(),
		PerSource: make(map[models.Source]int),
		ByArea:    make(map[string]int),
	}
	defer func() { report.Finished = p.now() }()

	p.logger.Info("[pipeline] Run %s started with %d sources, %d listings already seen",
		report.RunID, len(p.cfg.Collectors), p.cfg.Store.Len())

	all := p.merge(p.collectAll(ctx), report)
	report.Scraped = len(all)
	p.writeRaw(all)

	fresh := make([]models.RawListing, 0, len(all))
	for _, l := range all {
		if !p.cfg.Store.IsKnown(l.URL) {
			fresh = append(fresh, l)
		}
	}
	report.Fresh = len(fresh)
	p.logger.Info("[pipeline] Total listings scraped: %d | new: %d", report.Scraped, report.Fresh)

	if len(fresh) == 0 {
		p.logger.Info("[pipeline] No new listings found")
		report.StateSaved = true
		report.SeenTotal = p.cfg.Store.Len()
		return report, nil
	}

	normalized := p.normalizer.NormalizeAll(fresh)
	for _, l := range normalized {
		if reason := Exclusion(l, p.cfg.Criteria); reason != "" {
			p.logger.Debug("[pipeline] Excluded %s: %s", l.URL, reason)
		}
	}
	selected := Select(normalized, p.cfg.Criteria)
	report.Passed = len(selected)
	for _, l := range selected {
		area := l.Area
		if area == "" {
			area = "unknown"
		}
		report.ByArea[area]++
	}

	shown := selected[:min(len(selected), p.cfg.MaxListings)]
	report.Shown = len(shown)
	report.TopScored = shown[:min(len(shown), 5)]

	if len(shown) > 0 {
		if err := p.digest(ctx, shown, report); err != nil {
			return report, err
		}
	} else {
		p.logger.Info("[pipeline] None of %d new listings passed the filters, skipping digest", len(fresh))
	}

	urls := make([]string, len(fresh))
	for i, l := range fresh {
		urls[i] = l.URL
	}
	p.cfg.Store.RecordSeen(urls)
	report.SeenTotal = p.cfg.Store.Len()

	if err := p.cfg.Store.Save(); err != nil {
		p.logger.Error("[pipeline] Failed to save seen listings: %v", err)
		return report, fmt.Errorf("%w: %v", ErrStateNotPersisted, err)
	}
	report.StateSaved = true

	p.logger.Info("[pipeline] Run %s completed in %v", report.RunID, time.Since(report.StartedAt).Round(time.Millisecond))
	return report, nil
}

func (p *Pipeline) digest(ctx context.Context, shown []models.NormalizedListing, report *models.RunReport) error {
	rules := models.DigestRules{
		Criteria:    p.cfg.Criteria,
		Weights:     Weights(p.cfg.Criteria),
		MinListings: p.cfg.MinListings,
		MaxListings: p.cfg.MaxListings,
		Screened:    report.Fresh,
		Passed:      report.Passed,
	}

	p.logger.Info("[pipeline] Generating digest for %d listings...", len(shown))
	body, err := p.cfg.Summarizer.Summarize(ctx, shown, rules)
	if err != nil {
		return fmt.Errorf("pipeline: summarize: %w", err)
	}

	subject := DigestSubject(p.now())
	p.logger.Info("[pipeline] Sending digest %q...", subject)
	err = p.retry.Do(ctx, "deliver", func() error {
		return p.cfg.Deliverer.Deliver(ctx, subject, body)
	})
	if err != nil {
		return fmt.Errorf("pipeline: deliver: %w", err)
	}
	report.DigestSent = true
	return nil
}

// collectAll runs every collector on its own goroutine. Results keep the
// order of the configured collectors.
func (p *Pipeline) collectAll(ctx context.Context) []models.SourceResult {
	results := make([]models.SourceResult, len(p.cfg.Collectors))
	pool := utils.NewWorkerPool(len(p.cfg.Collectors), p.cfg.SourceStaggerMs)
	pool.OnPanic(func(err error) {
		p.logger.Error("[pipeline] Collector %v", err)
	})

	for i, c := range p.cfg.Collectors {
		results[i] = models.SourceResult{Source: c.Source(), Err: errCollectorAborted}
		pool.Submit(func() {
			start := time.Now()
			listings, err := c.Collect(ctx)
			results[i] = models.SourceResult{
				Source:   c.Source(),
				Listings: listings,
				Err:      err,
				Elapsed:  time.Since(start),
			}
		})
	}
	pool.Wait()
	return results
}

// merge concatenates source results in order, dropping failed sources and
// urls already produced earlier in the same run.
func (p *Pipeline) merge(results []models.SourceResult, report *models.RunReport) []models.RawListing {
	urls := utils.NewURLSet()
	var all []models.RawListing
	for _, r := range results {
		if r.Err != nil {
			p.logger.Error("[%s] Scraper failed: %v", r.Source, r.Err)
			report.FailedSrc = append(report.FailedSrc, r.Source)
			report.PerSource[r.Source] = 0
			continue
		}
		report.PerSource[r.Source] = len(r.Listings)
		for _, l := range r.Listings {
			if l.URL == "" || !urls.Add(l.URL) {
				p.logger.Debug("[pipeline] Duplicate URL skipped: %s", l.URL)
				continue
			}
			all = append(all, l)
		}
	}
	p.logger.Debug("[pipeline] %d unique URLs after merge", urls.Size())
	return all
}

func (p *Pipeline) writeRaw(all []models.RawListing) {
	if p.cfg.RawWriter == nil || len(all) == 0 {
		return
	}
	if err := p.cfg.RawWriter.WriteRaw(all); err != nil {
		p.logger.Warn("[pipeline] CSV write failed: %v", err)
	}
}
