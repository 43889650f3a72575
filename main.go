package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"housing-agent/config"
	"housing-agent/delivery"
	"housing-agent/digest"
	"housing-agent/scraper"
	"housing-agent/scraper/imobiliare"
	"housing-agent/scraper/olx"
	"housing-agent/scraper/storia"
	"housing-agent/scraper/trimbitasu"
	"housing-agent/services"
	"housing-agent/storage"
	"housing-agent/utils"
)

// Exit codes. exitStateNotSaved means the digest went out but the seen-set
// was not persisted.
const (
	exitFailure       = 1
	exitStateNotSaved = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := utils.NewLogger()
	cfg := config.Load()
	logger.SetDebug(cfg.LogDebug)

	logger.Info("=== Housing Agent starting ===")
	logger.Info("Config: fetch=%s | store=%s | delivery=%s | interval=%v",
		cfg.FetchMode, cfg.StoreBackend, cfg.DeliveryMode, cfg.RunInterval)

	criteria, err := config.LoadCriteria(cfg.CriteriaPath)
	if err != nil {
		logger.Error("Invalid criteria: %v", err)
		return exitFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deliverer, err := newDeliverer(cfg, logger)
	if err != nil {
		logger.Error("Failed to set up delivery: %v", err)
		return exitFailure
	}

	// The seen-set lives for the whole process so scheduled runs share it.
	store, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("Failed to open seen-set: %v", err)
		return exitFailure
	}
	defer store.Close()

	var rawWriter storage.RawListingWriter
	if cfg.CSVOutputPath != "" {
		w, err := storage.NewCSVWriter(cfg.CSVOutputPath)
		if err != nil {
			logger.Warn("CSV snapshot disabled: %v", err)
		} else {
			defer w.Close()
			rawWriter = w
		}
	}

	pipeline := services.NewPipeline(services.PipelineConfig{
		Collectors:       newCollectors(cfg, logger),
		Store:            store,
		Summarizer:       newSummarizer(cfg, logger),
		Deliverer:        deliverer,
		RawWriter:        rawWriter,
		Criteria:         criteria,
		MinListings:      cfg.MinListings,
		MaxListings:      cfg.MaxListings,
		DeliveryAttempts: cfg.DeliveryAttempts,
		SourceStaggerMs:  cfg.SourceStaggerMs,
	}, logger)

	code := runOnce(ctx, pipeline, cfg.CSVOutputPath, logger)
	if cfg.RunInterval <= 0 {
		return code
	}

	ticker := time.NewTicker(cfg.RunInterval)
	defer ticker.Stop()
	logger.Info("Next run in %v", cfg.RunInterval)
	for {
		select {
		case <-ctx.Done():
			logger.Info("=== Housing Agent stopped ===")
			return 0
		case <-ticker.C:
			runOnce(ctx, pipeline, cfg.CSVOutputPath, logger)
			logger.Info("Next run in %v", cfg.RunInterval)
		}
	}
}

// runOnce runs the pipeline a single time and returns the exit code.
func runOnce(ctx context.Context, pipeline *services.Pipeline, csvPath string, logger *utils.Logger) int {
	report, err := pipeline.Run(ctx)
	if report != nil {
		services.NewReportService(os.Stdout).Print(report)
	}

	switch {
	case errors.Is(err, services.ErrStateNotPersisted):
		logger.Error("!!! Digest delivered but seen listings were NOT saved: %v", err)
		logger.Error("!!! The next run will report the same listings again")
		return exitStateNotSaved
	case err != nil:
		logger.Error("Run failed: %v", err)
		return exitFailure
	}

	if csvPath != "" {
		fmt.Printf("  Done. Raw CSV → %s\n\n", csvPath)
	}
	logger.Info("=== Housing Agent completed successfully ===")
	return 0
}

func newCollectors(cfg *config.Config, logger *utils.Logger) []services.Collector {
	timeouts := scraper.Timeouts{
		Navigate: cfg.NavigateTimeout,
		Settle:   cfg.SettleDelay,
		Wait:     cfg.WaitTimeout,
	}

	var renderer scraper.Renderer
	if cfg.FetchMode == "static" {
		renderer = scraper.NewStaticFetcher(timeouts, logger)
	} else {
		renderer = scraper.NewBrowser(scraper.BrowserOptions{
			ChromeBin:     cfg.ChromeBin,
			Timeouts:      timeouts,
			MaxRetries:    cfg.MaxRetries,
			ScreenshotDir: cfg.ScreenshotDir,
		}, logger)
	}

	return []services.Collector{
		olx.New(cfg.OLXURL, renderer, logger),
		imobiliare.New(cfg.ImobiliareURL, renderer, logger),
		storia.New(cfg.StoriaURL, renderer, logger),
		trimbitasu.New(cfg.TrimbitasuURL, renderer, logger),
	}
}

func openStore(cfg *config.Config, logger *utils.Logger) (storage.SeenStore, error) {
	switch cfg.StoreBackend {
	case "postgres":
		return storage.OpenPostgresStore(cfg.DSN(), logger)
	case "memory":
		logger.Warn("[store] Using in-memory seen-set; state is kept across scheduled runs but lost on exit")
		return storage.NewMemoryStore(), nil
	default:
		s := storage.OpenFileStore(cfg.SeenPath, logger)
		logger.Info("[store] Loaded %d previously seen listings from %s", s.Len(), cfg.SeenPath)
		return s, nil
	}
}

func newSummarizer(cfg *config.Config, logger *utils.Logger) services.Summarizer {
	if cfg.OpenAIKey == "" {
		logger.Warn("[digest] OPENAI_API_KEY not set, using plain digest")
		return digest.Plain{}
	}
	return digest.NewOpenAI(digest.OpenAIOptions{APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel}, logger)
}

func newDeliverer(cfg *config.Config, logger *utils.Logger) (services.Deliverer, error) {
	switch cfg.DeliveryMode {
	case "telegram":
		return delivery.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, "", logger)
	case "stdout":
		return delivery.NewWriter(os.Stdout), nil
	default:
		return delivery.NewEmail(delivery.EmailOptions{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.EmailUser,
			Password: cfg.EmailPass,
			To:       cfg.EmailTo,
		}, logger)
	}
}
