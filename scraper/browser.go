package scraper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"housing-agent/utils"
)

const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptLanguage = "ro-RO,ro;q=0.9,en-US;q=0.8,en;q=0.7"
	timezone       = "Europe/Bucharest"
)

// Browser renders pages in a headless Chrome. Every Render call launches its
// own browser process and closes it before returning, so concurrent renders
// share nothing.
type Browser struct {
	chromeBin     string
	timeouts      Timeouts
	screenshotDir string
	retry         *utils.RetryConfig
	logger        *utils.Logger
}

// BrowserOptions configures a Browser.
type BrowserOptions struct {
	ChromeBin     string
	Timeouts      Timeouts
	MaxRetries    int
	ScreenshotDir string
}

// NewBrowser creates a Browser. An empty ChromeBin is looked up on the host.
func NewBrowser(opts BrowserOptions, logger *utils.Logger) *Browser {
	bin := opts.ChromeBin
	if bin == "" {
		bin = findChromeBinary()
	}
	return &Browser{
		chromeBin:     bin,
		timeouts:      opts.Timeouts,
		screenshotDir: opts.ScreenshotDir,
		retry: &utils.RetryConfig{
			MaxAttempts: opts.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		logger: logger,
	}
}

// Render implements Renderer.
func (b *Browser) Render(ctx context.Context, req PageRequest) (string, error) {
	var html string
	err := b.retry.Do(ctx, fmt.Sprintf("%s-render", req.Source), func() error {
		var err error
		html, err = b.render(ctx, req)
		return err
	})
	return html, err
}

func (b *Browser) render(ctx context.Context, req PageRequest) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, b.allocatorOptions()...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelTab()

	// The first Run starts the browser and must not carry a deadline.
	if err := chromedp.Run(tabCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": acceptLanguage}),
		emulation.SetTimezoneOverride(timezone),
	); err != nil {
		return "", fmt.Errorf("start browser: %w", err)
	}

	navCtx, cancelNav := context.WithTimeout(tabCtx, b.timeouts.Navigate)
	err := chromedp.Run(navCtx, chromedp.Navigate(req.URL))
	cancelNav()
	if err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("navigate %s: %w", req.URL, err)
		}
		b.logger.Warn("[%s] Navigation timed out after %v — reading partial page", req.Source, b.timeouts.Navigate)
	}

	if err := chromedp.Run(tabCtx, chromedp.Sleep(b.timeouts.Settle)); err != nil {
		return "", fmt.Errorf("settle: %w", err)
	}

	if req.WaitSelector != "" {
		waitCtx, cancelWait := context.WithTimeout(tabCtx, b.timeouts.Wait)
		err := chromedp.Run(waitCtx, chromedp.WaitReady(req.WaitSelector, chromedp.ByQuery))
		cancelWait()
		if err != nil {
			b.logger.Warn("[%s] No listings found or timeout waiting for %q", req.Source, req.WaitSelector)
		}
	}

	readCtx, cancelRead := context.WithTimeout(tabCtx, b.timeouts.Wait)
	defer cancelRead()

	var html string
	if err := chromedp.Run(readCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		b.screenshot(tabCtx, req)
		return "", fmt.Errorf("read DOM: %w", err)
	}
	return html, nil
}

// screenshot saves the current viewport for debugging a failed render.
func (b *Browser) screenshot(tabCtx context.Context, req PageRequest) {
	if b.screenshotDir == "" {
		return
	}

	shotCtx, cancel := context.WithTimeout(tabCtx, 10*time.Second)
	defer cancel()

	var buf []byte
	if err := chromedp.Run(shotCtx, chromedp.FullScreenshot(&buf, 80)); err != nil {
		return
	}
	if err := os.MkdirAll(b.screenshotDir, 0755); err != nil {
		return
	}
	path := filepath.Join(b.screenshotDir, string(req.Source)+"-error.png")
	if err := os.WriteFile(path, buf, 0644); err == nil {
		b.logger.Info("[%s] Saved error screenshot to %s", req.Source, path)
	}
}

func (b *Browser) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("lang", "ro-RO"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(userAgent),
	)
	if b.chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(b.chromeBin))
	}
	return opts
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
