package browser

import (
	"context"
	"fmt"
	"time"

	"go-easyapply-automation/internal/logger"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

var launchArgs = []string{
	"--disable-blink-features=AutomationControlled",
	"--disable-gpu",
	"--disable-dev-shm-usage",
	"--disable-setuid-sandbox",
	"--no-first-run",
	"--no-sandbox",
	"--no-zygote",
	"--ignore-certificate-errors",
	"--disable-extensions",
	"--disable-infobars",
	"--disable-notifications",
	"--disable-popup-blocking",
}

// DefaultHeaders are sent with every browser request and with plain page fetches.
var DefaultHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET",
	"Access-Control-Allow-Headers": "Content-Type",
	"Access-Control-Max-Age":       "3600",
	"User-Agent":                   "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36",
}

type LaunchOptions struct {
	Headless bool
	SlowMo   time.Duration
	// DefaultTimeout applies to every page opened in the context.
	DefaultTimeout time.Duration
}

type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    LaunchOptions
	log     *zap.Logger
}

func NewPlaywright(ctx context.Context, opts LaunchOptions, log *zap.Logger) (*PlaywrightManager, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log = logger.OrNop(log)

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     launchArgs,
	}
	if opts.SlowMo > 0 {
		launch.SlowMo = playwright.Float(float64(opts.SlowMo.Milliseconds()))
	}
	browser, err := pw.Chromium.Launch(launch)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch chromium: %w", err)
	}
	log.Info("🌐 Browser launched", zap.Bool("headless", opts.Headless))

	return &PlaywrightManager{pw: pw, browser: browser, opts: opts, log: log}, nil
}

// NewContext opens a browser context, restoring the stored session when there is one.
func (pm *PlaywrightManager) NewContext(store *SessionStore) (playwright.BrowserContext, error) {
	contextOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 1400,
		},
		ExtraHttpHeaders: DefaultHeaders,
	}
	if store != nil && store.Exists() {
		contextOpts.StorageStatePath = playwright.String(store.Path())
		pm.log.Info("🍪 Restoring session", zap.String("path", store.Path()))
	} else {
		pm.log.Warn("⚠️ No stored session, this run may need an interactive login")
	}

	browserCtx, err := pm.browser.NewContext(contextOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	if pm.opts.DefaultTimeout > 0 {
		browserCtx.SetDefaultTimeout(float64(pm.opts.DefaultTimeout.Milliseconds()))
	}
	return browserCtx, nil
}

func (pm *PlaywrightManager) Close() error {
	if err := pm.browser.Close(); err != nil {
		pm.log.Warn("⚠️ Failed to close browser", zap.Error(err))
	}
	if err := pm.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}
