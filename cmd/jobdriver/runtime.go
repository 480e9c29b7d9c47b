package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"go-easyapply-automation/internal/browser"
	"go-easyapply-automation/internal/database"
	"go-easyapply-automation/internal/reporter"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// browserSession is one browser context restored from, and saved back to, the session file.
type browserSession struct {
	pm    *browser.PlaywrightManager
	ctx   playwright.BrowserContext
	store *browser.SessionStore
	log   *zap.Logger
}

func (a *app) openBrowser(ctx context.Context, headless bool) (*browserSession, error) {
	pm, err := browser.NewPlaywright(ctx, browser.LaunchOptions{
		Headless:       headless,
		SlowMo:         100 * time.Millisecond,
		DefaultTimeout: a.cfg.NavigationTimeout,
	}, a.log)
	if err != nil {
		return nil, err
	}

	store := browser.NewSessionStore(a.cfg.SessionPath)
	browserCtx, err := pm.NewContext(store)
	if err != nil {
		pm.Close()
		return nil, err
	}
	return &browserSession{pm: pm, ctx: browserCtx, store: store, log: a.log}, nil
}

// Close writes the session file when save is set, then shuts the browser down.
// A failed save is returned.
func (s *browserSession) Close(save bool) error {
	var saveErr error
	if save {
		if saveErr = s.store.Save(s.ctx); saveErr == nil {
			s.log.Info("💾 Session saved", zap.String("path", s.store.Path()))
		}
	}
	if err := s.ctx.Close(); err != nil {
		s.log.Debug("Could not close browser context", zap.Error(err))
	}
	if err := s.pm.Close(); err != nil {
		s.log.Warn("⚠️ Failed to stop Playwright", zap.Error(err))
	}
	return saveErr
}

func (a *app) newReporter(out io.Writer) reporter.Reporter {
	reporters := []reporter.Reporter{reporter.NewConsole(out)}
	if a.cfg.TelegramEnabled() {
		tg, err := reporter.NewTelegram(a.cfg.TelegramToken, a.cfg.TelegramChatID)
		if err != nil {
			a.log.Warn("⚠️ Telegram disabled", zap.Error(err))
		} else {
			a.log.Info("🤖 Telegram notifications enabled")
			reporters = append(reporters, tg)
		}
	}
	return reporter.NewMulti(a.log, reporters...)
}

// openRepository connects to PostgreSQL when DATABASE_URL is set. Nil means disabled.
func (a *app) openRepository(ctx context.Context) *database.Repository {
	if a.cfg.DatabaseURL == "" {
		return nil
	}
	repo, err := database.ConnectDB(ctx, a.cfg.DatabaseURL, a.log)
	if err != nil {
		a.log.Warn("⚠️ Attempt log disabled", zap.Error(fmt.Errorf("connect: %w", err)))
		return nil
	}
	a.log.Info("🗄️ Recording attempts to PostgreSQL")
	return repo
}
