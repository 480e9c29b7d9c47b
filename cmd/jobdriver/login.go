package main

import (
	"context"
	"fmt"
	"time"

	"go-easyapply-automation/internal/browser"
	"go-easyapply-automation/utils"

	"github.com/playwright-community/playwright-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const loggedInSelector = "body.loggedIn"

func newLoginCmd(a *app) *cobra.Command {
	var (
		cookiesPath string
		wait        time.Duration
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Open the site, wait for you to log in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLogin(cmd.Context(), cookiesPath, wait)
		},
	}
	cmd.Flags().StringVar(&cookiesPath, "cookies", "", "seed the session from an exported cookie array (JSON)")
	cmd.Flags().DurationVar(&wait, "wait", 5*time.Minute, "how long to wait for the login")
	return cmd
}

func (a *app) runLogin(ctx context.Context, cookiesPath string, wait time.Duration) error {
	sess, err := a.openBrowser(ctx, false)
	if err != nil {
		return err
	}

	if cookiesPath != "" {
		cookies, err := browser.LoadCookies(cookiesPath)
		if err != nil {
			sess.Close(false)
			return err
		}
		if err := sess.ctx.AddCookies(cookies); err != nil {
			sess.Close(false)
			return fmt.Errorf("add cookies: %w", err)
		}
		a.log.Info("🍪 Cookies loaded", zap.Int("count", len(cookies)), zap.String("path", cookiesPath))
	}

	page, err := sess.ctx.NewPage()
	if err != nil {
		sess.Close(false)
		return err
	}
	if _, err := page.Goto(a.cfg.BaseURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		sess.Close(false)
		return fmt.Errorf("open %s: %w", a.cfg.BaseURL, browser.ClassifyNavigation(err))
	}

	a.log.Info("⏳ Waiting for user to log in...", zap.Duration("timeout", wait))
	err = page.Locator(loggedInSelector).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(wait.Milliseconds())),
	})
	if err != nil {
		utils.NewScreenShotDebugger("", a.log).CaptureAndLog(page, "login-timeout", "🚨 Login was not detected")
		sess.Close(false)
		return fmt.Errorf("login not detected: %w", browser.ClassifyNavigation(err))
	}
	a.log.Info("✅ Logged in", zap.String("at", time.Now().Format("15:04:05")))

	return sess.Close(true)
}
