package apply

import (
	"context"
	"fmt"
	"time"

	"go-easyapply-automation/internal/browser"
	"go-easyapply-automation/internal/logger"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// PlaywrightOpener opens job pages in a shared browser context.
type PlaywrightOpener struct {
	browserCtx playwright.BrowserContext
	navTimeout time.Duration
	log        *zap.Logger
}

func NewPlaywrightOpener(browserCtx playwright.BrowserContext, navTimeout time.Duration, log *zap.Logger) *PlaywrightOpener {
	if navTimeout <= 0 {
		navTimeout = 10 * time.Second
	}
	return &PlaywrightOpener{browserCtx: browserCtx, navTimeout: navTimeout, log: logger.OrNop(log).Named("opener")}
}

// Open navigates to jobURL and clicks "Easy Apply". The form popup becomes the target;
// without a popup the job page itself is.
func (o *PlaywrightOpener) Open(ctx context.Context, jobURL string) (Target, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout := playwright.Float(float64(o.navTimeout.Milliseconds()))

	page, err := o.browserCtx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("new page: %w", browser.ClassifyNavigation(err))
	}
	if _, err := page.Goto(jobURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   timeout,
	}); err != nil {
		page.Close()
		return nil, fmt.Errorf("goto %s: %w", jobURL, browser.ClassifyNavigation(err))
	}
	browser.RandomDelay(500, 1500)

	button := page.GetByRole("button", playwright.PageGetByRoleOptions{Name: "Easy Apply"}).First()
	popup, err := page.ExpectPopup(func() error {
		return button.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(float64(buttonTimeout.Milliseconds()))})
	}, playwright.PageExpectPopupOptions{Timeout: timeout})
	if err != nil {
		o.log.Info("📄 No application popup, using the job page", zap.String("url", jobURL), zap.Error(err))
		return &playwrightTarget{page: page}, nil
	}

	if err := popup.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateDomcontentloaded,
		Timeout: timeout,
	}); err != nil {
		o.log.Warn("⚠️ Application popup did not finish loading", zap.Error(err))
	}
	o.log.Info("🪟 Application opened", zap.String("url", popup.URL()))
	return &playwrightTarget{page: popup, parent: page}, nil
}

type playwrightTarget struct {
	page   playwright.Page
	parent playwright.Page
}

func (t *playwrightTarget) URL() string {
	return t.page.URL()
}

func (t *playwrightTarget) Page() Surface {
	return browser.NewPageSurface(t.page)
}

func (t *playwrightTarget) Frame(selector string) Surface {
	return browser.NewFrameSurface(t.page, selector)
}

func (t *playwrightTarget) Close() error {
	err := t.page.Close()
	if t.parent != nil {
		if perr := t.parent.Close(); err == nil {
			err = perr
		}
	}
	return err
}
