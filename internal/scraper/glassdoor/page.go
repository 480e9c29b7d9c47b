package glassdoor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-easyapply-automation/internal/browser"
	"go-easyapply-automation/internal/models"
	"go-easyapply-automation/internal/scraper"

	"github.com/playwright-community/playwright-go"
)

const (
	keywordPlaceholder = "Find your perfect job"
	locationLabel      = "Search location"
)

// PlaywrightListingPage drives the Glassdoor search UI through a Playwright page.
type PlaywrightListingPage struct {
	page       playwright.Page
	navTimeout time.Duration
}

func NewPlaywrightListingPage(page playwright.Page, navTimeout time.Duration) *PlaywrightListingPage {
	if navTimeout <= 0 {
		navTimeout = 10 * time.Second
	}
	return &PlaywrightListingPage{page: page, navTimeout: navTimeout}
}

func (p *PlaywrightListingPage) timeout() *float64 {
	return playwright.Float(float64(p.navTimeout.Milliseconds()))
}

func (p *PlaywrightListingPage) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   p.timeout(),
	})
	if err != nil {
		return fmt.Errorf("goto %s: %w", url, browser.ClassifyNavigation(err))
	}
	return nil
}

// Search fills the keyword and location boxes and picks the matching location suggestion.
func (p *PlaywrightListingPage) Search(ctx context.Context, q scraper.SearchQuery) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	keyword := p.page.GetByPlaceholder(keywordPlaceholder)
	if err := keyword.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: p.timeout(),
	}); err != nil {
		return fmt.Errorf("search bar did not render: %w", browser.ClassifyNavigation(err))
	}
	if err := keyword.Fill(q.PositionTitle); err != nil {
		return fmt.Errorf("fill position title: %w", browser.ClassifyNavigation(err))
	}

	loc := p.page.GetByLabel(locationLabel)
	if err := loc.Press("ControlOrMeta+a", playwright.LocatorPressOptions{Timeout: p.timeout()}); err != nil {
		return fmt.Errorf("focus location: %w", browser.ClassifyNavigation(err))
	}
	if err := loc.Fill(q.Location); err != nil {
		return fmt.Errorf("fill location: %w", browser.ClassifyNavigation(err))
	}

	option := p.page.GetByRole("option", playwright.PageGetByRoleOptions{Name: q.Location}).Locator("div").First()
	if err := option.Click(playwright.LocatorClickOptions{Timeout: p.timeout()}); err != nil {
		if !errors.Is(browser.ClassifyNavigation(err), models.ErrNavigationTimeout) {
			return fmt.Errorf("pick location: %w", browser.ClassifyNavigation(err))
		}
		// no suggestion list, submit what was typed
		if err := loc.Press("Enter"); err != nil {
			return fmt.Errorf("submit search: %w", browser.ClassifyNavigation(err))
		}
	}

	if err := p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateDomcontentloaded,
		Timeout: p.timeout(),
	}); err != nil {
		return fmt.Errorf("results did not load: %w", browser.ClassifyNavigation(err))
	}
	return nil
}

func (p *PlaywrightListingPage) URL() string {
	return p.page.URL()
}

func (p *PlaywrightListingPage) LinkHrefs(selector string) ([]string, error) {
	links, err := p.page.Locator(selector).All()
	if err != nil {
		return nil, browser.ClassifyNavigation(err)
	}
	hrefs := make([]string, 0, len(links))
	for _, link := range links {
		href, err := link.GetAttribute("href")
		if err != nil || href == "" {
			continue
		}
		hrefs = append(hrefs, href)
	}
	return hrefs, nil
}

func (p *PlaywrightListingPage) ClickNext(selector string) (bool, error) {
	next := p.page.Locator(selector).First()
	count, err := p.page.Locator(selector).Count()
	if err != nil {
		return false, browser.ClassifyNavigation(err)
	}
	if count == 0 {
		return false, nil
	}
	if err := next.Click(playwright.LocatorClickOptions{Timeout: p.timeout()}); err != nil {
		return false, browser.ClassifyNavigation(err)
	}
	return true, nil
}

func (p *PlaywrightListingPage) WaitForNetworkIdle() error {
	return browser.ClassifyNavigation(p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: p.timeout(),
	}))
}
