package glassdoor

import (
	"context"
	"fmt"
	"strings"

	"go-easyapply-automation/internal/browser"
	"go-easyapply-automation/internal/logger"
	"go-easyapply-automation/internal/scraper"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"
)

const (
	jobLinkSelector = "a.jobLink"
	nextSelector    = "li.next"
	listingsPath    = "/Job/jobs.htm"

	DefaultMaxPages = 30
)

type Options struct {
	BaseURL  string
	Filters  scraper.ListingFilters
	MaxPages int
	// Pause runs between result pages. Nil means a short random human-like delay.
	Pause func()
}

// Crawler collects job application links from Glassdoor search results.
type Crawler struct {
	page ListingPage
	opts Options
	log  *zap.Logger
}

// ListingPage is re-exported so callers can build a crawler without importing scraper.
type ListingPage = scraper.ListingPage

func NewCrawler(page ListingPage, opts Options, log *zap.Logger) *Crawler {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	if opts.Pause == nil {
		opts.Pause = func() { browser.RandomDelay(1000, 2500) }
	}
	return &Crawler{page: page, opts: opts, log: logger.OrNop(log).Named("glassdoor")}
}

func (c *Crawler) Name() string {
	return "Glassdoor"
}

// GoToListings opens the search page, runs the query and re-opens the results with
// the listing filters applied.
func (c *Crawler) GoToListings(ctx context.Context, q scraper.SearchQuery) error {
	c.log.Info("🔍 Navigating to listings...", zap.Stringer("query", q))

	if err := c.page.Goto(ctx, c.opts.BaseURL+listingsPath); err != nil {
		return fmt.Errorf("open listings: %w", err)
	}
	if err := c.page.Search(ctx, q); err != nil {
		return fmt.Errorf("search %s: %w", q, err)
	}

	filtered, err := c.opts.Filters.Apply(c.page.URL())
	if err != nil {
		return fmt.Errorf("apply listing filters: %w", err)
	}
	if err := c.page.Goto(ctx, filtered); err != nil {
		return fmt.Errorf("open filtered listings: %w", err)
	}
	return nil
}

// AggregateLinks walks the result pages and returns every job link seen.
func (c *Crawler) AggregateLinks(ctx context.Context, q scraper.SearchQuery) (mapset.Set[string], error) {
	err := scraper.RetryNavigation(ctx, c.log, "listings", func() error {
		return c.GoToListings(ctx, q)
	})
	if err != nil {
		return nil, err
	}

	total := mapset.NewSet[string]()
	for pageNo := 1; ; pageNo++ {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		hrefs, err := c.page.LinkHrefs(jobLinkSelector)
		if err != nil {
			return total, fmt.Errorf("read links on page %d: %w", pageNo, err)
		}
		pageSet := mapset.NewSet(hrefs...)
		total = total.Union(pageSet)
		c.log.Info("📦 Collected job links",
			zap.Int("page", pageNo),
			zap.Int("on_page", pageSet.Cardinality()),
			zap.Int("total", total.Cardinality()))

		if pageNo >= c.opts.MaxPages {
			c.log.Warn("⚠️ Page ceiling reached", zap.Int("max_pages", c.opts.MaxPages))
			break
		}

		clicked, err := c.page.ClickNext(nextSelector)
		if err != nil {
			c.log.Info("⏹️ Next page control failed, stopping", zap.Error(err))
			break
		}
		if !clicked {
			c.log.Info("✅ Reached last page", zap.Int("pages", pageNo))
			break
		}
		if err := c.page.WaitForNetworkIdle(); err != nil {
			c.log.Info("⏹️ Next page did not settle, stopping", zap.Error(err))
			break
		}
		c.opts.Pause()
	}

	return total, nil
}

// GetURLs aggregates the links and resolves them to absolute, unique job URLs.
func (c *Crawler) GetURLs(ctx context.Context, q scraper.SearchQuery) ([]scraper.JobURL, error) {
	links, err := c.AggregateLinks(ctx, q)
	if err != nil {
		return nil, err
	}
	urls, err := scraper.ResolveLinks(c.opts.BaseURL, links)
	if err != nil {
		return nil, err
	}
	c.log.Info("🔗 Resolved job URLs", zap.Int("links", links.Cardinality()), zap.Int("urls", len(urls)))
	return urls, nil
}
