package main

import (
	"context"
	"errors"
	"os"

	"go-easyapply-automation/internal/browser"
	"go-easyapply-automation/internal/export"
	"go-easyapply-automation/internal/fetch"
	"go-easyapply-automation/internal/filter"
	"go-easyapply-automation/internal/models"
	"go-easyapply-automation/internal/reporter"
	"go-easyapply-automation/internal/scraper"
	"go-easyapply-automation/internal/scraper/glassdoor"
	"go-easyapply-automation/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type crawlFlags struct {
	include  string
	exclude  []string
	noFilter bool
	noCache  bool
	maxPages int
}

func newCrawlCmd(a *app) *cobra.Command {
	f := &crawlFlags{}
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Collect job links from the search results, filter them and export a batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCrawl(cmd.Context(), f)
		},
	}
	cmd.Flags().StringVar(&f.include, "include", "", "keyword a job page must contain (default from config, \"Easy Apply\")")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "extra stopwords")
	cmd.Flags().BoolVar(&f.noFilter, "no-filter", false, "export every collected link without fetching the pages")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "fetch job pages without the response cache")
	cmd.Flags().IntVar(&f.maxPages, "max-pages", 0, "result page ceiling (default from config)")
	return cmd
}

func (a *app) runCrawl(ctx context.Context, f *crawlFlags) error {
	cfg := a.cfg
	rep := a.newReporter(os.Stdout)
	query := scraper.SearchQuery{PositionTitle: cfg.PositionTitle, Location: cfg.Location}
	a.log.Info("🚀 Starting crawl", zap.Stringer("query", query))

	sess, err := a.openBrowser(ctx, cfg.Headless)
	if err != nil {
		return err
	}
	page, err := sess.ctx.NewPage()
	if err != nil {
		sess.Close(false)
		return err
	}

	maxPages := cfg.Listing.MaxPages
	if f.maxPages > 0 {
		maxPages = f.maxPages
	}
	crawler := glassdoor.NewCrawler(
		glassdoor.NewPlaywrightListingPage(page, cfg.NavigationTimeout),
		glassdoor.Options{
			BaseURL: cfg.BaseURL,
			Filters: scraper.ListingFilters{
				FromAgeDays:         cfg.Listing.FromAgeDays,
				MinSalary:           cfg.Listing.MinSalary,
				MaxSalary:           cfg.Listing.MaxSalary,
				ApplicationType:     cfg.Listing.ApplicationType,
				IncludeNoSalaryJobs: cfg.Listing.IncludeNoSalaryJobs,
				LocName:             cfg.Listing.LocName,
			},
			MaxPages: maxPages,
			Pause:    func() { browser.Linger(page) },
		},
		a.log,
	)

	urls, err := crawler.GetURLs(ctx, query)
	if err != nil {
		if errors.Is(err, models.ErrNavigationTimeout) {
			utils.NewScreenShotDebugger("", a.log).CaptureAndLog(page, "crawl-navigation-timeout", "🚨 Search results did not render")
		}
		sess.Close(false)
		return err
	}
	found := len(urls)

	var stats filter.Stats
	if !f.noFilter {
		urls, stats = a.filterURLs(ctx, urls, f, rep)
	}

	batch, err := export.NewStore(cfg.ExportDir).Write(urls)
	switch {
	case errors.Is(err, export.ErrEmptyBatch):
		a.log.Info("📭 No URLs to export.")
	case err != nil:
		sess.Close(false)
		return err
	default:
		a.log.Info("📁 Exported URLs", zap.Int("count", len(batch.URLs)), zap.String("path", batch.Path))
	}

	if repo := a.openRepository(ctx); repo != nil {
		for _, u := range batch.URLs {
			if _, err := repo.SaveJob(ctx, models.Job{Source: "glassdoor", ExternalID: u.JobID, URL: u.URL}); err != nil {
				a.log.Warn("⚠️ Could not save job", zap.String("url", u.URL), zap.Error(err))
			}
		}
		repo.Close()
	}

	rep.BatchSummary(reporter.Summary{
		Title: "Crawl " + query.String(),
		Stats: []reporter.Stat{
			{Name: "found", Value: found},
			{Name: "checked", Value: stats.Checked},
			{Name: "kept", Value: len(batch.URLs)},
			{Name: "skipped", Value: stats.Skipped},
			{Name: "failed", Value: stats.Failed},
		},
		Path: batch.Path,
	})

	return sess.Close(true)
}

func (a *app) filterURLs(ctx context.Context, urls []scraper.JobURL, f *crawlFlags, rep reporter.Reporter) ([]scraper.JobURL, filter.Stats) {
	cfg := a.cfg

	headers := make(map[string]string, len(browser.DefaultHeaders))
	for k, v := range browser.DefaultHeaders {
		headers[k] = v
	}
	if cfg.Fetch.UserAgent != "" {
		headers["User-Agent"] = cfg.Fetch.UserAgent
	}

	opts := fetch.Options{Headers: headers, RatePerSec: cfg.Fetch.RatePerSec, Timeout: cfg.Fetch.RequestLimit}
	if !f.noCache {
		cache, err := fetch.OpenCache(cfg.Fetch.CachePath, cfg.Fetch.CacheTTL)
		if err != nil {
			a.log.Warn("⚠️ Response cache unavailable, fetching without it", zap.Error(err))
		} else {
			opts.Cache = cache
		}
	}
	client := fetch.NewClient(opts, a.log)
	defer client.Close()

	include := cfg.Filter.Include
	if f.include != "" {
		include = f.include
	}
	rules := filter.NewRules(include, cfg.Filter.Stopwords, f.exclude...)
	return filter.NewContentFilter(client, rep, a.log).Filter(ctx, urls, rules)
}
