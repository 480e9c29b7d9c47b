package filter

import (
	"context"

	"go-easyapply-automation/internal/logger"
	"go-easyapply-automation/internal/scraper"

	"go.uber.org/zap"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// SkipReporter is told about every job the filter drops.
type SkipReporter interface {
	JobSkipped(job scraper.JobURL, reason string)
}

type Stats struct {
	Checked int
	Kept    int
	Skipped int
	Failed  int
}

// ContentFilter fetches each job page and keeps the ones that pass Rules.
type ContentFilter struct {
	fetcher  Fetcher
	reporter SkipReporter
	log      *zap.Logger
}

func NewContentFilter(fetcher Fetcher, reporter SkipReporter, log *zap.Logger) *ContentFilter {
	return &ContentFilter{fetcher: fetcher, reporter: reporter, log: logger.OrNop(log).Named("filter")}
}

// Filter returns the unique URLs whose pages pass rules, in input order.
// Fetch failures skip the job and never abort the batch.
func (f *ContentFilter) Filter(ctx context.Context, urls []scraper.JobURL, rules Rules) ([]scraper.JobURL, Stats) {
	var stats Stats
	kept := make([]scraper.JobURL, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))

	for _, job := range urls {
		if ctx.Err() != nil {
			f.log.Warn("⏹️ Filtering cancelled", zap.Int("checked", stats.Checked))
			break
		}
		if _, dup := seen[job.URL]; dup {
			continue
		}
		seen[job.URL] = struct{}{}
		stats.Checked++

		body, err := f.fetcher.Fetch(ctx, job.URL)
		if err != nil {
			stats.Failed++
			f.log.Warn("⚠️ Could not fetch job page", zap.String("url", job.URL), zap.Error(err))
			f.skip(job, "fetch failed")
			continue
		}

		verdict := Evaluate(VisibleText(body), rules)
		if !verdict.Keep() {
			stats.Skipped++
			f.log.Debug("🚫 Job filtered out", zap.String("url", job.URL), zap.Stringer("verdict", verdict))
			f.skip(job, verdict.String())
			continue
		}

		stats.Kept++
		kept = append(kept, job)
	}

	f.log.Info("🧹 Content filter done",
		zap.Int("checked", stats.Checked),
		zap.Int("kept", stats.Kept),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed))
	return kept, stats
}

func (f *ContentFilter) skip(job scraper.JobURL, reason string) {
	if f.reporter != nil {
		f.reporter.JobSkipped(job, reason)
	}
}
