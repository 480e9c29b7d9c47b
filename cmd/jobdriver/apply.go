package main

import (
	"context"
	"errors"
	"os"

	"go-easyapply-automation/internal/apply"
	"go-easyapply-automation/internal/dedup"
	"go-easyapply-automation/internal/export"
	"go-easyapply-automation/internal/reporter"
	"go-easyapply-automation/internal/scraper"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newApplyCmd(a *app) *cobra.Command {
	var urls []string
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Fill the application forms of the latest export and stop for review before submit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runApply(cmd.Context(), urls)
		},
	}
	cmd.Flags().StringSliceVar(&urls, "url", nil, "apply to these job URLs instead of the latest export")
	return cmd
}

func (a *app) runApply(ctx context.Context, rawURLs []string) error {
	cfg := a.cfg
	rep := a.newReporter(os.Stdout)

	jobs, source, err := a.applyTargets(rawURLs)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		a.log.Info("📭 Nothing to apply to", zap.String("source", source))
		return nil
	}
	a.log.Info("🚀 Starting apply run", zap.Int("jobs", len(jobs)), zap.String("source", source))

	// the operator has to see the form to review it
	sess, err := a.openBrowser(ctx, false)
	if err != nil {
		return err
	}

	opts := apply.Options{
		Applicant:    cfg.Applicant,
		FieldTimeout: cfg.FieldTimeout,
		Seen:         dedup.NewJobCache(cfg.CachePath, a.log),
		Notifier:     rep,
	}
	if repo := a.openRepository(ctx); repo != nil {
		defer repo.Close()
		opts.Recorder = repo
	}

	dispatcher := apply.NewDispatcher(apply.NewPlaywrightOpener(sess.ctx, cfg.NavigationTimeout, a.log), opts, a.log)
	stats := dispatcher.RunAll(ctx, jobs, apply.NewStdinGate(os.Stdin, os.Stdout))

	rep.BatchSummary(reporter.Summary{
		Title: "Apply",
		Stats: []reporter.Stat{
			{Name: "jobs", Value: len(jobs)},
			{Name: "attempted", Value: stats.Attempted},
			{Name: "reviewed", Value: stats.Reviewed},
			{Name: "completed", Value: stats.Completed},
			{Name: "aborted", Value: stats.Aborted},
			{Name: "already_seen", Value: stats.Seen},
		},
		Path: source,
	})

	return sess.Close(true)
}

func (a *app) applyTargets(rawURLs []string) ([]scraper.JobURL, string, error) {
	if len(rawURLs) > 0 {
		jobs := make([]scraper.JobURL, 0, len(rawURLs))
		for _, u := range rawURLs {
			jobs = append(jobs, scraper.NewJobURL(u))
		}
		return jobs, "--url", nil
	}

	batch, err := export.NewStore(a.cfg.ExportDir).ReadLatest()
	if err != nil {
		if errors.Is(err, export.ErrNoExports) {
			a.log.Warn("⚠️ No exported batch found, run crawl first", zap.String("dir", a.cfg.ExportDir))
		}
		return nil, "", err
	}
	return batch.URLs, batch.Path, nil
}
