// Package apply fills job application forms up to, and never past, the final review.
package apply

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-easyapply-automation/internal/logger"
	"go-easyapply-automation/internal/models"
	"go-easyapply-automation/internal/reporter"
	"go-easyapply-automation/internal/scraper"

	"go.uber.org/zap"
)

const (
	DefaultFieldTimeout  = 100 * time.Millisecond
	DefaultDetectTimeout = 3 * time.Second
)

// Opener navigates to a job and returns the page holding its application form.
type Opener interface {
	Open(ctx context.Context, jobURL string) (Target, error)
}

// ReviewGate hands an attempt to the operator and waits for the verdict.
type ReviewGate interface {
	Review(ctx context.Context, a *Attempt) (ReviewOutcome, error)
}

type Recorder interface {
	RecordAttempt(ctx context.Context, job models.Job, app models.Application) error
}

type SeenCache interface {
	IsSeen(url string) bool
	Add(urls ...string) error
}

type Notifier interface {
	AwaitingReview(r reporter.Review) error
}

type Options struct {
	Applicant     models.Applicant
	FieldTimeout  time.Duration
	DetectTimeout time.Duration
	Providers     []Provider

	Seen     SeenCache
	Recorder Recorder
	Notifier Notifier
}

type Dispatcher struct {
	opener Opener
	opts   Options
	now    func() time.Time
	log    *zap.Logger
}

func NewDispatcher(opener Opener, opts Options, log *zap.Logger) *Dispatcher {
	if opts.FieldTimeout <= 0 {
		opts.FieldTimeout = DefaultFieldTimeout
	}
	if opts.DetectTimeout <= 0 {
		opts.DetectTimeout = DefaultDetectTimeout
	}
	if len(opts.Providers) == 0 {
		opts.Providers = DefaultProviders()
	}
	return &Dispatcher{opener: opener, opts: opts, now: time.Now, log: logger.OrNop(log).Named("apply")}
}

// Run drives one job from navigation to AwaitingHumanReview. The returned attempt is
// never nil. A non-nil error means the attempt was aborted.
func (d *Dispatcher) Run(ctx context.Context, job scraper.JobURL) (*Attempt, error) {
	att := newAttempt(job, d.now)
	log := d.log.With(zap.String("url", job.URL))

	if err := ctx.Err(); err != nil {
		att.abort(err)
		return att, err
	}

	target, err := d.opener.Open(ctx, job.URL)
	if err != nil {
		err = fmt.Errorf("open application: %w", err)
		att.abort(err)
		return att, err
	}
	att.target = target
	if err := att.transition(models.StatusNavigated); err != nil {
		return att, err
	}

	provider, err := d.detect(target)
	if err != nil {
		err = fmt.Errorf("detect provider: %w", err)
		att.abort(err)
		return att, err
	}
	if err := att.transition(models.StatusProviderDetected); err != nil {
		return att, err
	}
	if provider == nil {
		log.Warn("❓ Unknown application form, handing over to the operator")
		return att, att.transition(models.StatusAwaitingReview)
	}
	att.Provider = provider.Name()
	log.Info("🧩 Provider detected", zap.String("provider", att.Provider))

	if err := att.transition(models.StatusFieldsInProgress); err != nil {
		return att, err
	}
	if err := d.fill(ctx, att, provider.Surface(target), provider.Handlers(d.opts.Applicant), log); err != nil {
		att.abort(err)
		return att, err
	}

	log.Info("✋ Waiting for human review",
		zap.Int("done", att.Count(OutcomeDone)),
		zap.Int("skipped", att.Count(OutcomeSkipped)),
		zap.Int("failed", att.Count(OutcomeFailed)))
	return att, att.transition(models.StatusAwaitingReview)
}

func (d *Dispatcher) detect(t Target) (Provider, error) {
	for _, p := range d.opts.Providers {
		ok, err := p.Detect(t, d.opts.DetectTimeout)
		if err != nil {
			return nil, err
		}
		if ok {
			return p, nil
		}
	}
	return nil, nil
}

// fill runs the handler table in order. Only structural failures stop it.
func (d *Dispatcher) fill(ctx context.Context, att *Attempt, s Surface, handlers []FieldHandler, log *zap.Logger) error {
	done := make(map[string]bool, len(handlers))

	for _, h := range handlers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.Closed() {
			return fmt.Errorf("%w: application page closed before %s", models.ErrStructural, h.Key)
		}
		att.Cursor++

		if h.needsValue() && h.Value == "" {
			att.record(h.Key, OutcomeSkipped, nil)
			continue
		}
		if h.Requires != "" && !done[h.Requires] {
			att.record(h.Key, OutcomeSkipped, nil)
			continue
		}

		err := h.run(s, d.opts.FieldTimeout)
		switch {
		case err == nil:
			done[h.Key] = true
			att.record(h.Key, OutcomeDone, nil)
			log.Debug("✅ Field handled", zap.String("field", h.Key))
		case errors.Is(err, ErrSubmitForbidden):
			att.record(h.Key, OutcomeRefused, err)
			log.Error("🛑 Refused to click a submit control", zap.String("field", h.Key), zap.Stringer("locator", h.Locator))
		case errors.Is(err, models.ErrFieldTimeout):
			att.record(h.Key, OutcomeSkipped, err)
			log.Debug("⏭️ Field not found", zap.String("field", h.Key))
		case errors.Is(err, models.ErrStructural) || s.Closed():
			att.record(h.Key, OutcomeFailed, err)
			return fmt.Errorf("%s: %w", h.Key, err)
		default:
			att.record(h.Key, OutcomeFailed, err)
			log.Warn("⚠️ Field handler failed", zap.String("field", h.Key), zap.Error(err))
		}

		if h.Terminal && done[h.Key] {
			break
		}
	}
	return nil
}

type RunStats struct {
	Attempted int
	Reviewed  int
	Completed int
	Aborted   int
	Seen      int
}

// RunAll processes jobs one after another. Per-job failures are logged and never stop the batch;
// every attempt that reaches review or aborts is handed to gate.
func (d *Dispatcher) RunAll(ctx context.Context, jobs []scraper.JobURL, gate ReviewGate) RunStats {
	var stats RunStats

	for _, job := range jobs {
		if ctx.Err() != nil {
			d.log.Warn("⏹️ Apply run cancelled", zap.Int("attempted", stats.Attempted))
			break
		}
		if d.opts.Seen != nil && d.opts.Seen.IsSeen(job.URL) {
			stats.Seen++
			d.log.Info("⏭️ Already reviewed, skipping", zap.String("url", job.URL))
			continue
		}

		stats.Attempted++
		att, err := d.Run(ctx, job)
		if err != nil {
			d.log.Error("❌ Application attempt aborted", zap.String("url", job.URL), zap.Error(err))
		}
		d.handOver(ctx, att, gate)

		switch att.State {
		case models.StatusCompleted:
			stats.Completed++
		case models.StatusAborted:
			stats.Aborted++
		}
		if att.Reviewed {
			stats.Reviewed++
			if d.opts.Seen != nil {
				if err := d.opts.Seen.Add(job.URL); err != nil {
					d.log.Warn("⚠️ Could not remember reviewed job", zap.String("url", job.URL), zap.Error(err))
				}
			}
		}
		if d.opts.Recorder != nil {
			jobRec, appRec := att.Record()
			if err := d.opts.Recorder.RecordAttempt(ctx, jobRec, appRec); err != nil {
				d.log.Warn("⚠️ Could not record attempt", zap.String("url", job.URL), zap.Error(err))
			}
		}
		if err := att.Close(); err != nil {
			d.log.Debug("Could not close application page", zap.Error(err))
		}
	}
	return stats
}

func (d *Dispatcher) handOver(ctx context.Context, att *Attempt, gate ReviewGate) {
	if att.State != models.StatusAwaitingReview && att.State != models.StatusAborted {
		return
	}
	if d.opts.Notifier != nil {
		rv := reporter.Review{
			Job:      att.Job,
			Provider: att.Provider,
			State:    string(att.State),
			Done:     att.Count(OutcomeDone),
			Skipped:  att.Count(OutcomeSkipped),
			Failed:   att.Count(OutcomeFailed),
		}
		if att.Err != nil {
			rv.Err = att.Err.Error()
		}
		if err := d.opts.Notifier.AwaitingReview(rv); err != nil {
			d.log.Warn("⚠️ Review notice failed", zap.Error(err))
		}
	}
	if gate == nil {
		return
	}

	outcome, err := gate.Review(ctx, att)
	if err != nil {
		d.log.Warn("⚠️ Review gate failed", zap.String("url", att.Job.URL), zap.Error(err))
		return
	}
	if att.State == models.StatusAwaitingReview {
		if err := att.Resume(outcome); err != nil {
			d.log.Warn("⚠️ Could not resume attempt", zap.Error(err))
		}
	}
}
