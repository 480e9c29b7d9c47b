// Package reporter tells the operator what the driver did: skipped jobs, batch
// summaries and attempts waiting for review.
package reporter

import (
	"errors"
	"fmt"
	"strings"

	"go-easyapply-automation/internal/logger"
	"go-easyapply-automation/internal/scraper"

	"go.uber.org/zap"
)

type Reporter interface {
	JobSkipped(job scraper.JobURL, reason string)
	BatchSummary(s Summary) error
	AwaitingReview(r Review) error
}

type Stat struct {
	Name  string
	Value int
}

// Summary closes a crawl or apply run.
type Summary struct {
	Title string
	Stats []Stat
	// Path is the export file the run produced or read, if any.
	Path string
}

func (s Summary) Line() string {
	parts := make([]string, 0, len(s.Stats))
	for _, st := range s.Stats {
		parts = append(parts, fmt.Sprintf("%s=%d", st.Name, st.Value))
	}
	return strings.Join(parts, " ")
}

// Review describes an application attempt handed over to the operator.
type Review struct {
	Job      scraper.JobURL
	Provider string
	State    string
	Done     int
	Skipped  int
	Failed   int
	Err      string
}

// Multi fans every notice out to all reporters, logging the ones that fail.
type Multi struct {
	reporters []Reporter
	log       *zap.Logger
}

func NewMulti(log *zap.Logger, reporters ...Reporter) *Multi {
	return &Multi{reporters: reporters, log: logger.OrNop(log).Named("reporter")}
}

func (m *Multi) JobSkipped(job scraper.JobURL, reason string) {
	for _, r := range m.reporters {
		r.JobSkipped(job, reason)
	}
}

func (m *Multi) BatchSummary(s Summary) error {
	var errs []error
	for _, r := range m.reporters {
		if err := r.BatchSummary(s); err != nil {
			m.log.Warn("⚠️ Reporter failed to send summary", zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Multi) AwaitingReview(rv Review) error {
	var errs []error
	for _, r := range m.reporters {
		if err := r.AwaitingReview(rv); err != nil {
			m.log.Warn("⚠️ Reporter failed to send review notice", zap.String("url", rv.Job.URL), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
