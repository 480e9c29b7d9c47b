package scraper

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"go-easyapply-automation/internal/models"

	"go.uber.org/zap"
)

// ListingFilters are the fixed result-narrowing parameters appended to a search.
type ListingFilters struct {
	FromAgeDays         int
	MinSalary           int
	MaxSalary           int
	ApplicationType     int
	IncludeNoSalaryJobs bool
	LocName             string
}

// Apply merges the filters into rawURL's query string.
func (f ListingFilters) Apply(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	if f.FromAgeDays > 0 {
		q.Set("fromAge", strconv.Itoa(f.FromAgeDays))
	}
	if f.MinSalary > 0 {
		q.Set("minSalary", strconv.Itoa(f.MinSalary))
	}
	if f.MaxSalary > 0 {
		q.Set("maxSalary", strconv.Itoa(f.MaxSalary))
	}
	if f.ApplicationType > 0 {
		q.Set("applicationType", strconv.Itoa(f.ApplicationType))
	}
	q.Set("includeNoSalaryJobs", strconv.FormatBool(f.IncludeNoSalaryJobs))
	if f.LocName != "" {
		q.Set("locName", f.LocName)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// RetryNavigation runs fn and, if it fails with a navigation timeout, runs it once more.
func RetryNavigation(ctx context.Context, log *zap.Logger, what string, fn func() error) error {
	err := fn()
	if err == nil || !errors.Is(err, models.ErrNavigationTimeout) {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return err
	}
	if log != nil {
		log.Warn("🔁 Navigation timed out, retrying once", zap.String("step", what), zap.Error(err))
	}
	return fn()
}
