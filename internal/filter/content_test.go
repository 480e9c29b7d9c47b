package filter

import (
	"context"
	"fmt"
	"testing"

	"go-easyapply-automation/internal/models"
	"go-easyapply-automation/internal/scraper"

	"github.com/stretchr/testify/assert"
)

type fakeFetcher struct {
	pages map[string]string
	calls map[string]int
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[url]++
	body, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("%w: %s: status 404", models.ErrFetch, url)
	}
	return body, nil
}

type recordingReporter struct {
	skipped map[string]string
}

func (r *recordingReporter) JobSkipped(job scraper.JobURL, reason string) {
	if r.skipped == nil {
		r.skipped = map[string]string{}
	}
	r.skipped[job.URL] = reason
}

func TestContentFilter_Filter(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://g/a?jobListingId=1": "<html><body>Python Developer. Easy Apply</body></html>",
		"https://g/b?jobListingId=2": "<html><body>Python Developer. Apply on site</body></html>",
		"https://g/c?jobListingId=3": "<html><body>Java Developer. Easy Apply</body></html>",
	}}
	rep := &recordingReporter{}
	f := NewContentFilter(fetcher, rep, nil)

	urls := []scraper.JobURL{
		scraper.NewJobURL("https://g/a?jobListingId=1"),
		scraper.NewJobURL("https://g/b?jobListingId=2"),
		scraper.NewJobURL("https://g/c?jobListingId=3"),
		scraper.NewJobURL("https://g/d?jobListingId=4"),
	}

	kept, stats := f.Filter(context.Background(), urls, DefaultRules())

	assert.Equal(t, []scraper.JobURL{{URL: "https://g/a?jobListingId=1", JobID: "1"}}, kept)
	assert.Equal(t, Stats{Checked: 4, Kept: 1, Skipped: 2, Failed: 1}, stats)
	assert.Equal(t, "missing keyword", rep.skipped["https://g/b?jobListingId=2"])
	assert.Equal(t, `contains stopword "java"`, rep.skipped["https://g/c?jobListingId=3"])
	assert.Equal(t, "fetch failed", rep.skipped["https://g/d?jobListingId=4"])
}

func TestContentFilter_DuplicateURLs(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://g/a": "Easy Apply",
	}}
	f := NewContentFilter(fetcher, nil, nil)

	urls := []scraper.JobURL{
		scraper.NewJobURL("https://g/a"),
		scraper.NewJobURL("https://g/a"),
		scraper.NewJobURL("https://g/a"),
	}
	kept, stats := f.Filter(context.Background(), urls, DefaultRules())

	assert.Len(t, kept, 1)
	assert.Equal(t, 1, fetcher.calls["https://g/a"])
	assert.Equal(t, 1, stats.Checked)
}

func TestContentFilter_Cancelled(t *testing.T) {
	f := NewContentFilter(&fakeFetcher{}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	kept, stats := f.Filter(ctx, []scraper.JobURL{scraper.NewJobURL("https://g/a")}, DefaultRules())
	assert.Empty(t, kept)
	assert.Zero(t, stats.Checked)
}
