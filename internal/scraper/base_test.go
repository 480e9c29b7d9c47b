package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"go-easyapply-automation/internal/models"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJobID(t *testing.T) {
	assert.Equal(t, "1008587573785", ExtractJobID("https://www.glassdoor.com/job-listing/x.htm?jl=1&jobListingId=1008587573785&ctt=1"))
	assert.Equal(t, "", ExtractJobID("https://www.glassdoor.com/job-listing/x.htm"))
	assert.Equal(t, "111", NewJobURL("https://site/job?jobListingId=111").JobID)
}

func TestResolveLinks_Dedup(t *testing.T) {
	links := mapset.NewSet(
		"/partner/jobListing.htm?jobListingId=1",
		"https://www.glassdoor.com/partner/jobListing.htm?jobListingId=1",
		"/partner/jobListing.htm?jobListingId=2",
		" /partner/jobListing.htm?jobListingId=2 ",
		"",
	)

	urls, err := ResolveLinks("https://www.glassdoor.com", links)
	require.NoError(t, err)

	assert.Equal(t, []JobURL{
		{URL: "https://www.glassdoor.com/partner/jobListing.htm?jobListingId=1", JobID: "1"},
		{URL: "https://www.glassdoor.com/partner/jobListing.htm?jobListingId=2", JobID: "2"},
	}, urls)
	assert.LessOrEqual(t, len(urls), links.Cardinality())
}

func TestResolveLinks_NoDuplicateAbsoluteURLs(t *testing.T) {
	links := mapset.NewSet[string]()
	for i := 0; i < 20; i++ {
		links.Add(fmt.Sprintf("/job?jobListingId=%d", i%7))
		links.Add(fmt.Sprintf("https://site.test/job?jobListingId=%d", i%5))
	}

	urls, err := ResolveLinks("https://site.test", links)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, u := range urls {
		assert.False(t, seen[u.URL], "duplicate %s", u.URL)
		seen[u.URL] = true
	}
	assert.Len(t, urls, 7)
}

func TestListingFilters_Apply(t *testing.T) {
	f := ListingFilters{FromAgeDays: 14, MinSalary: 100000, MaxSalary: 320000, ApplicationType: 1, LocName: "Remote"}

	out, err := f.Apply("https://www.glassdoor.com/Job/remote-python-developer-jobs-SRCH_IL.0,6_IS11047_KO7,23.htm?jobType=fulltime")
	require.NoError(t, err)

	u, err := url.Parse(out)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "fulltime", q.Get("jobType"))
	assert.Equal(t, "14", q.Get("fromAge"))
	assert.Equal(t, "100000", q.Get("minSalary"))
	assert.Equal(t, "320000", q.Get("maxSalary"))
	assert.Equal(t, "1", q.Get("applicationType"))
	assert.Equal(t, "false", q.Get("includeNoSalaryJobs"))
	assert.Equal(t, "Remote", q.Get("locName"))
}

func TestRetryNavigation(t *testing.T) {
	ctx := context.Background()

	t.Run("retries once on navigation timeout", func(t *testing.T) {
		calls := 0
		err := RetryNavigation(ctx, nil, "listings", func() error {
			calls++
			if calls == 1 {
				return fmt.Errorf("search bar: %w", models.ErrNavigationTimeout)
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("surfaces the second timeout", func(t *testing.T) {
		calls := 0
		err := RetryNavigation(ctx, nil, "listings", func() error {
			calls++
			return models.ErrNavigationTimeout
		})
		assert.ErrorIs(t, err, models.ErrNavigationTimeout)
		assert.Equal(t, 2, calls)
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		err := RetryNavigation(ctx, nil, "listings", func() error {
			calls++
			return boom
		})
		assert.Equal(t, boom, err)
		assert.Equal(t, 1, calls)
	})
}
