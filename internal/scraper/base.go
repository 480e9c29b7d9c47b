// Shared crawler types: the query, the resolved job URL and the page capability
// every listing crawler works against.

package scraper

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// SearchQuery is passed explicitly into every crawler operation.
type SearchQuery struct {
	PositionTitle string
	Location      string
}

func (q SearchQuery) String() string {
	return fmt.Sprintf("%q in %q", q.PositionTitle, q.Location)
}

// JobURL is an absolute job application URL plus the listing id found in it.
type JobURL struct {
	URL   string `json:"url"`
	JobID string `json:"job_id"`
}

var jobIDRegex = regexp.MustCompile(`jobListingId=(\d+)`)

// ExtractJobID returns the numeric listing id, or "" when the URL carries none.
func ExtractJobID(rawURL string) string {
	if m := jobIDRegex.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}

func NewJobURL(rawURL string) JobURL {
	return JobURL{URL: rawURL, JobID: ExtractJobID(rawURL)}
}

// ListingPage is what a listing crawler needs from the browser.
type ListingPage interface {
	Goto(ctx context.Context, url string) error
	Search(ctx context.Context, q SearchQuery) error
	URL() string
	// LinkHrefs returns the href of every element matching selector on the current page.
	LinkHrefs(selector string) ([]string, error)
	// ClickNext clicks the pagination control; false means there is none.
	ClickNext(selector string) (bool, error)
	WaitForNetworkIdle() error
}

// Crawler defines the interface that all listing crawlers must implement
type Crawler interface {
	GetURLs(ctx context.Context, q SearchQuery) ([]JobURL, error)

	//Name is the platform name
	Name() string
}

// ResolveLinks turns raw hrefs into absolute URLs against base and collapses duplicates.
// The result is sorted so that runs are reproducible; callers must not rely on order.
func ResolveLinks(base string, links mapset.Set[string]) ([]JobURL, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", base, err)
	}

	resolved := mapset.NewThreadUnsafeSet[string]()
	for link := range links.Iter() {
		link = strings.TrimSpace(link)
		if link == "" {
			continue
		}
		ref, err := url.Parse(link)
		if err != nil {
			continue
		}
		resolved.Add(baseURL.ResolveReference(ref).String())
	}

	urls := resolved.ToSlice()
	sort.Strings(urls)
	out := make([]JobURL, len(urls))
	for i, u := range urls {
		out[i] = NewJobURL(u)
	}
	return out, nil
}

// URLs returns the plain URL strings of jobs.
func URLs(jobs []JobURL) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.URL
	}
	return out
}
