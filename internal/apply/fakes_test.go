package apply

import (
	"context"
	"errors"
	"time"

	"go-easyapply-automation/internal/browser"
	"go-easyapply-automation/internal/models"
	"go-easyapply-automation/internal/reporter"
)

type call struct {
	Op      string
	Locator string
	Value   string
}

// fakeSurface answers every operation from per-locator scripts.
type fakeSurface struct {
	errs    map[string]error
	present map[string]bool
	calls   []call
	closed  bool
	// closeAfter closes the surface after this many operations.
	closeAfter int
}

func (f *fakeSurface) do(op string, l browser.Locator, value string) error {
	f.calls = append(f.calls, call{Op: op, Locator: l.String(), Value: value})
	if f.closeAfter > 0 && len(f.calls) >= f.closeAfter {
		f.closed = true
	}
	return f.errs[l.String()]
}

func (f *fakeSurface) Fill(l browser.Locator, value string, timeout time.Duration) error {
	return f.do("fill", l, value)
}

func (f *fakeSurface) Click(l browser.Locator, timeout time.Duration) error {
	return f.do("click", l, "")
}

func (f *fakeSurface) SelectOption(l browser.Locator, value string, timeout time.Duration) error {
	return f.do("select", l, value)
}

func (f *fakeSurface) Upload(l browser.Locator, path string, chooser bool, timeout time.Duration) error {
	return f.do("upload", l, path)
}

func (f *fakeSurface) Present(l browser.Locator, timeout time.Duration) (bool, error) {
	return f.present[l.String()], nil
}

func (f *fakeSurface) Closed() bool { return f.closed }

type fakeTarget struct {
	url    string
	page   *fakeSurface
	frames map[string]*fakeSurface
	closed bool
}

func (t *fakeTarget) URL() string   { return t.url }
func (t *fakeTarget) Page() Surface { return t.page }
func (t *fakeTarget) Frame(selector string) Surface {
	if s, ok := t.frames[selector]; ok {
		return s
	}
	return &fakeSurface{}
}
func (t *fakeTarget) Close() error { t.closed = true; return nil }

type fakeOpener struct {
	targets map[string]*fakeTarget
	err     error
}

func (o *fakeOpener) Open(ctx context.Context, jobURL string) (Target, error) {
	if o.err != nil {
		return nil, o.err
	}
	t, ok := o.targets[jobURL]
	if !ok {
		return nil, errors.New("no such page")
	}
	return t, nil
}

// tableProvider always matches and serves a fixed table.
type tableProvider struct {
	handlers []FieldHandler
}

func (tableProvider) Name() string                                  { return "table" }
func (tableProvider) Detect(t Target, _ time.Duration) (bool, error) { return true, nil }
func (tableProvider) Surface(t Target) Surface                      { return t.Page() }
func (p tableProvider) Handlers(models.Applicant) []FieldHandler     { return p.handlers }

type scriptedGate struct {
	outcome ReviewOutcome
	seen    []string
}

func (g *scriptedGate) Review(ctx context.Context, a *Attempt) (ReviewOutcome, error) {
	g.seen = append(g.seen, a.Job.URL)
	return g.outcome, nil
}

type memorySeen struct{ urls map[string]bool }

func (m *memorySeen) IsSeen(url string) bool { return m.urls[url] }
func (m *memorySeen) Add(urls ...string) error {
	for _, u := range urls {
		m.urls[u] = true
	}
	return nil
}

type memoryRecorder struct{ apps []models.Application }

func (r *memoryRecorder) RecordAttempt(ctx context.Context, job models.Job, app models.Application) error {
	r.apps = append(r.apps, app)
	return nil
}

type memoryNotifier struct{ reviews []reporter.Review }

func (n *memoryNotifier) AwaitingReview(r reporter.Review) error {
	n.reviews = append(n.reviews, r)
	return nil
}
