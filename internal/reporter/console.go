package reporter

import (
	"fmt"
	"io"
	"sync"

	"go-easyapply-automation/internal/scraper"
)

// Hyperlink wraps text in an OSC-8 terminal hyperlink to url.
func Hyperlink(url, text string) string {
	return fmt.Sprintf("\x1b]8;;%s\a%s\x1b]8;;\a", url, text)
}

// Console writes notices for a human watching the terminal.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) JobSkipped(job scraper.JobURL, reason string) {
	text := "Skipping job ..."
	if job.JobID != "" {
		text = fmt.Sprintf("Skipping job #%s ...", job.JobID)
	}
	c.printf("%s (%s)\n", Hyperlink(job.URL, text), reason)
}

func (c *Console) BatchSummary(s Summary) error {
	c.printf("📊 %s: %s\n", s.Title, s.Line())
	if s.Path != "" {
		c.printf("📁 %s\n", s.Path)
	}
	return nil
}

func (c *Console) AwaitingReview(r Review) error {
	c.printf("👀 %s ready for review [%s] %s (done=%d skipped=%d failed=%d)\n",
		Hyperlink(r.Job.URL, jobLabel(r.Job)), r.Provider, r.State, r.Done, r.Skipped, r.Failed)
	if r.Err != "" {
		c.printf("   ⚠️ %s\n", r.Err)
	}
	return nil
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func jobLabel(job scraper.JobURL) string {
	if job.JobID != "" {
		return "job #" + job.JobID
	}
	return job.URL
}
