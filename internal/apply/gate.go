package apply

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go-easyapply-automation/internal/models"
)

// StdinGate asks the operator on the terminal: Enter marks the attempt completed,
// "s" skips it.
type StdinGate struct {
	in  *bufio.Reader
	out io.Writer
}

func NewStdinGate(in io.Reader, out io.Writer) *StdinGate {
	return &StdinGate{in: bufio.NewReader(in), out: out}
}

func (g *StdinGate) Review(ctx context.Context, a *Attempt) (ReviewOutcome, error) {
	if err := ctx.Err(); err != nil {
		return ReviewSkipped, err
	}

	if a.State == models.StatusAborted {
		fmt.Fprintf(g.out, "\n⚠️  Automation stopped on %s: %v\n   Finish it by hand if the page is still open.\n", a.Job.URL, a.Err)
	} else {
		fmt.Fprintf(g.out, "\n👀 [%s] %s is ready for review (%d filled, %d skipped).\n",
			a.Provider, a.Job.URL, a.Count(OutcomeDone), a.Count(OutcomeSkipped))
	}
	fmt.Fprint(g.out, "   Submit it yourself, then press Enter. Type 's' to skip: ")

	line, err := g.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return ReviewSkipped, fmt.Errorf("read review answer: %w", err)
	}
	if strings.EqualFold(strings.TrimSpace(line), "s") {
		return ReviewSkipped, nil
	}
	return ReviewCompleted, nil
}
