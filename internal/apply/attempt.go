package apply

import (
	"errors"
	"fmt"
	"time"

	"go-easyapply-automation/internal/models"
	"go-easyapply-automation/internal/scraper"
)

type Outcome string

const (
	OutcomeDone    Outcome = "done"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
	OutcomeRefused Outcome = "refused"
)

type HandlerResult struct {
	Key     string
	Outcome Outcome
	Err     string
}

// ReviewOutcome is the operator's verdict on an attempt waiting for review.
type ReviewOutcome int

const (
	ReviewCompleted ReviewOutcome = iota
	ReviewSkipped
)

var ErrInvalidTransition = errors.New("invalid attempt transition")

var transitions = map[models.ApplicationStatus][]models.ApplicationStatus{
	models.StatusIdle:             {models.StatusNavigated, models.StatusAborted},
	models.StatusNavigated:        {models.StatusProviderDetected, models.StatusAborted},
	models.StatusProviderDetected: {models.StatusFieldsInProgress, models.StatusAwaitingReview, models.StatusAborted},
	models.StatusFieldsInProgress: {models.StatusAwaitingReview, models.StatusAborted},
	models.StatusAwaitingReview:   {models.StatusCompleted, models.StatusAborted},
}

// Attempt is one run of the form automation against one job URL.
type Attempt struct {
	Job      scraper.JobURL
	Provider string
	State    models.ApplicationStatus
	// Cursor counts the handlers attempted so far.
	Cursor    int
	Results   []HandlerResult
	Err       error
	StartedAt time.Time
	UpdatedAt time.Time
	// Reviewed is set once the attempt reached AwaitingHumanReview.
	Reviewed bool

	target Target
	now    func() time.Time
}

func newAttempt(job scraper.JobURL, now func() time.Time) *Attempt {
	t := now()
	return &Attempt{
		Job:       job,
		Provider:  ProviderUnknown,
		State:     models.StatusIdle,
		StartedAt: t,
		UpdatedAt: t,
		now:       now,
	}
}

func (a *Attempt) transition(to models.ApplicationStatus) error {
	for _, allowed := range transitions[a.State] {
		if allowed == to {
			a.State = to
			a.UpdatedAt = a.now()
			if to == models.StatusAwaitingReview {
				a.Reviewed = true
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.State, to)
}

func (a *Attempt) abort(err error) {
	a.Err = err
	if !a.State.Terminal() {
		a.State = models.StatusAborted
		a.UpdatedAt = a.now()
	}
}

func (a *Attempt) record(key string, outcome Outcome, err error) {
	r := HandlerResult{Key: key, Outcome: outcome}
	if err != nil {
		r.Err = err.Error()
	}
	a.Results = append(a.Results, r)
}

// Resume applies the operator's verdict to an attempt waiting for review.
func (a *Attempt) Resume(outcome ReviewOutcome) error {
	if a.State != models.StatusAwaitingReview {
		return fmt.Errorf("%w: resume from %s", ErrInvalidTransition, a.State)
	}
	if outcome == ReviewCompleted {
		return a.transition(models.StatusCompleted)
	}
	return a.transition(models.StatusAborted)
}

func (a *Attempt) Count(o Outcome) int {
	n := 0
	for _, r := range a.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}

// Outcomes returns the outcome of every attempted handler keyed by handler key.
func (a *Attempt) Outcomes() map[string]Outcome {
	out := make(map[string]Outcome, len(a.Results))
	for _, r := range a.Results {
		out[r.Key] = r.Outcome
	}
	return out
}

// Close releases the pages opened for the attempt.
func (a *Attempt) Close() error {
	if a.target == nil {
		return nil
	}
	err := a.target.Close()
	a.target = nil
	return err
}

// Record converts the attempt into its persisted form.
func (a *Attempt) Record() (models.Job, models.Application) {
	job := models.Job{
		Source:     "glassdoor",
		ExternalID: a.Job.JobID,
		URL:        a.Job.URL,
		CreatedAt:  a.StartedAt,
	}
	app := models.Application{
		Provider:        a.Provider,
		Status:          a.State,
		HandlersDone:    a.Count(OutcomeDone),
		HandlersSkipped: a.Count(OutcomeSkipped),
		CreatedAt:       a.StartedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if a.Err != nil {
		msg := a.Err.Error()
		app.Error = &msg
	}
	return job, app
}
