package apply

import (
	"errors"
	"strings"
	"testing"
	"time"

	"go-easyapply-automation/internal/browser"
	"go-easyapply-automation/internal/models"
	"go-easyapply-automation/internal/scraper"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock() func() time.Time {
	t := time.Date(2023, 7, 6, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func reviewReady(t *testing.T) *Attempt {
	t.Helper()
	a := newAttempt(scraper.NewJobURL("https://g/job?jobListingId=9"), clock())
	for _, s := range []models.ApplicationStatus{
		models.StatusNavigated, models.StatusProviderDetected, models.StatusFieldsInProgress, models.StatusAwaitingReview,
	} {
		require.NoError(t, a.transition(s))
	}
	return a
}

func TestAttempt_Resume(t *testing.T) {
	a := reviewReady(t)
	require.NoError(t, a.Resume(ReviewCompleted))
	assert.Equal(t, models.StatusCompleted, a.State)
	assert.ErrorIs(t, a.Resume(ReviewCompleted), ErrInvalidTransition)

	b := reviewReady(t)
	require.NoError(t, b.Resume(ReviewSkipped))
	assert.Equal(t, models.StatusAborted, b.State)
	assert.True(t, b.Reviewed)
}

func TestAttempt_ResumeBeforeReview(t *testing.T) {
	a := newAttempt(scraper.NewJobURL("https://g/job"), clock())
	require.NoError(t, a.transition(models.StatusNavigated))
	assert.ErrorIs(t, a.Resume(ReviewCompleted), ErrInvalidTransition)
	assert.Equal(t, models.StatusNavigated, a.State)
}

func TestAttempt_InvalidTransitions(t *testing.T) {
	a := newAttempt(scraper.NewJobURL("https://g/job"), clock())
	assert.ErrorIs(t, a.transition(models.StatusAwaitingReview), ErrInvalidTransition)
	assert.ErrorIs(t, a.transition(models.StatusCompleted), ErrInvalidTransition)

	b := reviewReady(t)
	assert.ErrorIs(t, b.transition(models.StatusFieldsInProgress), ErrInvalidTransition)
}

func TestAttempt_Record(t *testing.T) {
	a := reviewReady(t)
	a.Provider = ProviderGreenhouse
	a.record("first_name", OutcomeDone, nil)
	a.record("phone", OutcomeSkipped, errors.New("timeout"))
	a.record("email", OutcomeDone, nil)
	a.abort(errors.New("page closed"))

	job, app := a.Record()
	assert.Equal(t, "9", job.ExternalID)
	assert.Equal(t, "https://g/job?jobListingId=9", job.URL)
	assert.Equal(t, ProviderGreenhouse, app.Provider)
	assert.Equal(t, models.StatusAborted, app.Status)
	assert.Equal(t, 2, app.HandlersDone)
	assert.Equal(t, 1, app.HandlersSkipped)
	require.NotNil(t, app.Error)
	assert.Equal(t, "page closed", *app.Error)
	assert.True(t, app.UpdatedAt.After(app.CreatedAt))
}

func keys(hs []FieldHandler) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.Key
	}
	return out
}

func TestHandlerTables(t *testing.T) {
	tests := []struct {
		provider Provider
		want     []string
	}{
		{EasyApply{}, []string{
			"first_name", "last_name", "phone", "email", "resume", "resume_continue", "zip_code",
			"country", "citizenship", "demographics_opt_out", "no_recommendations", "continue", "review",
		}},
		{Greenhouse{}, []string{
			"first_name", "last_name", "email", "phone", "resume", "linkedin", "website", "university", "grad_year",
		}},
		{Lever{}, []string{
			"name", "email", "phone", "org", "linkedin", "github", "twitter", "portfolio", "resume",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.provider.Name(), func(t *testing.T) {
			handlers := tt.provider.Handlers(applicant)
			if diff := cmp.Diff(tt.want, keys(handlers)); diff != "" {
				t.Errorf("handler order mismatch (-want +got):\n%s", diff)
			}

			terminal := 0
			for _, h := range handlers {
				if h.Terminal {
					terminal++
				}
				if h.Action == ActionUpload {
					assert.True(t, strings.HasSuffix(h.Value, "resume.pdf"))
				}
			}
			assert.LessOrEqual(t, terminal, 1)
		})
	}
}

func TestForbidden(t *testing.T) {
	tests := []struct {
		name string
		h    FieldHandler
		want bool
	}{
		{"submit application button", FieldHandler{Action: ActionClick, Locator: role("button", "Submit application")}, true},
		{"submit your application", FieldHandler{Action: ActionClick, Locator: role("button", "SUBMIT YOUR APPLICATION")}, true},
		{"bare submit", FieldHandler{Action: ActionClick, Locator: role("button", "Submit")}, true},
		{"lever submit class", FieldHandler{Action: ActionClick, Locator: css("button.template-btn-submit")}, true},
		{"submit input", FieldHandler{Action: ActionClick, Locator: css(`input[type="submit"]`)}, true},
		{"review button", FieldHandler{Action: ActionClick, Locator: role("button", "Review your application")}, false},
		{"continue", FieldHandler{Action: ActionClick, Locator: role("button", "Continue")}, false},
		{"fill is never a submit", FieldHandler{Action: ActionFill, Locator: label("Submit application")}, false},
		{"submit test id", FieldHandler{Action: ActionClick, Locator: testID("submit-application-button")}, true},
		{"submit_your_application test id", FieldHandler{Action: ActionClick, Locator: testID("btn_submit_your_application")}, true},
		{"submit application class", FieldHandler{Action: ActionClick, Locator: css("button.submit-application")}, true},
		{"submit id", FieldHandler{Action: ActionClick, Locator: css("#submit")}, true},
		{"submit span inside a button", FieldHandler{Action: ActionClick, Locator: browser.Locator{Strategy: browser.ByCSS, Target: "button", Inner: "span.submit"}}, true},
		{"role name regex", FieldHandler{Action: ActionClick, Locator: browser.Locator{Strategy: browser.ByRole, Role: "button", Target: "(?i)^submit", Pattern: true}}, true},
		{"text regex", FieldHandler{Action: ActionClick, Locator: browser.Locator{Strategy: browser.ByText, Target: "application$", Pattern: true}}, true},
		{"has-text regex", FieldHandler{Action: ActionClick, Locator: browser.Locator{Strategy: browser.ByCSS, Target: "button", HasText: "Sub.*"}}, true},
		{"regex that does not compile", FieldHandler{Action: ActionClick, Locator: browser.Locator{Strategy: browser.ByText, Target: "(", Pattern: true}}, true},
		{"submit inside a scoped group", FieldHandler{Action: ActionClick, Locator: browser.Locator{Strategy: browser.ByRole, Role: "button", Target: "Go", Within: &browser.Locator{Strategy: browser.ByCSS, Target: "form #submit"}}}, true},
		{"chooser upload through submit", FieldHandler{Action: ActionUpload, Chooser: true, Locator: role("button", "Submit application")}, true},
		{"file input upload", FieldHandler{Action: ActionUpload, Locator: css(`input[name="resume"]`)}, false},
		{"text regex for an opt out", FieldHandler{Action: ActionClick, Locator: browser.Locator{Strategy: browser.ByText, Target: "I don't wish to answer", Pattern: true}}, false},
		{"resume upload card", FieldHandler{Action: ActionUpload, Chooser: true, Locator: testID("resumeUploadCard")}, false},
		{"submitted is not submit", FieldHandler{Action: ActionClick, Locator: css("a.submitted-jobs")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.h.Forbidden())
		})
	}
}
