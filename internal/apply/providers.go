package apply

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"go-easyapply-automation/internal/browser"
	"go-easyapply-automation/internal/models"
)

const (
	ProviderEasyApply  = "easyapply"
	ProviderGreenhouse = "greenhouse"
	ProviderLever      = "lever"
	ProviderUnknown    = "unknown"

	GreenhouseFrame = `iframe[title="Greenhouse Job Board"]`

	buttonTimeout = 5 * time.Second
)

// Target is an opened application: the page the form lives on plus its frames.
type Target interface {
	URL() string
	Page() Surface
	Frame(selector string) Surface
	Close() error
}

// Provider knows how to recognise and fill one family of application forms.
type Provider interface {
	Name() string
	Detect(t Target, timeout time.Duration) (bool, error)
	Surface(t Target) Surface
	Handlers(a models.Applicant) []FieldHandler
}

// DefaultProviders returns the providers in detection order.
func DefaultProviders() []Provider {
	return []Provider{EasyApply{}, Greenhouse{}, Lever{}}
}

func testID(id string) browser.Locator {
	return browser.Locator{Strategy: browser.ByTestID, Target: id}
}

func label(text string) browser.Locator {
	return browser.Locator{Strategy: browser.ByLabel, Target: text}
}

func role(r, name string) browser.Locator {
	return browser.Locator{Strategy: browser.ByRole, Role: r, Target: name}
}

func css(selector string) browser.Locator {
	return browser.Locator{Strategy: browser.ByCSS, Target: selector}
}

func hostHas(rawURL, suffix string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == suffix || strings.HasSuffix(host, "."+suffix)
}

// anyPresent probes the locators in order and stops at the first hit.
func anyPresent(s Surface, timeout time.Duration, locs ...browser.Locator) (bool, error) {
	for _, l := range locs {
		ok, err := s.Present(l, timeout)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

func absPath(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// EasyApply is the site's native multi-step form, usually opened in a popup.
type EasyApply struct{}

func (EasyApply) Name() string { return ProviderEasyApply }

func (EasyApply) Detect(t Target, timeout time.Duration) (bool, error) {
	if hostHas(t.URL(), "smartapply.indeed.com") {
		return true, nil
	}
	return anyPresent(t.Page(), timeout, testID("input-firstName"), testID("resumeUploadCard"))
}

func (EasyApply) Surface(t Target) Surface { return t.Page() }

func (EasyApply) Handlers(a models.Applicant) []FieldHandler {
	phone := label("Phone number")
	phone.Exact = true
	zip := testID("input-q_.*")
	zip.Pattern = true

	return []FieldHandler{
		{Key: "first_name", Locator: testID("input-firstName"), Action: ActionFill, Value: a.FirstName},
		{Key: "last_name", Locator: testID("input-lastName"), Action: ActionFill, Value: a.LastName},
		{Key: "phone", Locator: phone, Action: ActionFill, Value: a.Phone},
		{Key: "email", Locator: testID("input-email"), Action: ActionFill, Value: a.Email},
		{Key: "resume", Locator: testID("resumeUploadCard"), Action: ActionUpload, Value: absPath(a.ResumePath), Chooser: true},
		{Key: "resume_continue", Locator: role("button", "Continue"), Action: ActionClick, Requires: "resume"},
		{Key: "zip_code", Locator: zip, Action: ActionFill, Value: a.ZipCode},
		{Key: "country", Locator: role("combobox", "Country"), Action: ActionSelect, Value: a.Country},
		{
			Key:     "citizenship",
			Locator: browser.Locator{Strategy: browser.ByCSS, Target: "label", HasText: "United States Citizen|US", Inner: "span"},
			Action:  ActionClick,
			Timeout: buttonTimeout,
		},
		{
			Key:     "demographics_opt_out",
			Locator: browser.Locator{Strategy: browser.ByText, Target: "I don't wish to answer", Pattern: true},
			Action:  ActionClick,
		},
		{
			Key:     "no_recommendations",
			Locator: browser.Locator{Strategy: browser.ByText, Target: `Don't recommend me for any jobs at other employers\.`, Pattern: true},
			Action:  ActionClick,
		},
		{Key: "continue", Locator: role("button", "Continue"), Action: ActionClick, Timeout: buttonTimeout},
		{Key: "review", Locator: role("button", "Review your application"), Action: ActionClick, Timeout: buttonTimeout, Terminal: true},
	}
}

// Greenhouse forms are embedded in an iframe on the employer's site, or hosted on greenhouse.io.
type Greenhouse struct{}

func (Greenhouse) Name() string { return ProviderGreenhouse }

func (Greenhouse) Detect(t Target, timeout time.Duration) (bool, error) {
	if hostHas(t.URL(), "greenhouse.io") {
		return true, nil
	}
	return t.Page().Present(css(GreenhouseFrame), timeout)
}

func (Greenhouse) Surface(t Target) Surface {
	if hostHas(t.URL(), "greenhouse.io") {
		return t.Page()
	}
	return t.Frame(GreenhouseFrame)
}

func (Greenhouse) Handlers(a models.Applicant) []FieldHandler {
	group := role("group", "Resume/CV")
	attach := role("button", "Attach,")
	attach.Within = &group

	return []FieldHandler{
		{Key: "first_name", Locator: label("First Name *"), Action: ActionFill, Value: a.FirstName},
		{Key: "last_name", Locator: label("Last Name *"), Action: ActionFill, Value: a.LastName},
		{Key: "email", Locator: label("Email *"), Action: ActionFill, Value: a.Email},
		{Key: "phone", Locator: label("Phone *"), Action: ActionFill, Value: a.Phone},
		{Key: "resume", Locator: attach, Action: ActionUpload, Value: absPath(a.ResumePath), Chooser: true, Timeout: buttonTimeout},
		{Key: "linkedin", Locator: label("LinkedIn Profile"), Action: ActionFill, Value: a.Links.LinkedIn},
		{Key: "website", Locator: label("Website"), Action: ActionFill, Value: a.Links.Website},
		{Key: "university", Locator: label("School"), Action: ActionFill, Value: a.Education.University},
		{Key: "grad_year", Locator: label("Graduation Year"), Action: ActionFill, Value: a.Education.GradYear},
	}
}

// Lever hosts its forms on jobs.lever.co. The resume goes last so its parser
// does not overwrite what was typed.
type Lever struct{}

func (Lever) Name() string { return ProviderLever }

func (Lever) Detect(t Target, timeout time.Duration) (bool, error) {
	if hostHas(t.URL(), "lever.co") {
		return true, nil
	}
	return t.Page().Present(css(`form input[name="resume"]`), timeout)
}

func (Lever) Surface(t Target) Surface { return t.Page() }

func (Lever) Handlers(a models.Applicant) []FieldHandler {
	field := func(name string) browser.Locator {
		return css(`input[name="` + name + `"]`)
	}
	return []FieldHandler{
		{Key: "name", Locator: field("name"), Action: ActionFill, Value: a.FullName()},
		{Key: "email", Locator: field("email"), Action: ActionFill, Value: a.Email},
		{Key: "phone", Locator: field("phone"), Action: ActionFill, Value: a.Phone},
		{Key: "org", Locator: field("org"), Action: ActionFill, Value: a.Org},
		{Key: "linkedin", Locator: field("urls[LinkedIn]"), Action: ActionFill, Value: a.Links.LinkedIn},
		{Key: "github", Locator: field("urls[GitHub]"), Action: ActionFill, Value: a.Links.GitHub},
		{Key: "twitter", Locator: field("urls[Twitter]"), Action: ActionFill, Value: a.Links.Twitter},
		{Key: "portfolio", Locator: field("urls[Portfolio]"), Action: ActionFill, Value: a.Links.Website},
		{Key: "resume", Locator: field("resume"), Action: ActionUpload, Value: absPath(a.ResumePath), Timeout: buttonTimeout},
	}
}
