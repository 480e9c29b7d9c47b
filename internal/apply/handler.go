package apply

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"go-easyapply-automation/internal/browser"
)

// Surface is what a field handler can do to an application page or frame.
type Surface interface {
	Fill(l browser.Locator, value string, timeout time.Duration) error
	Click(l browser.Locator, timeout time.Duration) error
	SelectOption(l browser.Locator, value string, timeout time.Duration) error
	Upload(l browser.Locator, path string, chooser bool, timeout time.Duration) error
	Present(l browser.Locator, timeout time.Duration) (bool, error)
	Closed() bool
}

type Action string

const (
	ActionFill   Action = "fill"
	ActionSelect Action = "selectOption"
	ActionClick  Action = "click"
	ActionUpload Action = "uploadFile"
)

// FieldHandler is one step of a provider's form table.
type FieldHandler struct {
	Key     string
	Locator browser.Locator
	Action  Action
	Value   string
	// Timeout overrides the dispatcher's field timeout.
	Timeout time.Duration
	// Chooser uploads through the file chooser opened by clicking the control.
	Chooser bool
	// Requires names a handler that must have completed for this one to run.
	Requires string
	// Terminal ends the table once this handler completes.
	Terminal bool
}

// SubmitPattern matches the accessible names of final submit controls.
var SubmitPattern = regexp.MustCompile(`(?i)submit( your)? application|^submit$`)

// submitIdentPattern matches test ids and CSS selectors that point at submit controls.
var submitIdentPattern = regexp.MustCompile(`(?i)submit[-_ ]?(your[-_ ]?)?application|\bsubmit\b`)

// submitLabels are the names a regular expression locator must not be able to reach.
var submitLabels = []string{"Submit", "Submit application", "Submit your application"}

var ErrSubmitForbidden = errors.New("submit controls are never clicked")

// clicks reports whether running h clicks its locator.
func (h FieldHandler) clicks() bool {
	return h.Action == ActionClick || (h.Action == ActionUpload && h.Chooser)
}

// Forbidden reports whether h would click a final submit control.
func (h FieldHandler) Forbidden() bool {
	if !h.clicks() {
		return false
	}
	for l := &h.Locator; l != nil; l = l.Within {
		if submitLocator(*l) {
			return true
		}
	}
	return false
}

func submitLocator(l browser.Locator) bool {
	if l.Pattern {
		if reachesSubmit(l.Target) {
			return true
		}
	} else if SubmitPattern.MatchString(l.Target) {
		return true
	}
	if l.HasText != "" && (SubmitPattern.MatchString(l.HasText) || reachesSubmit(l.HasText)) {
		return true
	}
	if (l.Strategy == browser.ByTestID || l.Strategy == browser.ByCSS) && submitIdentPattern.MatchString(l.Target) {
		return true
	}
	return l.Inner != "" && submitIdentPattern.MatchString(l.Inner)
}

// reachesSubmit reports whether expr matches a submit label. Expressions that do not compile are
// treated as matching.
func reachesSubmit(expr string) bool {
	re, err := regexp.Compile(expr)
	if err != nil {
		return true
	}
	for _, label := range submitLabels {
		if re.MatchString(label) {
			return true
		}
	}
	return false
}

// needsValue reports whether the handler types or uploads something.
func (h FieldHandler) needsValue() bool {
	return h.Action != ActionClick
}

func (h FieldHandler) run(s Surface, timeout time.Duration) error {
	if h.Timeout > 0 {
		timeout = h.Timeout
	}
	if h.Forbidden() {
		return fmt.Errorf("%s: %w", h.Key, ErrSubmitForbidden)
	}

	switch h.Action {
	case ActionFill:
		return s.Fill(h.Locator, h.Value, timeout)
	case ActionSelect:
		return s.SelectOption(h.Locator, h.Value, timeout)
	case ActionClick:
		return s.Click(h.Locator, timeout)
	case ActionUpload:
		return s.Upload(h.Locator, h.Value, h.Chooser, timeout)
	default:
		return fmt.Errorf("%s: unknown action %q", h.Key, h.Action)
	}
}
