package browser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// Strategy is how a Locator finds its element.
type Strategy string

const (
	ByTestID      Strategy = "testid"
	ByLabel       Strategy = "label"
	ByRole        Strategy = "role"
	ByText        Strategy = "text"
	ByPlaceholder Strategy = "placeholder"
	ByCSS         Strategy = "css"
)

// Locator describes a form control independently of the page or frame it lives in.
type Locator struct {
	Strategy Strategy
	// Target is the test id, label, accessible name, text, placeholder or CSS selector.
	Target string
	// Pattern makes Target a regular expression.
	Pattern bool
	Exact   bool
	// Role is the ARIA role for ByRole.
	Role string
	// HasText keeps only matches whose text matches this regular expression.
	HasText string
	// Inner is a CSS selector resolved inside each match (e.g. the "span" of a label).
	Inner string
	// Within scopes the search to another element.
	Within *Locator
}

func (l Locator) String() string {
	var b strings.Builder
	if l.Within != nil {
		b.WriteString(l.Within.String())
		b.WriteString(" >> ")
	}
	switch l.Strategy {
	case ByRole:
		fmt.Fprintf(&b, "role=%s[name=%q]", l.Role, l.Target)
	default:
		fmt.Fprintf(&b, "%s=%q", l.Strategy, l.Target)
	}
	if l.HasText != "" {
		fmt.Fprintf(&b, " has-text=/%s/", l.HasText)
	}
	if l.Inner != "" {
		b.WriteString(" >> " + l.Inner)
	}
	return b.String()
}

func (l Locator) value() any {
	if l.Pattern {
		return regexp.MustCompile(l.Target)
	}
	return l.Target
}

// finder is the locate capability shared by pages, frames and elements.
type finder interface {
	byTestID(v any) playwright.Locator
	byLabel(v any, exact bool) playwright.Locator
	byRole(role string, name any, exact bool) playwright.Locator
	byText(v any, exact bool) playwright.Locator
	byPlaceholder(v any, exact bool) playwright.Locator
	css(selector string) playwright.Locator
}

func resolve(root finder, l Locator) playwright.Locator {
	if l.Within != nil {
		root = locatorFinder{resolve(root, *l.Within)}
	}

	var loc playwright.Locator
	switch l.Strategy {
	case ByTestID:
		loc = root.byTestID(l.value())
	case ByLabel:
		loc = root.byLabel(l.value(), l.Exact)
	case ByRole:
		var name any
		if l.Target != "" {
			name = l.value()
		}
		loc = root.byRole(l.Role, name, l.Exact)
	case ByText:
		loc = root.byText(l.value(), l.Exact)
	case ByPlaceholder:
		loc = root.byPlaceholder(l.value(), l.Exact)
	default:
		loc = root.css(l.Target)
	}

	if l.HasText != "" {
		loc = loc.Filter(playwright.LocatorFilterOptions{
			HasText: regexp.MustCompile(l.HasText),
		})
	}
	if l.Inner != "" {
		loc = loc.Locator(l.Inner)
	}
	return loc.First()
}

type pageFinder struct{ page playwright.Page }

func (f pageFinder) byTestID(v any) playwright.Locator { return f.page.GetByTestId(v) }
func (f pageFinder) byLabel(v any, exact bool) playwright.Locator {
	return f.page.GetByLabel(v, playwright.PageGetByLabelOptions{Exact: playwright.Bool(exact)})
}
func (f pageFinder) byRole(role string, name any, exact bool) playwright.Locator {
	return f.page.GetByRole(playwright.AriaRole(role), playwright.PageGetByRoleOptions{Name: name, Exact: playwright.Bool(exact)})
}
func (f pageFinder) byText(v any, exact bool) playwright.Locator {
	return f.page.GetByText(v, playwright.PageGetByTextOptions{Exact: playwright.Bool(exact)})
}
func (f pageFinder) byPlaceholder(v any, exact bool) playwright.Locator {
	return f.page.GetByPlaceholder(v, playwright.PageGetByPlaceholderOptions{Exact: playwright.Bool(exact)})
}
func (f pageFinder) css(selector string) playwright.Locator { return f.page.Locator(selector) }

type frameFinder struct{ frame playwright.FrameLocator }

func (f frameFinder) byTestID(v any) playwright.Locator { return f.frame.GetByTestId(v) }
func (f frameFinder) byLabel(v any, exact bool) playwright.Locator {
	return f.frame.GetByLabel(v, playwright.FrameLocatorGetByLabelOptions{Exact: playwright.Bool(exact)})
}
func (f frameFinder) byRole(role string, name any, exact bool) playwright.Locator {
	return f.frame.GetByRole(playwright.AriaRole(role), playwright.FrameLocatorGetByRoleOptions{Name: name, Exact: playwright.Bool(exact)})
}
func (f frameFinder) byText(v any, exact bool) playwright.Locator {
	return f.frame.GetByText(v, playwright.FrameLocatorGetByTextOptions{Exact: playwright.Bool(exact)})
}
func (f frameFinder) byPlaceholder(v any, exact bool) playwright.Locator {
	return f.frame.GetByPlaceholder(v, playwright.FrameLocatorGetByPlaceholderOptions{Exact: playwright.Bool(exact)})
}
func (f frameFinder) css(selector string) playwright.Locator { return f.frame.Locator(selector) }

type locatorFinder struct{ loc playwright.Locator }

func (f locatorFinder) byTestID(v any) playwright.Locator { return f.loc.GetByTestId(v) }
func (f locatorFinder) byLabel(v any, exact bool) playwright.Locator {
	return f.loc.GetByLabel(v, playwright.LocatorGetByLabelOptions{Exact: playwright.Bool(exact)})
}
func (f locatorFinder) byRole(role string, name any, exact bool) playwright.Locator {
	return f.loc.GetByRole(playwright.AriaRole(role), playwright.LocatorGetByRoleOptions{Name: name, Exact: playwright.Bool(exact)})
}
func (f locatorFinder) byText(v any, exact bool) playwright.Locator {
	return f.loc.GetByText(v, playwright.LocatorGetByTextOptions{Exact: playwright.Bool(exact)})
}
func (f locatorFinder) byPlaceholder(v any, exact bool) playwright.Locator {
	return f.loc.GetByPlaceholder(v, playwright.LocatorGetByPlaceholderOptions{Exact: playwright.Bool(exact)})
}
func (f locatorFinder) css(selector string) playwright.Locator { return f.loc.Locator(selector) }
