package browser

import (
	"errors"
	"fmt"
	"time"

	"go-easyapply-automation/internal/models"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightSurface is the interaction surface of one application page, or of a frame
// embedded in it. Every error it returns is classified with ClassifyField.
type PlaywrightSurface struct {
	page  playwright.Page
	root  finder
	frame string
}

func NewPageSurface(page playwright.Page) *PlaywrightSurface {
	return &PlaywrightSurface{page: page, root: pageFinder{page}}
}

// NewFrameSurface scopes the surface to the iframe matched by selector.
func NewFrameSurface(page playwright.Page, selector string) *PlaywrightSurface {
	return &PlaywrightSurface{page: page, root: frameFinder{page.FrameLocator(selector)}, frame: selector}
}

func ms(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

func (s *PlaywrightSurface) Page() playwright.Page {
	return s.page
}

func (s *PlaywrightSurface) URL() string {
	return s.page.URL()
}

func (s *PlaywrightSurface) Closed() bool {
	return s.page.IsClosed()
}

func (s *PlaywrightSurface) Fill(l Locator, value string, timeout time.Duration) error {
	return ClassifyField(resolve(s.root, l).Fill(value, playwright.LocatorFillOptions{Timeout: ms(timeout)}))
}

func (s *PlaywrightSurface) Click(l Locator, timeout time.Duration) error {
	return ClassifyField(resolve(s.root, l).Click(playwright.LocatorClickOptions{Timeout: ms(timeout)}))
}

// SelectOption picks an option by visible label, then by value.
func (s *PlaywrightSurface) SelectOption(l Locator, value string, timeout time.Duration) error {
	loc := resolve(s.root, l)
	_, err := loc.SelectOption(playwright.SelectOptionValues{Labels: &[]string{value}},
		playwright.LocatorSelectOptionOptions{Timeout: ms(timeout)})
	if err != nil && !errors.Is(err, playwright.ErrTimeout) && !errors.Is(err, playwright.ErrTargetClosed) {
		_, err = loc.SelectOption(playwright.SelectOptionValues{Values: &[]string{value}},
			playwright.LocatorSelectOptionOptions{Timeout: ms(timeout)})
	}
	return ClassifyField(err)
}

// Upload sets path on a file input, or, when chooser is set, clicks the control and
// answers the file chooser it opens.
func (s *PlaywrightSurface) Upload(l Locator, path string, chooser bool, timeout time.Duration) error {
	loc := resolve(s.root, l)
	if !chooser {
		return ClassifyField(loc.SetInputFiles(path, playwright.LocatorSetInputFilesOptions{Timeout: ms(timeout)}))
	}

	fc, err := s.page.ExpectFileChooser(func() error {
		return loc.Click(playwright.LocatorClickOptions{Timeout: ms(timeout)})
	}, playwright.PageExpectFileChooserOptions{Timeout: ms(timeout)})
	if err != nil {
		return ClassifyField(err)
	}
	return ClassifyField(fc.SetFiles(path))
}

// Present waits up to timeout for the element to be attached.
func (s *PlaywrightSurface) Present(l Locator, timeout time.Duration) (bool, error) {
	err := resolve(s.root, l).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: ms(timeout),
	})
	switch err := ClassifyField(err); {
	case err == nil:
		return true, nil
	case errors.Is(err, models.ErrFieldTimeout):
		return false, nil
	default:
		return false, err
	}
}

func (s *PlaywrightSurface) String() string {
	if s.frame != "" {
		return fmt.Sprintf("frame %s on %s", s.frame, s.page.URL())
	}
	return s.page.URL()
}
