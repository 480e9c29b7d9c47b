package browser

import (
	"errors"
	"fmt"

	"go-easyapply-automation/internal/models"

	"github.com/playwright-community/playwright-go"
)

// ClassifyField maps a Playwright error raised while working on a form control
// onto the field-level taxonomy.
func ClassifyField(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, playwright.ErrTimeout):
		return fmt.Errorf("%w: %v", models.ErrFieldTimeout, err)
	case errors.Is(err, playwright.ErrTargetClosed):
		return fmt.Errorf("%w: %v", models.ErrStructural, err)
	default:
		return err
	}
}

// ClassifyNavigation maps a Playwright error raised while waiting for a page
// that is expected to render.
func ClassifyNavigation(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, playwright.ErrTimeout):
		return fmt.Errorf("%w: %v", models.ErrNavigationTimeout, err)
	case errors.Is(err, playwright.ErrTargetClosed):
		return fmt.Errorf("%w: %v", models.ErrStructural, err)
	default:
		return err
	}
}
