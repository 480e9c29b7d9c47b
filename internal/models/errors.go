package models

import "errors"

// Error taxonomy shared by the crawler, the filter and the form dispatcher.
// Callers wrap these with fmt.Errorf("...: %w", ErrX) and test with errors.Is.
var (
	// ErrNavigationTimeout: a page or an element expected to render did not appear in time.
	// Retried once at the top level, then fatal for the run.
	ErrNavigationTimeout = errors.New("navigation timeout")

	// ErrFieldTimeout: an optional form control was not found within its handler timeout.
	ErrFieldTimeout = errors.New("field timeout")

	// ErrFetch: a page body could not be retrieved for content filtering.
	ErrFetch = errors.New("fetch failed")

	// ErrStructural: the application surface closed or stopped making sense.
	ErrStructural = errors.New("structural error")

	// ErrPersistence: a session or export file could not be read or written.
	ErrPersistence = errors.New("persistence error")
)
