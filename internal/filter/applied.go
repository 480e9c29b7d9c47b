package filter

import (
	"regexp"
	"strings"
	"time"
)

var appliedRegex = regexp.MustCompile(`Applied\s+([A-Z][a-z]{2})\s+(\d{1,2}),\s+(\d{4})`)

// AppliedOn finds an "Applied Mon D, YYYY" marker in text and returns its date.
func AppliedOn(text string) (time.Time, bool) {
	m := appliedRegex.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	date, err := time.Parse("Jan 2, 2006", strings.Join([]string{m[1], " ", m[2], ", ", m[3]}, ""))
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}
