package filter

import (
	"strings"
	"unicode"

	"go-easyapply-automation/internal/models"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultInclude is the keyword a job page must show to be kept.
const DefaultInclude = models.DefaultIncludeKeyword

// DefaultStopwords reject a job when any of them appears in its page text.
var DefaultStopwords = models.DefaultStopwords()

// Rules is the include/exclude pair applied to every job page.
type Rules struct {
	Include string
	Exclude []string
}

// NewRules builds the rules for a run. An empty include falls back to DefaultInclude and nil
// stopwords to DefaultStopwords; extra terms are appended after trimming.
func NewRules(include string, stopwords []string, extra ...string) Rules {
	if strings.TrimSpace(include) == "" {
		include = DefaultInclude
	}
	if stopwords == nil {
		stopwords = DefaultStopwords
	}
	exclude := make([]string, 0, len(stopwords)+len(extra))
	for _, w := range append(append([]string{}, stopwords...), extra...) {
		if w = strings.TrimSpace(w); w != "" {
			exclude = append(exclude, w)
		}
	}
	return Rules{Include: include, Exclude: exclude}
}

// DefaultRules returns the default include keyword and stopwords, plus any extra exclusions.
func DefaultRules(extra ...string) Rules {
	return NewRules("", nil, extra...)
}

func normalizeText(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, str)
	return strings.ToLower(result)
}

// containsFold reports whether needle occurs in haystack ignoring case and accents.
// haystack must already be normalized.
func containsFold(normalizedHaystack, needle string) bool {
	needle = normalizeText(strings.TrimSpace(needle))
	if needle == "" {
		return false
	}
	return strings.Contains(normalizedHaystack, needle)
}
