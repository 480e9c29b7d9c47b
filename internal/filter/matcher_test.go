package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name     string
		text     string
		expected Verdict
	}{
		{
			name:     "Keyword and no stopword",
			text:     "Senior Python Developer. Easy Apply. Remote.",
			expected: Verdict{Kind: Keep},
		},
		{
			name:     "Missing keyword",
			text:     "Senior Python Developer. Apply on company site.",
			expected: Verdict{Kind: MissingKeyword},
		},
		{
			name:     "Stopword",
			text:     "Python + Java engineer. Easy Apply",
			expected: Verdict{Kind: Stopword, Word: "java"},
		},
		{
			name:     "Keyword match ignores case",
			text:     "EASY APPLY now",
			expected: Verdict{Kind: Keep},
		},
		{
			name:     "Stopword match ignores accents",
			text:     "Easy Apply. Júnior role",
			expected: Verdict{Kind: Stopword, Word: "junior"},
		},
		{
			name:     "Already applied",
			text:     "Easy Apply. Applied Jul 6, 2023",
			expected: Verdict{Kind: AlreadyApplied},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Evaluate(tt.text, rules))
		})
	}
}

func TestDefaultRules_ExtraExclusion(t *testing.T) {
	rules := DefaultRules(" ruby ", "")
	assert.Equal(t, DefaultInclude, rules.Include)
	assert.Len(t, rules.Exclude, len(DefaultStopwords)+1)
	assert.Equal(t, Verdict{Kind: Stopword, Word: "ruby"}, Evaluate("Easy Apply Ruby on Rails", rules))
}

func TestNewRules(t *testing.T) {
	tests := []struct {
		name      string
		include   string
		stopwords []string
		extra     []string
		want      Rules
	}{
		{"falls back to defaults", "", nil, nil, Rules{Include: DefaultInclude, Exclude: DefaultStopwords}},
		{"configured values win", "Apply now", []string{"php"}, []string{" rust "}, Rules{Include: "Apply now", Exclude: []string{"php", "rust"}}},
		{"empty stopword list disables defaults", "Easy Apply", []string{}, nil, Rules{Include: "Easy Apply", Exclude: []string{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewRules(tt.include, tt.stopwords, tt.extra...))
		})
	}
}

func TestNewRules_DoesNotAliasDefaults(t *testing.T) {
	rules := NewRules("", nil, "ruby")
	rules.Exclude[0] = "changed"
	assert.Equal(t, ".net", DefaultStopwords[0])
}

func TestVisibleText(t *testing.T) {
	page := `<html><head><title>Job</title><style>.x{}</style></head>
<body><h1>Python   Developer</h1><script>var java = 1;</script>
<noscript>java required</noscript><p>Easy <b>Apply</b></p></body></html>`

	text := VisibleText(page)
	assert.Equal(t, "Python Developer Easy Apply", text)
	assert.Equal(t, Keep, Evaluate(text, DefaultRules()).Kind)
}

func TestAppliedOn(t *testing.T) {
	date, ok := AppliedOn("Status: Applied Jul 6, 2023 via Easy Apply")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2023, time.July, 6, 0, 0, 0, 0, time.UTC), date)

	_, ok = AppliedOn("Apply now")
	assert.False(t, ok)
}
