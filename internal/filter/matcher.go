package filter

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// VisibleText returns the text a reader would see on the page, skipping scripts,
// styles and templates. Unparseable input is returned as is.
func VisibleText(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return page
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Head:
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(strings.Join(strings.Fields(text), " "))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return b.String()
}

type VerdictKind int

const (
	Keep VerdictKind = iota
	MissingKeyword
	AlreadyApplied
	Stopword
)

// Verdict is the outcome of evaluating one job page.
type Verdict struct {
	Kind VerdictKind
	// Word is the matched stopword for Stopword verdicts.
	Word string
}

func (v Verdict) Keep() bool {
	return v.Kind == Keep
}

func (v Verdict) String() string {
	switch v.Kind {
	case Keep:
		return "keep"
	case MissingKeyword:
		return "missing keyword"
	case AlreadyApplied:
		return "already applied"
	case Stopword:
		return fmt.Sprintf("contains stopword %q", v.Word)
	default:
		return "unknown"
	}
}

// Evaluate applies rules to the visible text of a job page.
func Evaluate(text string, rules Rules) Verdict {
	normalized := normalizeText(text)

	if rules.Include != "" && !containsFold(normalized, rules.Include) {
		return Verdict{Kind: MissingKeyword}
	}
	if _, ok := AppliedOn(text); ok {
		return Verdict{Kind: AlreadyApplied}
	}
	for _, word := range rules.Exclude {
		if containsFold(normalized, word) {
			return Verdict{Kind: Stopword, Word: word}
		}
	}
	return Verdict{Kind: Keep}
}
