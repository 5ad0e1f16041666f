package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/tramit"
)

// Pattern is one structural lookup in a cascade.
type Pattern interface {
	// Match returns the trimmed text of the first node the pattern selects,
	// or "" when nothing matches.
	Match(doc *goquery.Document) string
}

// SelectorPattern is a Pattern backed by a compiled CSS selector.
type SelectorPattern struct {
	source   string
	selector cascadia.Selector
}

// CompilePattern compiles a CSS selector into a Pattern.
func CompilePattern(selector string) (*SelectorPattern, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, tramit.WrapErrorf(err, tramit.EINVALID, "invalid selector %q", selector)
	}
	return &SelectorPattern{source: selector, selector: sel}, nil
}

// Match inspects only the first node in document order.
func (p *SelectorPattern) Match(doc *goquery.Document) string {
	first := doc.FindMatcher(goquery.SingleMatcher(p.selector))
	if first.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(first.Text())
}

// String returns the selector source.
func (p *SelectorPattern) String() string {
	return p.source
}

// Cascade is an ordered list of patterns. The first pattern yielding
// non-empty text wins; there is no ranking between candidates.
type Cascade []Pattern

// CompileCascade compiles selectors into a Cascade, keeping their order.
func CompileCascade(selectors []string) (Cascade, error) {
	c := make(Cascade, 0, len(selectors))
	for _, s := range selectors {
		p, err := CompilePattern(s)
		if err != nil {
			return nil, err
		}
		c = append(c, p)
	}
	return c, nil
}

// Resolve tries each pattern in order and returns the first non-empty text.
// It does not modify doc.
func (c Cascade) Resolve(doc *goquery.Document) string {
	for _, p := range c {
		if text := p.Match(doc); text != "" {
			return text
		}
	}
	return ""
}
