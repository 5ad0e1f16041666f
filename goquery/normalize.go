package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// nonVisualSelector matches nodes whose content is never shown to a reader.
const nonVisualSelector = "script, style, meta, link"

// blockElements are rendered on their own line, so their text never runs
// into the text of their neighbours.
var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Body: true, atom.Br: true, atom.Caption: true, atom.Dd: true,
	atom.Details: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Fieldset: true, atom.Figcaption: true, atom.Figure: true, atom.Footer: true,
	atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Header: true,
	atom.Hr: true, atom.Legend: true, atom.Li: true, atom.Main: true,
	atom.Nav: true, atom.Ol: true, atom.Option: true, atom.P: true,
	atom.Pre: true, atom.Section: true, atom.Summary: true, atom.Table: true,
	atom.Tbody: true, atom.Td: true, atom.Tfoot: true, atom.Th: true,
	atom.Thead: true, atom.Title: true, atom.Tr: true, atom.Ul: true,
}

// NormalizeText removes script, style, meta and link nodes from doc and
// returns the remaining text as a single line with collapsed whitespace.
// The document is modified, so call it after every other lookup.
func NormalizeText(doc *goquery.Document) string {
	doc.Find(nonVisualSelector).Remove()

	var b strings.Builder
	for _, n := range doc.Nodes {
		flatten(&b, n)
	}
	return CollapseWhitespace(b.String())
}

func flatten(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		flatten(b, c)
	}
	if block {
		b.WriteByte('\n')
	}
}

// CollapseWhitespace splits s into lines, then each line into phrases on
// double-space runs, and joins the trimmed non-empty phrases with one space.
// Single spaces inside a phrase are kept as they are.
func CollapseWhitespace(s string) string {
	var phrases []string
	for _, line := range strings.FieldsFunc(s, isLineBreak) {
		for _, phrase := range strings.Split(strings.TrimSpace(line), "  ") {
			if p := strings.TrimSpace(phrase); p != "" {
				phrases = append(phrases, p)
			}
		}
	}
	return strings.Join(phrases, " ")
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}
