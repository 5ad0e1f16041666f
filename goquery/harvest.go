package goquery

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/tramit"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// KeywordLimit is the most blocks a single keyword may contribute.
	KeywordLimit = 5

	// minBlockLen is the length a harvested block must exceed, in runes.
	minBlockLen = 20
)

// hiddenElements hold text that is never matched against keywords.
var hiddenElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
}

// Harvester collects text blocks near keyword matches.
type Harvester struct {
	keywords []keyword
}

// keyword matches visible text anywhere, and a class or id token only
// when the token starts with it.
type keyword struct {
	text  *regexp.Regexp
	token *regexp.Regexp
}

// NewHarvester compiles keywords as case-insensitive regular expressions.
func NewHarvester(keywords []string) (*Harvester, error) {
	h := &Harvester{keywords: make([]keyword, 0, len(keywords))}
	for _, kw := range keywords {
		if strings.TrimSpace(kw) == "" {
			return nil, tramit.Errorf(tramit.EINVALID, "empty keyword")
		}
		text, err := regexp.Compile("(?i)" + kw)
		if err != nil {
			return nil, tramit.WrapErrorf(err, tramit.EINVALID, "invalid keyword %q", kw)
		}
		token, err := regexp.Compile("(?i)^(?:" + kw + ")")
		if err != nil {
			return nil, tramit.WrapErrorf(err, tramit.EINVALID, "invalid keyword %q", kw)
		}
		h.keywords = append(h.keywords, keyword{text: text, token: token})
	}
	return h, nil
}

// Harvest returns up to tramit.MaxSectionBlocks blocks in the order found.
// Keywords are processed in order; each contributes at most KeywordLimit
// blocks. For every match the containing element's text is kept unless it
// was already collected. When the match is in the element's text, its
// following siblings are added too, without that check. Blocks of 20 runes
// or fewer are skipped, as are script and style siblings.
func (h *Harvester) Harvest(doc *goquery.Document) []string {
	blocks := []string{}
	seen := make(map[string]bool)

	full := func() bool { return len(blocks) >= tramit.MaxSectionBlocks }

	for _, kw := range h.keywords {
		if full() {
			break
		}
		added := 0
		for _, m := range matchContainers(doc.Nodes, kw) {
			if added >= KeywordLimit || full() {
				break
			}

			sel := doc.FindNodes(m.node)
			if text := strings.TrimSpace(sel.Text()); isBlock(text) && !seen[text] {
				blocks = append(blocks, text)
				seen[text] = true
				added++
			}
			if m.byAttr {
				continue
			}

			sel.NextAll().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
				if added >= KeywordLimit || full() {
					return false
				}
				if hiddenElements[sib.Nodes[0].DataAtom] {
					return true
				}
				if text := strings.TrimSpace(sib.Text()); isBlock(text) {
					blocks = append(blocks, text)
					seen[text] = true
					added++
				}
				return true
			})
		}
	}

	if len(blocks) > tramit.MaxSectionBlocks {
		blocks = blocks[:tramit.MaxSectionBlocks]
	}
	return blocks
}

// container is an element associated with a keyword. byAttr is set when
// only its class or id matched.
type container struct {
	node   *html.Node
	byAttr bool
}

// matchContainers walks the tree in document order and returns the elements
// associated with kw: the parent of each matching visible text node, and any
// element with a class or id token starting with kw. Each element is
// returned once.
func matchContainers(roots []*html.Node, kw keyword) []container {
	var out []container
	index := make(map[*html.Node]int)
	add := func(n *html.Node, byAttr bool) {
		if i, ok := index[n]; ok {
			if !byAttr {
				out[i].byAttr = false
			}
			return
		}
		index[n] = len(out)
		out = append(out, container{node: n, byAttr: byAttr})
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if p := n.Parent; p != nil && p.Type == html.ElementNode && kw.text.MatchString(n.Data) {
				add(p, false)
			}
			return
		case html.ElementNode:
			if hiddenElements[n.DataAtom] {
				return
			}
			if attrMatches(n, kw.token) {
				add(n, true)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, root := range roots {
		walk(root)
	}
	return out
}

func attrMatches(n *html.Node, token *regexp.Regexp) bool {
	for _, a := range n.Attr {
		if a.Key != "class" && a.Key != "id" {
			continue
		}
		for _, t := range strings.Fields(a.Val) {
			if token.MatchString(t) {
				return true
			}
		}
	}
	return false
}

func isBlock(text string) bool {
	return utf8.RuneCountInString(text) > minBlockLen
}
