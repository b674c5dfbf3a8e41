package dom

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
)

var (
	_ Parser   = (*GoqueryParser)(nil)
	_ Document = (*goqueryDocument)(nil)
	_ Node     = (*goqueryNode)(nil)
)

// GoqueryParser parses HTML with goquery (cascadia selectors over x/net/html).
type GoqueryParser struct{}

// NewGoqueryParser creates a parser
func NewGoqueryParser() *GoqueryParser {
	return &GoqueryParser{}
}

// Parse reads the whole of r as UTF-8 HTML
func (p *GoqueryParser) Parse(r io.Reader) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &goqueryDocument{doc: doc}, nil
}

type goqueryDocument struct {
	doc *goquery.Document
}

func (d *goqueryDocument) QueryAll(pattern string) []Node {
	return nodes(d.doc.Find(pattern))
}

type goqueryNode struct {
	sel *goquery.Selection
}

func (n *goqueryNode) Text() string {
	return n.sel.Text()
}

func (n *goqueryNode) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

func (n *goqueryNode) Query(pattern string) (Node, bool) {
	first := n.sel.Find(pattern).First()
	if first.Length() == 0 {
		return nil, false
	}
	return &goqueryNode{sel: first}, true
}

func (n *goqueryNode) QueryAll(pattern string) []Node {
	return nodes(n.sel.Find(pattern))
}

func nodes(sel *goquery.Selection) []Node {
	out := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &goqueryNode{sel: s})
	})
	return out
}
