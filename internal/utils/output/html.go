package output

import (
	"bytes"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/newswatch/pkg/models"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderHTML builds a standalone page with one table row per match.
func RenderHTML(results []models.MatchResult) (string, error) {
	table := element(atom.Table)
	head := element(atom.Tr)
	for _, h := range []string{"Title", "Keywords", "Date"} {
		th := element(atom.Th)
		th.AppendChild(text(h))
		head.AppendChild(th)
	}
	thead := element(atom.Thead)
	thead.AppendChild(head)
	table.AppendChild(thead)

	tbody := element(atom.Tbody)
	for _, r := range results {
		tr := element(atom.Tr)

		a := element(atom.A)
		a.Attr = []html.Attribute{{Key: "href", Val: r.URL}}
		a.AppendChild(text(r.Title))
		tr.AppendChild(cell(a))
		tr.AppendChild(cell(text(strings.Join(r.Keywords, ", "))))
		tr.AppendChild(cell(text(r.Date)))

		tbody.AppendChild(tr)
	}
	table.AppendChild(tbody)

	body := element(atom.Body)
	h1 := element(atom.H1)
	h1.AppendChild(text("Keyword matches"))
	body.AppendChild(h1)
	body.AppendChild(table)

	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	headEl := element(atom.Head)
	headEl.AppendChild(meta)

	root := element(atom.Html)
	root.AppendChild(headEl)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SaveHTML writes the rendered table to filepath.
func SaveHTML(results []models.MatchResult, filepath string) error {
	page, err := RenderHTML(results)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, []byte(page), 0644)
}

// CleanHTML removes unwanted elements and attributes to produce a safe HTML excerpt
func CleanHTML(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	// Remove unwanted tags
	doc.Find("script, style, link, meta, noscript, iframe, svg, form, input, button, select, textarea, canvas").Remove()

	// Clean attributes
	doc.Find("*").Each(func(i int, s *goquery.Selection) {
		if len(s.Nodes) == 0 {
			return
		}
		node := s.Nodes[0]
		var newAttrs []html.Attribute
		for _, attr := range node.Attr {
			if node.Data == "a" && (attr.Key == "href" || attr.Key == "title") {
				newAttrs = append(newAttrs, attr)
			}
		}
		node.Attr = newAttrs
	})

	// Return sanitized HTML (preserve tags for downstream converters)
	htmlStr, err := doc.Html()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(htmlStr), nil
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func cell(child *html.Node) *html.Node {
	td := element(atom.Td)
	td.AppendChild(child)
	return td
}
