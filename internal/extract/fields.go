package extract

import (
	"strings"

	"github.com/law-makers/newswatch/internal/dom"
	"github.com/law-makers/newswatch/pkg/models"
)

// Selector groups used inside a block. The first match in document order wins.
const (
	TitleSelector = "h1, h2, h3, .title, .headline"
	LinkSelector  = "a"
	DateSelector  = ".date, time, .published"
)

// Fields reads title, link, body and date from a single block.
// Missing pieces degrade to empty values.
func Fields(block dom.Node) models.ExtractedFields {
	var f models.ExtractedFields
	if block == nil {
		return f
	}

	f.Title = firstText(block, TitleSelector)
	f.Body = strings.TrimSpace(block.Text())
	f.Date = firstText(block, DateSelector)

	// only the first anchor counts; an empty href is treated as no link
	if a, ok := block.Query(LinkSelector); ok {
		if href, ok := a.Attr("href"); ok && href != "" {
			f.Link, f.HasLink = href, true
		}
	}

	return f
}

func firstText(block dom.Node, pattern string) string {
	node, ok := block.Query(pattern)
	if !ok {
		return ""
	}
	return strings.TrimSpace(node.Text())
}
