// Package extract finds candidate content blocks in a page and reads their fields.
package extract

import (
	"iter"

	"github.com/law-makers/newswatch/internal/dom"
)

// BlockSelectors are tried in order. Matches are not merged across selectors,
// so an <article class="post"> is yielded once for "article" and again for ".post".
var BlockSelectors = []string{
	"article",
	".news-item",
	".post",
	".entry",
	"div.news",
	".content",
}

// Blocks yields the content blocks of doc, selector by selector.
func Blocks(doc dom.Document) iter.Seq[dom.Node] {
	return func(yield func(dom.Node) bool) {
		if doc == nil {
			return
		}
		for _, pattern := range BlockSelectors {
			for _, node := range doc.QueryAll(pattern) {
				if !yield(node) {
					return
				}
			}
		}
	}
}
