// Package dom defines the document capability the extraction pipeline runs
// against, and a goquery-backed implementation of it.
package dom

import "io"

// Document is a parsed HTML page that can be queried with CSS selectors.
type Document interface {
	// QueryAll returns every element matching pattern in document order.
	QueryAll(pattern string) []Node
}

// Node is one element of a parsed document.
type Node interface {
	// Text returns the concatenated text of the node and its descendants.
	Text() string

	// Attr returns the named attribute and whether it exists.
	Attr(name string) (string, bool)

	// Query returns the first descendant matching pattern in document order.
	Query(pattern string) (Node, bool)

	// QueryAll returns every descendant matching pattern in document order.
	QueryAll(pattern string) []Node
}

// Parser turns raw HTML into a Document.
type Parser interface {
	Parse(r io.Reader) (Document, error)
}
