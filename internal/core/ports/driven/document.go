package driven

import "context"

// DocumentNode is the minimal view of a parsed HTML element the section
// extractor needs. Only element nodes are exposed; text and comment nodes
// are folded into Text.
type DocumentNode interface {
	// Tag returns the lower-case element name (e.g. "h2", "section").
	Tag() string

	// Attr returns the value of the named attribute, or "" if absent.
	Attr(name string) string

	// Text returns the concatenated text of all descendants.
	Text() string

	// Parent returns the parent element, or nil at the root.
	Parent() DocumentNode

	// NextSibling returns the next element sibling, or nil.
	NextSibling() DocumentNode

	// Children returns the element children in document order.
	Children() []DocumentNode
}

// DocumentSource fetches a specification document and parses it into a tree.
type DocumentSource interface {
	// Fetch downloads the document at url and returns its root element.
	Fetch(ctx context.Context, url string) (DocumentNode, error)
}
