// Package document models the HTML tree the annotator walks and mutates.
package document

import "golang.org/x/net/html"

const (
	// ProcessedClass marks an element whose price was already annotated.
	ProcessedClass = "money-is-time-processed"
	// BadgeClass marks inserted badges so they are never scanned.
	BadgeClass = "money-is-time-badge"
)

// BadgeStyle is the inline style applied to every badge.
const BadgeStyle = "margin-left: 4px; background-color: rgba(100, 108, 255, 0.12); color: inherit; " +
	"font-size: 0.82em; padding: 4px 6px; border-radius: 6px; line-height: 1.2; font-weight: 500; " +
	"box-shadow: 0 1px 3px rgba(0, 0, 0, 0.1); border: 1px solid rgba(100, 108, 255, 0.2); white-space: nowrap"

// Element is a handle to an element node. Handles compare equal when they
// refer to the same node.
type Element struct {
	node *html.Node
}

// IsZero reports whether e refers to no node.
func (e Element) IsZero() bool { return e.node == nil }

// Tag returns the element's tag name.
func (e Element) Tag() string {
	if e.node == nil {
		return ""
	}
	return e.node.Data
}

// TextNode is a text node and the element that contains it.
type TextNode struct {
	Text   string
	Parent Element
}

// Document is a mutable tree of text nodes.
//
// TextNodes returns a snapshot in document order; later mutations do not
// change a returned slice. Observe registers fn to be called after every
// mutation and returns a function that unregisters it.
type Document interface {
	TextNodes() []TextNode
	InsertBadge(after Element, label string) error
	Observe(fn func()) (cancel func())
}

// Marker records which elements have been processed.
type Marker interface {
	Marked(el Element) bool
	Mark(el Element)
	Count() int
}
