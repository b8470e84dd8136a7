package dom

import (
	"context"

	"github.com/nao1215/framecap/internal/model"
)

// RawNode is one element of a rendered document as dumped by a Source.
// Values are untrusted: styles and rects come straight from the page and
// may be missing or malformed. The traversal engine owns all validation.
type RawNode struct {
	// Tag is the lowercased element tag name.
	Tag string `json:"tag"`

	// Attrs holds the element's attributes by lowercased name.
	Attrs map[string]string `json:"attrs,omitempty"`

	// Styles holds the captured computed-style subset by property name.
	Styles map[string]string `json:"styles,omitempty"`

	// Rect is the element's bounding rectangle in absolute document pixels.
	Rect Rect `json:"rect"`

	// Text is the element's own text content (direct text children only,
	// not descendants'), whitespace preserved as rendered.
	Text string `json:"text,omitempty"`

	// Children are the element's child elements in document order.
	Children []*RawNode `json:"children,omitempty"`
}

// Rect is a bounding rectangle in absolute document pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Attr returns the named attribute value, or empty string when absent.
func (n *RawNode) Attr(name string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// HasAttr returns true if the named attribute is present, even when empty.
func (n *RawNode) HasAttr(name string) bool {
	if n == nil || n.Attrs == nil {
		return false
	}
	_, ok := n.Attrs[name]
	return ok
}

// Style returns the named computed-style value, or empty string when the
// property was not captured.
func (n *RawNode) Style(name string) string {
	if n == nil || n.Styles == nil {
		return ""
	}
	return n.Styles[name]
}

// Snapshot is a rendered page at one breakpoint, ready for traversal.
type Snapshot struct {
	// URL is the document URL after navigation (redirects followed).
	URL string `json:"url"`

	// Title is the page title.
	Title string `json:"title,omitempty"`

	// Metrics is the document's full scrollable extent.
	Metrics model.PageMetrics `json:"metrics"`

	// Root is the raw element tree, usually rooted at body.
	Root *RawNode `json:"root"`

	// Partial is true when the DOM never stabilized within the wait bound
	// and the snapshot was taken anyway.
	Partial bool `json:"partial,omitempty"`
}

// Source renders a page at a requested viewport and returns its snapshot.
// Implementations must return fresh trees on every call: the traversal
// engine mutates nothing, but independent passes must never share nodes.
type Source interface {
	// Render navigates to the URL at the breakpoint's viewport size, waits
	// for DOM stability, and dumps the document. A document that cannot be
	// reached at all is reported by wrapping ErrInaccessibleDocument; a
	// stability timeout is not an error and yields a Partial snapshot.
	Render(ctx context.Context, url string, bp model.Breakpoint) (*Snapshot, error)

	// Concurrent reports whether independent Render calls may run in
	// parallel.
	Concurrent() bool

	// Name identifies the source in logs.
	Name() string

	// Close releases the source's resources.
	Close() error
}
