package model

import (
	"fmt"
	"sort"
	"strings"
)

// CaptureNode represents one DOM element's captured state.
// Nodes form a tree mirroring the pruned document structure; geometry is in
// absolute document pixels, so children are not positioned relative to their
// parent.
type CaptureNode struct {
	// ID uniquely identifies the node within one capture pass.
	ID string `json:"id"`

	// Tag is the lowercased element tag name (div, img, p, ...).
	Tag string `json:"tag"`

	// Depth is the node's distance from the capture root. Root is 0.
	Depth int `json:"depth"`

	// ZOrder is the explicit z-index when the computed value is not "auto",
	// otherwise the node's depth. Shallower-first fallback approximates
	// paint order for non-positioned content.
	ZOrder int `json:"zOrder"`

	// Geometry is the element's bounding rectangle in absolute document
	// pixels. Width and height are never negative.
	Geometry Geometry `json:"geometry"`

	// StyleBag holds the node's normalized visual styling.
	StyleBag StyleBag `json:"styleBag"`

	// ClassifiedType is the target node kind assigned by the classifier.
	ClassifiedType NodeKind `json:"classifiedType"`

	// AutoLayout is present only for flex containers.
	AutoLayout *AutoLayout `json:"autoLayout,omitempty"`

	// TextContent is the node's trimmed, length-capped own text.
	// Non-empty for every TEXT node.
	TextContent string `json:"textContent,omitempty"`

	// AssetRef links the node to an entry in the viewport's asset list.
	AssetRef *AssetRef `json:"assetRef,omitempty"`

	// Children are the node's kept child nodes, sorted by
	// (zOrder ascending, depth ascending) before emission.
	Children []*CaptureNode `json:"children,omitempty"`
}

// Geometry is a bounding rectangle in absolute document pixels.
type Geometry struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero returns true if the rectangle has no extent.
func (g Geometry) IsZero() bool {
	return g.Width == 0 && g.Height == 0
}

// StyleBag holds the normalized visual styling of a node.
// Colors are emitted as normalized strings ("#rrggbb" or "rgba(r,g,b,a)")
// so the render side never re-parses raw CSS.
type StyleBag struct {
	// Opacity is the element's own opacity in [0,1]. 1 means fully opaque.
	Opacity float64 `json:"opacity"`

	// BackgroundColor is the normalized background color.
	// Empty when the background is fully transparent.
	BackgroundColor string `json:"backgroundColor,omitempty"`

	// Gradients carries background-image gradient layers as metadata.
	// Gradients are recorded, not rasterized.
	Gradients []Gradient `json:"gradients,omitempty"`

	// Border describes per-side strokes. Nil when no side is visible.
	Border *Border `json:"border,omitempty"`

	// CornerRadius describes per-corner rounding. Nil when all corners
	// are square.
	CornerRadius *CornerRadius `json:"cornerRadius,omitempty"`

	// Shadows carries raw box-shadow layer strings. Shadow colors are
	// harvested into the palette during normalization.
	Shadows []string `json:"shadows,omitempty"`

	// Transform is the raw computed transform when not "none".
	Transform string `json:"transform,omitempty"`

	// ClipsContent is true when the element clips overflowing children
	// (overflow hidden or clip).
	ClipsContent bool `json:"clipsContent,omitempty"`

	// Typography is present for nodes carrying text styling.
	Typography *Typography `json:"typography,omitempty"`
}

// Typography holds normalized text styling for a node.
type Typography struct {
	// Family is the primary font family, quotes stripped.
	Family string `json:"family"`

	// Size is the font size in pixels.
	Size float64 `json:"size"`

	// Style is the named font style derived from weight and italic,
	// for example "Regular", "Bold", or "Bold Italic".
	Style string `json:"style"`

	// LineHeight is the normalized line height.
	LineHeight LineHeight `json:"lineHeight"`

	// LetterSpacing is the letter spacing in pixels.
	LetterSpacing float64 `json:"letterSpacing,omitempty"`

	// Align is the horizontal text alignment.
	Align TextAlign `json:"align"`

	// Transform is the text case transformation.
	Transform TextTransform `json:"transform"`

	// Decoration is the text decoration line.
	Decoration TextDecoration `json:"decoration"`

	// Color is the normalized text color.
	Color string `json:"color"`
}

// Gradient is a background gradient layer recorded as metadata.
type Gradient struct {
	// Raw is the original CSS gradient function string.
	Raw string `json:"raw"`

	// Colors are the color tokens harvested from the gradient string.
	Colors []string `json:"colors,omitempty"`
}

// Border describes per-side strokes of a node.
type Border struct {
	Top    BorderSide `json:"top"`
	Right  BorderSide `json:"right"`
	Bottom BorderSide `json:"bottom"`
	Left   BorderSide `json:"left"`
}

// BorderSide is one side of a border.
type BorderSide struct {
	// Width is the stroke width in pixels.
	Width float64 `json:"width"`

	// Color is the normalized stroke color.
	Color string `json:"color,omitempty"`

	// Style is the CSS border style (solid, dashed, ...). "none" and
	// zero-width sides are not considered visible.
	Style string `json:"style,omitempty"`
}

// IsVisible returns true if this side would paint a stroke.
func (s BorderSide) IsVisible() bool {
	return s.Width > 0 && s.Style != "" && s.Style != "none" && s.Style != "hidden"
}

// HasVisibleSide returns true if any side of the border would paint.
func (b *Border) HasVisibleSide() bool {
	if b == nil {
		return false
	}
	return b.Top.IsVisible() || b.Right.IsVisible() || b.Bottom.IsVisible() || b.Left.IsVisible()
}

// CornerRadius describes per-corner rounding in pixels.
type CornerRadius struct {
	TopLeft     float64 `json:"topLeft"`
	TopRight    float64 `json:"topRight"`
	BottomRight float64 `json:"bottomRight"`
	BottomLeft  float64 `json:"bottomLeft"`
}

// IsZero returns true if all corners are square.
func (c *CornerRadius) IsZero() bool {
	if c == nil {
		return true
	}
	return c.TopLeft == 0 && c.TopRight == 0 && c.BottomRight == 0 && c.BottomLeft == 0
}

// AssetRef links a node to an asset in the enclosing viewport capture.
type AssetRef struct {
	// AssetID is the referenced asset's ID.
	AssetID string `json:"assetId"`
}

// NodeCount returns the number of nodes in the subtree rooted at n,
// including n itself.
func (n *CaptureNode) NodeCount() int {
	if n == nil {
		return 0
	}
	count := 1
	for _, child := range n.Children {
		count += child.NodeCount()
	}
	return count
}

// Walk visits n and every descendant in pre-order document order.
// The visit function returning false stops descent into that subtree.
func (n *CaptureNode) Walk(visit func(*CaptureNode) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// SortByPaintOrder recursively sorts every container's children by
// (zOrder ascending, depth ascending). The sort is stable, so nodes that
// tie on both keys keep their document order. Render-side consumers append
// children in the given order, so this ordering is what reconstructs paint
// order.
func (n *CaptureNode) SortByPaintOrder() {
	if n == nil {
		return
	}
	sort.SliceStable(n.Children, func(i, j int) bool {
		if n.Children[i].ZOrder != n.Children[j].ZOrder {
			return n.Children[i].ZOrder < n.Children[j].ZOrder
		}
		return n.Children[i].Depth < n.Children[j].Depth
	})
	for _, child := range n.Children {
		child.SortByPaintOrder()
	}
}

// Validate checks the node tree against the IR contract:
// TEXT nodes carry non-empty trimmed text, no node has both zero geometry
// and zero children, geometry is never negative, and containers with an
// auto-layout descriptor carry a valid axis, non-negative spacing, and
// non-negative padding. A violation indicates a pipeline bug.
func (n *CaptureNode) Validate() error {
	if n == nil {
		return fmt.Errorf("model: nil node")
	}
	if n.ID == "" {
		return fmt.Errorf("model: node %q has empty id", n.Tag)
	}
	if !n.ClassifiedType.IsValid() {
		return fmt.Errorf("model: node %s has invalid kind %q", n.ID, n.ClassifiedType)
	}
	if n.Geometry.Width < 0 || n.Geometry.Height < 0 {
		return fmt.Errorf("model: node %s has negative geometry %.1fx%.1f", n.ID, n.Geometry.Width, n.Geometry.Height)
	}
	if n.Geometry.IsZero() && len(n.Children) == 0 {
		return fmt.Errorf("model: node %s has zero geometry and no children", n.ID)
	}
	if n.ClassifiedType == NodeKindText && strings.TrimSpace(n.TextContent) == "" {
		return fmt.Errorf("model: TEXT node %s has empty text content", n.ID)
	}
	if n.AutoLayout != nil {
		if err := n.validateAutoLayout(); err != nil {
			return err
		}
	}
	for _, child := range n.Children {
		if err := child.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// validateAutoLayout checks the auto-layout descriptor constraints.
func (n *CaptureNode) validateAutoLayout() error {
	al := n.AutoLayout
	if !al.PrimaryAxis.IsValid() {
		return fmt.Errorf("model: node %s has invalid auto-layout axis %q", n.ID, al.PrimaryAxis)
	}
	if !al.PrimaryAlignment.IsValid() || !al.CounterAlignment.IsValid() {
		return fmt.Errorf("model: node %s has invalid auto-layout alignment", n.ID)
	}
	if al.Spacing < 0 {
		return fmt.Errorf("model: node %s has negative auto-layout spacing %.1f", n.ID, al.Spacing)
	}
	if al.Padding.Top < 0 || al.Padding.Right < 0 || al.Padding.Bottom < 0 || al.Padding.Left < 0 {
		return fmt.Errorf("model: node %s has negative auto-layout padding", n.ID)
	}
	return nil
}
