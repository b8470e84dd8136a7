package model

import (
	"fmt"
	"time"
)

// PageMetrics holds the full scrollable extent of the rendered page.
type PageMetrics struct {
	// ScrollWidth is the full document width in pixels.
	ScrollWidth float64 `json:"scrollWidth"`

	// ScrollHeight is the full document height in pixels.
	ScrollHeight float64 `json:"scrollHeight"`
}

// CaptureWarning records a node-level failure that was absorbed during a
// capture pass. The node and its subtree were skipped; the pass continued.
type CaptureWarning struct {
	// NodeID is the per-pass ID of the failing node, when one was assigned.
	NodeID string `json:"nodeId,omitempty"`

	// Tag is the failing element's tag name.
	Tag string `json:"tag,omitempty"`

	// Stage is the pipeline stage that failed (traverse, style, asset).
	Stage string `json:"stage"`

	// Message is the failure description.
	Message string `json:"message"`
}

// ViewportCapture is the capture result for a single breakpoint.
type ViewportCapture struct {
	// BreakpointName identifies the breakpoint this capture belongs to.
	BreakpointName string `json:"breakpointName"`

	// Width and Height are the requested viewport dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// PageMetrics is the rendered document's scrollable extent.
	PageMetrics PageMetrics `json:"pageMetrics"`

	// Partial is true when the pass hit a stability or traversal bound and
	// returned an incomplete tree rather than failing.
	Partial bool `json:"partial,omitempty"`

	// Warnings lists node-level failures absorbed during the pass.
	Warnings []CaptureWarning `json:"warnings,omitempty"`

	// RootNode is the pruned capture tree for this breakpoint.
	RootNode *CaptureNode `json:"rootNode"`

	// Assets is the viewport's deduplicated asset list.
	Assets []Asset `json:"assets,omitempty"`
}

// NodeCount returns the number of nodes in this viewport's tree.
func (v *ViewportCapture) NodeCount() int {
	if v == nil {
		return 0
	}
	return v.RootNode.NodeCount()
}

// Validate checks the viewport capture against the IR contract.
func (v *ViewportCapture) Validate() error {
	if v == nil {
		return fmt.Errorf("model: nil viewport capture")
	}
	if v.BreakpointName == "" {
		return fmt.Errorf("model: viewport capture has empty breakpoint name")
	}
	if v.RootNode == nil {
		return fmt.Errorf("model: viewport %q has no root node", v.BreakpointName)
	}
	if err := v.RootNode.Validate(); err != nil {
		return fmt.Errorf("model: viewport %q: %w", v.BreakpointName, err)
	}
	return nil
}

// TextStyle is a deduplicated text style registry entry.
// Styles are keyed by (family, size, weight, color); UsageCount tracks how
// many text nodes used the style across the whole document.
type TextStyle struct {
	// Family is the primary font family.
	Family string `json:"family"`

	// Size is the font size in pixels.
	Size float64 `json:"size"`

	// Weight is the named font style, such as "Regular" or "Bold Italic".
	Weight string `json:"weight"`

	// Color is the normalized text color.
	Color string `json:"color"`

	// UsageCount is the number of text nodes carrying this style.
	UsageCount int `json:"usageCount"`
}

// CaptureDocument is the top-level design-tree IR composed across
// breakpoints. It is the unit of serialization, storage, and transport.
type CaptureDocument struct {
	// SourceURL is the captured page's URL.
	SourceURL string `json:"sourceUrl"`

	// Title is the page title at capture time.
	Title string `json:"title,omitempty"`

	// CapturedAt is when the capture run finished composing.
	CapturedAt time.Time `json:"capturedAt"`

	// Partial is true when any viewport capture is partial.
	Partial bool `json:"partial,omitempty"`

	// Palette is the deduplicated list of every color encountered,
	// in first-seen order.
	Palette []string `json:"palette"`

	// Fonts is the deduplicated list of font families, in first-seen order.
	Fonts []string `json:"fonts"`

	// TextStyles is the deduplicated text style registry with usage counts.
	TextStyles []TextStyle `json:"textStyles"`

	// Viewports maps breakpoint name to its capture.
	Viewports map[string]*ViewportCapture `json:"viewports"`
}

// NewCaptureDocument creates an empty document for the given source URL.
func NewCaptureDocument(sourceURL string) *CaptureDocument {
	return &CaptureDocument{
		SourceURL:  sourceURL,
		CapturedAt: time.Now().UTC(),
		Palette:    []string{},
		Fonts:      []string{},
		TextStyles: []TextStyle{},
		Viewports:  make(map[string]*ViewportCapture),
	}
}

// NodeCount returns the total node count across all viewports.
func (d *CaptureDocument) NodeCount() int {
	if d == nil {
		return 0
	}
	total := 0
	for _, v := range d.Viewports {
		total += v.NodeCount()
	}
	return total
}

// Validate checks the whole document against the IR contract.
// A violation indicates a pipeline bug, not bad input.
func (d *CaptureDocument) Validate() error {
	if d == nil {
		return fmt.Errorf("model: nil document")
	}
	if d.SourceURL == "" {
		return fmt.Errorf("model: document has empty source URL")
	}
	if len(d.Viewports) == 0 {
		return fmt.Errorf("model: document has no viewports")
	}
	for name, v := range d.Viewports {
		if v == nil {
			return fmt.Errorf("model: viewport %q is nil", name)
		}
		if v.BreakpointName != name {
			return fmt.Errorf("model: viewport key %q does not match breakpoint name %q", name, v.BreakpointName)
		}
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
