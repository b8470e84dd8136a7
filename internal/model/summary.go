package model

import (
	"sort"
	"time"
)

// CaptureSummary is a condensed view of a capture document for terminal
// display and capture listings. It is derived from the document on demand
// and is never the source of truth.
type CaptureSummary struct {
	// SourceURL is the captured page's URL.
	SourceURL string `json:"sourceUrl"`

	// Title is the page title at capture time.
	Title string `json:"title,omitempty"`

	// CapturedAt is when the capture run finished.
	CapturedAt time.Time `json:"capturedAt"`

	// Partial is true when any viewport capture is partial.
	Partial bool `json:"partial"`

	// TotalNodes is the node count summed across viewports.
	TotalNodes int `json:"totalNodes"`

	// Viewports summarizes each breakpoint, widest first.
	Viewports []ViewportSummary `json:"viewports"`

	// KindCounts is the node distribution by kind summed across viewports,
	// in kind declaration order. Kinds with zero nodes are omitted.
	KindCounts []KindCount `json:"kindCounts,omitempty"`

	// Palette is the document's deduplicated color list.
	Palette []string `json:"palette,omitempty"`

	// Fonts is the document's deduplicated font family list.
	Fonts []string `json:"fonts,omitempty"`

	// TextStyleCount is the size of the text style registry.
	TextStyleCount int `json:"textStyleCount"`

	// Warnings flattens every viewport's absorbed failures with breakpoint
	// attribution, in viewport display order.
	Warnings []SummaryWarning `json:"warnings,omitempty"`
}

// ViewportSummary summarizes one breakpoint's capture.
type ViewportSummary struct {
	// Breakpoint is the breakpoint name.
	Breakpoint string `json:"breakpoint"`

	// Width and Height are the requested viewport dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// NodeCount is the number of nodes in this viewport's tree.
	NodeCount int `json:"nodeCount"`

	// AssetCount is the number of registered assets.
	AssetCount int `json:"assetCount"`

	// WarningCount is the number of absorbed failures.
	WarningCount int `json:"warningCount"`

	// Partial is true when this viewport's capture is incomplete.
	Partial bool `json:"partial"`
}

// KindCount pairs a node kind with its occurrence count.
type KindCount struct {
	// Kind is the node kind.
	Kind NodeKind `json:"kind"`

	// Count is the number of nodes of this kind.
	Count int `json:"count"`
}

// SummaryWarning is a capture warning with its breakpoint attached.
type SummaryWarning struct {
	// Breakpoint names the viewport the failure happened in.
	Breakpoint string `json:"breakpoint"`

	// Stage is the pipeline stage that failed.
	Stage string `json:"stage"`

	// Tag is the failing element's tag name, when known.
	Tag string `json:"tag,omitempty"`

	// Message is the failure description.
	Message string `json:"message"`
}

// NewCaptureSummary derives a summary from the capture document.
func NewCaptureSummary(doc *CaptureDocument) *CaptureSummary {
	s := &CaptureSummary{
		SourceURL:      doc.SourceURL,
		Title:          doc.Title,
		CapturedAt:     doc.CapturedAt,
		Partial:        doc.Partial,
		TotalNodes:     doc.NodeCount(),
		Palette:        doc.Palette,
		Fonts:          doc.Fonts,
		TextStyleCount: len(doc.TextStyles),
	}

	kindTotals := make(map[NodeKind]int)
	for _, v := range doc.Viewports {
		if v == nil {
			continue
		}
		s.Viewports = append(s.Viewports, ViewportSummary{
			Breakpoint:   v.BreakpointName,
			Width:        v.Width,
			Height:       v.Height,
			NodeCount:    v.NodeCount(),
			AssetCount:   len(v.Assets),
			WarningCount: len(v.Warnings),
			Partial:      v.Partial,
		})
		v.RootNode.Walk(func(n *CaptureNode) bool {
			kindTotals[n.ClassifiedType]++
			return true
		})
	}

	// The viewports map has no order; widest first reads like the composed
	// frame row, desktop down to mobile.
	sort.Slice(s.Viewports, func(i, j int) bool {
		if s.Viewports[i].Width != s.Viewports[j].Width {
			return s.Viewports[i].Width > s.Viewports[j].Width
		}
		return s.Viewports[i].Breakpoint < s.Viewports[j].Breakpoint
	})

	for _, kind := range NodeKinds() {
		if kindTotals[kind] > 0 {
			s.KindCounts = append(s.KindCounts, KindCount{Kind: kind, Count: kindTotals[kind]})
		}
	}

	for _, vs := range s.Viewports {
		v := doc.Viewports[vs.Breakpoint]
		if v == nil {
			continue
		}
		for _, w := range v.Warnings {
			s.Warnings = append(s.Warnings, SummaryWarning{
				Breakpoint: vs.Breakpoint,
				Stage:      w.Stage,
				Tag:        w.Tag,
				Message:    w.Message,
			})
		}
	}

	return s
}

// TotalWarnings returns the number of absorbed failures across viewports.
func (s *CaptureSummary) TotalWarnings() int {
	return len(s.Warnings)
}

// HasWarnings returns true if any viewport absorbed a failure.
func (s *CaptureSummary) HasWarnings() bool {
	return len(s.Warnings) > 0
}

// KindCountFor returns the count for the given kind, zero when absent.
func (s *CaptureSummary) KindCountFor(kind NodeKind) int {
	for _, kc := range s.KindCounts {
		if kc.Kind == kind {
			return kc.Count
		}
	}
	return 0
}
