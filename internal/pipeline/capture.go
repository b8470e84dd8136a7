package pipeline

import (
	"github.com/nao1215/framecap/internal/asset"
	"github.com/nao1215/framecap/internal/dom"
	"github.com/nao1215/framecap/internal/model"
	"github.com/nao1215/framecap/internal/traverse"
)

// Capture is the mutable state of one breakpoint pass, threaded through the
// pipeline steps. Each pass owns its own Capture; nothing here is shared
// across breakpoints.
type Capture struct {
	// URL is the page being captured.
	URL string

	// Breakpoint is the viewport this pass renders at.
	Breakpoint model.Breakpoint

	// Snapshot is the rendered page, set by the render step.
	Snapshot *dom.Snapshot

	// Registry collects assets discovered during traversal. The fetch
	// step downloads the pending ones in place.
	Registry *asset.Registry

	// Result is the traversal output, set by the traverse step.
	Result *traverse.Result

	// Partial is true when the pass hit a stability or traversal bound
	// and carries an incomplete tree rather than failing.
	Partial bool

	// Warnings lists failures absorbed during the pass, across stages.
	Warnings []model.CaptureWarning

	// CompletedSteps names the steps that ran, in order.
	CompletedSteps []string
}

// NewCapture creates the pass state for one breakpoint.
func NewCapture(url string, bp model.Breakpoint) *Capture {
	return &Capture{
		URL:        url,
		Breakpoint: bp,
		Registry:   asset.NewRegistry(),
	}
}

// Warn records an absorbed failure for this pass.
func (c *Capture) Warn(stage, message string) {
	c.Warnings = append(c.Warnings, model.CaptureWarning{
		Stage:   stage,
		Message: message,
	})
}

// Viewport assembles the finished per-breakpoint capture. Call it only
// after the pipeline ran to completion.
func (c *Capture) Viewport() *model.ViewportCapture {
	v := &model.ViewportCapture{
		BreakpointName: c.Breakpoint.Name,
		Width:          c.Breakpoint.Width,
		Height:         c.Breakpoint.Height,
		Partial:        c.Partial,
		Warnings:       c.Warnings,
	}
	if c.Snapshot != nil {
		v.PageMetrics = c.Snapshot.Metrics
	}
	if c.Result != nil {
		v.RootNode = c.Result.Root
	}
	if c.Registry != nil {
		v.Assets = c.Registry.Assets()
	}
	return v
}
