package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/framecap/internal/config"
	"github.com/nao1215/framecap/internal/dom"
	"github.com/nao1215/framecap/internal/fetch"
	"github.com/nao1215/framecap/internal/model"
	"golang.org/x/sync/errgroup"
)

// Orchestrator runs one capture pipeline per breakpoint and composes the
// results into a single document. Breakpoint passes share nothing mutable:
// each owns its context, registry, and pipeline instance.
type Orchestrator struct {
	// cfg supplies the capture knobs and the breakpoint set.
	cfg *config.Config

	// source renders pages into raw snapshots.
	source dom.Source

	// client downloads assets referenced by the captured trees.
	client *fetch.Client

	// logger for structured logging.
	logger *slog.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithOrchestratorLogger sets a custom logger for the orchestrator and the
// pipelines it builds.
func WithOrchestratorLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// NewOrchestrator creates an orchestrator over the given source and fetch
// client. The configuration must already be validated.
func NewOrchestrator(cfg *config.Config, source dom.Source, client *fetch.Client, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		cfg:    cfg,
		source: source,
		client: client,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}

// buildPipeline assembles the per-breakpoint step sequence. Each pass gets
// a fresh pipeline so no state leaks between breakpoints.
func (o *Orchestrator) buildPipeline() *Pipeline {
	p := New(WithLogger(o.logger))
	p.AddSteps(
		NewRenderStep(o.source, WithRenderLogger(o.logger)),
		NewTraverseStep(
			WithTraverseMaxNodes(o.cfg.MaxNodes),
			WithTraverseMaxTextLength(o.cfg.MaxTextLength),
			WithTraverseLogger(o.logger),
		),
		NewFetchAssetsStep(o.client,
			WithFetchParallelism(o.cfg.AssetParallelism),
			WithFetchLogger(o.logger),
		),
	)
	return p
}

// Capture runs the full capture: every configured breakpoint through the
// pipeline, then composition. A failed breakpoint pass fails the whole
// capture; partial passes (stability or traversal bounds) succeed with the
// document flagged partial.
func (o *Orchestrator) Capture(ctx context.Context, url string) (*model.CaptureDocument, error) {
	breakpoints := o.cfg.Breakpoints
	captures := make([]*Capture, len(breakpoints))

	parallelism := 1
	if o.source.Concurrent() && o.cfg.BreakpointParallelism > 1 {
		parallelism = o.cfg.BreakpointParallelism
	}

	o.logger.Info("starting capture",
		"url", url,
		"source", o.source.Name(),
		"breakpoints", len(breakpoints),
		"parallelism", parallelism,
	)
	startTime := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, bp := range breakpoints {
		g.Go(func() error {
			bctx, cancel := context.WithTimeout(gctx, o.cfg.CaptureTimeout)
			defer cancel()

			capture := NewCapture(url, bp)
			if err := o.buildPipeline().Execute(bctx, capture); err != nil {
				return fmt.Errorf("breakpoint %s: %w", bp.Name, err)
			}

			captures[i] = capture
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	doc := o.compose(url, captures)

	o.logger.Info("capture complete",
		"url", url,
		"viewports", len(doc.Viewports),
		"nodes", doc.NodeCount(),
		"partial", doc.Partial,
		"elapsed", time.Since(startTime),
	)

	return doc, nil
}

// styleKey identifies a text style across breakpoints.
type styleKey struct {
	family string
	size   float64
	weight string
	color  string
}

// compose builds the final document from the per-breakpoint captures.
// Root frames line up left to right in breakpoint order separated by the
// configured gap, and the color, font, and text-style registries fold
// together in the same order, so composition is deterministic.
func (o *Orchestrator) compose(url string, captures []*Capture) *model.CaptureDocument {
	doc := model.NewCaptureDocument(url)

	seenColor := make(map[string]bool)
	seenFont := make(map[string]bool)
	styleIndex := make(map[styleKey]int)

	offset := 0.0
	for _, capture := range captures {
		if capture == nil {
			continue
		}

		if doc.Title == "" && capture.Snapshot != nil {
			doc.Title = capture.Snapshot.Title
		}

		viewport := capture.Viewport()
		if viewport.RootNode != nil {
			frameWidth := viewport.RootNode.Geometry.Width
			if frameWidth <= 0 {
				frameWidth = float64(capture.Breakpoint.Width)
			}
			viewport.RootNode.Geometry.X = offset
			offset += frameWidth + o.cfg.FrameGap
		}

		doc.Viewports[viewport.BreakpointName] = viewport
		if viewport.Partial {
			doc.Partial = true
		}

		result := capture.Result
		if result == nil {
			continue
		}
		for _, color := range result.Palette {
			if !seenColor[color] {
				seenColor[color] = true
				doc.Palette = append(doc.Palette, color)
			}
		}
		for _, font := range result.Fonts {
			if !seenFont[font] {
				seenFont[font] = true
				doc.Fonts = append(doc.Fonts, font)
			}
		}
		for _, ts := range result.TextStyles {
			key := styleKey{family: ts.Family, size: ts.Size, weight: ts.Weight, color: ts.Color}
			if i, ok := styleIndex[key]; ok {
				doc.TextStyles[i].UsageCount += ts.UsageCount
				continue
			}
			styleIndex[key] = len(doc.TextStyles)
			doc.TextStyles = append(doc.TextStyles, ts)
		}
	}

	return doc
}
