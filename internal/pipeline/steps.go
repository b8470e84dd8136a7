package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/framecap/internal/asset"
	"github.com/nao1215/framecap/internal/config"
	"github.com/nao1215/framecap/internal/dom"
	"github.com/nao1215/framecap/internal/fetch"
	"github.com/nao1215/framecap/internal/traverse"
	"golang.org/x/sync/errgroup"
)

// RenderStep navigates the snapshot source to the capture URL at the pass's
// viewport and stores the rendered snapshot. A page that cannot be reached
// is fatal for the pass; a page that never settled is captured as-is and
// flagged partial.
type RenderStep struct {
	// source renders pages into raw snapshots.
	source dom.Source

	// logger for structured logging.
	logger *slog.Logger
}

// RenderStepOption configures a RenderStep.
type RenderStepOption func(*RenderStep)

// WithRenderLogger sets a custom logger for the render step.
func WithRenderLogger(logger *slog.Logger) RenderStepOption {
	return func(s *RenderStep) {
		s.logger = logger
	}
}

// NewRenderStep creates a new render step backed by the given source.
func NewRenderStep(source dom.Source, opts ...RenderStepOption) *RenderStep {
	s := &RenderStep{
		source: source,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *RenderStep) Name() string {
	return "render"
}

// Do executes the render step.
func (s *RenderStep) Do(ctx context.Context, capture *Capture) error {
	snapshot, err := s.source.Render(ctx, capture.URL, capture.Breakpoint)
	if err != nil {
		return fmt.Errorf("render %s at %s: %w", capture.URL, capture.Breakpoint.Name, err)
	}

	capture.Snapshot = snapshot
	if snapshot.Partial {
		capture.Partial = true
		capture.Warn("render", "page never stabilized within the wait bound, captured as-is")
	}

	s.logger.Debug("page rendered",
		"breakpoint", capture.Breakpoint.Name,
		"url", snapshot.URL,
		"title", snapshot.Title,
		"partial", snapshot.Partial,
	)

	return nil
}

// TraverseStep runs the traversal engine over the rendered snapshot,
// producing the pruned node tree and registering referenced assets.
type TraverseStep struct {
	// engine performs the filtered walk.
	engine *traverse.Engine

	// maxNodes and maxTextLength configure the engine.
	maxNodes      int
	maxTextLength int

	// logger for structured logging.
	logger *slog.Logger
}

// TraverseStepOption configures a TraverseStep.
type TraverseStepOption func(*TraverseStep)

// WithTraverseMaxNodes caps the number of nodes emitted per pass.
func WithTraverseMaxNodes(n int) TraverseStepOption {
	return func(s *TraverseStep) {
		if n > 0 {
			s.maxNodes = n
		}
	}
}

// WithTraverseMaxTextLength caps captured text per node, in runes.
func WithTraverseMaxTextLength(n int) TraverseStepOption {
	return func(s *TraverseStep) {
		if n > 0 {
			s.maxTextLength = n
		}
	}
}

// WithTraverseLogger sets a custom logger for the traverse step.
func WithTraverseLogger(logger *slog.Logger) TraverseStepOption {
	return func(s *TraverseStep) {
		s.logger = logger
	}
}

// NewTraverseStep creates a new traversal step.
func NewTraverseStep(opts ...TraverseStepOption) *TraverseStep {
	s := &TraverseStep{
		maxNodes:      traverse.DefaultMaxNodes,
		maxTextLength: traverse.DefaultMaxTextLength,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.engine = traverse.New(
		traverse.WithMaxNodes(s.maxNodes),
		traverse.WithMaxTextLength(s.maxTextLength),
		traverse.WithLogger(s.logger),
	)

	return s
}

// Name returns the step name.
func (s *TraverseStep) Name() string {
	return "traverse"
}

// Do executes the traversal step.
func (s *TraverseStep) Do(ctx context.Context, capture *Capture) error {
	if capture.Snapshot == nil {
		return fmt.Errorf("traverse %s: no snapshot rendered", capture.Breakpoint.Name)
	}

	// A document URL that cannot anchor relative references disables
	// asset resolution for the pass; the tree itself is still captured.
	resolver, err := asset.NewResolver(capture.Snapshot.URL, capture.Registry)
	if err != nil {
		resolver = nil
		capture.Warn("traverse", fmt.Sprintf("asset resolution disabled: %v", err))
		s.logger.Warn("asset resolution disabled",
			"breakpoint", capture.Breakpoint.Name,
			"url", capture.Snapshot.URL,
			"error", err,
		)
	}

	result, err := s.engine.Run(ctx, capture.Snapshot.Root, resolver)
	if err != nil {
		return fmt.Errorf("traverse %s: %w", capture.Breakpoint.Name, err)
	}

	capture.Result = result
	capture.Warnings = append(capture.Warnings, result.Warnings...)
	if result.TimedOut {
		capture.Partial = true
	}

	s.logger.Debug("traversal complete",
		"breakpoint", capture.Breakpoint.Name,
		"nodes", result.NodeCount,
		"assets", capture.Registry.Len(),
		"truncated", result.Truncated,
	)

	return nil
}

// FetchAssetsStep downloads the registry's pending assets concurrently.
// Individual download failures become placeholders and warnings; the step
// itself never fails the pass.
type FetchAssetsStep struct {
	// client performs the downloads.
	client *fetch.Client

	// parallelism bounds concurrent downloads.
	parallelism int

	// logger for structured logging.
	logger *slog.Logger
}

// FetchAssetsStepOption configures a FetchAssetsStep.
type FetchAssetsStepOption func(*FetchAssetsStep)

// WithFetchParallelism bounds the number of concurrent asset downloads.
func WithFetchParallelism(n int) FetchAssetsStepOption {
	return func(s *FetchAssetsStep) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// WithFetchLogger sets a custom logger for the asset fetch step.
func WithFetchLogger(logger *slog.Logger) FetchAssetsStepOption {
	return func(s *FetchAssetsStep) {
		s.logger = logger
	}
}

// NewFetchAssetsStep creates a new asset download step.
func NewFetchAssetsStep(client *fetch.Client, opts ...FetchAssetsStepOption) *FetchAssetsStep {
	s := &FetchAssetsStep{
		client:      client,
		parallelism: config.DefaultAssetParallelism,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *FetchAssetsStep) Name() string {
	return "fetch_assets"
}

// Do executes the asset download step.
func (s *FetchAssetsStep) Do(ctx context.Context, capture *Capture) error {
	pending := capture.Registry.Pending()
	if len(pending) == 0 {
		s.logger.Debug("no assets to fetch", "breakpoint", capture.Breakpoint.Name)
		return nil
	}

	// Each goroutine writes only its own slot; g.Wait orders the reads.
	failures := make([]error, len(pending))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)

	for i, a := range pending {
		g.Go(func() error {
			if err := asset.Populate(gctx, s.client, a); err != nil {
				asset.MarkPlaceholder(a, "download failed")
				failures[i] = err
				s.logger.Warn("asset fetch failed",
					"breakpoint", capture.Breakpoint.Name,
					"url", a.URL,
					"error", err,
				)
			}
			return nil
		})
	}

	// Goroutines absorb their own failures, so Wait only reflects the
	// group context.
	_ = g.Wait()

	failed := 0
	for i, err := range failures {
		if err == nil {
			continue
		}
		failed++
		capture.Warn("fetch", fmt.Sprintf("asset %s: %v", pending[i].URL, err))
	}

	s.logger.Debug("assets fetched",
		"breakpoint", capture.Breakpoint.Name,
		"total", len(pending),
		"failed", failed,
	)

	return nil
}
