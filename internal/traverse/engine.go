package traverse

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/nao1215/framecap/internal/asset"
	"github.com/nao1215/framecap/internal/classify"
	"github.com/nao1215/framecap/internal/dom"
	"github.com/nao1215/framecap/internal/model"
	"github.com/nao1215/framecap/internal/style"
)

const (
	// DefaultMaxNodes bounds the emitted node count per pass. Nodes beyond
	// the cap are dropped in document order.
	DefaultMaxNodes = 5000

	// DefaultMaxTextLength caps a single node's text content in runes.
	DefaultMaxTextLength = 4096
)

// Engine walks raw DOM snapshots into capture trees. An Engine is
// reusable across passes; all per-pass state lives in the capture context.
type Engine struct {
	// maxNodes caps emitted nodes per pass.
	maxNodes int

	// maxTextLength caps text content length in runes.
	maxTextLength int

	// logger receives absorbed failure notices.
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxNodes overrides the emitted-node cap.
func WithMaxNodes(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxNodes = n
		}
	}
}

// WithMaxTextLength overrides the text length cap.
func WithMaxTextLength(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxTextLength = n
		}
	}
}

// WithLogger sets the logger for absorbed failures.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates a traversal engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxNodes:      DefaultMaxNodes,
		maxTextLength: DefaultMaxTextLength,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the output of one traversal pass.
type Result struct {
	// Root is the pruned capture tree.
	Root *model.CaptureNode

	// NodeCount is the number of nodes in Root.
	NodeCount int

	// Palette, Fonts, and TextStyles are the pass-scoped registries in
	// first-seen order. The orchestrator merges them across viewports.
	Palette    []string
	Fonts      []string
	TextStyles []model.TextStyle

	// Warnings lists absorbed node-level failures.
	Warnings []model.CaptureWarning

	// Truncated is true when the node cap dropped trailing nodes.
	Truncated bool

	// TimedOut is true when the pass deadline expired mid-walk and the
	// tree is partial.
	TimedOut bool
}

// pass bundles the state of one Run invocation.
type pass struct {
	engine    *Engine
	ctx       context.Context
	resolver  *asset.Resolver
	cc        *CaptureContext
	truncated bool
	timedOut  bool
}

// Run traverses the snapshot rooted at root and returns the pruned capture
// tree. The context deadline bounds the whole pass; on expiry the partial
// tree built so far is returned with TimedOut set. A nil resolver disables
// asset resolution, which only tests use.
func (e *Engine) Run(ctx context.Context, root *dom.RawNode, resolver *asset.Resolver) (*Result, error) {
	if root == nil {
		return nil, fmt.Errorf("traverse: nil document root")
	}

	p := &pass{engine: e, ctx: ctx, resolver: resolver, cc: NewCaptureContext()}

	// The root is exempt from triviality pruning: a document always keeps
	// its root frame.
	built, _ := p.visit(root, 0)
	if built == nil {
		return nil, fmt.Errorf("traverse: document root %q was filtered out", root.Tag)
	}

	return &Result{
		Root:       built,
		NodeCount:  built.NodeCount(),
		Palette:    p.cc.Palette(),
		Fonts:      p.cc.Fonts(),
		TextStyles: p.cc.TextStyles(),
		Warnings:   p.cc.Warnings(),
		Truncated:  p.truncated,
		TimedOut:   p.timedOut,
	}, nil
}

// visit processes one raw node pre-order and prunes post-order. It returns
// the built node, or nil when the node was filtered, plus whether the
// built subtree is trivial wrapper noise the parent should drop.
func (p *pass) visit(n *dom.RawNode, depth int) (built *model.CaptureNode, trivial bool) {
	if n == nil {
		return nil, false
	}
	if p.ctx.Err() != nil {
		p.markTimedOut()
		return nil, false
	}
	if IsSkippedTag(n.Tag) {
		return nil, false
	}
	if !p.cc.MarkVisited(n) {
		p.warn(n, "node already visited, cyclic structure suspected")
		return nil, false
	}
	if err := validateRaw(n); err != nil {
		p.warn(n, err.Error())
		return nil, false
	}
	if IsHidden(n) {
		return nil, false
	}
	if IsZeroGeometryLeaf(n) {
		return nil, false
	}
	if p.cc.Emitted() >= p.engine.maxNodes {
		p.markTruncated()
		return nil, false
	}

	// A malformed node must not abort the pass; absorb the failure, skip
	// the subtree, and continue with siblings.
	defer func() {
		if r := recover(); r != nil {
			p.warn(n, fmt.Sprintf("node read failed: %v", r))
			built, trivial = nil, false
		}
	}()

	p.cc.CountEmitted()
	id := p.cc.NextID()

	children, allChildrenTrivial := p.visitChildren(n, depth)

	// The pre-recursion zero-geometry check sees raw children. When every
	// one of them was filtered out, nothing can overflow and the node
	// reduces to a zero-geometry leaf after all.
	if n.Rect.Width == 0 && n.Rect.Height == 0 && len(children) == 0 {
		return nil, false
	}

	var ref *model.AssetRef
	var gradients []model.Gradient
	if p.resolver != nil {
		ref, gradients = p.resolver.ResolveNode(n)
	}

	kind := classify.Classify(n, len(children))

	node := &model.CaptureNode{
		ID:             id,
		Tag:            strings.ToLower(n.Tag),
		Depth:          depth,
		Geometry:       model.Geometry(n.Rect),
		StyleBag:       buildStyleBag(n, gradients, p.cc),
		ClassifiedType: kind,
		TextContent:    normalizeText(n.Text, p.engine.maxTextLength),
		AssetRef:       ref,
		Children:       children,
	}

	if z, ok := style.ParseZIndex(n.Style("z-index")); ok {
		node.ZOrder = z
	} else {
		node.ZOrder = depth
	}

	if kind == model.NodeKindContainer {
		node.AutoLayout = classify.BuildAutoLayout(n)
	}

	return node, IsBareDiv(n) && allChildrenTrivial
}

// visitChildren recurses into the element children and drops trivial
// subtrees. The second return reports whether every surviving child was
// itself trivial, which feeds the parent's own triviality check.
func (p *pass) visitChildren(n *dom.RawNode, depth int) ([]*model.CaptureNode, bool) {
	var children []*model.CaptureNode
	allTrivial := true
	for _, child := range n.Children {
		builtChild, childTrivial := p.visit(child, depth+1)
		if builtChild == nil {
			continue
		}
		if childTrivial {
			continue
		}
		allTrivial = false
		children = append(children, builtChild)
	}
	return children, allTrivial
}

// markTruncated records the node cap hit once per pass.
func (p *pass) markTruncated() {
	if p.truncated {
		return
	}
	p.truncated = true
	p.cc.Warn(model.CaptureWarning{
		Stage:   "traverse",
		Message: fmt.Sprintf("node cap %d reached, remaining nodes dropped", p.engine.maxNodes),
	})
	p.engine.logger.Debug("node cap reached", "max_nodes", p.engine.maxNodes)
}

// markTimedOut records the pass deadline expiry once per pass.
func (p *pass) markTimedOut() {
	if p.timedOut {
		return
	}
	p.timedOut = true
	p.cc.Warn(model.CaptureWarning{
		Stage:   "traverse",
		Message: "pass deadline expired, tree is partial",
	})
	p.engine.logger.Warn("traversal deadline expired", "error", p.ctx.Err())
}

// warn records an absorbed node failure and keeps walking.
func (p *pass) warn(n *dom.RawNode, message string) {
	p.cc.Warn(model.CaptureWarning{
		Tag:     strings.ToLower(n.Tag),
		Stage:   "traverse",
		Message: message,
	})
	p.engine.logger.Warn("skipping unreadable node",
		"tag", n.Tag,
		"reason", message,
	)
}

// validateRaw rejects nodes whose snapshot data cannot be trusted.
func validateRaw(n *dom.RawNode) error {
	if strings.TrimSpace(n.Tag) == "" {
		return fmt.Errorf("element has empty tag")
	}
	for _, v := range []float64{n.Rect.X, n.Rect.Y, n.Rect.Width, n.Rect.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("bounding rectangle is not finite")
		}
	}
	if n.Rect.Width < 0 || n.Rect.Height < 0 {
		return fmt.Errorf("bounding rectangle has negative extent")
	}
	return nil
}

// normalizeText trims, NFC-normalizes, and length-caps node text.
func normalizeText(s string, maxLength int) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	normalized := norm.NFC.String(trimmed)
	runes := []rune(normalized)
	if maxLength > 0 && len(runes) > maxLength {
		return string(runes[:maxLength])
	}
	return normalized
}
