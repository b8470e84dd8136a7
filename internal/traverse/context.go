package traverse

import (
	"fmt"

	"github.com/nao1215/framecap/internal/dom"
	"github.com/nao1215/framecap/internal/model"
	"github.com/nao1215/framecap/internal/style"
)

// textStyleKey deduplicates text styles by the full identity tuple.
type textStyleKey struct {
	family string
	size   float64
	weight string
	color  string
}

// CaptureContext is the per-pass accumulator threaded through the
// recursive walk. It owns the palette, font, and text-style registries,
// the warning list, the visited set, and the node counters. One context
// serves exactly one viewport pass and is never shared across passes.
type CaptureContext struct {
	// paletteSeen and palette hold deduplicated colors in first-seen order.
	paletteSeen map[string]struct{}
	palette     []string

	// fontsSeen and fonts hold deduplicated font families in first-seen order.
	fontsSeen map[string]struct{}
	fonts     []string

	// textStyles and styleOrder hold the deduplicated text-style registry
	// with usage counts, in first-seen order.
	textStyles map[textStyleKey]*model.TextStyle
	styleOrder []textStyleKey

	// warnings records absorbed node-level failures.
	warnings []model.CaptureWarning

	// visited guards against cyclic inputs by node identity.
	visited map[*dom.RawNode]struct{}

	// emitted counts nodes added to the output tree.
	emitted int

	// idSeq feeds per-pass node IDs.
	idSeq int
}

// NewCaptureContext creates an empty context for one viewport pass.
func NewCaptureContext() *CaptureContext {
	return &CaptureContext{
		paletteSeen: make(map[string]struct{}),
		fontsSeen:   make(map[string]struct{}),
		textStyles:  make(map[textStyleKey]*model.TextStyle),
		visited:     make(map[*dom.RawNode]struct{}),
	}
}

// NextID returns the next per-pass node ID. IDs are sequential so two
// passes over the same static document assign identical IDs.
func (cc *CaptureContext) NextID() string {
	cc.idSeq++
	return fmt.Sprintf("n-%d", cc.idSeq)
}

// AddColor records a normalized color into the palette. Fully transparent
// colors never paint and are not palette entries.
func (cc *CaptureContext) AddColor(c style.Color) {
	if c.IsTransparent() {
		return
	}
	cc.AddFormattedColor(c.String())
}

// AddFormattedColor records an already-formatted color string.
func (cc *CaptureContext) AddFormattedColor(formatted string) {
	if formatted == "" {
		return
	}
	if _, ok := cc.paletteSeen[formatted]; ok {
		return
	}
	cc.paletteSeen[formatted] = struct{}{}
	cc.palette = append(cc.palette, formatted)
}

// AddFont records a font family into the registry.
func (cc *CaptureContext) AddFont(family string) {
	if family == "" {
		return
	}
	if _, ok := cc.fontsSeen[family]; ok {
		return
	}
	cc.fontsSeen[family] = struct{}{}
	cc.fonts = append(cc.fonts, family)
}

// CountTextStyle bumps the usage count for a text style, creating the
// registry entry on first use.
func (cc *CaptureContext) CountTextStyle(family string, size float64, weight, color string) {
	key := textStyleKey{family: family, size: size, weight: weight, color: color}
	if entry, ok := cc.textStyles[key]; ok {
		entry.UsageCount++
		return
	}
	cc.textStyles[key] = &model.TextStyle{
		Family:     family,
		Size:       size,
		Weight:     weight,
		Color:      color,
		UsageCount: 1,
	}
	cc.styleOrder = append(cc.styleOrder, key)
}

// Warn records an absorbed node-level failure.
func (cc *CaptureContext) Warn(w model.CaptureWarning) {
	cc.warnings = append(cc.warnings, w)
}

// MarkVisited adds the node to the visited set. It returns false when the
// node was already visited, which on an acyclic document never happens.
func (cc *CaptureContext) MarkVisited(n *dom.RawNode) bool {
	if _, ok := cc.visited[n]; ok {
		return false
	}
	cc.visited[n] = struct{}{}
	return true
}

// CountEmitted bumps the emitted-node counter.
func (cc *CaptureContext) CountEmitted() {
	cc.emitted++
}

// Emitted returns how many nodes the pass has added to the output tree.
func (cc *CaptureContext) Emitted() int {
	return cc.emitted
}

// Palette returns the accumulated palette in first-seen order.
func (cc *CaptureContext) Palette() []string {
	return cc.palette
}

// Fonts returns the accumulated font families in first-seen order.
func (cc *CaptureContext) Fonts() []string {
	return cc.fonts
}

// TextStyles returns the text-style registry in first-seen order.
func (cc *CaptureContext) TextStyles() []model.TextStyle {
	styles := make([]model.TextStyle, 0, len(cc.styleOrder))
	for _, key := range cc.styleOrder {
		styles = append(styles, *cc.textStyles[key])
	}
	return styles
}

// Warnings returns the absorbed failures recorded during the pass.
func (cc *CaptureContext) Warnings() []model.CaptureWarning {
	return cc.warnings
}
