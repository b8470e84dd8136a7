package traverse

import (
	"strings"

	"github.com/nao1215/framecap/internal/dom"
	"github.com/nao1215/framecap/internal/style"
)

// semanticAttrs mark an element as meaningful regardless of styling.
var semanticAttrs = map[string]struct{}{
	"id":         {},
	"class":      {},
	"role":       {},
	"aria-label": {},
}

// IsBareDiv reports whether the node, considered on its own, is a div with
// no visual styling, no semantic markers, no layout function, and no
// non-whitespace text. A subtree is trivial when every node in it is a
// bare div; the engine performs that recursive check during post-order
// pruning.
func IsBareDiv(n *dom.RawNode) bool {
	if !strings.EqualFold(n.Tag, "div") {
		return false
	}
	if strings.TrimSpace(n.Text) != "" {
		return false
	}
	return !hasSemanticMarkers(n) && !hasVisualStyling(n) && !hasLayoutFunction(n)
}

// hasSemanticMarkers checks for id/class/role/aria-label and any data-*
// attribute.
func hasSemanticMarkers(n *dom.RawNode) bool {
	for key, value := range n.Attrs {
		lower := strings.ToLower(key)
		if _, ok := semanticAttrs[lower]; ok && strings.TrimSpace(value) != "" {
			return true
		}
		if strings.HasPrefix(lower, "data-") {
			return true
		}
	}
	return false
}

// hasVisualStyling checks for anything that would paint: a non-transparent
// background, a background image, a visible border side, a shadow, corner
// rounding, reduced opacity, or a transform.
func hasVisualStyling(n *dom.RawNode) bool {
	if bg := n.Style("background-color"); bg != "" && !style.ParseColor(bg).IsTransparent() {
		return true
	}
	if image := n.Style("background-image"); image != "" && image != "none" {
		return true
	}
	for _, side := range []string{"top", "right", "bottom", "left"} {
		width := style.ParsePx(n.Style("border-" + side + "-width"))
		borderStyle := n.Style("border-" + side + "-style")
		if width > 0 && borderStyle != "" && borderStyle != "none" && borderStyle != "hidden" {
			return true
		}
	}
	if shadow := n.Style("box-shadow"); shadow != "" && shadow != "none" {
		return true
	}
	for _, corner := range []string{"border-top-left-radius", "border-top-right-radius", "border-bottom-right-radius", "border-bottom-left-radius", "border-radius"} {
		if style.ParsePx(n.Style(corner)) > 0 {
			return true
		}
	}
	if opacity := strings.TrimSpace(n.Style("opacity")); opacity != "" && style.ParseOpacity(opacity) < 1 {
		return true
	}
	if transform := n.Style("transform"); transform != "" && transform != "none" {
		return true
	}
	return false
}

// hasLayoutFunction checks whether the div does layout work: establishes a
// flex or grid context, positions itself, floats, or stacks above siblings.
func hasLayoutFunction(n *dom.RawNode) bool {
	switch n.Style("display") {
	case "flex", "inline-flex", "grid", "inline-grid":
		return true
	}
	switch n.Style("position") {
	case "absolute", "fixed", "sticky":
		return true
	}
	if float := n.Style("float"); float != "" && float != "none" {
		return true
	}
	if z, ok := style.ParseZIndex(n.Style("z-index")); ok && z > 0 {
		return true
	}
	return false
}
