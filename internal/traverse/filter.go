package traverse

import (
	"strings"

	"github.com/nao1215/framecap/internal/dom"
	"github.com/nao1215/framecap/internal/style"
)

// offscreenPin is the coordinate at which an absolutely-positioned element
// counts as deliberately parked outside the viewport. Accessibility-only
// content uses this pattern.
const offscreenPin = -9999

// skippedTags are non-visual elements. The walk neither emits nor recurses
// into them.
var skippedTags = map[string]struct{}{
	"script":   {},
	"style":    {},
	"meta":     {},
	"link":     {},
	"title":    {},
	"head":     {},
	"noscript": {},
}

// IsSkippedTag reports whether the tag is in the fixed non-visual set.
func IsSkippedTag(tag string) bool {
	_, ok := skippedTags[strings.ToLower(tag)]
	return ok
}

// IsHidden reports whether computed styles hide the element entirely:
// display none, hidden visibility, zero opacity, a zero-area clip
// rectangle, or an absolutely-positioned element pinned far off screen.
// Hidden elements are never emitted and never recursed into.
func IsHidden(n *dom.RawNode) bool {
	if n.Style("display") == "none" {
		return true
	}
	switch n.Style("visibility") {
	case "hidden", "collapse":
		return true
	}
	if opacity := strings.TrimSpace(n.Style("opacity")); opacity != "" && style.ParseOpacity(opacity) == 0 {
		return true
	}
	if hasZeroAreaClip(n) {
		return true
	}
	return isPinnedOffscreen(n)
}

// hasZeroAreaClip detects the clip rect(0,0,0,0) screen-reader pattern.
// Only a rectangle with no area hides the element; partial clips still
// paint something.
func hasZeroAreaClip(n *dom.RawNode) bool {
	clip := strings.TrimSpace(n.Style("clip"))
	if !strings.HasPrefix(clip, "rect(") || !strings.HasSuffix(clip, ")") {
		return false
	}
	inner := clip[len("rect(") : len(clip)-1]
	fields := strings.Fields(strings.ReplaceAll(inner, ",", " "))
	if len(fields) != 4 {
		return false
	}
	top := style.ParsePx(fields[0])
	right := style.ParsePx(fields[1])
	bottom := style.ParsePx(fields[2])
	left := style.ParsePx(fields[3])
	return right-left <= 0 || bottom-top <= 0
}

// isPinnedOffscreen detects absolutely-positioned elements parked at
// coordinates like left:-9999px.
func isPinnedOffscreen(n *dom.RawNode) bool {
	switch n.Style("position") {
	case "absolute", "fixed":
	default:
		return false
	}
	return style.ParsePx(n.Style("left")) <= offscreenPin || style.ParsePx(n.Style("top")) <= offscreenPin
}

// IsZeroGeometryLeaf reports whether the node has no extent and no element
// children. Zero-sized containers with children stay, since overflowing
// children can still paint.
func IsZeroGeometryLeaf(n *dom.RawNode) bool {
	return n.Rect.Width == 0 && n.Rect.Height == 0 && len(n.Children) == 0
}
