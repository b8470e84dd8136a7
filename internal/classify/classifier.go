package classify

import (
	"strings"

	"github.com/nao1215/framecap/internal/dom"
	"github.com/nao1215/framecap/internal/model"
)

// interactiveTags lists tags that signal interactivity on their own.
// Anchors are handled separately because only those with an href target
// behave as controls.
var interactiveTags = map[string]struct{}{
	"button":   {},
	"input":    {},
	"select":   {},
	"textarea": {},
}

// interactiveRoles lists the explicit ARIA roles treated as interactive.
var interactiveRoles = map[string]struct{}{
	"button":     {},
	"checkbox":   {},
	"combobox":   {},
	"link":       {},
	"listbox":    {},
	"menuitem":   {},
	"option":     {},
	"radio":      {},
	"searchbox":  {},
	"slider":     {},
	"spinbutton": {},
	"switch":     {},
	"tab":        {},
	"textbox":    {},
}

// Classify maps a raw node to its output kind. keptChildren is the number
// of element children that survived filtering; it decides whether own text
// makes the node a TEXT leaf. The decision order is fixed and first match
// wins, so a button whose only content is text becomes a TEXT node rather
// than a COMPONENT.
func Classify(n *dom.RawNode, keptChildren int) model.NodeKind {
	if n == nil {
		return model.NodeKindContainer
	}
	if strings.TrimSpace(n.Text) != "" && keptChildren == 0 {
		return model.NodeKindText
	}
	if IsImageSource(n) {
		return model.NodeKindImage
	}
	if IsInteractive(n) {
		return model.NodeKindComponent
	}
	return model.NodeKindContainer
}

// IsImageSource reports whether the node renders image content directly:
// an img tag, an inline svg element, or any background-image layer with a
// url() source.
func IsImageSource(n *dom.RawNode) bool {
	switch strings.ToLower(n.Tag) {
	case "img", "svg":
		return true
	}
	return strings.Contains(n.Style("background-image"), "url(")
}

// IsInteractive reports whether the tag or the ARIA role marks the node as
// a control.
func IsInteractive(n *dom.RawNode) bool {
	tag := strings.ToLower(n.Tag)
	if _, ok := interactiveTags[tag]; ok {
		return true
	}
	if tag == "a" && strings.TrimSpace(n.Attr("href")) != "" {
		return true
	}
	role := strings.ToLower(strings.TrimSpace(n.Attr("role")))
	_, ok := interactiveRoles[role]
	return ok
}

// IsFlexContainer reports whether the computed display establishes a flex
// formatting context.
func IsFlexContainer(n *dom.RawNode) bool {
	switch n.Style("display") {
	case "flex", "inline-flex":
		return true
	}
	return false
}

// IsGridContainer reports whether the computed display establishes a grid
// formatting context.
func IsGridContainer(n *dom.RawNode) bool {
	switch n.Style("display") {
	case "grid", "inline-grid":
		return true
	}
	return false
}
