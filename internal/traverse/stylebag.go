package traverse

import (
	"strings"

	"github.com/nao1215/framecap/internal/asset"
	"github.com/nao1215/framecap/internal/dom"
	"github.com/nao1215/framecap/internal/model"
	"github.com/nao1215/framecap/internal/style"
)

// buildStyleBag normalizes a node's computed styles into the IR style bag.
// Every color it normalizes is reported to the capture context so the
// document palette accumulates as a side channel of the walk.
func buildStyleBag(n *dom.RawNode, gradients []model.Gradient, cc *CaptureContext) model.StyleBag {
	bag := model.StyleBag{
		Opacity:      style.ParseOpacity(n.Style("opacity")),
		Gradients:    gradients,
		ClipsContent: clipsContent(n),
	}

	if raw := n.Style("background-color"); raw != "" {
		if c := style.ParseColor(raw); !c.IsTransparent() {
			bag.BackgroundColor = c.String()
			cc.AddColor(c)
		}
	}

	for _, gradient := range gradients {
		for _, color := range gradient.Colors {
			cc.AddFormattedColor(color)
		}
	}

	if border := buildBorder(n, cc); border.HasVisibleSide() {
		bag.Border = border
	}
	if radius := buildCornerRadius(n); !radius.IsZero() {
		bag.CornerRadius = radius
	}

	if shadow := n.Style("box-shadow"); shadow != "" && shadow != "none" {
		bag.Shadows = asset.SplitLayers(shadow)
		for _, layer := range bag.Shadows {
			for _, color := range style.FormatColorTokens(layer) {
				cc.AddFormattedColor(color)
			}
		}
	}

	if transform := n.Style("transform"); transform != "" && transform != "none" {
		bag.Transform = transform
	}

	if strings.TrimSpace(n.Text) != "" {
		bag.Typography = buildTypography(n, cc)
	}
	return bag
}

// buildBorder reads the four per-side border properties. Colors of sides
// that actually paint go into the palette.
func buildBorder(n *dom.RawNode, cc *CaptureContext) *model.Border {
	side := func(name string) model.BorderSide {
		s := model.BorderSide{
			Width: style.NonNegativePx(n.Style("border-" + name + "-width")),
			Style: n.Style("border-" + name + "-style"),
		}
		if raw := n.Style("border-" + name + "-color"); raw != "" {
			c := style.ParseColor(raw)
			s.Color = c.String()
			if s.IsVisible() {
				cc.AddColor(c)
			}
		}
		return s
	}
	return &model.Border{
		Top:    side("top"),
		Right:  side("right"),
		Bottom: side("bottom"),
		Left:   side("left"),
	}
}

// buildCornerRadius reads per-corner radii, falling back to the
// border-radius shorthand when the per-corner properties are absent.
func buildCornerRadius(n *dom.RawNode) *model.CornerRadius {
	corner := func(name string) float64 {
		if raw := n.Style(name); raw != "" {
			return style.NonNegativePx(raw)
		}
		return style.NonNegativePx(n.Style("border-radius"))
	}
	return &model.CornerRadius{
		TopLeft:     corner("border-top-left-radius"),
		TopRight:    corner("border-top-right-radius"),
		BottomRight: corner("border-bottom-right-radius"),
		BottomLeft:  corner("border-bottom-left-radius"),
	}
}

// clipsContent reports whether overflowing children are cut off.
func clipsContent(n *dom.RawNode) bool {
	for _, prop := range []string{"overflow", "overflow-x", "overflow-y"} {
		switch n.Style(prop) {
		case "hidden", "clip", "scroll", "auto":
			return true
		}
	}
	return false
}

// buildTypography normalizes a node's text styling and feeds the font and
// text-style registries.
func buildTypography(n *dom.RawNode, cc *CaptureContext) *model.Typography {
	family := style.PrimaryFontFamily(n.Style("font-family"))
	size := style.NonNegativePx(n.Style("font-size"))
	styleName := style.FontStyleName(n.Style("font-weight"), n.Style("font-style"))

	color := style.ParseColor(n.Style("color"))
	cc.AddColor(color)
	cc.AddFont(family)
	cc.CountTextStyle(family, size, styleName, color.String())

	decoration := n.Style("text-decoration-line")
	if decoration == "" {
		decoration = n.Style("text-decoration")
	}

	return &model.Typography{
		Family:        family,
		Size:          size,
		Style:         styleName,
		LineHeight:    style.ParseLineHeight(n.Style("line-height")),
		LetterSpacing: style.ParsePx(n.Style("letter-spacing")),
		Align:         style.ParseTextAlign(n.Style("text-align")),
		Transform:     style.ParseTextTransform(n.Style("text-transform")),
		Decoration:    style.ParseTextDecoration(decoration),
		Color:         color.String(),
	}
}
