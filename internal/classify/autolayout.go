package classify

import (
	"strings"

	"github.com/nao1215/framecap/internal/dom"
	"github.com/nao1215/framecap/internal/model"
	"github.com/nao1215/framecap/internal/style"
)

// BuildAutoLayout derives an auto-layout descriptor from a flex container's
// computed styles. It returns nil for anything that is not a flex
// container, including grid.
func BuildAutoLayout(n *dom.RawNode) *model.AutoLayout {
	if n == nil || !IsFlexContainer(n) {
		return nil
	}

	axis := primaryAxis(n.Style("flex-direction"))
	rowGap, columnGap := parseGap(n.Style("gap"))
	spacing := columnGap
	if axis == model.AxisVertical {
		spacing = rowGap
	}

	return &model.AutoLayout{
		PrimaryAxis:      axis,
		PrimaryAlignment: primaryAlignment(n.Style("justify-content")),
		CounterAlignment: counterAlignment(n.Style("align-items")),
		Spacing:          spacing,
		Padding: model.Padding{
			Top:    style.NonNegativePx(n.Style("padding-top")),
			Right:  style.NonNegativePx(n.Style("padding-right")),
			Bottom: style.NonNegativePx(n.Style("padding-bottom")),
			Left:   style.NonNegativePx(n.Style("padding-left")),
		},
	}
}

// primaryAxis maps flex-direction to a layout axis. Reverse directions
// keep the axis of their base direction; item order is not reconstructed.
func primaryAxis(direction string) model.Axis {
	switch strings.TrimSpace(direction) {
	case "column", "column-reverse":
		return model.AxisVertical
	default:
		return model.AxisHorizontal
	}
}

// primaryAlignment maps justify-content to the main-axis alignment.
// space-around and space-evenly have no equivalent and collapse to CENTER.
func primaryAlignment(justify string) model.Alignment {
	switch strings.TrimSpace(justify) {
	case "center":
		return model.AlignCenter
	case "flex-end", "end", "right":
		return model.AlignMax
	case "space-between":
		return model.AlignSpaceBetween
	case "space-around", "space-evenly":
		return model.AlignCenter
	default:
		return model.AlignMin
	}
}

// counterAlignment maps align-items to the cross-axis alignment. Stretch
// and baseline approximate to MIN, which matches how stretched children
// are anchored.
func counterAlignment(align string) model.Alignment {
	switch strings.TrimSpace(align) {
	case "center":
		return model.AlignCenter
	case "flex-end", "end", "self-end":
		return model.AlignMax
	default:
		return model.AlignMin
	}
}

// parseGap splits the computed gap shorthand into row and column gaps. A
// single value applies to both axes; "normal" and garbage read as zero.
func parseGap(gap string) (row, column float64) {
	fields := strings.Fields(strings.TrimSpace(gap))
	switch len(fields) {
	case 0:
		return 0, 0
	case 1:
		v := gapValue(fields[0])
		return v, v
	default:
		return gapValue(fields[0]), gapValue(fields[1])
	}
}

func gapValue(s string) float64 {
	if s == "normal" {
		return 0
	}
	return style.NonNegativePx(s)
}
