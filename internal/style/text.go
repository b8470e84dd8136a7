package style

import (
	"strconv"
	"strings"

	"github.com/nao1215/framecap/internal/model"
)

// ParseTextAlign maps a CSS text-align value onto the closed IR alignment
// set. Values outside the set (including start/end) fall back to left, the
// neutral case.
func ParseTextAlign(s string) model.TextAlign {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "center":
		return model.TextAlignCenter
	case "right":
		return model.TextAlignRight
	case "justify":
		return model.TextAlignJustify
	default:
		return model.TextAlignLeft
	}
}

// ParseTextTransform maps a CSS text-transform value onto the closed IR
// set. Unknown values fall back to none.
func ParseTextTransform(s string) model.TextTransform {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "uppercase":
		return model.TextTransformUppercase
	case "lowercase":
		return model.TextTransformLowercase
	case "capitalize":
		return model.TextTransformCapitalize
	default:
		return model.TextTransformNone
	}
}

// ParseTextDecoration maps a CSS text-decoration-line value onto the closed
// IR set. The computed value can list several lines ("underline
// line-through"); underline wins over line-through. Unknown values fall
// back to none.
func ParseTextDecoration(s string) model.TextDecoration {
	s = strings.ToLower(s)
	if strings.Contains(s, "underline") {
		return model.TextDecorationUnderline
	}
	if strings.Contains(s, "line-through") {
		return model.TextDecorationStrikethrough
	}
	return model.TextDecorationNone
}

// ParseLineHeight normalizes a CSS line-height value.
// "NNpx" becomes a pixel value, "NN%" a percent value, a bare number a
// percent value multiplied by 100 (the CSS unitless multiplier), and
// "normal" or anything unparseable becomes auto.
func ParseLineHeight(s string) model.LineHeight {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "normal" {
		return model.LineHeight{Unit: model.LineHeightAuto}
	}

	if strings.HasSuffix(s, "px") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
		if err != nil || v < 0 {
			return model.LineHeight{Unit: model.LineHeightAuto}
		}
		return model.LineHeight{Unit: model.LineHeightPixels, Value: v}
	}

	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil || v < 0 {
			return model.LineHeight{Unit: model.LineHeightAuto}
		}
		return model.LineHeight{Unit: model.LineHeightPercent, Value: v}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return model.LineHeight{Unit: model.LineHeightAuto}
	}
	return model.LineHeight{Unit: model.LineHeightPercent, Value: v * 100}
}
