package asset

import "strings"

// SplitLayers splits a multi-layer CSS value on top-level commas.
// Commas nested inside parentheses, as in gradient color stops or
// url(data:...) payloads, do not split.
func SplitLayers(value string) []string {
	var layers []string
	depth := 0
	start := 0
	for i, r := range value {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				if layer := strings.TrimSpace(value[start:i]); layer != "" {
					layers = append(layers, layer)
				}
				start = i + 1
			}
		}
	}
	if layer := strings.TrimSpace(value[start:]); layer != "" {
		layers = append(layers, layer)
	}
	return layers
}

// ExtractURL pulls the target out of a CSS url(...) function, stripping
// optional single or double quotes. It returns an empty string when the
// layer is not a url() function or the target is empty or "none".
func ExtractURL(layer string) string {
	trimmed := strings.TrimSpace(layer)
	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, "url(") {
		return ""
	}
	end := strings.LastIndex(trimmed, ")")
	if end < len("url(") {
		return ""
	}
	inner := strings.TrimSpace(trimmed[len("url("):end])
	if len(inner) >= 2 {
		if (inner[0] == '"' && inner[len(inner)-1] == '"') || (inner[0] == '\'' && inner[len(inner)-1] == '\'') {
			inner = inner[1 : len(inner)-1]
		}
	}
	inner = strings.TrimSpace(inner)
	if inner == "" || strings.EqualFold(inner, "none") {
		return ""
	}
	return inner
}

// IsGradientLayer reports whether the layer is any CSS gradient function,
// including repeating and vendor-prefixed forms.
func IsGradientLayer(layer string) bool {
	return strings.Contains(strings.ToLower(layer), "gradient(")
}
