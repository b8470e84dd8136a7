package style

import (
	"strconv"
	"strings"
)

// DefaultFontFamily is the family reported when a font-family value is
// empty or names only generic families. Render targets need a concrete
// family name, so the generic keywords cannot pass through.
const DefaultFontFamily = "Inter"

// genericFamilies are CSS generic family keywords that never name a real
// font. They are skipped when picking the primary family.
var genericFamilies = map[string]bool{
	"serif":         true,
	"sans-serif":    true,
	"monospace":     true,
	"cursive":       true,
	"fantasy":       true,
	"system-ui":     true,
	"ui-serif":      true,
	"ui-sans-serif": true,
	"ui-monospace":  true,
	"ui-rounded":    true,
	"math":          true,
	"emoji":         true,
	"fangsong":      true,
}

// PrimaryFontFamily extracts the first concrete family from a CSS
// font-family list. Quotes are stripped. When the list is empty or contains
// only generic keywords, DefaultFontFamily is returned.
func PrimaryFontFamily(s string) string {
	for _, part := range strings.Split(s, ",") {
		family := strings.TrimSpace(part)
		family = strings.Trim(family, `"'`)
		family = strings.TrimSpace(family)
		if family == "" {
			continue
		}
		if genericFamilies[strings.ToLower(family)] {
			continue
		}
		return family
	}
	return DefaultFontFamily
}

// FontStyleName converts a CSS font-weight and font-style pair into a named
// style: "Thin" through "Black" for the 100-900 buckets (values are rounded
// to the nearest hundred), keywords bold/bolder map to Bold, normal to
// Regular, lighter to Light. An italic or oblique font-style compounds the
// name ("Bold Italic"); an italic regular weight is just "Italic".
func FontStyleName(weight, fontStyle string) string {
	name := weightName(weight)

	italic := strings.Contains(fontStyle, "italic") || strings.Contains(fontStyle, "oblique")
	if !italic {
		return name
	}
	if name == "Regular" {
		return "Italic"
	}
	return name + " Italic"
}

// weightName maps a CSS font-weight value to its named bucket.
func weightName(weight string) string {
	switch strings.TrimSpace(strings.ToLower(weight)) {
	case "", "normal":
		return "Regular"
	case "bold", "bolder":
		return "Bold"
	case "lighter":
		return "Light"
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(weight), 64)
	if err != nil {
		return "Regular"
	}

	// Variable fonts produce in-between values; snap to the nearest bucket.
	bucket := int(v/100.0 + 0.5) * 100
	if bucket < 100 {
		bucket = 100
	}
	if bucket > 900 {
		bucket = 900
	}

	switch bucket {
	case 100:
		return "Thin"
	case 200:
		return "Extra Light"
	case 300:
		return "Light"
	case 400:
		return "Regular"
	case 500:
		return "Medium"
	case 600:
		return "Semi Bold"
	case 700:
		return "Bold"
	case 800:
		return "Extra Bold"
	default:
		return "Black"
	}
}
