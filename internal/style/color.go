package style

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Color is a normalized RGBA color. Channels are 8-bit; Alpha is the CSS
// alpha in [0,1].
type Color struct {
	R, G, B uint8
	Alpha   float64
}

// colorTokenRegex matches hex and functional color tokens inside compound
// values such as gradients and shadows. Best-effort: it harvests palette
// entries, it does not validate CSS.
var colorTokenRegex = regexp.MustCompile(`#[0-9a-fA-F]{3,8}\b|rgba?\([^)]*\)`)

// namedColors is the supported subset of CSS named colors.
// Computed styles rarely contain names (browsers resolve them to rgb()),
// so the table only covers values seen in inline styles and shorthand.
var namedColors = map[string]Color{
	"black":       {0, 0, 0, 1},
	"white":       {255, 255, 255, 1},
	"red":         {255, 0, 0, 1},
	"green":       {0, 128, 0, 1},
	"blue":        {0, 0, 255, 1},
	"yellow":      {255, 255, 0, 1},
	"orange":      {255, 165, 0, 1},
	"purple":      {128, 0, 128, 1},
	"pink":        {255, 192, 203, 1},
	"gray":        {128, 128, 128, 1},
	"grey":        {128, 128, 128, 1},
	"silver":      {192, 192, 192, 1},
	"maroon":      {128, 0, 0, 1},
	"navy":        {0, 0, 128, 1},
	"teal":        {0, 128, 128, 1},
	"olive":       {128, 128, 0, 1},
	"aqua":        {0, 255, 255, 1},
	"cyan":        {0, 255, 255, 1},
	"fuchsia":     {255, 0, 255, 1},
	"magenta":     {255, 0, 255, 1},
	"lime":        {0, 255, 0, 1},
	"transparent": {0, 0, 0, 0},
}

// ParseColor converts a CSS color string into a Color.
// Supported forms: #RGB, #RGBA, #RRGGBB, #RRGGBBAA, rgb(), rgba() (comma or
// space separated, numeric or percentage channels), and the named-color
// table. Unparseable input normalizes to opaque black.
func ParseColor(s string) Color {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return Color{0, 0, 0, 1}
	}

	if c, ok := namedColors[s]; ok {
		return c
	}
	if strings.HasPrefix(s, "#") {
		if c, ok := parseHexColor(s); ok {
			return c
		}
		return Color{0, 0, 0, 1}
	}
	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		if c, ok := parseRGBFunc(s); ok {
			return c
		}
	}
	return Color{0, 0, 0, 1}
}

// parseHexColor parses #RGB, #RGBA, #RRGGBB, and #RRGGBBAA forms.
func parseHexColor(s string) (Color, bool) {
	hex := s[1:]
	switch len(hex) {
	case 3, 4:
		// Short form: each digit doubles.
		expanded := make([]byte, 0, 8)
		for i := 0; i < len(hex); i++ {
			expanded = append(expanded, hex[i], hex[i])
		}
		hex = string(expanded)
	case 6, 8:
		// Long form used as-is.
	default:
		return Color{}, false
	}

	val, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return Color{}, false
	}

	if len(hex) == 8 {
		return Color{
			R:     uint8(val >> 24),
			G:     uint8(val >> 16),
			B:     uint8(val >> 8),
			Alpha: roundAlpha(float64(uint8(val)) / 255.0),
		}, true
	}
	return Color{
		R:     uint8(val >> 16),
		G:     uint8(val >> 8),
		B:     uint8(val),
		Alpha: 1,
	}, true
}

// parseRGBFunc parses rgb(...) and rgba(...) forms.
func parseRGBFunc(s string) (Color, bool) {
	open := strings.IndexByte(s, '(')
	end := strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return Color{}, false
	}

	body := s[open+1 : end]
	// The modern space-separated form uses "/" before alpha.
	body = strings.ReplaceAll(body, "/", " ")
	body = strings.ReplaceAll(body, ",", " ")
	fields := strings.Fields(body)
	if len(fields) < 3 || len(fields) > 4 {
		return Color{}, false
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, ok := parseChannel(fields[i])
		if !ok {
			return Color{}, false
		}
		ch[i] = v
	}

	alpha := 1.0
	if len(fields) == 4 {
		a, ok := parseAlpha(fields[3])
		if !ok {
			return Color{}, false
		}
		alpha = a
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], Alpha: alpha}, true
}

// parseChannel parses one color channel: numeric 0-255 or a percentage.
func parseChannel(s string) (uint8, bool) {
	if strings.HasSuffix(s, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return clampChannel(pct * 255.0 / 100.0), true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clampChannel(v), true
}

// parseAlpha parses an alpha component: a 0-1 number or a percentage.
func parseAlpha(s string) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return clampAlpha(pct / 100.0), true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clampAlpha(v), true
}

// clampChannel rounds and clamps a channel value into [0,255].
func clampChannel(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// clampAlpha clamps an alpha value into [0,1].
func clampAlpha(a float64) float64 {
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return roundAlpha(a)
}

// roundAlpha rounds alpha to three decimals, which keeps formatted output
// short while staying well inside 1/255 channel tolerance.
func roundAlpha(a float64) float64 {
	return math.Round(a*1000) / 1000
}

// String formats the color for the IR palette: "#rrggbb" for opaque colors,
// "rgba(r,g,b,a)" otherwise.
func (c Color) String() string {
	if c.Alpha >= 1 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B,
		strconv.FormatFloat(c.Alpha, 'f', -1, 64))
}

// IsTransparent returns true if the color would not paint at all.
func (c Color) IsTransparent() bool {
	return c.Alpha == 0
}

// ScanColorTokens extracts every color token found inside a compound value
// such as a gradient or shadow string. Tokens that fail to parse are
// skipped rather than normalized to black, since harvesting is best-effort.
func ScanColorTokens(s string) []Color {
	matches := colorTokenRegex.FindAllString(s, -1)
	if len(matches) == 0 {
		return nil
	}
	colors := make([]Color, 0, len(matches))
	for _, m := range matches {
		m = strings.ToLower(m)
		if strings.HasPrefix(m, "#") {
			if c, ok := parseHexColor(m); ok {
				colors = append(colors, c)
			}
			continue
		}
		if c, ok := parseRGBFunc(m); ok {
			colors = append(colors, c)
		}
	}
	return colors
}

// FormatColorTokens scans a compound value and returns the harvested
// colors already normalized to their string form.
func FormatColorTokens(s string) []string {
	colors := ScanColorTokens(s)
	if len(colors) == 0 {
		return nil
	}
	formatted := make([]string, 0, len(colors))
	for _, c := range colors {
		formatted = append(formatted, c.String())
	}
	return formatted
}
