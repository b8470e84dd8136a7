package asset

import (
	"strconv"
	"strings"
)

// srcsetCandidate is one entry of an img or source srcset attribute.
type srcsetCandidate struct {
	// url is the candidate image URL.
	url string

	// width is the width descriptor in pixels, or 0 when absent.
	width float64

	// density is the pixel density descriptor, or 0 when absent.
	density float64
}

// PickLargestSource selects the largest candidate from a srcset attribute:
// the biggest width descriptor when any candidate has one, otherwise the
// highest pixel density. It returns an empty string for an empty or
// unparseable srcset.
func PickLargestSource(srcset string) string {
	candidates := parseSrcSet(srcset)
	if len(candidates) == 0 {
		return ""
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		switch {
		case c.width > best.width:
			best = c
		case c.width == best.width && c.density > best.density:
			best = c
		}
	}
	return best.url
}

// parseSrcSet splits a srcset attribute into candidates. Entries that do
// not start with a URL are skipped; descriptors that fail to parse leave
// the candidate with zero width and density, which ranks it last.
func parseSrcSet(srcset string) []srcsetCandidate {
	var candidates []srcsetCandidate
	for _, entry := range strings.Split(srcset, ",") {
		fields := strings.Fields(entry)
		if len(fields) == 0 {
			continue
		}
		c := srcsetCandidate{url: fields[0]}
		if len(fields) > 1 {
			c.width, c.density = parseDescriptor(fields[1])
		}
		candidates = append(candidates, c)
	}
	return candidates
}

// parseDescriptor reads a "640w" or "2x" srcset descriptor.
func parseDescriptor(descriptor string) (width, density float64) {
	if v, ok := strings.CutSuffix(descriptor, "w"); ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			return parsed, 0
		}
		return 0, 0
	}
	if v, ok := strings.CutSuffix(descriptor, "x"); ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			return 0, parsed
		}
	}
	return 0, 0
}
