package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nao1215/framecap/internal/model"
)

// ParseBreakpoints parses a --breakpoints flag value into a breakpoint set.
// Entries are comma separated and take one of two forms: a default
// breakpoint name ("desktop", "tablet", "mobile") or an explicit
// "name:WIDTHxHEIGHT" such as "wide:1920x1080". Order is preserved.
func ParseBreakpoints(spec string) ([]model.Breakpoint, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, fmt.Errorf("%w: empty spec", ErrInvalidBreakpointSpec)
	}

	named := make(map[string]model.Breakpoint)
	for _, bp := range model.DefaultBreakpoints() {
		named[bp.Name] = bp
	}

	var bps []model.Breakpoint
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name, dims, hasDims := strings.Cut(entry, ":")
		if !hasDims {
			bp, ok := named[entry]
			if !ok {
				return nil, fmt.Errorf("%w: unknown name %q", ErrInvalidBreakpointSpec, entry)
			}
			bps = append(bps, bp)
			continue
		}

		width, height, ok := parseDimensions(dims)
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidBreakpointSpec, entry)
		}
		bps = append(bps, model.Breakpoint{Name: strings.TrimSpace(name), Width: width, Height: height})
	}

	if err := model.ValidateBreakpoints(bps); err != nil {
		return nil, err
	}
	return bps, nil
}

// parseDimensions parses "WIDTHxHEIGHT" into positive pixel dimensions.
func parseDimensions(s string) (width, height int, ok bool) {
	ws, hs, found := strings.Cut(strings.ToLower(s), "x")
	if !found {
		return 0, 0, false
	}
	width, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil || width <= 0 {
		return 0, 0, false
	}
	height, err = strconv.Atoi(strings.TrimSpace(hs))
	if err != nil || height <= 0 {
		return 0, 0, false
	}
	return width, height, true
}
