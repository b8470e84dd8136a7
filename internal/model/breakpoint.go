package model

import "fmt"

// Breakpoint is a named viewport configuration captured independently.
type Breakpoint struct {
	// Name identifies the breakpoint in the composed document
	// ("desktop", "mobile", ...). Must be unique within one capture run.
	Name string `json:"name" yaml:"name"`

	// Width is the viewport width in CSS pixels.
	Width int `json:"width" yaml:"width"`

	// Height is the viewport height in CSS pixels.
	Height int `json:"height" yaml:"height"`
}

// Validate checks that the breakpoint is usable for a capture.
func (b Breakpoint) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("model: breakpoint has empty name")
	}
	if b.Width <= 0 {
		return fmt.Errorf("model: breakpoint %q has non-positive width %d", b.Name, b.Width)
	}
	if b.Height <= 0 {
		return fmt.Errorf("model: breakpoint %q has non-positive height %d", b.Name, b.Height)
	}
	return nil
}

// String returns a compact human-readable form, such as "desktop (1440x900)".
func (b Breakpoint) String() string {
	return fmt.Sprintf("%s (%dx%d)", b.Name, b.Width, b.Height)
}

// DefaultBreakpoints returns the standard capture set used when the caller
// does not specify breakpoints: desktop, tablet, and mobile.
func DefaultBreakpoints() []Breakpoint {
	return []Breakpoint{
		{Name: "desktop", Width: 1440, Height: 900},
		{Name: "tablet", Width: 768, Height: 1024},
		{Name: "mobile", Width: 375, Height: 812},
	}
}

// ValidateBreakpoints checks a capture set: every breakpoint must be valid
// and names must not repeat.
func ValidateBreakpoints(bps []Breakpoint) error {
	if len(bps) == 0 {
		return fmt.Errorf("model: no breakpoints given")
	}
	seen := make(map[string]bool, len(bps))
	for _, bp := range bps {
		if err := bp.Validate(); err != nil {
			return err
		}
		if seen[bp.Name] {
			return fmt.Errorf("model: duplicate breakpoint name %q", bp.Name)
		}
		seen[bp.Name] = true
	}
	return nil
}
