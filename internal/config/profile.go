package config

import "github.com/nao1215/framecap/internal/model"

// Profile holds per-project capture settings loaded from a YAML file.
// A profile typically pins the breakpoint set a design team works against
// so individual capture invocations stay consistent.
//
// Values in the profile override the built-in defaults; flags given
// explicitly on the command line override the profile.
type Profile struct {
	// Breakpoints replaces the default breakpoint set when non-empty.
	Breakpoints []model.Breakpoint `yaml:"breakpoints,omitempty"`

	// MaxNodes overrides the per-viewport node cap when positive.
	MaxNodes int `yaml:"maxNodes,omitempty"`

	// MaxTextLength overrides the per-node text cap when positive.
	MaxTextLength int `yaml:"maxTextLength,omitempty"`

	// FrameGap overrides the horizontal gap between composed viewport
	// frames. A pointer so an explicit 0 (flush frames) is expressible.
	FrameGap *float64 `yaml:"frameGap,omitempty"`

	// UserAgent overrides the User-Agent sent with asset downloads.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Proxy is a SOCKS5 proxy in "host:port" format for asset downloads.
	Proxy string `yaml:"proxy,omitempty"`

	// AssetParallelism overrides the concurrent asset download limit
	// when positive.
	AssetParallelism int `yaml:"assetParallelism,omitempty"`
}

// Apply overlays the profile's set values onto the config. Values absent
// from the profile keep their current settings.
func (p *Profile) Apply(c *Config) {
	if len(p.Breakpoints) > 0 {
		c.Breakpoints = p.Breakpoints
	}
	if p.MaxNodes > 0 {
		c.MaxNodes = p.MaxNodes
	}
	if p.MaxTextLength > 0 {
		c.MaxTextLength = p.MaxTextLength
	}
	if p.FrameGap != nil {
		c.FrameGap = *p.FrameGap
	}
	if p.UserAgent != "" {
		c.UserAgent = p.UserAgent
	}
	if p.Proxy != "" {
		c.ProxyAddress = p.Proxy
	}
	if p.AssetParallelism > 0 {
		c.AssetParallelism = p.AssetParallelism
	}
}
