// Package config provides configuration management for framecap: default
// capture values, CLI-facing validation with sentinel errors, breakpoint
// spec parsing, the optional YAML profile, and XDG directory helpers.
package config
