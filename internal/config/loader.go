package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultProfileFile is the default profile file name searched for in the
// working directory.
const DefaultProfileFile = ".framecap.yaml"

// ErrProfileNotFound is returned when the profile file does not exist.
var ErrProfileNotFound = errors.New("profile file not found")

// LoadProfile loads capture settings from a YAML profile file.
// If the file does not exist, it returns ErrProfileNotFound. Callers decide
// whether that is fatal based on whether the path was explicitly specified.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided profile path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	return &p, nil
}

// FindProfile searches for the profile file in the following order:
// 1. If profilePath is specified, use it directly
// 2. Look for .framecap.yaml in the current directory
// 3. Look for profile.yaml in the XDG config directory
//
// Returns the path to the profile file if found, or empty string if not found.
func FindProfile(profilePath string) string {
	// If explicit path is provided, use it
	if profilePath != "" {
		if _, err := os.Stat(profilePath); err == nil {
			return profilePath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdProfile := filepath.Join(cwd, DefaultProfileFile)
		if _, err := os.Stat(cwdProfile); err == nil {
			return cwdProfile
		}
	}

	// Check XDG config directory
	xdgProfile := filepath.Join(XDGConfigDir(), "profile.yaml")
	if _, err := os.Stat(xdgProfile); err == nil {
		return xdgProfile
	}

	return ""
}
