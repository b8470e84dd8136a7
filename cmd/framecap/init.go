package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/framecap/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/framecap.yaml
var profileTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new framecap profile file",
		Long: `Initialize creates a new .framecap.yaml profile in the current directory.

The generated file includes:
- The default breakpoint set, ready to edit
- Commented examples for every profile setting
- Documentation of the precedence between defaults, profile, and flags

Examples:
  # Create .framecap.yaml in current directory
  framecap init

  # Create the profile at a specific path
  framecap init -o team-profile.yaml

  # Force overwrite existing file
  framecap init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultProfileFile,
		"Output file path for the profile")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing profile file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("profile file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := profileTemplate.ReadFile("templates/framecap.yaml")
	if err != nil {
		return fmt.Errorf("failed to read profile template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write profile file
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write profile file: %w", err)
	}

	fmt.Printf("Created profile file: %s\n", outputPath)
	fmt.Println("\nEdit this file to pin project settings such as:")
	fmt.Println("  - The breakpoint set to capture")
	fmt.Println("  - Node and text caps")
	fmt.Println("  - Proxy and User-Agent for asset downloads")

	return nil
}
