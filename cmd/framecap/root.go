// Package main provides the entry point for the framecap CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for framecap.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "framecap",
		Short: "Capture rendered web pages as styled design trees",
		Long: `framecap renders a web page at several viewport widths and captures the
result as a hierarchical design tree: containers, text runs, and images
with their normalized styles and absolute geometry.

One run captures every configured breakpoint and composes the frames side
by side into a single versioned JSON document, ready for design-tool
importers to rebuild as editable layers.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCaptureCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewStoreCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
