package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/framecap/internal/config"
	"github.com/nao1215/framecap/internal/database"
	"github.com/spf13/cobra"
)

// NewStoreCmd creates the store command and its subcommands.
func NewStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the local capture store",
		Long: `Store manages captures saved with 'framecap capture --store'.

The store is a SQLite database in the XDG data directory. Every stored
capture keeps the full IR document, so old captures can be re-exported
with 'framecap export' and diffed with 'framecap compare' at any time.`,
	}

	cmd.AddCommand(NewStoreListCmd())
	cmd.AddCommand(NewStoreDeleteCmd())

	return cmd
}

// NewStoreListCmd creates the store list command.
func NewStoreListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored captures",
		Long: `List shows stored captures, newest first.

Examples:
  # List every stored capture
  framecap store list

  # List captures of one page
  framecap store list --url https://example.com`,
		RunE: runStoreListCmd,
	}

	cmd.Flags().StringP("url", "u", "",
		"Only list captures of this URL")

	return cmd
}

// runStoreListCmd executes the store list command.
func runStoreListCmd(cmd *cobra.Command, _ []string) error {
	sourceURL, err := cmd.Flags().GetString("url")
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open capture store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	captures, err := db.ListCaptures(ctx, sourceURL)
	if err != nil {
		return fmt.Errorf("failed to list captures: %w", err)
	}

	if len(captures) == 0 {
		if sourceURL != "" {
			fmt.Printf("No stored captures found for %s\n", sourceURL)
		} else {
			fmt.Println("No stored captures found.")
		}
		fmt.Println("\nUse 'framecap capture --store <url>' to capture and store a page.")
		return nil
	}

	fmt.Printf("Stored captures (%d):\n\n", len(captures))
	fmt.Printf("  %-36s  %-19s  %-9s  %-6s  %s\n", "ID", "Captured", "Viewports", "Nodes", "URL")
	fmt.Println("  " + strings.Repeat("-", 92))
	for _, meta := range captures {
		marker := ""
		if meta.Partial {
			marker = " (partial)"
		}
		fmt.Printf("  %-36s  %-19s  %-9d  %-6d  %s%s\n",
			meta.ID,
			meta.CapturedAt.Format("2006-01-02 15:04:05"),
			meta.ViewportCount,
			meta.NodeCount,
			meta.SourceURL,
			marker,
		)
	}

	if sourceURL != "" {
		total, err := db.CountCaptures(ctx)
		if err == nil && total > len(captures) {
			fmt.Printf("\n%d captures stored in total; drop --url to see all.\n", total)
		}
	}

	fmt.Println("\nUse 'framecap export <id>' to re-export a capture.")

	return nil
}

// NewStoreDeleteCmd creates the store delete command.
func NewStoreDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <capture-id>",
		Short: "Delete a stored capture",
		Long: `Delete removes one capture from the local store.

Examples:
  # Delete a capture by ID
  framecap store delete 6f1aeb52-...`,
		Args: cobra.ExactArgs(1),
		RunE: runStoreDeleteCmd,
	}
}

// runStoreDeleteCmd executes the store delete command.
func runStoreDeleteCmd(cmd *cobra.Command, args []string) error {
	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open capture store: %w", err)
	}
	defer db.Close()

	if err := db.DeleteCapture(context.Background(), args[0]); err != nil {
		if errors.Is(err, database.ErrCaptureNotFound) {
			return fmt.Errorf("capture %s not found (use 'framecap store list' to see stored captures)", args[0])
		}
		return fmt.Errorf("failed to delete capture: %w", err)
	}

	fmt.Printf("Deleted capture %s\n", args[0])
	return nil
}
