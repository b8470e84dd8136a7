package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nao1215/framecap/internal/config"
	"github.com/nao1215/framecap/internal/database"
	"github.com/nao1215/framecap/internal/model"
	"github.com/nao1215/framecap/internal/report"
	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command.
// This command re-emits capture documents stored in the local database.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [capture-id]",
		Short: "Export a stored capture as IR JSON",
		Long: `Export re-emits a capture stored with 'framecap capture --store'.

With a capture ID the matching document is exported. Without one, --url
selects the most recent capture of that page. The output is the same
versioned JSON envelope the capture command writes, so exported files can
be fed to importers and to 'framecap compare'.

Examples:
  # Export a capture by ID
  framecap export 6f1aeb52-... -o page.json

  # Export the latest capture of a page to stdout
  framecap export --url https://example.com

  # See stored capture IDs
  framecap store list`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExportCmd,
	}

	cmd.Flags().StringP("url", "u", "",
		"Export the most recent capture of this URL")
	cmd.Flags().StringP("out", "o", "",
		"Write the IR JSON to this path instead of stdout")

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, args []string) error {
	sourceURL, err := cmd.Flags().GetString("url")
	if err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}

	if len(args) == 0 && sourceURL == "" {
		return errors.New("capture ID or --url is required (use 'framecap store list' to see stored captures)")
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open capture store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	var doc *model.CaptureDocument
	if len(args) > 0 {
		doc, err = db.GetDocument(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to load capture: %w", err)
		}
		if doc == nil {
			return fmt.Errorf("capture %s not found", args[0])
		}
	} else {
		doc, err = db.LatestDocument(ctx, sourceURL)
		if err != nil {
			return fmt.Errorf("failed to load capture: %w", err)
		}
		if doc == nil {
			return fmt.Errorf("no capture found for %s", sourceURL)
		}
	}

	output := os.Stdout
	if outPath != "" {
		f, err := createOutputFile(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		output = f
	}

	_, err = report.NewJSONWriter(output, report.WithPrettyPrint()).Write(doc)
	return err
}
