package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/framecap/internal/config"
	"github.com/nao1215/framecap/internal/database"
	"github.com/nao1215/framecap/internal/model"
	"github.com/nao1215/framecap/internal/report"
	"github.com/spf13/cobra"
)

// NewCompareCmd creates the compare command.
// This command diffs two capture documents, from exported IR files or from
// the local store.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [before] [after]",
		Short: "Compare two captures",
		Long: `Compare diffs two capture documents: per-viewport node counts, node kind
distribution, and the palette and font registries.

Each argument is either a path to an exported IR JSON file or the ID of a
capture stored with 'framecap capture --store'. Comparing the same page
captured before and after a redesign shows how much structure, color, and
typography moved.

Examples:
  # Compare two exported IR files
  framecap compare before.json after.json

  # Compare two stored captures by ID
  framecap compare 6f1aeb52-... 9b07c310-...

  # A file can be compared against a stored capture
  framecap compare baseline.json 9b07c310-...

  # Output the comparison as JSON
  framecap compare --json before.json after.json`,
		Args: cobra.ExactArgs(2),
		RunE: runCompareCmd,
	}

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output the comparison in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the comparison in Markdown format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	ctx := context.Background()

	// Open the store only when an operand is not a file on disk, so
	// comparing two exported files works without a store.
	var db *database.CaptureDB
	if !isFile(args[0]) || !isFile(args[1]) {
		db, err = database.Open(config.XDGDataDir(), database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open capture store: %w", err)
		}
		defer db.Close()
	}

	before, err := loadCaptureRef(ctx, db, args[0])
	if err != nil {
		return err
	}
	after, err := loadCaptureRef(ctx, db, args[1])
	if err != nil {
		return err
	}

	comparison := compareCaptures(before, after)

	if jsonOutput {
		return outputComparisonJSON(comparison)
	}
	if markdownOutput {
		return outputComparisonMarkdown(comparison)
	}
	return outputComparisonText(comparison)
}

// isFile reports whether the comparison operand is a readable file path.
func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// loadCaptureRef loads one comparison operand: a path to an exported IR
// file, or a store ID when no such file exists.
func loadCaptureRef(ctx context.Context, db *database.CaptureDB, ref string) (*model.CaptureDocument, error) {
	if isFile(ref) {
		f, err := os.Open(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", ref, err)
		}
		defer f.Close()

		doc, err := report.DecodeDocument(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", ref, err)
		}
		return doc, nil
	}

	if db == nil {
		return nil, fmt.Errorf("%s is neither a file nor a stored capture ID", ref)
	}

	doc, err := db.GetDocument(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to load capture %s: %w", ref, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%s is neither a file nor a stored capture ID", ref)
	}
	return doc, nil
}

// CaptureComparison holds the differences between two capture documents.
type CaptureComparison struct {
	// BeforeURL is the source URL of the older capture.
	BeforeURL string `json:"beforeUrl"`

	// AfterURL is the source URL of the newer capture.
	AfterURL string `json:"afterUrl"`

	// BeforeCapturedAt is when the older capture finished.
	BeforeCapturedAt time.Time `json:"beforeCapturedAt"`

	// AfterCapturedAt is when the newer capture finished.
	AfterCapturedAt time.Time `json:"afterCapturedAt"`

	// Viewports lists per-breakpoint node count changes.
	Viewports []ViewportDelta `json:"viewports"`

	// Kinds lists node kind distribution changes.
	Kinds []KindDelta `json:"kinds"`

	// PaletteAdded contains colors present only in the newer capture.
	PaletteAdded []string `json:"paletteAdded,omitempty"`

	// PaletteRemoved contains colors present only in the older capture.
	PaletteRemoved []string `json:"paletteRemoved,omitempty"`

	// FontsAdded contains font families present only in the newer capture.
	FontsAdded []string `json:"fontsAdded,omitempty"`

	// FontsRemoved contains font families present only in the older capture.
	FontsRemoved []string `json:"fontsRemoved,omitempty"`

	// TotalDelta is the change in total node count across viewports.
	TotalDelta int `json:"totalDelta"`
}

// ViewportDelta is the node count change for one breakpoint.
type ViewportDelta struct {
	// Breakpoint is the breakpoint name.
	Breakpoint string `json:"breakpoint"`

	// BeforeNodes is the node count in the older capture.
	BeforeNodes int `json:"beforeNodes"`

	// AfterNodes is the node count in the newer capture.
	AfterNodes int `json:"afterNodes"`

	// Delta is AfterNodes minus BeforeNodes.
	Delta int `json:"delta"`
}

// KindDelta is the distribution change for one node kind.
type KindDelta struct {
	// Kind is the node kind.
	Kind model.NodeKind `json:"kind"`

	// Before is the count in the older capture.
	Before int `json:"before"`

	// After is the count in the newer capture.
	After int `json:"after"`

	// Delta is After minus Before.
	Delta int `json:"delta"`
}

// compareCaptures diffs two capture documents.
func compareCaptures(before, after *model.CaptureDocument) *CaptureComparison {
	beforeSummary := model.NewCaptureSummary(before)
	afterSummary := model.NewCaptureSummary(after)

	result := &CaptureComparison{
		BeforeURL:        before.SourceURL,
		AfterURL:         after.SourceURL,
		BeforeCapturedAt: before.CapturedAt,
		AfterCapturedAt:  after.CapturedAt,
		TotalDelta:       afterSummary.TotalNodes - beforeSummary.TotalNodes,
	}

	// Walk the newer capture's viewports in display order (widest first),
	// then append breakpoints that only the older capture had.
	beforeViewports := make(map[string]model.ViewportSummary)
	for _, vs := range beforeSummary.Viewports {
		beforeViewports[vs.Breakpoint] = vs
	}
	seen := make(map[string]bool)
	for _, vs := range afterSummary.Viewports {
		seen[vs.Breakpoint] = true
		result.Viewports = append(result.Viewports, ViewportDelta{
			Breakpoint:  vs.Breakpoint,
			BeforeNodes: beforeViewports[vs.Breakpoint].NodeCount,
			AfterNodes:  vs.NodeCount,
			Delta:       vs.NodeCount - beforeViewports[vs.Breakpoint].NodeCount,
		})
	}
	for _, vs := range beforeSummary.Viewports {
		if !seen[vs.Breakpoint] {
			result.Viewports = append(result.Viewports, ViewportDelta{
				Breakpoint:  vs.Breakpoint,
				BeforeNodes: vs.NodeCount,
				Delta:       -vs.NodeCount,
			})
		}
	}

	for _, kind := range model.NodeKinds() {
		b := beforeSummary.KindCountFor(kind)
		a := afterSummary.KindCountFor(kind)
		if b == 0 && a == 0 {
			continue
		}
		result.Kinds = append(result.Kinds, KindDelta{
			Kind:   kind,
			Before: b,
			After:  a,
			Delta:  a - b,
		})
	}

	result.PaletteAdded, result.PaletteRemoved = diffStrings(before.Palette, after.Palette)
	result.FontsAdded, result.FontsRemoved = diffStrings(before.Fonts, after.Fonts)

	return result
}

// diffStrings returns the values added to and removed from the before list,
// each in its source list's order.
func diffStrings(before, after []string) (added, removed []string) {
	beforeSet := make(map[string]bool, len(before))
	for _, s := range before {
		beforeSet[s] = true
	}
	afterSet := make(map[string]bool, len(after))
	for _, s := range after {
		afterSet[s] = true
	}

	for _, s := range after {
		if !beforeSet[s] {
			added = append(added, s)
		}
	}
	for _, s := range before {
		if !afterSet[s] {
			removed = append(removed, s)
		}
	}
	return added, removed
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(result *CaptureComparison) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(result *CaptureComparison) error {
	fmt.Printf("# Capture Comparison: %s\n\n", result.AfterURL)

	fmt.Println("## Summary")
	fmt.Printf("\n**Node Count Change:** %s\n\n", formatDelta(result.TotalDelta))

	fmt.Println("| Breakpoint | Before | After | Change |")
	fmt.Println("|------------|--------|-------|--------|")
	for _, vd := range result.Viewports {
		fmt.Printf("| %s | %d | %d | %s |\n",
			vd.Breakpoint, vd.BeforeNodes, vd.AfterNodes, formatDelta(vd.Delta))
	}

	fmt.Println("\n## Node Kinds")
	fmt.Println("\n| Kind | Before | After | Change |")
	fmt.Println("|------|--------|-------|--------|")
	for _, kd := range result.Kinds {
		fmt.Printf("| %s | %d | %d | %s |\n",
			kd.Kind, kd.Before, kd.After, formatDelta(kd.Delta))
	}

	if len(result.PaletteAdded) > 0 || len(result.PaletteRemoved) > 0 {
		fmt.Println("\n## Palette")
		for _, color := range result.PaletteAdded {
			fmt.Printf("- Added `%s`\n", color)
		}
		for _, color := range result.PaletteRemoved {
			fmt.Printf("- Removed `%s`\n", color)
		}
	}

	if len(result.FontsAdded) > 0 || len(result.FontsRemoved) > 0 {
		fmt.Println("\n## Fonts")
		for _, font := range result.FontsAdded {
			fmt.Printf("- Added %s\n", font)
		}
		for _, font := range result.FontsRemoved {
			fmt.Printf("- Removed %s\n", font)
		}
	}

	return nil
}

// outputComparisonText outputs the comparison result in human-readable text.
func outputComparisonText(result *CaptureComparison) error {
	fmt.Printf("Capture Comparison: %s\n", result.AfterURL)
	fmt.Println(strings.Repeat("=", 60))

	if result.BeforeURL != result.AfterURL {
		fmt.Printf("\nNote: comparing different pages (%s vs %s)\n", result.BeforeURL, result.AfterURL)
	}

	fmt.Printf("\nBefore: %s\n", result.BeforeCapturedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("After:  %s\n", result.AfterCapturedAt.Format("2006-01-02 15:04:05"))

	fmt.Println("\nViewports:")
	fmt.Printf("  %-12s  %-8s  %-8s  %-8s\n", "Breakpoint", "Before", "After", "Change")
	fmt.Println("  " + strings.Repeat("-", 42))
	for _, vd := range result.Viewports {
		fmt.Printf("  %-12s  %-8d  %-8d  %-8s\n",
			vd.Breakpoint, vd.BeforeNodes, vd.AfterNodes, formatDelta(vd.Delta))
	}
	fmt.Println("  " + strings.Repeat("-", 42))
	fmt.Printf("  %-12s  %-8s  %-8s  %-8s\n", "Total", "", "", formatDelta(result.TotalDelta))

	fmt.Println("\nNode Kinds:")
	fmt.Printf("  %-12s  %-8s  %-8s  %-8s\n", "Kind", "Before", "After", "Change")
	fmt.Println("  " + strings.Repeat("-", 42))
	for _, kd := range result.Kinds {
		fmt.Printf("  %-12s  %-8d  %-8d  %-8s\n",
			kd.Kind, kd.Before, kd.After, formatDelta(kd.Delta))
	}

	if len(result.PaletteAdded) > 0 {
		fmt.Printf("\nColors added (%d):\n", len(result.PaletteAdded))
		for _, color := range result.PaletteAdded {
			fmt.Printf("  [+] %s\n", color)
		}
	}
	if len(result.PaletteRemoved) > 0 {
		fmt.Printf("\nColors removed (%d):\n", len(result.PaletteRemoved))
		for _, color := range result.PaletteRemoved {
			fmt.Printf("  [-] %s\n", color)
		}
	}

	if len(result.FontsAdded) > 0 {
		fmt.Printf("\nFonts added (%d):\n", len(result.FontsAdded))
		for _, font := range result.FontsAdded {
			fmt.Printf("  [+] %s\n", font)
		}
	}
	if len(result.FontsRemoved) > 0 {
		fmt.Printf("\nFonts removed (%d):\n", len(result.FontsRemoved))
		for _, font := range result.FontsRemoved {
			fmt.Printf("  [-] %s\n", font)
		}
	}

	return nil
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}
