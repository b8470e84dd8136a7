package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/framecap/internal/model"
)

// consoleWidth is the banner width of the terminal report.
const consoleWidth = 70

// maxConsoleColors caps the palette preview outside verbose mode.
const maxConsoleColors = 8

// ConsoleWriter outputs human-readable text reports for terminal display.
// Plain ASCII formatting keeps the output pipeable to files and other
// tools regardless of terminal capabilities.
type ConsoleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no entries are shown.
	showEmpty bool

	// verbose enables the full palette and warning lists.
	verbose bool
}

// ConsoleWriterOption configures a ConsoleWriter.
type ConsoleWriterOption func(*ConsoleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) ConsoleWriterOption {
	return func(w *ConsoleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with full token and warning lists.
func WithVerbose(verbose bool) ConsoleWriterOption {
	return func(w *ConsoleWriter) {
		w.verbose = verbose
	}
}

// NewConsoleWriter creates a ConsoleWriter that outputs to the given writer.
func NewConsoleWriter(output io.Writer, opts ...ConsoleWriterOption) *ConsoleWriter {
	w := &ConsoleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the capture document in human-readable format.
func (w *ConsoleWriter) Write(doc *model.CaptureDocument) (int, error) {
	return w.WriteSummary(model.NewCaptureSummary(doc))
}

// WriteSummary outputs the capture summary in human-readable format.
func (w *ConsoleWriter) WriteSummary(summary *model.CaptureSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeViewports(&sb, summary)
	w.writeComposition(&sb, summary)
	w.writeDesignTokens(&sb, summary)
	w.writeWarnings(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with capture information.
func (w *ConsoleWriter) writeHeader(sb *strings.Builder, summary *model.CaptureSummary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", consoleWidth))
	sb.WriteString("\n")
	sb.WriteString("                       FRAMECAP CAPTURE REPORT\n")
	sb.WriteString(strings.Repeat("=", consoleWidth))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Source URL:   %s\n", summary.SourceURL))
	if summary.Title != "" {
		sb.WriteString(fmt.Sprintf("Page Title:   %s\n", summary.Title))
	}
	sb.WriteString(fmt.Sprintf("Captured At:  %s\n", summary.CapturedAt.Format("2006-01-02 15:04:05 MST")))

	if summary.Partial {
		sb.WriteString("Status:       PARTIAL (incomplete viewports)\n")
	} else {
		sb.WriteString("Status:       Complete\n")
	}

	sb.WriteString("\n")
}

// writeViewports writes the per-breakpoint statistics section.
func (w *ConsoleWriter) writeViewports(sb *strings.Builder, summary *model.CaptureSummary) {
	if len(summary.Viewports) == 0 && !w.showEmpty {
		return
	}

	w.writeSectionRule(sb, "VIEWPORTS")

	if len(summary.Viewports) == 0 {
		sb.WriteString("  No viewports captured\n")
	}
	for _, v := range summary.Viewports {
		line := fmt.Sprintf("  [%s] %dx%d  %d nodes, %d assets",
			v.Breakpoint, v.Width, v.Height, v.NodeCount, v.AssetCount)
		if v.WarningCount > 0 {
			line += fmt.Sprintf(", %d warnings", v.WarningCount)
		}
		if v.Partial {
			line += "  (PARTIAL)"
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// writeComposition writes the node kind distribution section.
func (w *ConsoleWriter) writeComposition(sb *strings.Builder, summary *model.CaptureSummary) {
	if len(summary.KindCounts) == 0 && !w.showEmpty {
		return
	}

	w.writeSectionRule(sb, "NODE COMPOSITION")

	for _, kc := range summary.KindCounts {
		sb.WriteString(fmt.Sprintf("  %-10s %d\n", kc.Kind.String()+":", kc.Count))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  TOTAL:     %d nodes\n", summary.TotalNodes))
	sb.WriteString("\n")
}

// writeDesignTokens writes the palette, font, and text style section.
func (w *ConsoleWriter) writeDesignTokens(sb *strings.Builder, summary *model.CaptureSummary) {
	empty := len(summary.Palette) == 0 && len(summary.Fonts) == 0 && summary.TextStyleCount == 0
	if empty && !w.showEmpty {
		return
	}

	w.writeSectionRule(sb, "DESIGN TOKENS")

	sb.WriteString(fmt.Sprintf("  Palette:     %d colors", len(summary.Palette)))
	if preview := w.palettePreview(summary.Palette); preview != "" {
		sb.WriteString(" (" + preview + ")")
	}
	sb.WriteString("\n")

	if len(summary.Fonts) > 0 {
		sb.WriteString(fmt.Sprintf("  Fonts:       %s\n", strings.Join(summary.Fonts, ", ")))
	} else {
		sb.WriteString("  Fonts:       none\n")
	}
	sb.WriteString(fmt.Sprintf("  Text styles: %d\n", summary.TextStyleCount))
	sb.WriteString("\n")
}

// palettePreview renders the color list, truncated unless verbose.
func (w *ConsoleWriter) palettePreview(palette []string) string {
	if len(palette) == 0 {
		return ""
	}
	if w.verbose || len(palette) <= maxConsoleColors {
		return strings.Join(palette, ", ")
	}
	return strings.Join(palette[:maxConsoleColors], ", ") + ", ..."
}

// writeWarnings writes the absorbed failure section.
func (w *ConsoleWriter) writeWarnings(sb *strings.Builder, summary *model.CaptureSummary) {
	if !summary.HasWarnings() && !w.showEmpty {
		return
	}

	w.writeSectionRule(sb, "WARNINGS")

	if !summary.HasWarnings() {
		sb.WriteString("  No warnings\n\n")
		return
	}

	for _, warning := range summary.Warnings {
		location := warning.Stage
		if warning.Tag != "" {
			location += " <" + warning.Tag + ">"
		}
		sb.WriteString(fmt.Sprintf("  [!] %s: %s: %s\n", warning.Breakpoint, location, warning.Message))
	}
	sb.WriteString("\n")
}

// writeSectionRule writes a section heading between horizontal rules.
func (w *ConsoleWriter) writeSectionRule(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", consoleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", consoleWidth))
	sb.WriteString("\n\n")
}

// writeFooter writes the report footer.
func (w *ConsoleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", consoleWidth))
	sb.WriteString("\n")
	sb.WriteString("Report generated by framecap\n")
	sb.WriteString("https://github.com/nao1215/framecap\n")
	sb.WriteString(strings.Repeat("=", consoleWidth))
	sb.WriteString("\n")
}
