package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/framecap/internal/model"
)

// MarkdownWriter outputs capture summaries in Markdown format.
// This format is designed for documentation and sharing: an info table,
// per-viewport statistics, a node composition chart, and the harvested
// design tokens.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the capture document in Markdown format.
func (w *MarkdownWriter) Write(doc *model.CaptureDocument) (int, error) {
	return w.WriteSummary(model.NewCaptureSummary(doc))
}

// WriteSummary outputs the capture summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.CaptureSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeViewports(md, summary)
	w.writeComposition(md, summary)
	w.writeDesignTokens(md, summary)
	w.writeWarnings(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with capture information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.CaptureSummary) {
	md.H1("Capture Report")
	md.PlainText("")

	title := summary.Title
	if title == "" {
		title = "-"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source URL", "`" + summary.SourceURL + "`"},
			{"Page Title", title},
			{"Captured At", summary.CapturedAt.Format("2006-01-02 15:04:05 MST")},
			{"Viewports", strconv.Itoa(len(summary.Viewports))},
			{"Total Nodes", strconv.Itoa(summary.TotalNodes)},
			{"Status", w.getStatusText(summary)},
		},
	})
	md.PlainText("")

	w.writeAlert(md, summary)
}

// getStatusText returns the status text based on the capture state.
func (w *MarkdownWriter) getStatusText(summary *model.CaptureSummary) string {
	if summary.Partial {
		return "⚠️ Partial (incomplete viewports)"
	}
	return "✅ Complete"
}

// writeAlert writes an alert matching the capture outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.CaptureSummary) {
	switch {
	case summary.Partial:
		md.Warningf(
			"Capture is partial: one or more viewports hit a stability or traversal bound. The trees below may miss late-loading content.",
		)
	case summary.HasWarnings():
		md.Importantf(
			"%d failure(s) were absorbed during capture; the affected elements were skipped.",
			summary.TotalWarnings(),
		)
	default:
		md.Tip("Capture completed cleanly across all viewports.")
	}
	md.PlainText("")
}

// writeViewports writes the per-breakpoint statistics table.
func (w *MarkdownWriter) writeViewports(md *markdown.Markdown, summary *model.CaptureSummary) {
	md.H2("Viewports")
	md.PlainText("")

	if len(summary.Viewports) == 0 {
		md.PlainText("No viewports captured.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Viewports))
	for i, v := range summary.Viewports {
		status := "✅"
		if v.Partial {
			status = "⚠️ partial"
		}
		rows[i] = []string{
			displayName(v.Breakpoint),
			fmt.Sprintf("%dx%d", v.Width, v.Height),
			strconv.Itoa(v.NodeCount),
			strconv.Itoa(v.AssetCount),
			strconv.Itoa(v.WarningCount),
			status,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Breakpoint", "Viewport", "Nodes", "Assets", "Warnings", "Status"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeComposition writes the node kind distribution with a pie chart.
func (w *MarkdownWriter) writeComposition(md *markdown.Markdown, summary *model.CaptureSummary) {
	md.H2("Node Composition")
	md.PlainText("")

	if len(summary.KindCounts) == 0 {
		md.PlainText("No nodes captured.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.KindCounts))
	for i, kc := range summary.KindCounts {
		rows[i] = []string{kc.Kind.String(), strconv.Itoa(kc.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Count"},
		Rows:   rows,
	})

	w.writePieChart(md, summary)
}

// writePieChart writes a mermaid pie chart for the kind distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.CaptureSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Node Kind Distribution"),
		piechart.WithShowData(true),
	)

	for _, kc := range summary.KindCounts {
		chart.LabelAndIntValue(displayName(kc.Kind.String()), uint64(kc.Count))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeDesignTokens writes the harvested palette, fonts, and text styles.
func (w *MarkdownWriter) writeDesignTokens(md *markdown.Markdown, summary *model.CaptureSummary) {
	md.H2("Design Tokens")
	md.PlainText("")

	md.PlainText("### Palette")
	md.PlainText("")
	if len(summary.Palette) == 0 {
		md.PlainText("No colors harvested.")
	} else {
		codes := make([]string, len(summary.Palette))
		for i, color := range summary.Palette {
			codes[i] = "`" + color + "`"
		}
		md.PlainText(strings.Join(codes, " "))
	}
	md.PlainText("")

	md.PlainText("### Fonts")
	md.PlainText("")
	if len(summary.Fonts) == 0 {
		md.PlainText("No fonts harvested.")
		md.PlainText("")
	} else {
		md.BulletList(summary.Fonts...)
		md.PlainText("")
	}

	md.PlainTextf("%d text style(s) registered.", summary.TextStyleCount)
	md.PlainText("")
}

// writeWarnings writes the absorbed failure table.
func (w *MarkdownWriter) writeWarnings(md *markdown.Markdown, summary *model.CaptureSummary) {
	if !summary.HasWarnings() {
		return
	}

	md.H2("Warnings")
	md.PlainText("")

	rows := make([][]string, len(summary.Warnings))
	for i, warning := range summary.Warnings {
		tag := warning.Tag
		if tag == "" {
			tag = "-"
		}
		rows[i] = []string{
			displayName(warning.Breakpoint),
			warning.Stage,
			tag,
			truncateString(warning.Message, 80),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Breakpoint", "Stage", "Element", "Message"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [framecap](https://github.com/nao1215/framecap)*")
}

// displayName renders an identifier for human display, "desktop" as
// "Desktop". The caser is created per call; cases.Caser is stateful and
// not safe for concurrent use.
func displayName(name string) string {
	return cases.Title(language.English).String(name)
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
