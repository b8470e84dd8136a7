package report

import (
	"io"

	"github.com/nao1215/framecap/internal/model"
)

// Writer outputs capture results in one format to one destination.
type Writer interface {
	// Write outputs the full capture document.
	// Returns the number of bytes written and any error encountered.
	Write(doc *model.CaptureDocument) (int, error)

	// WriteSummary outputs only the condensed summary.
	// This is useful for listings and quick terminal checks.
	WriteSummary(summary *model.CaptureSummary) (int, error)
}

// MultiWriter fans one document out to several Writers, such as a JSON
// file and the terminal in the same run.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the document to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(doc *model.CaptureDocument) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(doc)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteSummary outputs the summary to all configured Writers.
func (m *MultiWriter) WriteSummary(summary *model.CaptureSummary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteSummary(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
