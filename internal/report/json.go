package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/framecap/internal/model"
)

// SchemaVersion is the IR envelope schema version. Consumers accept any
// envelope sharing the same major version.
const SchemaVersion = "1.0.0"

// ErrUnsupportedSchema is returned when a decoded envelope carries a
// schema version this build cannot read.
var ErrUnsupportedSchema = errors.New("report: unsupported schema version")

// ErrInvariant is returned when a document fails contract validation at
// export time. It indicates a pipeline bug, not a recoverable condition.
var ErrInvariant = errors.New("report: document violates the IR contract")

// Envelope wraps an exported capture document with its schema version so
// consumers can detect incompatible files before walking the tree.
type Envelope struct {
	// SchemaVersion is the IR schema version the document conforms to.
	SchemaVersion string `json:"schemaVersion"`

	// Document is the full capture document.
	Document *model.CaptureDocument `json:"document"`

	// Summary is the derived summary for consumers that only need counts.
	Summary *model.CaptureSummary `json:"summary,omitempty"`
}

// JSONWriter outputs the capture document as a versioned JSON envelope.
// This format is the IR export consumed by synthesis tools; it is the only
// writer that carries the full node tree.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write validates the document, sorts every viewport tree into paint
// order, and outputs the versioned envelope. A validation failure is a
// pipeline bug surfacing, so it fails the write rather than emitting a
// document that violates the IR contract.
func (w *JSONWriter) Write(doc *model.CaptureDocument) (int, error) {
	if err := doc.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvariant, err)
	}
	for _, viewport := range doc.Viewports {
		viewport.RootNode.SortByPaintOrder()
	}

	envelope := &Envelope{
		SchemaVersion: SchemaVersion,
		Document:      doc,
		Summary:       model.NewCaptureSummary(doc),
	}
	return w.writeJSON(envelope)
}

// WriteSummary outputs only the summary in JSON format, without the
// envelope. Listings use this for per-capture rows.
func (w *JSONWriter) WriteSummary(summary *model.CaptureSummary) (int, error) {
	return w.writeJSON(summary)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v interface{}) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// DecodeDocument reads a JSON envelope and returns the capture document
// inside it. Envelopes with a different major schema version are rejected
// with ErrUnsupportedSchema.
func DecodeDocument(r io.Reader) (*model.CaptureDocument, error) {
	var envelope Envelope
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("report: decode envelope: %w", err)
	}

	if major, _, _ := strings.Cut(envelope.SchemaVersion, "."); major != majorVersion() {
		return nil, fmt.Errorf("%w: got %q, this build reads %s",
			ErrUnsupportedSchema, envelope.SchemaVersion, SchemaVersion)
	}
	if envelope.Document == nil {
		return nil, fmt.Errorf("report: envelope carries no document")
	}
	return envelope.Document, nil
}

// majorVersion returns the major component of SchemaVersion.
func majorVersion() string {
	major, _, _ := strings.Cut(SchemaVersion, ".")
	return major
}
