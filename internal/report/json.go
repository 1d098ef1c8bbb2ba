package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/bookdiff/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// version is the bookdiff version recorded in the envelope.
	version string

	// includeOps adds the edit script to the envelope.
	includeOps bool

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
	return WithIndent("", "  ")
}

// WithOps adds the edit script to the output.
func WithOps(include bool) JSONWriterOption {
	return func(w *JSONWriter) {
		w.includeOps = include
	}
}

// WithVersion sets the version string recorded in the output.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
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

// Write outputs the comparison wrapped in a JSONReport.
func (w *JSONWriter) Write(cmp *model.Comparison) (int, error) {
	return w.writeJSON(NewJSONReport(cmp, w.version, w.includeOps))
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
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

// JSONReport is the JSON envelope of a comparison: its parameters, the
// DiffReport and optionally the edit script. Timing information is left
// out so equal comparisons serialize to equal bytes.
type JSONReport struct {
	// Version is the bookdiff version that generated this report.
	Version string `json:"version,omitempty"`

	OldSource string `json:"old_source"`
	NewSource string `json:"new_source"`
	Algorithm string `json:"algorithm"`
	Threshold int    `json:"threshold"`

	// Report holds the summary and the page verdicts.
	Report *model.DiffReport `json:"report"`

	// Ops is the edit script after move recovery.
	Ops []model.EditOp `json:"ops,omitempty"`

	// Error is set when the comparison failed.
	Error string `json:"error,omitempty"`
}

// NewJSONReport creates the envelope of cmp.
func NewJSONReport(cmp *model.Comparison, version string, includeOps bool) *JSONReport {
	r := &JSONReport{
		Version:   version,
		OldSource: cmp.OldSource,
		NewSource: cmp.NewSource,
		Algorithm: cmp.Algorithm,
		Threshold: cmp.Threshold,
		Report:    reportOf(cmp),
	}
	if includeOps {
		r.Ops = cmp.Ops
	}
	if cmp.Error != nil {
		r.Error = cmp.Error.Error()
	}
	return r
}
