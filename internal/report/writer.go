package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/bookdiff/internal/model"
)

// Writer defines the interface for report output.
// Implementations write comparison results in various formats.
type Writer interface {
	// Write outputs the comparison to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(cmp *model.Comparison) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the comparison to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(cmp *model.Comparison) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(cmp)
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

// pageLabel names a page by its path, or by its 1-based number when the
// path is unknown.
func pageLabel(ref *model.PageRef) string {
	if ref == nil {
		return "-"
	}
	if ref.Path != "" {
		return ref.Path
	}
	return "#" + strconv.Itoa(ref.Index+1)
}

// status describes the outcome of a comparison in one line.
func status(cmp *model.Comparison) string {
	switch {
	case cmp.Error != nil:
		return "ERROR - " + cmp.Error.Error()
	case cmp.Report == nil:
		return "NOT RUN"
	case cmp.Report.Identical():
		return "IDENTICAL"
	default:
		n := cmp.Report.Summary().Differences()
		if n == 1 {
			return "1 DIFFERENCE"
		}
		return fmt.Sprintf("%d DIFFERENCES", n)
	}
}

// reportOf returns the comparison's report, or an empty one.
func reportOf(cmp *model.Comparison) *model.DiffReport {
	if cmp.Report == nil {
		return model.NewDiffReport(nil)
	}
	return cmp.Report
}
