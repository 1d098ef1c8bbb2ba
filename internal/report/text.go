package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/bookdiff/internal/model"
)

// ruleWidth is the width of section separators.
const ruleWidth = 70

// TextWriter outputs human-readable text reports.
// The page mapping lists every page of the new version with its
// counterpart, followed by the pages missing from it.
type TextWriter struct {
	baseWriter

	// differencesOnly hides MATCHED pages from the mapping.
	differencesOnly bool

	// showEmpty controls whether sections with no entries are shown.
	showEmpty bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithDifferencesOnly hides MATCHED pages from the page mapping.
func WithDifferencesOnly(only bool) TextWriterOption {
	return func(w *TextWriter) {
		w.differencesOnly = only
	}
}

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) TextWriterOption {
	return func(w *TextWriter) {
		w.showEmpty = show
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the comparison in human-readable format.
func (w *TextWriter) Write(cmp *model.Comparison) (int, error) {
	var sb strings.Builder
	report := reportOf(cmp)

	w.writeHeader(&sb, cmp)
	w.writeSummary(&sb, report)
	w.writeMapping(&sb, report)
	w.writeMissing(&sb, report)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

// writeHeader writes the report header with comparison parameters.
func (w *TextWriter) writeHeader(sb *strings.Builder, cmp *model.Comparison) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                          BOOKDIFF REPORT\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Old:        %s\n", cmp.OldSource)
	fmt.Fprintf(sb, "New:        %s\n", cmp.NewSource)
	fmt.Fprintf(sb, "Algorithm:  %s\n", cmp.Algorithm)
	fmt.Fprintf(sb, "Threshold:  %d\n", cmp.Threshold)
	fmt.Fprintf(sb, "Status:     %s\n", status(cmp))
	sb.WriteString("\n")
}

// writeSummary writes the verdict tallies.
func (w *TextWriter) writeSummary(sb *strings.Builder, report *model.DiffReport) {
	section(sb, "SUMMARY")

	s := report.Summary()
	for _, v := range model.AllVerdicts {
		fmt.Fprintf(sb, "  %-9s %d\n", string(v)+":", s.Count(v))
	}
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  PAGES:    old %d, new %d\n", s.OldPages, s.NewPages)
	sb.WriteString("\n")
}

// writeMapping writes one line per page of the new version.
func (w *TextWriter) writeMapping(sb *strings.Builder, report *model.DiffReport) {
	var lines []string
	for _, v := range report.Verdicts() {
		if v.New == nil {
			continue
		}
		if w.differencesOnly && v.Verdict == model.VerdictMatched {
			continue
		}
		if v.Verdict == model.VerdictInserted {
			lines = append(lines, fmt.Sprintf("  %s (NEW PAGE)", pageLabel(v.New)))
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s %s %s (DISTANCE: %d)",
			pageLabel(v.New), v.Verdict, pageLabel(v.Old), v.Distance))
	}

	if len(lines) == 0 && !w.showEmpty {
		return
	}

	section(sb, "PAGE MAPPING")
	if len(lines) == 0 {
		sb.WriteString("  No pages\n")
	}
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// writeMissing lists old pages without a counterpart.
func (w *TextWriter) writeMissing(sb *strings.Builder, report *model.DiffReport) {
	missing := report.Filter(model.VerdictMissing)
	if len(missing) == 0 && !w.showEmpty {
		return
	}

	section(sb, "MISSING PAGES")
	if len(missing) == 0 {
		sb.WriteString("  No missing pages\n")
	}
	for _, v := range missing {
		fmt.Fprintf(sb, "  %s\n", pageLabel(v.Old))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *TextWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("Report generated by bookdiff\n")
	sb.WriteString("https://github.com/nao1215/bookdiff\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}
