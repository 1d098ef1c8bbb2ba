package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/bookdiff/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing, for example as a
// pull request comment on a digitization repository.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the comparison in Markdown format.
func (w *MarkdownWriter) Write(cmp *model.Comparison) (int, error) {
	md := markdown.NewMarkdown(w.output)
	report := reportOf(cmp)

	w.writeHeader(md, cmp)
	w.writeSummary(md, report)
	w.writeMapping(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the comparison parameters.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, cmp *model.Comparison) {
	md.H1("bookdiff Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Old", "`" + cmp.OldSource + "`"},
			{"New", "`" + cmp.NewSource + "`"},
			{"Algorithm", cmp.Algorithm},
			{"Threshold", strconv.Itoa(cmp.Threshold)},
			{"Status", w.getStatusText(cmp)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on comparison state.
func (w *MarkdownWriter) getStatusText(cmp *model.Comparison) string {
	switch {
	case cmp.Error != nil:
		return "❌ Error - " + cmp.Error.Error()
	case cmp.Report == nil:
		return "⚠️ Not run"
	case cmp.Report.Identical():
		return "✅ Identical"
	default:
		return "⚠️ " + status(cmp)
	}
}

// verdictIcons decorates verdicts in tables.
var verdictIcons = map[model.Verdict]string{
	model.VerdictMatched:  "🟢",
	model.VerdictMoved:    "🔵",
	model.VerdictAltered:  "🟡",
	model.VerdictMissing:  "🔴",
	model.VerdictInserted: "🟠",
}

// writeSummary writes the verdict tallies, a pie chart and an alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.DiffReport) {
	md.H2("Summary")
	md.PlainText("")

	s := report.Summary()
	rows := make([][]string, 0, len(model.AllVerdicts)+2)
	for _, v := range model.AllVerdicts {
		rows = append(rows, []string{verdictIcons[v] + " " + string(v), strconv.Itoa(s.Count(v))})
	}
	rows = append(rows,
		[]string{"Old pages", strconv.Itoa(s.OldPages)},
		[]string{"New pages", strconv.Itoa(s.NewPages)},
	)
	md.Table(markdown.TableSet{
		Header: []string{"Verdict", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if s.HasDifferences() {
		w.writePieChart(md, s)
	}

	w.writeAlert(md, s)
}

// writePieChart writes a mermaid pie chart of the verdict distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Page Verdicts"),
		piechart.WithShowData(true),
	)

	for _, v := range model.AllVerdicts {
		if n := s.Count(v); n > 0 {
			chart.LabelAndIntValue(string(v), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert for the most serious verdict present.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, s model.Summary) {
	switch {
	case s.Missing > 0:
		md.Cautionf("%d page(s) of the old version are missing from the new version.", s.Missing)
	case s.Altered > 0:
		md.Warningf("%d page(s) differ beyond the threshold.", s.Altered)
	case s.Moved > 0 || s.Inserted > 0:
		md.Importantf("%d page(s) were moved and %d page(s) were inserted.", s.Moved, s.Inserted)
	default:
		md.Tip("All pages match in order.")
	}
	md.PlainText("")
}

// writeMapping writes one table row per verdict in report order.
func (w *MarkdownWriter) writeMapping(md *markdown.Markdown, report *model.DiffReport) {
	md.H2("Page Mapping")
	md.PlainText("")

	if report.Len() == 0 {
		md.PlainText("No pages on either side.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, report.Len())
	for _, v := range report.Verdicts() {
		distance := "-"
		if v.Paired() {
			distance = strconv.Itoa(v.Distance)
		}
		rows = append(rows, []string{
			verdictIcons[v.Verdict] + " " + string(v.Verdict),
			truncatePath(pageLabel(v.Old), 60),
			truncatePath(pageLabel(v.New), 60),
			distance,
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Verdict", "Old", "New", "Distance"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [bookdiff](https://github.com/nao1215/bookdiff)*")
}

// truncatePath keeps the last maxLen characters of a path, where the file
// name is.
func truncatePath(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[len(s)-maxLen:]
	}
	return "..." + s[len(s)-maxLen+3:]
}
