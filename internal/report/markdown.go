package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/slashannots/internal/model"
)

// MarkdownWriter outputs reports in Markdown format for sharing, for
// example as an attachment to a document review.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation, including tables, mermaid charts and GitHub-flavored alerts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs a single run in Markdown format.
func (w *MarkdownWriter) Write(report *model.RedactionReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Annotation Redaction Report")
	md.PlainText("")
	w.writeRun(md, report)

	md.H2("Annotations by Author")
	md.PlainText("")
	w.writeStats(md, report.Stats)
	w.writeAlert(md, report)

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteBatch outputs a batch in Markdown format.
func (w *MarkdownWriter) WriteBatch(reports []*model.RedactionReport, totals *model.AnnotationStats) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Annotation Redaction Report")
	md.PlainText("")

	md.H2("Documents")
	md.PlainText("")
	rows := make([][]string, 0, len(reports))
	failed := 0
	for _, r := range reports {
		if !r.Succeeded() {
			failed++
		}
		output := r.OutputPath
		if output == "" {
			output = "-"
		}
		rows = append(rows, []string{
			"`" + r.InputPath + "`",
			"`" + output + "`",
			strconv.Itoa(r.Totals().Seen),
			w.statusCell(r),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Input", "Output", "Annotations", "Status"},
		Rows:   rows,
	})
	md.PlainText("")

	if failed > 0 {
		md.Warningf("%s of %d could not be redacted.", model.Plural(failed, "document"), len(reports))
		md.PlainText("")
	}

	md.H2("Annotations by Author")
	md.PlainText("")
	w.writeStats(md, totals)

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteAuthors outputs an author census in Markdown format.
func (w *MarkdownWriter) WriteAuthors(inputPath string, summary *model.AuthorSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Annotation Authors")
	md.PlainText("")
	md.PlainTextf("Document: `%s`", inputPath)
	md.PlainText("")

	if summary.Total == 0 {
		md.Note("The document has no annotations with an author.")
	} else {
		rows := make([][]string, 0, len(summary.Counts))
		for _, name := range summary.Names() {
			rows = append(rows, []string{displayAuthor(name), strconv.Itoa(summary.Counts[name])})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Author", "Annotations"},
			Rows:   rows,
		})
		md.PlainText("")
		md.PlainText(summary.String())
	}
	md.PlainText("")

	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeRun writes the run information table.
func (w *MarkdownWriter) writeRun(md *markdown.Markdown, report *model.RedactionReport) {
	output := report.OutputPath
	if output == "" {
		output = "-"
	}
	replacement := "-"
	if report.Policy.RedactAuthor {
		replacement = "`" + report.Policy.RedactedAuthorName + "`"
	}

	rows := [][]string{
		{"Input", "`" + report.InputPath + "`"},
		{"Output", "`" + output + "`"},
		{"Date", report.DateRedacted.Format("2006-01-02 15:04:05 MST")},
		{"Pages", strconv.Itoa(report.Pages)},
		{"Authors", authorFilterText(report.Policy)},
		{"Replacement Name", replacement},
		{"Date Precision", report.Policy.Precision.String()},
		{"Status", w.statusCell(report)},
	}
	if report.InputDigest != "" {
		rows = append(rows, []string{"Input SHA3-256", "`" + report.InputDigest + "`"})
	}
	if report.OutputDigest != "" {
		rows = append(rows, []string{"Output SHA3-256", "`" + report.OutputDigest + "`"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// statusCell returns the status column text.
func (w *MarkdownWriter) statusCell(report *model.RedactionReport) string {
	if report.Succeeded() {
		return "✅ " + statusText(report)
	}
	return "❌ " + statusText(report)
}

// writeStats writes the per-author table and the redaction chart.
func (w *MarkdownWriter) writeStats(md *markdown.Markdown, stats *model.AnnotationStats) {
	if stats == nil || stats.Len() == 0 {
		md.PlainText("No annotations were examined.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, stats.Len()+1)
	for _, row := range stats.Rows() {
		rows = append(rows, []string{
			displayAuthor(row.Author),
			strconv.Itoa(row.Seen),
			strconv.Itoa(row.NamesRedacted),
			strconv.Itoa(row.CreationDatesRedacted),
			strconv.Itoa(row.ModificationDatesRedacted),
		})
	}
	totals := stats.Totals()
	rows = append(rows, []string{
		"**Total**",
		"**" + strconv.Itoa(totals.Seen) + "**",
		"**" + strconv.Itoa(totals.NamesRedacted) + "**",
		"**" + strconv.Itoa(totals.CreationDatesRedacted) + "**",
		"**" + strconv.Itoa(totals.ModificationDatesRedacted) + "**",
	})

	md.Table(markdown.TableSet{
		Header: []string{"Author", "Seen", "Names Redacted", "Creation Dates", "Modification Dates"},
		Rows:   rows,
	})
	md.PlainText("")

	if totals.NamesRedacted+totals.DatesRedacted() > 0 {
		w.writePieChart(md, totals)
	}
}

// writePieChart writes a mermaid pie chart of redactions by kind.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, totals model.AuthorCounts) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Redacted Fields"),
		piechart.WithShowData(true),
	)

	if totals.NamesRedacted > 0 {
		chart.LabelAndIntValue("Author names", uint64(totals.NamesRedacted))
	}
	if totals.CreationDatesRedacted > 0 {
		chart.LabelAndIntValue("Creation dates", uint64(totals.CreationDatesRedacted))
	}
	if totals.ModificationDatesRedacted > 0 {
		chart.LabelAndIntValue("Modification dates", uint64(totals.ModificationDatesRedacted))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert summarizing the outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.RedactionReport) {
	totals := report.Totals()
	switch {
	case report.Error != "":
		md.Cautionf("Redaction failed and no output was written: %s", report.Error)
	case totals.Seen == 0:
		md.Note("The document contains no annotations that could be redacted.")
	case totals.NamesRedacted+totals.DatesRedacted() == 0:
		md.Warningf("%s examined but nothing was redacted.", model.Plural(totals.Seen, "annotation"))
	default:
		md.Tip("Annotation metadata was redacted.")
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [slashannots](https://github.com/nao1215/slashannots)*")
}
