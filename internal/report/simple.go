package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/slashannots/internal/model"
)

// lineWidth is the width of section rules.
const lineWidth = 70

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose adds the policy and digest details.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs a single run in human-readable format.
func (w *SimpleWriter) Write(report *model.RedactionReport) (int, error) {
	var sb strings.Builder

	w.writeRun(&sb, report)
	w.writeStats(&sb, report.Stats)

	return w.output.Write([]byte(sb.String()))
}

// WriteBatch outputs every run followed by the merged totals.
func (w *SimpleWriter) WriteBatch(reports []*model.RedactionReport, totals *model.AnnotationStats) (int, error) {
	var sb strings.Builder

	failed := 0
	for _, report := range reports {
		status := "ok  "
		if !report.Succeeded() {
			status = "FAIL"
			failed++
		}
		target := report.OutputPath
		if report.Error != "" {
			target = report.Error
		}
		fmt.Fprintf(&sb, "[%s] %s -> %s\n", status, report.InputPath, target)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s, %d failed\n\n", model.Plural(len(reports), "document"), failed)

	w.writeStats(&sb, totals)

	return w.output.Write([]byte(sb.String()))
}

// WriteAuthors outputs the author census, one author per line.
func (w *SimpleWriter) WriteAuthors(inputPath string, summary *model.AuthorSummary) (int, error) {
	var sb strings.Builder

	if w.verbose {
		fmt.Fprintf(&sb, "%s\n\n", inputPath)
	}
	for _, name := range summary.Names() {
		fmt.Fprintf(&sb, "%6d  %s\n", summary.Counts[name], displayAuthor(name))
	}
	if summary.Total > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(summary.String())
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// writeRun writes the file and policy header of a run.
func (w *SimpleWriter) writeRun(sb *strings.Builder, report *model.RedactionReport) {
	fmt.Fprintf(sb, "Input:     %s\n", report.InputPath)
	if report.OutputPath != "" {
		fmt.Fprintf(sb, "Output:    %s\n", report.OutputPath)
	}
	fmt.Fprintf(sb, "Pages:     %d\n", report.Pages)
	fmt.Fprintf(sb, "Status:    %s\n", statusText(report))

	if w.verbose {
		fmt.Fprintf(sb, "Authors:   %s\n", authorFilterText(report.Policy))
		if report.Policy.RedactAuthor {
			fmt.Fprintf(sb, "Replace:   %q\n", report.Policy.RedactedAuthorName)
		}
		fmt.Fprintf(sb, "Precision: %s\n", report.Policy.Precision)
		if report.InputDigest != "" {
			fmt.Fprintf(sb, "SHA3 in:   %s\n", report.InputDigest)
		}
		if report.OutputDigest != "" {
			fmt.Fprintf(sb, "SHA3 out:  %s\n", report.OutputDigest)
		}
	}
	sb.WriteString("\n")
}

// writeStats writes the per-author table and totals.
func (w *SimpleWriter) writeStats(sb *strings.Builder, stats *model.AnnotationStats) {
	if stats == nil || stats.Len() == 0 {
		sb.WriteString("No annotations were examined.\n")
		return
	}

	rows := stats.Rows()
	width := len("Author")
	for _, row := range rows {
		width = max(width, len(displayAuthor(row.Author)))
	}

	header := fmt.Sprintf("%-*s  %6s  %6s  %9s  %9s", width, "Author", "Seen", "Names", "Created", "Modified")
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", min(len(header), lineWidth)))
	sb.WriteString("\n")

	writeRow := func(label string, c model.AuthorCounts) {
		fmt.Fprintf(sb, "%-*s  %6d  %6d  %9d  %9d\n", width, label,
			c.Seen, c.NamesRedacted, c.CreationDatesRedacted, c.ModificationDatesRedacted)
	}
	for _, row := range rows {
		writeRow(displayAuthor(row.Author), row.AuthorCounts)
	}
	if len(rows) > 1 {
		sb.WriteString(strings.Repeat("-", min(len(header), lineWidth)))
		sb.WriteString("\n")
		writeRow("Total", stats.Totals())
	}
}
