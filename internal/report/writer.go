package report

import (
	"io"
	"strings"

	"github.com/nao1215/slashannots/internal/model"
)

// NoAuthorLabel is displayed in place of the empty author key.
const NoAuthorLabel = "(no author)"

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the result of a single redaction run.
	Write(report *model.RedactionReport) (int, error)

	// WriteBatch outputs the results of a batch together with merged stats.
	WriteBatch(reports []*model.RedactionReport, totals *model.AnnotationStats) (int, error)

	// WriteAuthors outputs the author census of a document.
	WriteAuthors(inputPath string, summary *model.AuthorSummary) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because Writer writes reports, not raw bytes, and
// each destination may use a different format.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// It stops on the first error encountered.
func (m *MultiWriter) Write(report *model.RedactionReport) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.Write(report) })
}

// WriteBatch outputs the batch to all configured Writers.
func (m *MultiWriter) WriteBatch(reports []*model.RedactionReport, totals *model.AnnotationStats) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteBatch(reports, totals) })
}

// WriteAuthors outputs the census to all configured Writers.
func (m *MultiWriter) WriteAuthors(inputPath string, summary *model.AuthorSummary) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteAuthors(inputPath, summary) })
}

// each calls fn for every writer and sums the byte counts.
func (m *MultiWriter) each(fn func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := fn(w)
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

// displayAuthor returns the label used for an author key.
func displayAuthor(author string) string {
	if author == model.NoAuthor {
		return NoAuthorLabel
	}
	return author
}

// authorFilterText describes the author filter of a policy.
func authorFilterText(policy model.PolicySummary) string {
	if policy.ClearAll() {
		return "all authors"
	}
	authors := make([]string, len(policy.IncludedAuthors))
	for i, a := range policy.IncludedAuthors {
		authors[i] = displayAuthor(a)
	}
	return strings.Join(authors, ", ")
}

// statusText returns a short status for a report.
func statusText(report *model.RedactionReport) string {
	if report.Error != "" {
		return "ERROR - " + report.Error
	}
	if !report.Succeeded() {
		return "Not written"
	}
	return "Complete"
}
