package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/slashannots/internal/model"
)

// JSONWriter outputs reports in JSON format for tool integration.
//
// Design decision: We use standard encoding/json. Every report type carries
// json tags and AnnotationStats marshals itself as sorted rows, so no custom
// encoder is needed.
type JSONWriter struct {
	baseWriter

	// version is the tool version recorded in every document.
	version string

	// indent enables pretty-printed JSON output.
	indent bool

	// indentString is the indentation string.
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentString = "  "
	}
}

// WithVersion records the tool version in the output.
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

// JSONReport wraps a single run with output metadata.
type JSONReport struct {
	// Version is the version of the tool that produced the report.
	Version string `json:"version,omitempty"`

	// Report is the run result.
	Report *model.RedactionReport `json:"report"`

	// Totals sums the per-author counts.
	Totals model.AuthorCounts `json:"totals"`
}

// JSONBatchReport wraps the results of a batch.
type JSONBatchReport struct {
	Version string                   `json:"version,omitempty"`
	Reports []*model.RedactionReport `json:"reports"`
	Stats   *model.AnnotationStats   `json:"stats"`
	Totals  model.AuthorCounts       `json:"totals"`
	Failed  int                      `json:"failed"`
}

// JSONAuthorsReport wraps an author census.
type JSONAuthorsReport struct {
	Version string `json:"version,omitempty"`
	Input   string `json:"input"`
	*model.AuthorSummary
	Authors []string `json:"authors"`
	Summary string   `json:"summary"`
}

// Write outputs a single run in JSON format.
func (w *JSONWriter) Write(report *model.RedactionReport) (int, error) {
	return w.writeJSON(&JSONReport{
		Version: w.version,
		Report:  report,
		Totals:  report.Totals(),
	})
}

// WriteBatch outputs a batch in JSON format.
func (w *JSONWriter) WriteBatch(reports []*model.RedactionReport, totals *model.AnnotationStats) (int, error) {
	failed := 0
	for _, r := range reports {
		if !r.Succeeded() {
			failed++
		}
	}
	if totals == nil {
		totals = model.NewAnnotationStats()
	}
	return w.writeJSON(&JSONBatchReport{
		Version: w.version,
		Reports: reports,
		Stats:   totals,
		Totals:  totals.Totals(),
		Failed:  failed,
	})
}

// WriteAuthors outputs an author census in JSON format.
func (w *JSONWriter) WriteAuthors(inputPath string, summary *model.AuthorSummary) (int, error) {
	return w.writeJSON(&JSONAuthorsReport{
		Version:       w.version,
		Input:         inputPath,
		AuthorSummary: summary,
		Authors:       summary.Names(),
		Summary:       summary.String(),
	})
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, "", w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Trailing newline for terminal output.
	data = append(data, '\n')

	return w.output.Write(data)
}
