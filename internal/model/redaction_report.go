package model

import (
	"fmt"
	"sort"
	"time"
)

// RedactionReport is the result of redacting one document.
// It is written by the report package and stored in the history database.
type RedactionReport struct {
	// InputPath is the document that was read.
	InputPath string `json:"input_path"`

	// OutputPath is the rewritten document. Empty when the run failed
	// before anything was written.
	OutputPath string `json:"output_path,omitempty"`

	// InputDigest is the hex SHA3-256 digest of the input bytes.
	InputDigest string `json:"input_digest,omitempty"`

	// OutputDigest is the hex SHA3-256 digest of the output bytes.
	OutputDigest string `json:"output_digest,omitempty"`

	// DateRedacted is when the run started.
	DateRedacted time.Time `json:"date_redacted"`

	// Pages is the number of pages in the document.
	Pages int `json:"pages"`

	// Policy describes what was asked for.
	Policy PolicySummary `json:"policy"`

	// Stats holds the per-author tallies. On failure it holds whatever
	// was counted before the error.
	Stats *AnnotationStats `json:"stats"`

	// Error contains the error message if the run failed.
	Error string `json:"error,omitempty"`
}

// NewRedactionReport creates a report for the given input with empty stats.
func NewRedactionReport(inputPath string, policy *RedactionPolicy) *RedactionReport {
	return &RedactionReport{
		InputPath:    inputPath,
		DateRedacted: time.Now(),
		Policy:       policy.Summary(),
		Stats:        NewAnnotationStats(),
	}
}

// Succeeded reports whether the run produced an output document.
func (r *RedactionReport) Succeeded() bool {
	return r.Error == "" && r.OutputPath != ""
}

// Totals returns the summed stats, zero when no stats are attached.
func (r *RedactionReport) Totals() AuthorCounts {
	if r.Stats == nil {
		return AuthorCounts{}
	}
	return r.Stats.Totals()
}

// AuthorSummary is the census of annotation authors in a document.
type AuthorSummary struct {
	// Counts maps each author name to its number of annotations.
	Counts map[string]int `json:"counts"`

	// Total is the number of annotations carrying an author entry.
	Total int `json:"total"`
}

// NewAuthorSummary creates an empty census.
func NewAuthorSummary() *AuthorSummary {
	return &AuthorSummary{Counts: make(map[string]int)}
}

// Add records one annotation by author.
func (s *AuthorSummary) Add(author string) {
	s.Counts[author]++
	s.Total++
}

// Names returns the author names in lexicographic order.
func (s *AuthorSummary) Names() []string {
	names := make([]string, 0, len(s.Counts))
	for name := range s.Counts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String returns a one-line summary such as "3 annotations from 2 authors".
func (s *AuthorSummary) String() string {
	if s.Total == 0 {
		return "0 annotations"
	}
	return Plural(s.Total, "annotation") + " from " + Plural(len(s.Counts), "author")
}

// Plural formats a count with a naively pluralized noun.
func Plural(n int, thing string) string {
	if n == 1 {
		return "1 " + thing
	}
	return fmt.Sprintf("%d %ss", n, thing)
}
