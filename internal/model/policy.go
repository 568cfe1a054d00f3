package model

import "sort"

// DefaultRedactedAuthor replaces author names when no other name is configured.
const DefaultRedactedAuthor = "unknown"

// RedactionPolicy configures one redaction run. It is built once by
// NewRedactionPolicy and not modified afterwards.
type RedactionPolicy struct {
	includedAuthors map[string]struct{}

	// RedactAuthor controls whether matched annotations get their author replaced.
	RedactAuthor bool

	// RedactedAuthorName is the replacement author name.
	RedactedAuthorName string

	// Precision is the finest date component that survives truncation.
	Precision DatePrecision
}

// NewRedactionPolicy builds a policy. An empty authors list selects
// clear-all mode, in which annotations of every author are processed.
func NewRedactionPolicy(authors []string, redactAuthor bool, redactedName string, precision DatePrecision) *RedactionPolicy {
	included := make(map[string]struct{}, len(authors))
	for _, a := range authors {
		included[a] = struct{}{}
	}
	return &RedactionPolicy{
		includedAuthors:    included,
		RedactAuthor:       redactAuthor,
		RedactedAuthorName: redactedName,
		Precision:          precision,
	}
}

// IsClearAll reports whether no author filter was given.
func (p *RedactionPolicy) IsClearAll() bool {
	return len(p.includedAuthors) == 0
}

// Includes reports whether annotations of the given author are targeted.
// In clear-all mode every author is targeted.
func (p *RedactionPolicy) Includes(author string) bool {
	if p.IsClearAll() {
		return true
	}
	_, ok := p.includedAuthors[author]
	return ok
}

// IncludedAuthors returns the author filter in sorted order.
func (p *RedactionPolicy) IncludedAuthors() []string {
	authors := make([]string, 0, len(p.includedAuthors))
	for a := range p.includedAuthors {
		authors = append(authors, a)
	}
	sort.Strings(authors)
	return authors
}

// Summary returns a serializable description of the policy.
func (p *RedactionPolicy) Summary() PolicySummary {
	return PolicySummary{
		IncludedAuthors:    p.IncludedAuthors(),
		RedactAuthor:       p.RedactAuthor,
		RedactedAuthorName: p.RedactedAuthorName,
		Precision:          p.Precision,
	}
}

// PolicySummary is the report and database form of a RedactionPolicy.
type PolicySummary struct {
	// IncludedAuthors is empty in clear-all mode.
	IncludedAuthors []string `json:"included_authors,omitempty"`

	// RedactAuthor reports whether author names were replaced.
	RedactAuthor bool `json:"redact_author"`

	// RedactedAuthorName is the replacement name.
	RedactedAuthorName string `json:"redacted_author_name"`

	// Precision is the date precision that was applied.
	Precision DatePrecision `json:"precision"`
}

// ClearAll reports whether the summarized policy had no author filter.
func (s PolicySummary) ClearAll() bool {
	return len(s.IncludedAuthors) == 0
}
