package model

import (
	"encoding/json"
	"sort"
	"sync"
)

// NoAuthor is the stats key for annotations without an author entry.
const NoAuthor = ""

// Counter selects one of the four per-author tallies.
type Counter int

const (
	// CounterSeen counts annotations carrying (or, under NoAuthor, processed without) an author.
	CounterSeen Counter = iota
	// CounterNamesRedacted counts replaced author names, keyed by the original name.
	CounterNamesRedacted
	// CounterCreationDatesRedacted counts truncated /CreationDate entries.
	CounterCreationDatesRedacted
	// CounterModificationDatesRedacted counts truncated /M entries.
	CounterModificationDatesRedacted
)

// String returns the counter name.
func (c Counter) String() string {
	switch c {
	case CounterSeen:
		return "seen"
	case CounterNamesRedacted:
		return "names_redacted"
	case CounterCreationDatesRedacted:
		return "creation_dates_redacted"
	case CounterModificationDatesRedacted:
		return "modification_dates_redacted"
	default:
		return "unknown"
	}
}

// DateCounter returns the counter that tallies redactions of the given date field.
func DateCounter(field DateField) Counter {
	if field == ModificationDate {
		return CounterModificationDatesRedacted
	}
	return CounterCreationDatesRedacted
}

// AuthorCounts holds the four tallies of a single author key.
type AuthorCounts struct {
	Seen                      int `json:"seen"`
	NamesRedacted             int `json:"names_redacted"`
	CreationDatesRedacted     int `json:"creation_dates_redacted"`
	ModificationDatesRedacted int `json:"modification_dates_redacted"`
}

// add increments the tally selected by c.
func (a *AuthorCounts) add(c Counter, n int) {
	switch c {
	case CounterSeen:
		a.Seen += n
	case CounterNamesRedacted:
		a.NamesRedacted += n
	case CounterCreationDatesRedacted:
		a.CreationDatesRedacted += n
	case CounterModificationDatesRedacted:
		a.ModificationDatesRedacted += n
	}
}

// Get returns the tally selected by c.
func (a AuthorCounts) Get(c Counter) int {
	switch c {
	case CounterSeen:
		return a.Seen
	case CounterNamesRedacted:
		return a.NamesRedacted
	case CounterCreationDatesRedacted:
		return a.CreationDatesRedacted
	case CounterModificationDatesRedacted:
		return a.ModificationDatesRedacted
	default:
		return 0
	}
}

// DatesRedacted returns the number of redacted creation and modification dates.
func (a AuthorCounts) DatesRedacted() int {
	return a.CreationDatesRedacted + a.ModificationDatesRedacted
}

// AuthorRow is one line of the per-author stats report.
type AuthorRow struct {
	// Author is the original author name, NoAuthor for authorless annotations.
	Author string `json:"author"`
	AuthorCounts
}

// AnnotationStats is an append-only tally of annotations per author.
// All methods are safe for concurrent use.
type AnnotationStats struct {
	mu      sync.Mutex
	authors map[string]*AuthorCounts
}

// NewAnnotationStats creates an empty tally.
func NewAnnotationStats() *AnnotationStats {
	return &AnnotationStats{
		authors: make(map[string]*AuthorCounts),
	}
}

// Increment adds one to counter c of the given author key.
func (s *AnnotationStats) Increment(c Counter, author string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(author).add(c, 1)
}

// entry returns the counts of author, creating them if needed. Callers hold mu.
func (s *AnnotationStats) entry(author string) *AuthorCounts {
	if s.authors == nil {
		s.authors = make(map[string]*AuthorCounts)
	}
	counts, ok := s.authors[author]
	if !ok {
		counts = &AuthorCounts{}
		s.authors[author] = counts
	}
	return counts
}

// Get returns the counts of an author key. Unknown keys yield zero counts.
func (s *AnnotationStats) Get(author string) AuthorCounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	if counts, ok := s.authors[author]; ok {
		return *counts
	}
	return AuthorCounts{}
}

// Has reports whether the author key was ever incremented.
func (s *AnnotationStats) Has(author string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.authors[author]
	return ok
}

// Authors returns every observed author key in lexicographic order.
// NoAuthor sorts first like any other empty string.
func (s *AnnotationStats) Authors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	authors := make([]string, 0, len(s.authors))
	for a := range s.authors {
		authors = append(authors, a)
	}
	sort.Strings(authors)
	return authors
}

// Rows returns the report rows sorted by author key.
func (s *AnnotationStats) Rows() []AuthorRow {
	authors := s.Authors()
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]AuthorRow, 0, len(authors))
	for _, a := range authors {
		rows = append(rows, AuthorRow{Author: a, AuthorCounts: *s.authors[a]})
	}
	return rows
}

// Totals sums the counts over all author keys.
func (s *AnnotationStats) Totals() AuthorCounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total AuthorCounts
	for _, counts := range s.authors {
		total.Seen += counts.Seen
		total.NamesRedacted += counts.NamesRedacted
		total.CreationDatesRedacted += counts.CreationDatesRedacted
		total.ModificationDatesRedacted += counts.ModificationDatesRedacted
	}
	return total
}

// Len returns the number of observed author keys.
func (s *AnnotationStats) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.authors)
}

// Merge adds every count of other into s.
func (s *AnnotationStats) Merge(other *AnnotationStats) {
	if other == nil || other == s {
		return
	}
	rows := other.Rows()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		counts := s.entry(row.Author)
		counts.Seen += row.Seen
		counts.NamesRedacted += row.NamesRedacted
		counts.CreationDatesRedacted += row.CreationDatesRedacted
		counts.ModificationDatesRedacted += row.ModificationDatesRedacted
	}
}

// MapAuthors returns a copy of s with every author key passed through fn.
// Keys that map to the same value are merged.
func (s *AnnotationStats) MapAuthors(fn func(string) string) *AnnotationStats {
	mapped := NewAnnotationStats()
	for _, row := range s.Rows() {
		counts := mapped.entry(fn(row.Author))
		counts.Seen += row.Seen
		counts.NamesRedacted += row.NamesRedacted
		counts.CreationDatesRedacted += row.CreationDatesRedacted
		counts.ModificationDatesRedacted += row.ModificationDatesRedacted
	}
	return mapped
}

// MarshalJSON encodes the stats as the sorted row list.
func (s *AnnotationStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Rows())
}

// UnmarshalJSON decodes a row list produced by MarshalJSON.
func (s *AnnotationStats) UnmarshalJSON(data []byte) error {
	var rows []AuthorRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authors = make(map[string]*AuthorCounts, len(rows))
	for _, row := range rows {
		counts := row.AuthorCounts
		s.authors[row.Author] = &counts
	}
	return nil
}
