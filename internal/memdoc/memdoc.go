// Package memdoc provides an in-memory model.Document for tests.
//
// It backs the engine and pipeline tests, which build documents without
// going through a PDF file. Documents serialize to JSON and Codec reads them
// back, so pipeline tests can use JSON fixture files in place of PDFs. No
// command reads memdoc files.
package memdoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"

	"github.com/nao1215/slashannots/internal/model"
)

// ErrReadOnly is returned by setters of an annotation marked read-only.
var ErrReadOnly = errors.New("annotation is read-only")

// Annotation is a plain annotation record.
type Annotation struct {
	// Type is the annotation subtype.
	Type string `json:"type"`

	// T is the author entry; nil means no /T entry.
	T *string `json:"t,omitempty"`

	// Dates holds the present date entries.
	Dates map[model.DateField]string `json:"dates,omitempty"`

	// ReadOnly makes every setter fail.
	ReadOnly bool `json:"read_only,omitempty"`
}

// New creates an annotation of the given subtype with no entries.
func New(subtype string) *Annotation {
	return &Annotation{Type: subtype, Dates: make(map[model.DateField]string)}
}

// WithAuthor sets the author entry and returns a.
func (a *Annotation) WithAuthor(author string) *Annotation {
	a.T = &author
	return a
}

// WithDate sets a date entry and returns a.
func (a *Annotation) WithDate(field model.DateField, value string) *Annotation {
	if a.Dates == nil {
		a.Dates = make(map[model.DateField]string)
	}
	a.Dates[field] = value
	return a
}

// Clone returns a deep copy of a.
func (a *Annotation) Clone() *Annotation {
	c := &Annotation{Type: a.Type, ReadOnly: a.ReadOnly, Dates: maps.Clone(a.Dates)}
	if a.T != nil {
		author := *a.T
		c.T = &author
	}
	return c
}

// Equal reports whether a and b hold the same entries.
func (a *Annotation) Equal(b *Annotation) bool {
	if a.Type != b.Type || (a.T == nil) != (b.T == nil) {
		return false
	}
	if a.T != nil && *a.T != *b.T {
		return false
	}
	return maps.Equal(a.Dates, b.Dates)
}

// Subtype implements model.Annotation.
func (a *Annotation) Subtype() string {
	return a.Type
}

// Author implements model.Annotation.
func (a *Annotation) Author() (string, bool) {
	if a.T == nil {
		return "", false
	}
	return *a.T, true
}

// SetAuthor implements model.Annotation.
func (a *Annotation) SetAuthor(name string) error {
	if a.ReadOnly {
		return ErrReadOnly
	}
	a.T = &name
	return nil
}

// Date implements model.Annotation.
func (a *Annotation) Date(field model.DateField) (string, bool, error) {
	v, ok := a.Dates[field]
	return v, ok, nil
}

// SetDate implements model.Annotation.
func (a *Annotation) SetDate(field model.DateField, value string) error {
	if a.ReadOnly {
		return ErrReadOnly
	}
	if a.Dates == nil {
		a.Dates = make(map[model.DateField]string)
	}
	a.Dates[field] = value
	return nil
}

// Document is an ordered list of pages of annotations.
type Document struct {
	// Pages holds the annotations of each page; Pages[0] is page 1.
	Pages [][]*Annotation `json:"pages"`
}

// NewDocument creates a document from the given pages.
func NewDocument(pages ...[]*Annotation) *Document {
	return &Document{Pages: pages}
}

// Page is a convenience constructor for one page of annotations.
func Page(annots ...*Annotation) []*Annotation {
	return annots
}

// PageCount implements model.Document.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Annotations implements model.Document.
func (d *Document) Annotations(pageNr int) ([]model.Annotation, error) {
	if pageNr < 1 || pageNr > len(d.Pages) {
		return nil, fmt.Errorf("page %d out of range [1, %d]", pageNr, len(d.Pages))
	}
	page := d.Pages[pageNr-1]
	annots := make([]model.Annotation, len(page))
	for i, a := range page {
		annots[i] = a
	}
	return annots, nil
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	c := &Document{Pages: make([][]*Annotation, len(d.Pages))}
	for i, page := range d.Pages {
		c.Pages[i] = make([]*Annotation, len(page))
		for j, a := range page {
			c.Pages[i][j] = a.Clone()
		}
	}
	return c
}

// Encode writes d as JSON.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// Codec decodes documents written by Encode.
type Codec struct{}

// Decode reads a JSON document from rs.
func (Codec) Decode(rs io.ReadSeeker) (model.Container, error) {
	var d Document
	if err := json.NewDecoder(rs).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &d, nil
}

var _ model.Container = (*Document)(nil)
var _ model.Annotation = (*Annotation)(nil)
