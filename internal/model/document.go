package model

import "io"

// SubtypeLink is the annotation subtype that is never touched by redaction.
// Link annotations carry navigation targets, not authored content.
const SubtypeLink = "Link"

// DateField identifies one of the timestamp entries of an annotation.
type DateField int

const (
	// CreationDate is the /CreationDate entry of a markup annotation.
	CreationDate DateField = iota

	// ModificationDate is the /M entry, the date the annotation was last modified.
	ModificationDate
)

// Key returns the PDF dictionary key of the date field.
func (f DateField) Key() string {
	switch f {
	case CreationDate:
		return "CreationDate"
	case ModificationDate:
		return "M"
	default:
		return ""
	}
}

// String returns a human-readable name of the date field.
func (f DateField) String() string {
	switch f {
	case CreationDate:
		return "creation date"
	case ModificationDate:
		return "modification date"
	default:
		return "unknown date"
	}
}

// DateFields lists the date fields in the order the engine processes them.
var DateFields = []DateField{CreationDate, ModificationDate}

// Annotation is a mutable annotation record reachable from a page.
// Implementations write changes straight into the underlying document.
type Annotation interface {
	// Subtype returns the annotation subtype without the leading slash,
	// for example "Text", "FreeText" or "Link".
	Subtype() string

	// Author returns the /T entry. The boolean reports whether the entry
	// exists at all; an empty author name is still an author. An entry that
	// is not a text string is still present and is returned in its raw
	// textual form.
	Author() (string, bool)

	// SetAuthor overwrites the /T entry.
	SetAuthor(name string) error

	// Date returns the raw textual value of a date field and whether it
	// exists. A present entry that cannot be read as a string yields a
	// non-nil error; only an absent entry reports false.
	Date(field DateField) (string, bool, error)

	// SetDate overwrites a date field with an already formatted value.
	SetDate(field DateField, value string) error
}

// Document is an ordered sequence of pages, each holding zero or more annotations.
// Pages are numbered from 1 to PageCount.
type Document interface {
	// PageCount returns the number of pages.
	PageCount() int

	// Annotations returns the annotations of the given page in document order.
	Annotations(pageNr int) ([]Annotation, error)
}

// Container is a Document that can be serialized again after redaction.
type Container interface {
	Document

	// Encode writes the document with every change applied.
	Encode(w io.Writer) error
}
