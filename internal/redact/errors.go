package redact

import (
	"fmt"

	"github.com/nao1215/slashannots/internal/model"
)

// MalformedDateError reports a date entry that could not be parsed.
// It wraps pdfdate.ErrMalformedDate.
type MalformedDateError struct {
	// Page is the 1-based page number.
	Page int

	// Index is the 0-based position of the annotation among the page's annotations.
	Index int

	// Subtype is the annotation subtype.
	Subtype string

	// Field is the offending date entry.
	Field model.DateField

	// Value is the raw entry value.
	Value string

	// Err is the underlying parse error.
	Err error
}

// Error implements the error interface.
func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("page %d, annotation %d (%s): %s /%s: %v",
		e.Page, e.Index, e.Subtype, e.Field, e.Field.Key(), e.Err)
}

// Unwrap returns the underlying parse error.
func (e *MalformedDateError) Unwrap() error {
	return e.Err
}
