package pdfdoc

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/nao1215/slashannots/internal/model"
)

// Entry keys of an annotation dictionary.
const (
	keySubtype = "Subtype"
	keyAuthor  = "T"
)

// resolver follows indirect references.
type resolver func(types.Object) (types.Object, error)

// Annotation is a model.Annotation backed by a pdfcpu annotation dictionary.
// Setters modify the dictionary in place.
type Annotation struct {
	dict    types.Dict
	resolve resolver
}

// newAnnotation wraps dict. A nil resolve treats every value as direct.
func newAnnotation(dict types.Dict, resolve resolver) *Annotation {
	if resolve == nil {
		resolve = func(o types.Object) (types.Object, error) { return o, nil }
	}
	return &Annotation{dict: dict, resolve: resolve}
}

// Dict returns the underlying dictionary.
func (a *Annotation) Dict() types.Dict {
	return a.dict
}

// Subtype implements model.Annotation.
func (a *Annotation) Subtype() string {
	obj, ok := a.lookup(keySubtype)
	if !ok {
		return ""
	}
	if name, ok := obj.(types.Name); ok {
		return name.Value()
	}
	return ""
}

// Author implements model.Annotation. A /T entry that is not a text string
// is still an author; its raw form is returned so that it can be counted
// and replaced like any other name.
func (a *Annotation) Author() (string, bool) {
	obj, ok := a.dict.Find(keyAuthor)
	if !ok || obj == nil {
		return "", false
	}
	resolved, err := a.resolve(obj)
	if err != nil {
		return obj.String(), true
	}
	if resolved == nil {
		return "", false
	}
	if name, ok := resolved.(types.Name); ok {
		// Seen in the wild for /T; tolerated.
		return name.Value(), true
	}
	s, err := decodeText(resolved)
	if err != nil {
		return resolved.String(), true
	}
	return s, true
}

// SetAuthor implements model.Annotation.
func (a *Annotation) SetAuthor(name string) error {
	obj, err := encodeText(name)
	if err != nil {
		return err
	}
	a.dict[keyAuthor] = obj
	return nil
}

// Date implements model.Annotation. A present entry that is not a string,
// or whose reference cannot be resolved, is returned in raw form along with
// an error.
func (a *Annotation) Date(field model.DateField) (string, bool, error) {
	key := field.Key()
	obj, ok := a.dict.Find(key)
	if !ok || obj == nil {
		return "", false, nil
	}
	resolved, err := a.resolve(obj)
	if err != nil {
		return obj.String(), true, fmt.Errorf("failed to resolve /%s: %w", key, err)
	}
	if resolved == nil {
		return "", false, nil
	}
	s, err := decodeText(resolved)
	if err != nil {
		return resolved.String(), true, fmt.Errorf("invalid /%s: %w", key, err)
	}
	return s, true, nil
}

// SetDate implements model.Annotation. Dates are plain ASCII and written as literals.
func (a *Annotation) SetDate(field model.DateField, value string) error {
	if !isPrintableASCII(value) {
		return fmt.Errorf("date %q is not printable ASCII", value)
	}
	a.dict[field.Key()] = types.StringLiteral(value)
	return nil
}

// lookup returns the resolved value of key.
func (a *Annotation) lookup(key string) (types.Object, bool) {
	obj, ok := a.dict.Find(key)
	if !ok || obj == nil {
		return nil, false
	}
	resolved, err := a.resolve(obj)
	if err != nil || resolved == nil {
		return nil, false
	}
	return resolved, true
}

var _ model.Annotation = (*Annotation)(nil)
