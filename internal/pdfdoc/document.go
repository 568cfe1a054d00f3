package pdfdoc

import (
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/nao1215/slashannots/internal/model"
)

// Document is a parsed PDF whose annotations can be read and rewritten.
type Document struct {
	ctx *pdfmodel.Context
}

// NewConfiguration returns the pdfcpu configuration used for reading.
func NewConfiguration() *pdfmodel.Configuration {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	return conf
}

// Read parses a PDF document from rs.
func Read(rs io.ReadSeeker) (*Document, error) {
	ctx, err := api.ReadContext(rs, NewConfiguration())
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to validate PDF: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}
	return &Document{ctx: ctx}, nil
}

// PageCount implements model.Document.
func (d *Document) PageCount() int {
	return d.ctx.PageCount
}

// Annotations implements model.Document. Entries of /Annots that are not
// dictionaries are skipped.
func (d *Document) Annotations(pageNr int) ([]model.Annotation, error) {
	if pageNr < 1 || pageNr > d.ctx.PageCount {
		return nil, fmt.Errorf("page %d out of range [1, %d]", pageNr, d.ctx.PageCount)
	}

	pageDict, _, _, err := d.ctx.PageDict(pageNr, false)
	if err != nil {
		return nil, err
	}
	if pageDict == nil {
		return nil, nil
	}

	obj, found := pageDict.Find("Annots")
	if !found || obj == nil {
		return nil, nil
	}
	arr, err := d.ctx.DereferenceArray(obj)
	if err != nil {
		return nil, fmt.Errorf("invalid /Annots: %w", err)
	}

	annots := make([]model.Annotation, 0, len(arr))
	for i, o := range arr {
		obj, err := d.ctx.Dereference(o)
		if err != nil {
			return nil, fmt.Errorf("invalid annotation %d: %w", i, err)
		}
		dict, ok := obj.(types.Dict)
		if !ok {
			continue
		}
		annots = append(annots, newAnnotation(dict, d.ctx.Dereference))
	}
	return annots, nil
}

// Encode writes the document, including every annotation change, to w.
func (d *Document) Encode(w io.Writer) error {
	if err := api.WriteContext(d.ctx, w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// Codec decodes PDF files for the redaction pipeline.
type Codec struct{}

// Decode parses rs.
func (Codec) Decode(rs io.ReadSeeker) (model.Container, error) {
	doc, err := Read(rs)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

var _ model.Container = (*Document)(nil)
