package redact

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/slashannots/internal/model"
	"github.com/nao1215/slashannots/internal/pdfdate"
)

// Engine applies a redaction policy to the annotations of a document.
// An Engine holds no per-run state and may be shared between goroutines
// as long as each goroutine works on its own document.
type Engine struct {
	// logger receives per-annotation debug output.
	logger *slog.Logger

	// skipMalformedDates turns an unparseable date from a fatal error into
	// a warning; the field is then left as it is.
	skipMalformedDates bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used by the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSkipMalformedDates makes the engine leave unparseable dates untouched
// and continue instead of aborting the run.
func WithSkipMalformedDates(skip bool) Option {
	return func(e *Engine) {
		e.skipMalformedDates = skip
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// location identifies an annotation inside the document for error reports.
type location struct {
	page  int
	index int
}

// Redact applies policy to every annotation of doc and returns the tally.
// On error the returned stats hold everything counted up to the failure,
// and mutations of earlier annotations are not rolled back.
func (e *Engine) Redact(ctx context.Context, doc model.Document, policy *model.RedactionPolicy) (*model.AnnotationStats, error) {
	stats := model.NewAnnotationStats()
	if err := e.RedactInto(ctx, doc, policy, stats); err != nil {
		return stats, err
	}
	return stats, nil
}

// RedactInto is like Redact but records into an existing tally.
func (e *Engine) RedactInto(ctx context.Context, doc model.Document, policy *model.RedactionPolicy, stats *model.AnnotationStats) error {
	pages := doc.PageCount()
	e.logger.Debug("redacting document",
		"pages", pages,
		"clear_all", policy.IsClearAll(),
		"redact_author", policy.RedactAuthor,
		"precision", policy.Precision.String(),
	)

	for pageNr := 1; pageNr <= pages; pageNr++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		annots, err := doc.Annotations(pageNr)
		if err != nil {
			return fmt.Errorf("failed to read annotations of page %d: %w", pageNr, err)
		}

		for i, annot := range annots {
			if err := e.redactAnnotation(annot, policy, stats, location{page: pageNr, index: i}); err != nil {
				return err
			}
		}
	}

	return nil
}

// redactAnnotation applies the policy to a single annotation.
func (e *Engine) redactAnnotation(annot model.Annotation, policy *model.RedactionPolicy, stats *model.AnnotationStats, loc location) error {
	subtype := annot.Subtype()
	if subtype == model.SubtypeLink {
		return nil
	}

	author, hasAuthor := annot.Author()
	if hasAuthor {
		stats.Increment(model.CounterSeen, author)
		if !policy.Includes(author) {
			// Everything of an author outside the filter is protected, not just the name.
			return nil
		}
		if policy.RedactAuthor {
			if err := annot.SetAuthor(policy.RedactedAuthorName); err != nil {
				return fmt.Errorf("page %d, annotation %d: failed to replace author: %w", loc.page, loc.index, err)
			}
			stats.Increment(model.CounterNamesRedacted, author)
		}
	} else {
		e.logger.Debug("annotation has no author", "page", loc.page, "index", loc.index, "subtype", subtype)
		if !policy.IsClearAll() {
			return nil
		}
		author = model.NoAuthor
		stats.Increment(model.CounterSeen, author)
	}

	for _, field := range model.DateFields {
		if err := e.redactDate(annot, field, policy.Precision, author, stats, loc); err != nil {
			return err
		}
	}

	return nil
}

// redactDate truncates one date field if it is present.
func (e *Engine) redactDate(annot model.Annotation, field model.DateField, precision model.DatePrecision, author string, stats *model.AnnotationStats, loc location) error {
	raw, ok, err := annot.Date(field)
	if !ok {
		e.logger.Debug("annotation has no "+field.String(), "page", loc.page, "index", loc.index)
		return nil
	}

	var redacted string
	if err != nil {
		err = fmt.Errorf("%w: %v", pdfdate.ErrMalformedDate, err)
	} else {
		redacted, err = pdfdate.Redact(raw, precision)
	}
	if err != nil {
		malformed := &MalformedDateError{
			Page:    loc.page,
			Index:   loc.index,
			Subtype: annot.Subtype(),
			Field:   field,
			Value:   raw,
			Err:     err,
		}
		if e.skipMalformedDates {
			e.logger.Warn("leaving malformed date untouched", "error", malformed.Error())
			return nil
		}
		return malformed
	}

	if err := annot.SetDate(field, redacted); err != nil {
		return fmt.Errorf("page %d, annotation %d: failed to write %s: %w", loc.page, loc.index, field, err)
	}
	stats.Increment(model.DateCounter(field), author)

	return nil
}
