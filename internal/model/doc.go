// Package model defines the core data structures used throughout slashannots.
//
// This package contains the following main types:
//   - Document, Annotation: The view of a PDF page tree the redaction engine works on
//   - DatePrecision: The ordered truncation levels for annotation timestamps
//   - RedactionPolicy: What to redact and how, fixed for one run
//   - AnnotationStats: Per-author tally of seen and redacted annotations
//   - RedactionReport: The result of one run, used by report writers and the database
//
// Models live in their own package so that the engine, the PDF adapter,
// the pipeline and the report writers can share them without import cycles.
package model
