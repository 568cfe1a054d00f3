// Package redact implements the annotation redaction engine.
//
// The Engine walks every annotation of a model.Document once, in page order
// and then annotation order, and applies a model.RedactionPolicy:
//
//   - Link annotations are skipped entirely.
//   - An annotation with an author is counted as seen. Under an author
//     filter, annotations of authors outside the filter are left alone.
//     Otherwise the author may be replaced by the configured name.
//   - An annotation without an author is only processed in clear-all mode,
//     since under a filter there is no way to tell whose it is. Its stats
//     are recorded under model.NoAuthor.
//   - Present creation and modification dates of processed annotations are
//     truncated to the policy precision.
//
// A date that cannot be parsed aborts the run with a *MalformedDateError.
// Changes already made to earlier annotations stay in place.
package redact
