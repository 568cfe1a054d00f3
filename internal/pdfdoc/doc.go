// Package pdfdoc reads and writes PDF documents through pdfcpu and exposes
// their page annotations as model.Annotation values.
//
// Only the annotation dictionaries are touched: /T, /CreationDate and /M are
// replaced in place and the rest of the object graph is written back as
// pdfcpu read it.
//
// Design decision: We rely on pdfcpu (github.com/pdfcpu/pdfcpu) for parsing
// and serialization instead of a hand-written object parser. Validation runs
// in relaxed mode so that documents produced by common viewers that deviate
// slightly from ISO 32000 can still be redacted.
package pdfdoc
