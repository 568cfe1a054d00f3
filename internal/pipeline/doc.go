// Package pipeline runs redaction jobs: read the input file, redact its
// annotations, write the output file and record what happened.
//
// Each stage is a Step that receives the shared Run state. A Pipeline executes
// its steps in order and stops at the first failure, so a document whose
// redaction failed is never written. BatchProcessor runs one Pipeline per job
// with bounded concurrency using errgroup.
//
// Design decision: The document format is hidden behind Codec. The CLI
// plugs in the pdfcpu-backed codec from internal/pdfdoc; tests use the
// in-memory documents of internal/memdoc.
package pipeline
