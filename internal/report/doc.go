// Package report writes redaction results in human-readable text, JSON and
// Markdown form.
//
// All writers implement Writer, so the CLI can pick one by flag and fan out
// to several destinations with MultiWriter (for example the terminal and a
// --report file).
package report
