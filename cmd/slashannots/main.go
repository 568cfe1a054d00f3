// Package main provides the entry point for the slashannots CLI.
//
// slashannots removes author names and timestamps from the annotations of
// PDF documents. Annotations can be targeted by author, author names can be
// replaced, and dates are truncated to a chosen precision.
//
// Usage:
//
//	slashannots redact paper.pdf
//	slashannots redact -r -a alice -p day paper.pdf clean.pdf
//	slashannots batch *.pdf
//
// See --help for all available options.
package main

func main() {
	Execute()
}
