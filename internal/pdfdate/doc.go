// Package pdfdate parses, formats and truncates PDF date strings.
//
// Annotation timestamps use the textual form D:YYYYMMDDHHmmSS followed by a
// UTC offset. Writers commonly quote the offset minutes (+02'00'); the
// apostrophes are dropped on input and never written back, so every value
// this package produces has the canonical form D:YYYYMMDDHHmmSS+HHMM.
package pdfdate
