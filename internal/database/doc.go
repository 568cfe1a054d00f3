// Package database provides SQLite-based storage for the history of
// redaction runs.
//
// Every run, successful or not, is stored as one row holding the full
// report as JSON plus a few indexed columns (paths, digests, timestamp,
// totals) for listing without decoding the report.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because the
// history is a single local file and the CGO-free driver keeps the binary
// easy to cross-compile. The database lives in the XDG data directory.
package database
