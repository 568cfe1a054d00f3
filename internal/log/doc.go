// Package log provides secure logging on top of the standard slog package.
//
// A redaction tool must not leak the identities it removes, so the
// SecureHandler masks annotation author names and e-mail addresses, along
// with the usual secrets such as PDF passwords, before a record reaches the
// underlying handler.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("redacting annotation",
//	    "author", "alice",             // logged as ***REDACTED***
//	    "input", "/home/me/paper.pdf", // logged as is
//	)
//	slog.SetDefault(logger)
package log
