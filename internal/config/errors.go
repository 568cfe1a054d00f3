package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and File.Profile() so that
// callers can use errors.Is() while still showing a readable message.
var (
	// ErrNoInput is returned when no input document is specified.
	ErrNoInput = errors.New("no input specified: provide at least one PDF file")

	// ErrInvalidPrecision is returned for a precision name that is not one of
	// none, year, month, day, hour, minute, second or micro.
	ErrInvalidPrecision = errors.New("invalid precision")

	// ErrEmptyRedactedName is returned when author names are to be replaced
	// but the replacement name is empty.
	ErrEmptyRedactedName = errors.New("invalid redacted author name: must not be empty when --redact-author-name is set")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrOutputIsInput is returned when the output path names an input file.
	ErrOutputIsInput = errors.New("output path must differ from the input path")

	// ErrUnknownProfile is returned when a profile is requested that the
	// configuration file does not define.
	ErrUnknownProfile = errors.New("unknown profile")
)
