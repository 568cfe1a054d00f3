package config

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/nao1215/slashannots/internal/model"
)

// Default configuration values.
const (
	// DefaultPrecision keeps no date component: every date becomes 1970-01-01T00:00:00.
	DefaultPrecision = "none"

	// DefaultBatchSize is the number of documents redacted concurrently by the batch command.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "slashannots"
)

// Config holds all configuration options for one invocation.
// It is populated from CLI flags, optionally overlaid by a profile from the
// configuration file, and validated once before any document is opened.
type Config struct {
	// Inputs are the documents to redact.
	Inputs []string

	// OutputPath is the destination of a single-document run.
	// When empty, the output is written next to the input as "<stem>.redacted.pdf".
	OutputPath string

	// Authors is the author filter. Empty means every author is targeted.
	Authors []string

	// RedactAuthorName replaces the author of every targeted annotation.
	RedactAuthorName bool

	// RedactedAuthorName is the replacement author name.
	RedactedAuthorName string

	// Precision is the name of the finest date component to keep, matched
	// case-insensitively.
	Precision string

	// SkipMalformedDates leaves unparseable dates untouched instead of
	// failing the run.
	SkipMalformedDates bool

	// Verbose enables debug logging and detailed text reports.
	Verbose bool

	// BatchSize is the number of documents processed concurrently.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, .slashannots is searched in the current directory and then
	// in the user's home directory.
	ConfigFilePath string

	// Profile names the configuration file profile to apply.
	Profile string

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is an additional file that receives the report.
	ReportFile string

	// DBDir is the directory of the history database.
	// Defaults to the XDG data directory (~/.local/share/slashannots on Linux).
	DBDir string

	// SaveToDB records every run in the history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		RedactedAuthorName: model.DefaultRedactedAuthor,
		Precision:          DefaultPrecision,
		BatchSize:          DefaultBatchSize,
		DBDir:              XDGDataDir(),
		SaveToDB:           true,
	}
}

// XDGDataDir returns the XDG data directory for slashannots.
// On Linux: ~/.local/share/slashannots
// On macOS: ~/Library/Application Support/slashannots
// On Windows: %LOCALAPPDATA%\slashannots
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for slashannots.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DatePrecision returns the parsed precision.
func (c *Config) DatePrecision() (model.DatePrecision, error) {
	p, err := model.ParsePrecision(c.Precision)
	if err != nil {
		return model.PrecisionNone, fmt.Errorf("%w %q: must be one of %v", ErrInvalidPrecision, c.Precision, model.PrecisionNames())
	}
	return p, nil
}

// Policy builds the redaction policy described by the configuration.
func (c *Config) Policy() (*model.RedactionPolicy, error) {
	p, err := c.DatePrecision()
	if err != nil {
		return nil, err
	}
	return model.NewRedactionPolicy(c.Authors, c.RedactAuthorName, c.RedactedAuthorName, p), nil
}

// Validate checks if the configuration is valid and returns the first
// problem found. It is called once after flag parsing, before any document
// is touched.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}

	if _, err := c.DatePrecision(); err != nil {
		return err
	}

	if c.RedactAuthorName && c.RedactedAuthorName == "" {
		return ErrEmptyRedactedName
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.OutputPath != "" {
		for _, in := range c.Inputs {
			if samePath(in, c.OutputPath) {
				return ErrOutputIsInput
			}
		}
	}

	return nil
}

// samePath reports whether a and b name the same file location.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
