package config

import "fmt"

// Flag names that a profile can supply. Flags given explicitly on the
// command line always win over profile values.
const (
	FlagAuthors            = "authors"
	FlagRedactAuthorName   = "redact-author-name"
	FlagRedactedAuthorName = "redacted-author-name"
	FlagPrecision          = "precision"
	FlagSkipMalformedDates = "skip-malformed-dates"
	FlagBatch              = "batch"
	FlagNoHistory          = "no-history"
)

// Profile holds redaction settings from the configuration file.
// Pointer fields distinguish "not set" from an explicit false.
type Profile struct {
	// Authors is the author filter.
	Authors []string `yaml:"authors,omitempty"`

	// RedactAuthorName replaces author names.
	RedactAuthorName *bool `yaml:"redactAuthorName,omitempty"`

	// RedactedAuthorName is the replacement name.
	RedactedAuthorName string `yaml:"redactedAuthorName,omitempty"`

	// Precision is the date precision name.
	Precision string `yaml:"precision,omitempty"`

	// SkipMalformedDates leaves unparseable dates untouched.
	SkipMalformedDates *bool `yaml:"skipMalformedDates,omitempty"`

	// BatchSize is the batch concurrency.
	BatchSize int `yaml:"batchSize,omitempty"`

	// NoHistory disables the history database.
	NoHistory *bool `yaml:"noHistory,omitempty"`
}

// File represents the structure of the .slashannots configuration file.
type File struct {
	// Defaults apply to every run.
	Defaults Profile `yaml:"defaults,omitempty"`

	// Profiles are named overlays on top of Defaults, selected with --profile.
	Profiles map[string]Profile `yaml:"profiles,omitempty"`
}

// Profile returns Defaults overlaid by the named profile.
// An empty name returns Defaults alone.
func (cf *File) Profile(name string) (Profile, error) {
	result := cf.Defaults
	if name == "" {
		return result, nil
	}

	p, ok := cf.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w %q", ErrUnknownProfile, name)
	}

	if len(p.Authors) > 0 {
		result.Authors = p.Authors
	}
	if p.RedactAuthorName != nil {
		result.RedactAuthorName = p.RedactAuthorName
	}
	if p.RedactedAuthorName != "" {
		result.RedactedAuthorName = p.RedactedAuthorName
	}
	if p.Precision != "" {
		result.Precision = p.Precision
	}
	if p.SkipMalformedDates != nil {
		result.SkipMalformedDates = p.SkipMalformedDates
	}
	if p.BatchSize != 0 {
		result.BatchSize = p.BatchSize
	}
	if p.NoHistory != nil {
		result.NoHistory = p.NoHistory
	}

	return result, nil
}

// ApplyProfile copies profile values into c for every setting whose flag
// was not given explicitly. changed reports whether a flag was set on the
// command line; a nil changed treats every flag as unset.
func (c *Config) ApplyProfile(p Profile, changed func(flag string) bool) {
	if changed == nil {
		changed = func(string) bool { return false }
	}

	if len(p.Authors) > 0 && !changed(FlagAuthors) {
		c.Authors = p.Authors
	}
	if p.RedactAuthorName != nil && !changed(FlagRedactAuthorName) {
		c.RedactAuthorName = *p.RedactAuthorName
	}
	if p.RedactedAuthorName != "" && !changed(FlagRedactedAuthorName) {
		c.RedactedAuthorName = p.RedactedAuthorName
	}
	if p.Precision != "" && !changed(FlagPrecision) {
		c.Precision = p.Precision
	}
	if p.SkipMalformedDates != nil && !changed(FlagSkipMalformedDates) {
		c.SkipMalformedDates = *p.SkipMalformedDates
	}
	if p.BatchSize != 0 && !changed(FlagBatch) {
		c.BatchSize = p.BatchSize
	}
	if p.NoHistory != nil && !changed(FlagNoHistory) {
		c.SaveToDB = !*p.NoHistory
	}
}
