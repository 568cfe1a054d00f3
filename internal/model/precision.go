package model

import (
	"errors"
	"fmt"

	"golang.org/x/text/cases"
)

// ErrUnknownPrecision is returned when a precision name is not one of the
// eight known levels.
var ErrUnknownPrecision = errors.New("unknown date precision")

// DatePrecision is the finest time unit kept when a timestamp is truncated.
// Levels are ordered from coarsest to finest; everything finer than the
// chosen level is reset.
//
// The levels are only ever compared, never used for arithmetic. Use Less
// rather than comparing the underlying integers.
type DatePrecision int

const (
	// PrecisionNone resets every component, leaving 1970-01-01T00:00:00.
	PrecisionNone DatePrecision = iota
	// PrecisionYear keeps the year.
	PrecisionYear
	// PrecisionMonth keeps year and month.
	PrecisionMonth
	// PrecisionDay keeps the calendar date.
	PrecisionDay
	// PrecisionHour keeps the date and the hour.
	PrecisionHour
	// PrecisionMinute keeps everything down to the minute.
	PrecisionMinute
	// PrecisionSecond keeps everything down to the second.
	PrecisionSecond
	// PrecisionMicro keeps the full timestamp.
	PrecisionMicro
)

// DefaultPrecision is used when no precision is configured.
const DefaultPrecision = PrecisionNone

var precisionNames = [...]string{
	PrecisionNone:   "none",
	PrecisionYear:   "year",
	PrecisionMonth:  "month",
	PrecisionDay:    "day",
	PrecisionHour:   "hour",
	PrecisionMinute: "minute",
	PrecisionSecond: "second",
	PrecisionMicro:  "micro",
}

// foldCaser folds precision names for case-insensitive lookup.
var foldCaser = cases.Fold()

// Precisions returns all precision levels from coarsest to finest.
func Precisions() []DatePrecision {
	return []DatePrecision{
		PrecisionNone,
		PrecisionYear,
		PrecisionMonth,
		PrecisionDay,
		PrecisionHour,
		PrecisionMinute,
		PrecisionSecond,
		PrecisionMicro,
	}
}

// PrecisionNames returns the names of all levels, coarsest first.
func PrecisionNames() []string {
	names := make([]string, len(precisionNames))
	copy(names, precisionNames[:])
	return names
}

// ParsePrecision looks up a precision level by name, ignoring case.
func ParsePrecision(name string) (DatePrecision, error) {
	folded := foldCaser.String(name)
	for i, n := range precisionNames {
		if n == folded {
			return DatePrecision(i), nil
		}
	}
	return PrecisionNone, fmt.Errorf("%w: %q (valid: none, year, month, day, hour, minute, second, micro)",
		ErrUnknownPrecision, name)
}

// IsValid reports whether p is one of the defined levels.
func (p DatePrecision) IsValid() bool {
	return p >= PrecisionNone && p <= PrecisionMicro
}

// Less reports whether p is strictly coarser than other.
func (p DatePrecision) Less(other DatePrecision) bool {
	return p < other
}

// String returns the lower-case level name.
func (p DatePrecision) String() string {
	if !p.IsValid() {
		return fmt.Sprintf("DatePrecision(%d)", int(p))
	}
	return precisionNames[p]
}

// MarshalText encodes the precision as its name.
func (p DatePrecision) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPrecision, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a precision name, ignoring case.
func (p *DatePrecision) UnmarshalText(text []byte) error {
	parsed, err := ParsePrecision(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
