package pdfdate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nao1215/slashannots/internal/model"
)

// ErrMalformedDate is returned when a value does not match the PDF date format.
var ErrMalformedDate = errors.New("malformed PDF date")

const (
	// parseLayout accepts both "Z" and a numeric offset.
	parseLayout = "D:20060102150405Z0700"

	// formatLayout always writes a numeric offset, "+0000" for UTC.
	formatLayout = "D:20060102150405-0700"
)

// secondsEnd is the length of "D:YYYYMMDDHHmmSS".
const secondsEnd = len("D:20060102150405")

// Parse decodes a PDF date. All apostrophes are removed before parsing.
// Surrounding whitespace and fractional seconds are rejected.
func Parse(raw string) (time.Time, error) {
	cleaned := strings.ReplaceAll(raw, "'", "")
	if len(cleaned) > secondsEnd && strings.ContainsRune(".,", rune(cleaned[secondsEnd])) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, raw)
	}
	t, err := time.Parse(parseLayout, cleaned)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, raw)
	}
	return pinOffset(t), nil
}

// Format encodes t in the canonical unquoted PDF date form.
func Format(t time.Time) string {
	return t.Format(formatLayout)
}

// Truncate resets every component of t that is finer than p:
// microseconds, seconds, minutes and hours become zero, day and month
// become 1 and the year becomes 1970. The UTC offset is never changed.
func Truncate(t time.Time, p model.DatePrecision) time.Time {
	t = pinOffset(t)
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()
	nsec := t.Nanosecond()

	if p.Less(model.PrecisionMicro) {
		nsec = 0
	}
	if p.Less(model.PrecisionSecond) {
		sec = 0
	}
	if p.Less(model.PrecisionMinute) {
		minute = 0
	}
	if p.Less(model.PrecisionHour) {
		hour = 0
	}
	if p.Less(model.PrecisionDay) {
		day = 1
	}
	if p.Less(model.PrecisionMonth) {
		month = time.January
	}
	if p.Less(model.PrecisionYear) {
		year = 1970
	}

	return time.Date(year, month, day, hour, minute, sec, nsec, t.Location())
}

// Redact parses raw, truncates it to p and returns the canonical encoding.
func Redact(raw string, p model.DatePrecision) (string, error) {
	t, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return Format(Truncate(t, p)), nil
}

// pinOffset moves t into a fixed zone carrying its current offset.
// time.Parse may hand back time.Local when the offset happens to match it,
// and rebuilding a date in a DST-aware location could shift the offset.
func pinOffset(t time.Time) time.Time {
	name, offset := t.Zone()
	return t.In(time.FixedZone(name, offset))
}
