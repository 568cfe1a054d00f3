package model

import (
	"errors"
	"testing"
)

// TestParsePrecision tests case-insensitive precision lookup.
func TestParsePrecision(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  DatePrecision
	}{
		{name: "lower case none", input: "none", want: PrecisionNone},
		{name: "upper case NONE", input: "NONE", want: PrecisionNone},
		{name: "mixed case Day", input: "Day", want: PrecisionDay},
		{name: "year", input: "year", want: PrecisionYear},
		{name: "month", input: "MONTH", want: PrecisionMonth},
		{name: "hour", input: "hour", want: PrecisionHour},
		{name: "minute", input: "Minute", want: PrecisionMinute},
		{name: "second", input: "second", want: PrecisionSecond},
		{name: "micro", input: "MiCrO", want: PrecisionMicro},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParsePrecision(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParsePrecision(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	t.Run("unknown name is rejected", func(t *testing.T) {
		t.Parallel()

		for _, input := range []string{"", "days", "millisecond", "7"} {
			_, err := ParsePrecision(input)
			if !errors.Is(err, ErrUnknownPrecision) {
				t.Errorf("ParsePrecision(%q) error = %v, want ErrUnknownPrecision", input, err)
			}
		}
	})
}

// TestDatePrecisionOrder tests that levels form a strict total order.
func TestDatePrecisionOrder(t *testing.T) {
	t.Parallel()

	levels := Precisions()
	if len(levels) != 8 {
		t.Fatalf("expected 8 levels, got %d", len(levels))
	}

	for i := range levels {
		for j := range levels {
			got := levels[i].Less(levels[j])
			want := i < j
			if got != want {
				t.Errorf("%v.Less(%v) = %v, want %v", levels[i], levels[j], got, want)
			}
		}
	}
}

// TestDatePrecisionString tests name round-trips.
func TestDatePrecisionString(t *testing.T) {
	t.Parallel()

	t.Run("names round-trip through ParsePrecision", func(t *testing.T) {
		t.Parallel()

		for _, p := range Precisions() {
			got, err := ParsePrecision(p.String())
			if err != nil {
				t.Fatalf("ParsePrecision(%q): %v", p.String(), err)
			}
			if got != p {
				t.Errorf("round-trip of %v gave %v", p, got)
			}
		}
	})

	t.Run("invalid level has a diagnostic name", func(t *testing.T) {
		t.Parallel()

		p := DatePrecision(42)
		if p.IsValid() {
			t.Error("expected level 42 to be invalid")
		}
		if p.String() != "DatePrecision(42)" {
			t.Errorf("unexpected string %q", p.String())
		}
		if _, err := p.MarshalText(); !errors.Is(err, ErrUnknownPrecision) {
			t.Errorf("expected ErrUnknownPrecision, got %v", err)
		}
	})

	t.Run("UnmarshalText accepts any case", func(t *testing.T) {
		t.Parallel()

		var p DatePrecision
		if err := p.UnmarshalText([]byte("HOUR")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p != PrecisionHour {
			t.Errorf("expected hour, got %v", p)
		}
	})

	t.Run("PrecisionNames is a copy", func(t *testing.T) {
		t.Parallel()

		names := PrecisionNames()
		names[0] = "changed"
		if PrecisionNone.String() != "none" {
			t.Error("modifying PrecisionNames result changed the level names")
		}
	})
}
