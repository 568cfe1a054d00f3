package pdfdate

import (
	"errors"
	"testing"
	"time"

	"github.com/nao1215/slashannots/internal/model"
)

// TestParse tests decoding of PDF dates.
func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("plain offset", func(t *testing.T) {
		t.Parallel()

		got, err := Parse("D:20230615123456+0000")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2023, 6, 15, 12, 34, 56, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("quoted offset", func(t *testing.T) {
		t.Parallel()

		got, err := Parse("D:20230615123456+02'00'")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, offset := got.Zone(); offset != 2*60*60 {
			t.Errorf("expected +02:00 offset, got %d seconds", offset)
		}
		if got.Hour() != 12 {
			t.Errorf("expected wall clock hour 12, got %d", got.Hour())
		}
	})

	t.Run("Z means UTC", func(t *testing.T) {
		t.Parallel()

		got, err := Parse("D:20230615123456Z")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, offset := got.Zone(); offset != 0 {
			t.Errorf("expected zero offset, got %d", offset)
		}
	})

	t.Run("malformed values", func(t *testing.T) {
		t.Parallel()

		inputs := []string{
			"",
			"20230615123456+0000",
			"D:2023",
			"D:20230615123456",
			"D:20231315123456+0000",
			"D:2023-06-15T12:34:56+00:00",
			"yesterday",
			"D:20230615120000.5+0000",
			"D:20230615120000,5+0000",
			"D:20230615120000.123Z",
			" D:20230615120000+0000",
			"D:20230615120000+0000 ",
		}
		for _, in := range inputs {
			if _, err := Parse(in); !errors.Is(err, ErrMalformedDate) {
				t.Errorf("Parse(%q) error = %v, want ErrMalformedDate", in, err)
			}
		}
	})
}

// TestFormat tests the canonical encoding.
func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "UTC is written as +0000",
			in:   time.Date(2023, 6, 15, 12, 34, 56, 0, time.UTC),
			want: "D:20230615123456+0000",
		},
		{
			name: "negative offset with minutes",
			in:   time.Date(2001, 2, 3, 4, 5, 6, 0, time.FixedZone("", -(5*3600+30*60))),
			want: "D:20010203040506-0530",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Format(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// TestRedact tests truncation at every precision level.
func TestRedact(t *testing.T) {
	t.Parallel()

	const raw = "D:20230615123456+02'00'"

	tests := []struct {
		precision model.DatePrecision
		want      string
	}{
		{model.PrecisionNone, "D:19700101000000+0200"},
		{model.PrecisionYear, "D:20230101000000+0200"},
		{model.PrecisionMonth, "D:20230601000000+0200"},
		{model.PrecisionDay, "D:20230615000000+0200"},
		{model.PrecisionHour, "D:20230615120000+0200"},
		{model.PrecisionMinute, "D:20230615123400+0200"},
		{model.PrecisionSecond, "D:20230615123456+0200"},
		{model.PrecisionMicro, "D:20230615123456+0200"},
	}

	for _, tt := range tests {
		t.Run(tt.precision.String(), func(t *testing.T) {
			t.Parallel()

			got, err := Redact(raw, tt.precision)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Redact(%q, %v) = %q, want %q", raw, tt.precision, got, tt.want)
			}
		})
	}

	t.Run("malformed input is an error", func(t *testing.T) {
		t.Parallel()

		if _, err := Redact("D:garbage", model.PrecisionDay); !errors.Is(err, ErrMalformedDate) {
			t.Errorf("expected ErrMalformedDate, got %v", err)
		}
	})
}

// TestTruncateProperties tests idempotence and precedence of truncation.
func TestTruncateProperties(t *testing.T) {
	t.Parallel()

	samples := []time.Time{
		time.Date(2023, 6, 15, 12, 34, 56, 789000, time.FixedZone("", 2*3600)),
		time.Date(1999, 12, 31, 23, 59, 59, 999999000, time.UTC),
		time.Date(2024, 2, 29, 1, 2, 3, 0, time.FixedZone("", -8*3600)),
	}

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		for _, s := range samples {
			for _, p := range model.Precisions() {
				once := Truncate(s, p)
				twice := Truncate(once, p)
				if !once.Equal(twice) || Format(once) != Format(twice) {
					t.Errorf("truncating %v at %v twice: %v != %v", s, p, twice, once)
				}
			}
		}
	})

	t.Run("coarser pass first wins", func(t *testing.T) {
		t.Parallel()

		for _, s := range samples {
			for _, p1 := range model.Precisions() {
				for _, p2 := range model.Precisions() {
					if !p1.Less(p2) {
						continue
					}
					direct := Truncate(s, p1)
					chained := Truncate(Truncate(s, p1), p2)
					if !direct.Equal(chained) {
						t.Errorf("%v: %v then %v gave %v, want %v", s, p1, p2, chained, direct)
					}
				}
			}
		}
	})

	t.Run("micro keeps the value", func(t *testing.T) {
		t.Parallel()

		for _, s := range samples {
			if got := Truncate(s, model.PrecisionMicro); !got.Equal(s) {
				t.Errorf("micro changed %v to %v", s, got)
			}
		}
	})

	t.Run("offset survives daylight saving boundaries", func(t *testing.T) {
		t.Parallel()

		berlin, err := time.LoadLocation("Europe/Berlin")
		if err != nil {
			t.Skipf("time zone database unavailable: %v", err)
		}
		summer := time.Date(2023, 7, 15, 12, 0, 0, 0, berlin)
		got := Format(Truncate(summer, model.PrecisionNone))
		if got != "D:19700101000000+0200" {
			t.Errorf("got %q, want summer offset kept", got)
		}
	})
}
