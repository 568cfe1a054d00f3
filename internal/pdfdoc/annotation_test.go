package pdfdoc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/nao1215/slashannots/internal/model"
	"github.com/nao1215/slashannots/internal/pdfdate"
	"github.com/nao1215/slashannots/internal/redact"
)

func TestAnnotationEntries(t *testing.T) {
	t.Parallel()

	t.Run("reads subtype author and dates", func(t *testing.T) {
		t.Parallel()

		annot := newAnnotation(types.Dict{
			"Type":         types.Name("Annot"),
			"Subtype":      types.Name("Text"),
			"T":            types.StringLiteral("alice"),
			"CreationDate": types.StringLiteral("D:20230615123456+02'00'"),
		}, nil)

		if got := annot.Subtype(); got != "Text" {
			t.Errorf("expected subtype Text, got %q", got)
		}
		if author, ok := annot.Author(); !ok || author != "alice" {
			t.Errorf("expected author alice, got %q (%v)", author, ok)
		}
		if date, ok, _ := annot.Date(model.CreationDate); !ok || date != "D:20230615123456+02'00'" {
			t.Errorf("unexpected creation date %q (%v)", date, ok)
		}
		if _, ok, _ := annot.Date(model.ModificationDate); ok {
			t.Error("expected no modification date")
		}
	})

	t.Run("missing author", func(t *testing.T) {
		t.Parallel()

		annot := newAnnotation(types.Dict{"Subtype": types.Name("Highlight")}, nil)
		if _, ok := annot.Author(); ok {
			t.Error("expected no author")
		}
	})

	t.Run("empty author is present", func(t *testing.T) {
		t.Parallel()

		annot := newAnnotation(types.Dict{"T": types.StringLiteral("")}, nil)
		if author, ok := annot.Author(); !ok || author != "" {
			t.Errorf("expected empty author, got %q (%v)", author, ok)
		}
	})

	t.Run("indirect values are resolved", func(t *testing.T) {
		t.Parallel()

		ref := *types.NewIndirectRef(7, 0)
		objects := map[int]types.Object{7: types.StringLiteral("bob")}
		resolve := func(o types.Object) (types.Object, error) {
			if r, ok := o.(types.IndirectRef); ok {
				obj, found := objects[r.ObjectNumber.Value()]
				if !found {
					return nil, errors.New("dangling reference")
				}
				return obj, nil
			}
			return o, nil
		}

		annot := newAnnotation(types.Dict{"T": ref}, resolve)
		if author, ok := annot.Author(); !ok || author != "bob" {
			t.Errorf("expected author bob, got %q (%v)", author, ok)
		}
	})

	t.Run("setters write literals", func(t *testing.T) {
		t.Parallel()

		dict := types.Dict{"Subtype": types.Name("Text"), "T": types.StringLiteral("alice")}
		annot := newAnnotation(dict, nil)

		if err := annot.SetAuthor("unknown"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := annot.SetDate(model.ModificationDate, "D:20230615000000+0000"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got, ok := dict["T"].(types.StringLiteral); !ok || got.Value() != "unknown" {
			t.Errorf("unexpected /T %v", dict["T"])
		}
		if got, ok := dict["M"].(types.StringLiteral); !ok || got.Value() != "D:20230615000000+0000" {
			t.Errorf("unexpected /M %v", dict["M"])
		}
	})

	t.Run("rejects non ascii date", func(t *testing.T) {
		t.Parallel()

		annot := newAnnotation(types.Dict{}, nil)
		if err := annot.SetDate(model.CreationDate, "D:2023é"); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestAnnotationInvalidEntries(t *testing.T) {
	t.Parallel()

	t.Run("non string author is present", func(t *testing.T) {
		t.Parallel()

		annot := newAnnotation(types.Dict{"T": types.Integer(42)}, nil)
		if author, ok := annot.Author(); !ok || author != "42" {
			t.Errorf("expected raw author 42, got %q (%v)", author, ok)
		}
	})

	t.Run("name author is tolerated", func(t *testing.T) {
		t.Parallel()

		annot := newAnnotation(types.Dict{"T": types.Name("alice")}, nil)
		if author, ok := annot.Author(); !ok || author != "alice" {
			t.Errorf("expected author alice, got %q (%v)", author, ok)
		}
	})

	t.Run("unresolvable author is present", func(t *testing.T) {
		t.Parallel()

		resolve := func(types.Object) (types.Object, error) { return nil, errors.New("dangling reference") }
		annot := newAnnotation(types.Dict{"T": *types.NewIndirectRef(9, 0)}, resolve)
		if _, ok := annot.Author(); !ok {
			t.Error("expected an author")
		}
	})

	t.Run("non string date is an error", func(t *testing.T) {
		t.Parallel()

		annot := newAnnotation(types.Dict{"CreationDate": types.Integer(20230615)}, nil)
		raw, ok, err := annot.Date(model.CreationDate)
		if !ok || err == nil {
			t.Fatalf("expected a present date with an error, got ok=%v err=%v", ok, err)
		}
		if raw != "20230615" {
			t.Errorf("expected raw value 20230615, got %q", raw)
		}
	})

	t.Run("name date is an error", func(t *testing.T) {
		t.Parallel()

		annot := newAnnotation(types.Dict{"M": types.Name("D:20230615")}, nil)
		if _, _, err := annot.Date(model.ModificationDate); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("unresolvable date is an error", func(t *testing.T) {
		t.Parallel()

		resolve := func(types.Object) (types.Object, error) { return nil, errors.New("dangling reference") }
		annot := newAnnotation(types.Dict{"M": *types.NewIndirectRef(9, 0)}, resolve)
		if _, ok, err := annot.Date(model.ModificationDate); !ok || err == nil {
			t.Errorf("expected a present date with an error, got ok=%v err=%v", ok, err)
		}
	})
}

// singlePage is a one-page model.Document over pdfcpu annotations.
type singlePage []model.Annotation

func (p singlePage) PageCount() int { return 1 }

func (p singlePage) Annotations(int) ([]model.Annotation, error) { return p, nil }

func TestRedactInvalidEntries(t *testing.T) {
	t.Parallel()

	newDict := func() types.Dict {
		return types.Dict{
			"Subtype":      types.Name("Text"),
			"T":            types.Integer(42),
			"CreationDate": types.Integer(20230615),
			"M":            types.StringLiteral("D:20230615120000+00'00'"),
		}
	}
	policy := model.NewRedactionPolicy(nil, true, "unknown", model.PrecisionNone)

	t.Run("malformed date aborts the run", func(t *testing.T) {
		t.Parallel()

		dict := newDict()
		engine := redact.New(redact.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
		stats, err := engine.Redact(context.Background(), singlePage{newAnnotation(dict, nil)}, policy)

		var malformed *redact.MalformedDateError
		if !errors.As(err, &malformed) {
			t.Fatalf("expected a MalformedDateError, got %v", err)
		}
		if !errors.Is(err, pdfdate.ErrMalformedDate) {
			t.Error("expected the error to wrap ErrMalformedDate")
		}
		if malformed.Field != model.CreationDate || malformed.Value != "20230615" {
			t.Errorf("unexpected error details %+v", malformed)
		}
		if got := stats.Get("42").Seen; got != 1 {
			t.Errorf("expected the annotation counted under 42, got %d", got)
		}
		if got := stats.Get(model.NoAuthor).Seen; got != 0 {
			t.Errorf("expected nothing counted without author, got %d", got)
		}
		if got, ok := dict["T"].(types.StringLiteral); !ok || got.Value() != "unknown" {
			t.Errorf("expected /T replaced, got %v", dict["T"])
		}
	})

	t.Run("skip mode leaves malformed date", func(t *testing.T) {
		t.Parallel()

		dict := newDict()
		engine := redact.New(
			redact.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
			redact.WithSkipMalformedDates(true),
		)
		if _, err := engine.Redact(context.Background(), singlePage{newAnnotation(dict, nil)}, policy); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got, ok := dict["CreationDate"].(types.Integer); !ok || got.Value() != 20230615 {
			t.Errorf("expected /CreationDate untouched, got %v", dict["CreationDate"])
		}
		if got, ok := dict["T"].(types.StringLiteral); !ok || got.Value() != "unknown" {
			t.Errorf("expected /T replaced, got %v", dict["T"])
		}
	})
}

func TestTextRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantHex bool
	}{
		{name: "plain ascii", input: "unknown"},
		{name: "parentheses are escaped", input: "a (b) c\\d", wantHex: false},
		{name: "accented name", input: "Zoë Müller", wantHex: true},
		{name: "cjk name", input: "山田太郎", wantHex: true},
		{name: "empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			obj, err := encodeText(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, isHex := obj.(types.HexLiteral); isHex != tt.wantHex {
				t.Errorf("expected hex=%v, got %T", tt.wantHex, obj)
			}

			got, err := decodeText(obj)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.input {
				t.Errorf("expected %q, got %q", tt.input, got)
			}
		})
	}
}

func TestDecodeTextRejectsNonStrings(t *testing.T) {
	t.Parallel()

	if _, err := decodeText(types.Integer(3)); err == nil {
		t.Error("expected an error for an integer")
	}
	if _, err := decodeText(types.Name("alice")); err == nil {
		t.Error("expected an error for a name")
	}
}
