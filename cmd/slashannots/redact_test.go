package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/slashannots/internal/config"
	"github.com/nao1215/slashannots/internal/model"
	"github.com/nao1215/slashannots/internal/report"
)

// TestNewRedactCmd tests the redact command creation.
func TestNewRedactCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRedactCmd()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{config.FlagRedactAuthorName, "r", "false"},
		{config.FlagAuthors, "a", "[]"},
		{config.FlagRedactedAuthorName, "n", model.DefaultRedactedAuthor},
		{config.FlagPrecision, "p", config.DefaultPrecision},
		{config.FlagSkipMalformedDates, "", "false"},
		{config.FlagNoHistory, "", "false"},
		{"json", "j", "false"},
		{"markdown", "m", "false"},
		{"config", "c", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("expected shorthand %q, got %q", tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("expected default %q, got %q", tt.defValue, flag.DefValue)
			}
		})
	}

	t.Run("has no batch flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup(config.FlagBatch) != nil {
			t.Error("redact should not accept --batch")
		}
	})
}

// TestRunRedactCmd runs the redact command on a real PDF.
func TestRunRedactCmd(t *testing.T) {
	t.Parallel()

	t.Run("writes redacted copy and records history", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := fixture(t, dir, "paper.pdf")
		cfgPath := writeConfig(t, dir, "")
		dbDir := filepath.Join(dir, "db")

		stdout, err := execute(NewRedactCmd(),
			"-c", cfgPath, "--db-dir", dbDir, "-r", "-p", "day", "-j", input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := filepath.Join(dir, "paper.redacted.pdf")
		if !fileExists(output) {
			t.Fatal("expected redacted copy to be written")
		}

		var got report.JSONReport
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("invalid JSON report: %v\n%s", err, stdout)
		}
		if got.Report.OutputPath != output {
			t.Errorf("expected output %q, got %q", output, got.Report.OutputPath)
		}
		if got.Report.InputDigest == "" || got.Report.OutputDigest == "" {
			t.Error("expected both digests")
		}
		if got.Totals.Seen != 3 {
			t.Errorf("expected 3 annotations seen, got %d", got.Totals.Seen)
		}
		if got.Totals.NamesRedacted != 2 {
			t.Errorf("expected 2 names redacted, got %d", got.Totals.NamesRedacted)
		}
		if got.Totals.DatesRedacted() != 4 {
			t.Errorf("expected 4 dates redacted, got %d", got.Totals.DatesRedacted())
		}
		if alice := got.Report.Stats.Get("alice"); alice.NamesRedacted != 1 {
			t.Errorf("expected alice's name to be redacted once, got %+v", alice)
		}
		if got.Report.Stats.Has("carol") {
			t.Error("link annotations must not be counted")
		}

		history, err := execute(NewHistoryCmd(), "--db-dir", dbDir)
		if err != nil {
			t.Fatalf("history failed: %v", err)
		}
		if !strings.Contains(history, "Recent runs (1)") || !strings.Contains(history, input) {
			t.Errorf("expected run in history, got:\n%s", history)
		}

		stored, err := execute(NewHistoryCmd(), "--db-dir", dbDir, "--id", "1", "-j")
		if err != nil {
			t.Fatalf("history --id failed: %v", err)
		}
		if strings.Contains(stored, "alice") || strings.Contains(stored, "bob") {
			t.Errorf("history must not keep author names, got:\n%s", stored)
		}
	})

	t.Run("author filter and explicit output", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := fixture(t, dir, "paper.pdf")
		output := filepath.Join(dir, "clean.pdf")

		stdout, err := execute(NewRedactCmd(),
			"-c", writeConfig(t, dir, ""), "--no-history", "-r", "-a", "bob", "-j", input, output)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !fileExists(output) {
			t.Fatal("expected output to be written")
		}

		var got report.JSONReport
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("invalid JSON report: %v", err)
		}
		if got.Totals.NamesRedacted != 1 {
			t.Errorf("expected only bob's name to be redacted, got %d", got.Totals.NamesRedacted)
		}
		if alice := got.Report.Stats.Get("alice"); alice.Seen != 1 || alice.NamesRedacted != 0 || alice.DatesRedacted() != 0 {
			t.Errorf("alice should only be seen, got %+v", alice)
		}
	})

	t.Run("text report by default", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := fixture(t, dir, "paper.pdf")
		reportFile := filepath.Join(dir, "reports", "paper.md")

		stdout, err := execute(NewRedactCmd(),
			"-c", writeConfig(t, dir, ""), "--no-history", "--report", reportFile, input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "alice") {
			t.Errorf("expected per-author stats, got:\n%s", stdout)
		}

		saved, err := os.ReadFile(reportFile)
		if err != nil {
			t.Fatalf("expected report file: %v", err)
		}
		if string(saved) != stdout {
			t.Error("report file should match stdout")
		}
	})
}

// TestRunRedactCmd_Errors tests failures of the redact command.
func TestRunRedactCmd_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unknown precision touches nothing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := fixture(t, dir, "paper.pdf")
		dbDir := filepath.Join(dir, "db")

		_, err := execute(NewRedactCmd(),
			"-c", writeConfig(t, dir, ""), "--db-dir", dbDir, "-p", "fortnight", input)
		if !errors.Is(err, config.ErrInvalidPrecision) {
			t.Fatalf("expected ErrInvalidPrecision, got %v", err)
		}
		if !strings.HasPrefix(err.Error(), "configuration error") {
			t.Errorf("expected configuration error, got %v", err)
		}
		if fileExists(filepath.Join(dir, "paper.redacted.pdf")) {
			t.Error("no output should be written")
		}
		if fileExists(dbDir) {
			t.Error("database should not be created")
		}
	})

	t.Run("precision is case-insensitive", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := fixture(t, dir, "paper.pdf")

		if _, err := execute(NewRedactCmd(),
			"-c", writeConfig(t, dir, ""), "--no-history", "-p", "MiNuTe", input); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("output equal to input", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := fixture(t, dir, "paper.pdf")

		_, err := execute(NewRedactCmd(), "-c", writeConfig(t, dir, ""), "--no-history", input, input)
		if !errors.Is(err, config.ErrOutputIsInput) {
			t.Errorf("expected ErrOutputIsInput, got %v", err)
		}
	})

	t.Run("conflicting report formats", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := fixture(t, dir, "paper.pdf")

		_, err := execute(NewRedactCmd(), "-c", writeConfig(t, dir, ""), "--no-history", "-j", "-m", input)
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("empty replacement name", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := fixture(t, dir, "paper.pdf")

		_, err := execute(NewRedactCmd(), "-c", writeConfig(t, dir, ""), "--no-history", "-r", "-n", "", input)
		if !errors.Is(err, config.ErrEmptyRedactedName) {
			t.Errorf("expected ErrEmptyRedactedName, got %v", err)
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := fixture(t, dir, "paper.pdf")

		_, err := execute(NewRedactCmd(), "-c", filepath.Join(dir, "missing.yaml"), input)
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := fixture(t, dir, "paper.pdf")

		_, err := execute(NewRedactCmd(), "-c", writeConfig(t, dir, ""), "--profile", "nope", input)
		if !errors.Is(err, config.ErrUnknownProfile) {
			t.Errorf("expected ErrUnknownProfile, got %v", err)
		}
	})

	t.Run("not a PDF", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := filepath.Join(dir, "notes.pdf")
		if err := os.WriteFile(input, []byte("plain text"), 0600); err != nil {
			t.Fatal(err)
		}

		stdout, err := execute(NewRedactCmd(), "-c", writeConfig(t, dir, ""), "--no-history", input)
		if err == nil {
			t.Fatal("expected error")
		}
		if fileExists(filepath.Join(dir, "notes.redacted.pdf")) {
			t.Error("no output should be written")
		}
		if !strings.Contains(stdout, "ERROR") {
			t.Errorf("expected the failure in the report, got:\n%s", stdout)
		}
	})

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		_, err := execute(NewRedactCmd(), "-c", writeConfig(t, dir, ""), "--no-history", filepath.Join(dir, "missing.pdf"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})
}

// TestBuildConfig tests flag and profile merging.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	const profiles = `defaults:
  precision: month
  batchSize: 2
profiles:
  review:
    redactAuthorName: true
    redactedAuthorName: Reviewer
    precision: day
    authors: [alice]
`

	tests := []struct {
		name       string
		args       []string
		wantPrec   string
		wantRedact bool
		wantName   string
		wantAuth   []string
	}{
		{
			name:     "defaults section",
			args:     nil,
			wantPrec: "month",
			wantName: model.DefaultRedactedAuthor,
		},
		{
			name:       "profile overlays defaults",
			args:       []string{"--profile", "review"},
			wantPrec:   "day",
			wantRedact: true,
			wantName:   "Reviewer",
			wantAuth:   []string{"alice"},
		},
		{
			name:       "explicit flags win",
			args:       []string{"--profile", "review", "-p", "year", "-a", "bob,carol", "-n", "anon"},
			wantPrec:   "year",
			wantRedact: true,
			wantName:   "anon",
			wantAuth:   []string{"bob", "carol"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfgPath := writeConfig(t, t.TempDir(), profiles)
			cmd := NewRedactCmd()
			if err := cmd.ParseFlags(append([]string{"-c", cfgPath}, tt.args...)); err != nil {
				t.Fatalf("failed to parse flags: %v", err)
			}

			cfg, err := buildConfig(cmd, []string{"paper.pdf"})
			if err != nil {
				t.Fatalf("buildConfig failed: %v", err)
			}
			if cfg.Precision != tt.wantPrec {
				t.Errorf("expected precision %q, got %q", tt.wantPrec, cfg.Precision)
			}
			if cfg.RedactAuthorName != tt.wantRedact {
				t.Errorf("expected redact %v, got %v", tt.wantRedact, cfg.RedactAuthorName)
			}
			if cfg.RedactedAuthorName != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, cfg.RedactedAuthorName)
			}
			if strings.Join(cfg.Authors, ",") != strings.Join(tt.wantAuth, ",") {
				t.Errorf("expected authors %v, got %v", tt.wantAuth, cfg.Authors)
			}
		})
	}
}
