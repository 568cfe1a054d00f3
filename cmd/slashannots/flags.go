package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/slashannots/internal/config"
	"github.com/nao1215/slashannots/internal/database"
	"github.com/nao1215/slashannots/internal/log"
	"github.com/nao1215/slashannots/internal/model"
	"github.com/nao1215/slashannots/internal/report"
	"github.com/spf13/cobra"
)

// addPolicyFlags registers the flags that describe a redaction policy.
func addPolicyFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP(config.FlagRedactAuthorName, "r", false,
		"Replace the author name of targeted annotations")
	cmd.Flags().StringSliceP(config.FlagAuthors, "a", nil,
		"Only target annotations by these authors (repeatable or comma separated; default: all)")
	cmd.Flags().StringP(config.FlagRedactedAuthorName, "n", model.DefaultRedactedAuthor,
		"Replacement author name")
	cmd.Flags().StringP(config.FlagPrecision, "p", config.DefaultPrecision,
		fmt.Sprintf("Finest date component to keep %v", model.PrecisionNames()))
	cmd.Flags().Bool(config.FlagSkipMalformedDates, false,
		"Leave unparseable dates untouched instead of failing")
	cmd.Flags().Bool(config.FlagNoHistory, false,
		"Do not record the run in the history database")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .slashannots in current or home directory)")
	cmd.Flags().String("profile", "",
		"Configuration file profile to apply")
	addDBDirFlag(cmd)
}

// addDBDirFlag registers the history database directory flag.
func addDBDirFlag(cmd *cobra.Command) {
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")
}

// addReportFlags registers the report format flags.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().String("report", "",
		"Also write the report to the specified file (creates directories if needed)")
}

// buildConfig creates a Config from the policy and report flags, overlaid by
// the selected configuration file profile.
func buildConfig(cmd *cobra.Command, inputs []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Inputs = inputs
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	flags := cmd.Flags()

	if cfg.RedactAuthorName, err = flags.GetBool(config.FlagRedactAuthorName); err != nil {
		return nil, err
	}
	if cfg.Authors, err = flags.GetStringSlice(config.FlagAuthors); err != nil {
		return nil, err
	}
	if cfg.RedactedAuthorName, err = flags.GetString(config.FlagRedactedAuthorName); err != nil {
		return nil, err
	}
	if cfg.Precision, err = flags.GetString(config.FlagPrecision); err != nil {
		return nil, err
	}
	if cfg.SkipMalformedDates, err = flags.GetBool(config.FlagSkipMalformedDates); err != nil {
		return nil, err
	}
	noHistory, err := flags.GetBool(config.FlagNoHistory)
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory

	if flags.Lookup(config.FlagBatch) != nil {
		if cfg.BatchSize, err = flags.GetInt(config.FlagBatch); err != nil {
			return nil, err
		}
	}

	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.Profile, err = flags.GetString("profile"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("report"); err != nil {
		return nil, err
	}

	profile, err := loadProfile(cfg)
	if err != nil {
		return nil, err
	}
	cfg.ApplyProfile(profile, flags.Changed)

	return cfg, nil
}

// loadProfile reads the configuration file and returns the selected profile.
// A missing file is only an error when it was named explicitly.
func loadProfile(cfg *config.Config) (config.Profile, error) {
	path := config.FindConfigFile(cfg.ConfigFilePath)
	if path == "" {
		if cfg.ConfigFilePath != "" {
			return config.Profile{}, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
		}
		if cfg.Profile != "" {
			return config.Profile{}, fmt.Errorf("%w %q: no configuration file found", config.ErrUnknownProfile, cfg.Profile)
		}
		return config.Profile{}, nil
	}

	cf, err := config.LoadConfigFile(path)
	if err != nil {
		return config.Profile{}, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return cf.Profile(cfg.Profile)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a logger that masks author names.
func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	return log.NewSecureLogger(w, verbose)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// absPath makes path absolute so that history lookups match regardless of
// the working directory.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// formatWriter creates the report writer selected by the format flags.
func formatWriter(w io.Writer, jsonOutput, markdownOutput, verbose bool) report.Writer {
	switch {
	case jsonOutput:
		return report.NewJSONWriter(w, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case markdownOutput:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w, report.WithVerbose(verbose))
	}
}

// newReportWriter creates the writer for cfg. When a report file is
// configured the report goes to both out and the file; the returned close
// function must be called once writing is done.
func newReportWriter(cfg *config.Config, out io.Writer) (report.Writer, func() error, error) {
	stdout := formatWriter(out, cfg.JSONReport, cfg.MarkdownReport, cfg.Verbose)
	if cfg.ReportFile == "" {
		return stdout, func() error { return nil }, nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	// Reports list author names, so only the owner may read them.
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create report file: %w", err)
	}

	file := formatWriter(f, cfg.JSONReport, cfg.MarkdownReport, cfg.Verbose)
	return report.NewMultiWriter(stdout, file), f.Close, nil
}

// openHistory opens the history database when cfg asks for it.
// A nil database means history is disabled.
func openHistory(cfg *config.Config, logger *slog.Logger) (*database.HistoryDB, error) {
	if !cfg.SaveToDB {
		return nil, nil
	}
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Debug("database opened", "dir", cfg.DBDir)
	return db, nil
}

// saveReports records reports in db. If db is nil, this function is a no-op.
// Failures are logged and do not fail the run.
func saveReports(ctx context.Context, db *database.HistoryDB, logger *slog.Logger, reports ...*model.RedactionReport) {
	if db == nil {
		return
	}
	for _, r := range reports {
		if r == nil {
			continue
		}
		id, err := db.SaveReport(ctx, r)
		if err != nil {
			logger.Error("failed to save redaction report", "input", r.InputPath, "error", err)
			continue
		}
		logger.Debug("redaction report saved", "input", r.InputPath, "id", id)
	}
}
