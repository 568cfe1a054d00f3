package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/slashannots/internal/config"
	"github.com/nao1215/slashannots/internal/pdfdoc"
	"github.com/nao1215/slashannots/internal/pipeline"
	"github.com/nao1215/slashannots/internal/redact"
	"github.com/spf13/cobra"
)

// NewRedactCmd creates the redact command.
func NewRedactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redact INPUT [OUTPUT]",
		Short: "Redact annotation metadata of one PDF document",
		Long: `Redact rewrites the annotations of a PDF document:

- Author names are replaced when --redact-author-name is given
- Creation and modification dates are truncated to --precision
- Only annotations by --authors are affected when the filter is given

OUTPUT defaults to <name>.redacted.pdf next to INPUT. The input is never
modified and the output is only created once redaction has succeeded.

Precisions, from coarsest to finest:
  none, year, month, day, hour, minute, second, micro

Examples:
  # Reset every annotation date to 1970-01-01
  slashannots redact paper.pdf

  # Replace every author name and keep the day of each date
  slashannots redact -r -p day paper.pdf

  # Only redact the annotations of two reviewers
  slashannots redact -r -a alice -a "Bob Smith" paper.pdf clean.pdf

  # Use settings from the "review" profile of .slashannots
  slashannots redact --profile review paper.pdf`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runRedactCmd,
	}

	addPolicyFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

// runRedactCmd executes the redact command.
func runRedactCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[:1])
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if len(args) > 1 {
		cfg.OutputPath = args[1]
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)

	ctx, cancel := signalContext()
	defer cancel()

	return runRedact(ctx, cmd, cfg, logger)
}

// runRedact redacts the single input of cfg and reports the result.
func runRedact(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	policy, err := cfg.Policy()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	writer, closeReport, err := newReportWriter(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeReport() //nolint:errcheck // Report file is written before close

	db, err := openHistory(cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	job := pipeline.Job{InputPath: absPath(cfg.Inputs[0])}
	if cfg.OutputPath != "" {
		job.OutputPath = absPath(cfg.OutputPath)
	}

	p := newPipeline(cfg, logger)
	result, runErr := p.Process(ctx, job, policy)

	saveReports(context.WithoutCancel(ctx), db, logger, result)

	if _, err := writer.Write(result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return runErr
}

// newPipeline creates the redaction pipeline for cfg.
func newPipeline(cfg *config.Config, logger *slog.Logger) *pipeline.Pipeline {
	engine := redact.New(
		redact.WithLogger(logger),
		redact.WithSkipMalformedDates(cfg.SkipMalformedDates),
	)
	return pipeline.NewRedactionPipeline(pdfdoc.Codec{}, engine, pipeline.WithLogger(logger))
}
