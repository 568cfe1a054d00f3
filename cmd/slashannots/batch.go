package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/slashannots/internal/config"
	"github.com/nao1215/slashannots/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewBatchCmd creates the batch command.
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch INPUT...",
		Short: "Redact annotation metadata of several PDF documents",
		Long: `Batch redacts several documents concurrently with the same policy.

Each INPUT is written to <name>.redacted.pdf next to it. A document that
cannot be redacted does not stop the others; the command fails at the end
if any document failed.

Examples:
  # Redact every PDF in the current directory
  slashannots batch *.pdf

  # Replace author names, keep the month, 8 documents at a time
  slashannots batch -r -p month -b 8 reviews/*.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: runBatchCmd,
	}

	addPolicyFlags(cmd)
	addReportFlags(cmd)
	cmd.Flags().IntP(config.FlagBatch, "b", config.DefaultBatchSize,
		"Number of documents redacted concurrently")

	return cmd
}

// runBatchCmd executes the batch command.
func runBatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)

	ctx, cancel := signalContext()
	defer cancel()

	return runBatch(ctx, cmd, cfg, logger)
}

// runBatch redacts every input of cfg concurrently and reports the results.
func runBatch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
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

	jobs := make([]pipeline.Job, len(cfg.Inputs))
	for i, in := range cfg.Inputs {
		jobs[i] = pipeline.Job{InputPath: absPath(in)}
	}

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return newPipeline(cfg, logger)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	result, batchErr := bp.ProcessBatch(ctx, jobs, policy)

	saveReports(context.WithoutCancel(ctx), db, logger, result.Reports...)

	if _, err := writer.WriteBatch(result.Reports, result.Stats); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if batchErr != nil {
		return batchErr
	}
	if failed := result.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d documents could not be redacted", failed, len(jobs))
	}
	return nil
}
