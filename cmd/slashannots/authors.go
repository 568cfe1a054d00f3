package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nao1215/slashannots/internal/config"
	"github.com/nao1215/slashannots/internal/model"
	"github.com/nao1215/slashannots/internal/pdfdoc"
	"github.com/nao1215/slashannots/internal/redact"
	"github.com/spf13/cobra"
)

// NewAuthorsCmd creates the authors command.
func NewAuthorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authors INPUT",
		Short: "List the annotation authors of a PDF document",
		Long: `Authors lists every annotation author found in a document together with
the number of annotations they wrote. Use it to pick the names for
'slashannots redact --authors'.

Examples:
  slashannots authors paper.pdf
  slashannots authors --json paper.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: runAuthorsCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")

	return cmd
}

// runAuthorsCmd executes the authors command.
func runAuthorsCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return fmt.Errorf("configuration error: %w", config.ErrConflictingReportFormats)
	}

	ctx, cancel := signalContext()
	defer cancel()

	input := absPath(args[0])
	summary, err := collectAuthors(ctx, input)
	if err != nil {
		return err
	}

	writer := formatWriter(cmd.OutOrStdout(), jsonOutput, markdownOutput, getVerboseFlag(cmd))
	if _, err := writer.WriteAuthors(input, summary); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// collectAuthors opens the document at path and counts its annotation authors.
func collectAuthors(ctx context.Context, path string) (*model.AuthorSummary, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	doc, err := pdfdoc.Read(f)
	if err != nil {
		return nil, err
	}
	return redact.CollectAuthors(ctx, doc)
}
