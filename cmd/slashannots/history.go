package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nao1215/slashannots/internal/config"
	"github.com/nao1215/slashannots/internal/database"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is the number of runs listed when --limit is not given.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
// This command lists past redaction runs stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [INPUT]",
		Short: "Show past redaction runs",
		Long: `History lists the redaction runs recorded by 'slashannots redact' and
'slashannots batch', newest first.

Each run records the input and output paths, SHA3-256 digests of both
documents, the policy and the per-author counts. The digests let you find out
whether a file was produced by slashannots or from which input it was made.

Examples:
  # List recent runs
  slashannots history

  # List runs of one document
  slashannots history paper.pdf

  # Show the full report of run 5
  slashannots history --id 5

  # Find runs whose input or output has this digest
  slashannots history --digest 3a985da74fe225b2...

  # Delete runs recorded before 2025
  slashannots history --prune-before 2025-01-01`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", defaultHistoryLimit,
		"Maximum number of runs to list (0 for all)")
	cmd.Flags().Int64P("id", "i", 0,
		"Show the full report of the run with this ID")
	cmd.Flags().StringP("digest", "d", "",
		"List runs whose input or output has this SHA3-256 digest")
	cmd.Flags().String("prune-before", "",
		"Delete runs recorded before this date (format: YYYY-MM-DD)")
	cmd.Flags().BoolP("json", "j", false,
		"Output the report of --id in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the report of --id in Markdown format")
	addDBDirFlag(cmd)

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	limit, err := flags.GetInt("limit")
	if err != nil {
		return err
	}
	id, err := flags.GetInt64("id")
	if err != nil {
		return err
	}
	digest, err := flags.GetString("digest")
	if err != nil {
		return err
	}
	pruneBefore, err := flags.GetString("prune-before")
	if err != nil {
		return err
	}
	jsonOutput, err := flags.GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := flags.GetBool("markdown")
	if err != nil {
		return err
	}
	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	if jsonOutput && markdownOutput {
		return fmt.Errorf("configuration error: %w", config.ErrConflictingReportFormats)
	}
	if limit < 0 {
		return errors.New("configuration error: --limit must not be negative")
	}
	var cutoff time.Time
	if pruneBefore != "" {
		cutoff, err = time.ParseInLocation(time.DateOnly, pruneBefore, time.Local)
		if err != nil {
			return fmt.Errorf("configuration error: invalid --prune-before date %q (format: YYYY-MM-DD)", pruneBefore)
		}
	}

	out := cmd.OutOrStdout()

	if _, err := os.Stat(filepath.Join(dbDir, database.FileName)); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(out, "No redaction history found.")
		return nil
	}

	db, err := database.Open(dbDir, database.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := signalContext()
	defer cancel()

	switch {
	case pruneBefore != "":
		return pruneHistory(ctx, out, db, cutoff)
	case id != 0:
		return showRun(ctx, cmd, db, id, jsonOutput, markdownOutput)
	case digest != "":
		runs, err := db.ListRunsByDigest(ctx, strings.ToLower(digest))
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		printRuns(out, fmt.Sprintf("Runs with digest %s", digest), runs)
		return nil
	default:
		var input string
		title := "Recent runs"
		if len(args) == 1 {
			input = absPath(args[0])
			title = "Runs of " + input
		}
		runs, err := db.ListRuns(ctx, input, limit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		printRuns(out, title, runs)
		return nil
	}
}

// pruneHistory deletes runs recorded before cutoff.
func pruneHistory(ctx context.Context, out io.Writer, db *database.HistoryDB, cutoff time.Time) error {
	n, err := db.DeleteBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	fmt.Fprintf(out, "Deleted %d runs recorded before %s\n", n, cutoff.Format(time.DateOnly))
	return nil
}

// showRun prints the stored report of one run.
func showRun(ctx context.Context, cmd *cobra.Command, db *database.HistoryDB, id int64, jsonOutput, markdownOutput bool) error {
	r, err := db.GetReportByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get run %d: %w", id, err)
	}
	if r == nil {
		return fmt.Errorf("run %d not found (use 'slashannots history' to see available IDs)", id)
	}

	writer := formatWriter(cmd.OutOrStdout(), jsonOutput, markdownOutput, true)
	if _, err := writer.Write(r); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// printRuns prints a table of runs.
func printRuns(out io.Writer, title string, runs []database.RunMetadata) {
	if len(runs) == 0 {
		fmt.Fprintf(out, "%s: none\n", title)
		return
	}

	fmt.Fprintf(out, "%s (%d):\n\n", title, len(runs))
	fmt.Fprintf(out, "  %-6s  %-19s  %-6s  %5s  %5s  %5s  %s\n",
		"ID", "Date", "Status", "Seen", "Names", "Dates", "Input")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 76))

	for _, run := range runs {
		status := "ok"
		if !run.Succeeded() {
			status = "failed"
		}
		fmt.Fprintf(out, "  %-6d  %-19s  %-6s  %5d  %5d  %5d  %s\n",
			run.ID,
			run.Timestamp.Local().Format(time.DateTime),
			status,
			run.Seen,
			run.NamesRedacted,
			run.DatesRedacted,
			run.InputPath,
		)
	}
	fmt.Fprintln(out, "\nUse 'slashannots history --id <ID>' to see the full report of a run.")
}
