package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for slashannots.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slashannots",
		Short: "Redact author names and timestamps from PDF annotations",
		Long: `slashannots redacts personally-identifying metadata from the annotations
of PDF documents (comments, highlights, sticky notes).

Author names can be replaced and creation/modification dates truncated to a
chosen precision, either for every annotation or only for those written by
selected authors. Link annotations are never modified.

The input document is never changed; the redacted copy is written next to it
as <name>.redacted.pdf unless another output path is given.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewRedactCmd())
	cmd.AddCommand(NewBatchCmd())
	cmd.AddCommand(NewAuthorsCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
