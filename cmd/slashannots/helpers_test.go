package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

// fixture copies testdata/annotated.pdf to dir/name and returns its path.
// Page 1 holds annotations by alice and bob and a Link by carol, page 2 an
// annotation without author.
func fixture(t *testing.T, dir, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", "annotated.pdf"))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

// writeConfig writes a configuration file so that tests never pick up a
// .slashannots from the working or home directory.
func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, ".slashannots")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// execute runs cmd with args and returns what it wrote to stdout.
// Subcommands are silenced the same way the root command silences them.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
