package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	// exitIdentical means the two versions have the same pages in order.
	exitIdentical = 0
	// exitDifferences means at least one page is MISSING, INSERTED, MOVED
	// or ALTERED.
	exitDifferences = 1
	// exitError means a usage or runtime error.
	exitError = 2
)

// ErrDifferencesFound is returned by commands that completed successfully
// but found differences. It maps to exit code 1 and prints nothing.
var ErrDifferencesFound = errors.New("differences found")

// NewRootCmd creates the root command for bookdiff.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookdiff",
		Short: "Compare two versions of a scanned book page by page",
		Long: `bookdiff compares two versions of a paginated visual document, such as the
original scan and a re-scan of a book, and reports which pages are missing,
inserted, moved or altered.

Pages are compared by perceptual fingerprints, so re-encoded or slightly
re-scanned pages still match. The exit code is 0 when both versions are
identical, 1 when differences were found and 2 on errors.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewHashCmpCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCacheCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// exitCode maps the error returned by a command to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitIdentical
	case errors.Is(err, ErrDifferencesFound):
		return exitDifferences
	default:
		return exitError
	}
}

// Execute runs the root command and exits with the mapped exit code.
func Execute() {
	err := NewRootCmd().Execute()
	code := exitCode(err)
	if code == exitError {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(code)
}
