package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/bookdiff/internal/config"
	"github.com/nao1215/bookdiff/internal/model"
	"github.com/nao1215/bookdiff/internal/pipeline"
	"github.com/nao1215/bookdiff/internal/report"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <old> <new>",
		Short: "Compare two versions of a book",
		Long: `Compare aligns the pages of two versions of a book and reports every page as
MATCHED, MOVED, ALTERED, MISSING or INSERTED.

Each version is a directory of page images (jpg, png, gif, tif, bmp, webp),
ordered by file name, or a PDF file with one page image per page.

Examples:
  # Compare an original scan with a re-scan
  bookdiff compare scans/2019 scans/2024

  # Allow more noise between scans
  bookdiff compare -d 12 scans/2019 scans/2024

  # Order files naturally (page2 before page10) and use 256-bit hashes
  bookdiff compare --sort natural --hash-size 16 -d 30 old/ new/

  # Compare PDF exports and write a Markdown report
  bookdiff compare --markdown -o report.md old.pdf new.pdf

  # Output JSON including the raw edit script
  bookdiff compare --json --ops old/ new/

Configuration file (.bookdiff) example:
  defaults:
    threshold: 8
    sort: natural
  profiles:
    microfilm:
      threshold: 14
      algorithm: difference`,
		Args: cobra.ExactArgs(2),
		RunE: runCompareCmd,
	}

	addParameterFlags(cmd)

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().Bool("ops", false,
		"Include the edit script in the JSON report")
	cmd.Flags().Bool("differences-only", false,
		"Hide matched pages from the text report")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCompareConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	differencesOnly, err := cmd.Flags().GetBool("differences-only")
	if err != nil {
		return err
	}

	c := pipeline.OpenCache(cfg, logger)
	if c != nil {
		defer c.Close()
	}

	cmp, err := pipeline.NewComparer(c, logger).Compare(ctx, cfg)
	if err != nil {
		return err
	}

	if err := outputReport(cmd.OutOrStdout(), cfg, cmp, differencesOnly); err != nil {
		return err
	}

	if cmp.HasDifferences() {
		return ErrDifferencesFound
	}
	return nil
}

// buildCompareConfig creates a Config from cobra command flags.
func buildCompareConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := buildParameterConfig(cmd)
	if err != nil {
		return nil, err
	}

	cfg.OldPath = args[0]
	cfg.NewPath = args[1]

	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.IncludeOps, err = cmd.Flags().GetBool("ops"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// outputReport writes the comparison in the requested format to stdout or
// to cfg.ReportFile.
func outputReport(stdout io.Writer, cfg *config.Config, cmp *model.Comparison, differencesOnly bool) (err error) {
	output := stdout
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		output = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output,
			report.WithPrettyPrint(),
			report.WithOps(cfg.IncludeOps),
			report.WithVersion(getVersion()),
		)
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewTextWriter(output, report.WithDifferencesOnly(differencesOnly))
	}

	_, err = w.Write(cmp)
	return err
}
