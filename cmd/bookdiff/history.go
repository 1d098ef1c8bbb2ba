package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/bookdiff/internal/cache"
	"github.com/nao1215/bookdiff/internal/config"
	"github.com/nao1215/bookdiff/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "List comparisons recorded with --cache",
		Long: `History lists the comparisons stored in the cache database, newest first.
Given an ID, it prints the report of that comparison.

Comparisons are only recorded when compare runs with --cache (or cache: true
in the configuration file).

Examples:
  # List the last 20 comparisons
  bookdiff history

  # List all comparisons
  bookdiff history --limit 0

  # Show the report of comparison 5
  bookdiff history 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of comparisons to list (0 = all)")
	cmd.Flags().BoolP("json", "j", false, "Output JSON")
	cmd.Flags().String("cache-dir", "", "Cache database directory (default: XDG cache directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	var id int64
	if len(args) == 1 {
		var err error
		id, err = strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid comparison id %q", args[0])
		}
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	dir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return err
	}
	if dir == "" {
		dir = config.XDGCacheDir()
	}

	opts := cache.DefaultOptions()
	opts.CreateIfNotExists = false
	c, err := cache.Open(dir, opts)
	if errors.Is(err, cache.ErrNotFound) {
		return errors.New("no comparison history: run compare with --cache first")
	}
	if err != nil {
		return err
	}
	defer c.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if id != 0 {
		cmp, err := c.Comparison(ctx, id)
		if err != nil {
			return err
		}
		var w report.Writer = report.NewTextWriter(out)
		if jsonOutput {
			w = report.NewJSONWriter(out, report.WithPrettyPrint())
		}
		_, err = w.Write(cmp)
		return err
	}

	records, err := c.History(ctx, limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No comparisons recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tOLD\tNEW\tDIFFERENCES")
	for _, rec := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n",
			rec.ID,
			rec.Timestamp.Local().Format(time.DateTime),
			rec.OldSource,
			rec.NewSource,
			rec.Summary.Differences(),
		)
	}
	return tw.Flush()
}
