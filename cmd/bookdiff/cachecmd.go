package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/bookdiff/internal/cache"
	"github.com/nao1215/bookdiff/internal/config"
)

// NewCacheCmd creates the cache command.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Show or prune the fingerprint cache",
		Long: `Cache prints the location of the fingerprint cache database and the number
of cached fingerprints. With --purge, fingerprints older than the given age are
removed first.

Examples:
  bookdiff cache
  bookdiff cache --purge 720h`,
		Args: cobra.NoArgs,
		RunE: runCacheCmd,
	}

	cmd.Flags().Duration("purge", 0, "Remove fingerprints cached longer ago than this age")
	cmd.Flags().String("cache-dir", "", "Cache database directory (default: XDG cache directory)")

	return cmd
}

// runCacheCmd executes the cache command.
func runCacheCmd(cmd *cobra.Command, _ []string) error {
	purge, err := cmd.Flags().GetDuration("purge")
	if err != nil {
		return err
	}
	if purge < 0 {
		return fmt.Errorf("invalid purge age %s: must be positive", purge)
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
		return errors.New("no fingerprint cache: run compare with --cache first")
	}
	if err != nil {
		return err
	}
	defer c.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if purge > 0 {
		removed, err := c.Purge(ctx, time.Now().Add(-purge))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Purged:       %d\n", removed)
	}

	n, err := c.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Database:     %s\n", c.Path())
	fmt.Fprintf(out, "Fingerprints: %d\n", n)
	return nil
}
