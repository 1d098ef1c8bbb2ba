package main

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nao1215/bookdiff/internal/fingerprint"
)

// NewHashCmpCmd creates the hashcmp command.
func NewHashCmpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hashcmp <image-a> <image-b>",
		Short: "Print the fingerprint distance of two images under every algorithm",
		Long: `Hashcmp fingerprints two page images with every algorithm and hash size and
prints their distances. Use it on a page and its re-scan to pick an algorithm
and a threshold for compare: the threshold should sit above the distances of
such pairs and below the distances of different pages.

Examples:
  bookdiff hashcmp scans/2019/page012.jpg scans/2024/page012.jpg
  bookdiff hashcmp --json a.png b.png`,
		Args: cobra.ExactArgs(2),
		RunE: runHashCmpCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output distances as JSON")

	return cmd
}

// runHashCmpCmd executes the hashcmp command.
func runHashCmpCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	a, err := decodeFile(args[0])
	if err != nil {
		return err
	}
	b, err := decodeFile(args[1])
	if err != nil {
		return err
	}

	distances, err := fingerprint.CompareAll(a, b)
	if err != nil {
		return err
	}

	if jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(distances)
	}
	return writeDistances(cmd.OutOrStdout(), distances)
}

// decodeFile reads and decodes an image file, applying its EXIF orientation.
func decodeFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided image path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	img, err := fingerprint.DecodeUpright(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// writeDistances prints one aligned row per algorithm and hash size.
func writeDistances(w io.Writer, distances []fingerprint.Distance) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tSIZE\tDISTANCE\tBITS")
	for _, d := range distances {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", d.Algorithm, d.Size, d.Distance, d.Bits)
	}
	return tw.Flush()
}
