package main

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/nao1215/bookdiff/internal/config"
	"github.com/nao1215/bookdiff/internal/fingerprint"
	"github.com/nao1215/bookdiff/internal/model"
	"github.com/nao1215/bookdiff/internal/pages"
)

//go:embed templates/bookdiff.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = config.DefaultConfigFile

// errPagesTooFar is returned when the two calibration pages are too far apart
// to be scans of the same page.
var errPagesTooFar = errors.New("calibration pages are too far apart to be the same page")

// templateData fills the defaults section of the configuration template.
type templateData struct {
	Threshold int
	Algorithm fingerprint.Algorithm
	HashSize  int
	Sort      pages.SortOrder

	// Calibration is set when the threshold was derived from a page pair.
	Calibration *calibration
}

// calibration records the page pair the threshold was measured on.
type calibration struct {
	Original string
	Rescan   string
	Distance int
	Bits     int
}

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new bookdiff configuration file",
		Long: `Initialize creates a new .bookdiff configuration file in the current directory.

The generated file includes default comparison settings, example profiles for
different scan setups and documentation for all available options.

With --calibrate, init hashes a page and its re-scan and sets the default
threshold to twice their distance plus two bits, so the scanner noise seen on
that pair is tolerated with room to spare.

Examples:
  # Create .bookdiff in current directory
  bookdiff init

  # Start from natural page order and difference hashes
  bookdiff init --sort natural --algorithm difference

  # Derive the threshold from one page scanned twice
  bookdiff init --calibrate scans/2019/page012.jpg,scans/2024/page012.jpg

  # Create config file at a specific path, overwriting it
  bookdiff init -o myconfig.yaml -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")
	cmd.Flags().IntP("threshold", "d", config.DefaultThreshold,
		"Default threshold written to the file")
	cmd.Flags().StringP("algorithm", "a", string(config.DefaultAlgorithm),
		"Default hash algorithm written to the file")
	cmd.Flags().Int("hash-size", config.DefaultHashSize,
		"Default hash edge length written to the file: 8 or 16")
	cmd.Flags().String("sort", string(config.DefaultSortOrder),
		"Default page file order written to the file: lexical or natural")
	cmd.Flags().StringSlice("calibrate", nil,
		"Original and re-scanned image of one page; derives the threshold from their distance")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	data, err := buildTemplateData(cmd)
	if err != nil {
		return err
	}

	content, err := renderConfigTemplate(data)
	if err != nil {
		return err
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0o600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	if c := data.Calibration; c != nil {
		fmt.Fprintf(out, "Calibrated threshold %d from a distance of %d of %d bits\n", data.Threshold, c.Distance, c.Bits)
	}
	fmt.Fprintln(out, "\nEdit this file to set:")
	fmt.Fprintln(out, "  - The match threshold and hash algorithm")
	fmt.Fprintln(out, "  - Page file ordering")
	fmt.Fprintln(out, "  - Profiles for different scanners or collections")

	return nil
}

// buildTemplateData collects the default settings from the flags and, with
// --calibrate, measures the threshold on a page pair.
func buildTemplateData(cmd *cobra.Command) (*templateData, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.Threshold, err = flags.GetInt("threshold"); err != nil {
		return nil, err
	}
	if cfg.HashSize, err = flags.GetInt("hash-size"); err != nil {
		return nil, err
	}
	algorithm, err := flags.GetString("algorithm")
	if err != nil {
		return nil, err
	}
	if cfg.Algorithm, err = fingerprint.ParseAlgorithm(algorithm); err != nil {
		return nil, err
	}
	order, err := flags.GetString("sort")
	if err != nil {
		return nil, err
	}
	if cfg.SortOrder, err = pages.ParseSortOrder(order); err != nil {
		return nil, err
	}

	data := &templateData{}

	pair, err := flags.GetStringSlice("calibrate")
	if err != nil {
		return nil, err
	}
	if len(pair) > 0 {
		if flags.Changed("threshold") {
			return nil, errors.New("--threshold and --calibrate are mutually exclusive")
		}
		if len(pair) != 2 {
			return nil, fmt.Errorf("--calibrate takes two images, got %d", len(pair))
		}
		c, err := calibrate(cfg, pair[0], pair[1])
		if err != nil {
			return nil, err
		}
		cfg.Threshold = suggestThreshold(c.Distance)
		data.Calibration = c
	}

	if err := cfg.ValidateParameters(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	data.Threshold = cfg.Threshold
	data.Algorithm = cfg.Algorithm
	data.HashSize = cfg.HashSize
	data.Sort = cfg.SortOrder
	return data, nil
}

// calibrate hashes two scans of the same page with the configured hasher.
// A pair more than a quarter of the hash width apart is rejected.
func calibrate(cfg *config.Config, original, rescan string) (*calibration, error) {
	hasher, err := fingerprint.NewHasher(cfg.Algorithm, cfg.HashSize)
	if err != nil {
		return nil, err
	}

	hashes := make([]model.Bits, 2)
	for i, path := range []string{original, rescan} {
		img, err := decodeFile(path)
		if err != nil {
			return nil, err
		}
		if hashes[i], err = hasher.Hash(img); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	c := &calibration{
		Original: original,
		Rescan:   rescan,
		Distance: model.Hamming(hashes[0], hashes[1]),
		Bits:     hashes[0].Width(),
	}
	if c.Distance > c.Bits/4 {
		return nil, fmt.Errorf("%w: distance %d of %d bits", errPagesTooFar, c.Distance, c.Bits)
	}
	return c, nil
}

// suggestThreshold returns the threshold derived from a measured distance.
func suggestThreshold(distance int) int {
	return 2*distance + 2
}

// renderConfigTemplate fills the embedded configuration template.
func renderConfigTemplate(data *templateData) ([]byte, error) {
	text, err := configTemplate.ReadFile("templates/bookdiff.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read config template: %w", err)
	}
	tmpl, err := template.New("bookdiff.yaml").Parse(string(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render config template: %w", err)
	}
	return buf.Bytes(), nil
}
