package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/bookdiff/internal/config"
	"github.com/nao1215/bookdiff/internal/fingerprint"
	"github.com/nao1215/bookdiff/internal/log"
	"github.com/nao1215/bookdiff/internal/pages"
)

// addParameterFlags registers the comparison parameters shared by the
// compare and serve commands.
func addParameterFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("threshold", "d", config.DefaultThreshold,
		"Maximum fingerprint distance still treated as the same page")
	cmd.Flags().StringP("algorithm", "a", string(config.DefaultAlgorithm),
		"Perceptual hash algorithm: perception, difference or average")
	cmd.Flags().Int("hash-size", config.DefaultHashSize,
		"Hash edge length: 8 (64-bit) or 16 (256-bit, raise the threshold accordingly)")
	cmd.Flags().Int("band", config.DefaultBand,
		"Limit the alignment to pages at most N positions apart (0 = unbounded)")
	cmd.Flags().IntP("workers", "w", 0,
		"Number of pages fingerprinted concurrently (default: number of CPUs)")
	cmd.Flags().Bool("no-moves", false,
		"Report moved pages as MISSING and INSERTED instead of MOVED")
	cmd.Flags().String("sort", string(config.DefaultSortOrder),
		"Page file order: lexical or natural (page2 before page10)")

	cmd.Flags().Bool("cache", false,
		"Cache fingerprints and record comparison history in a SQLite database")
	cmd.Flags().String("cache-dir", "",
		"Cache database directory (default: XDG cache directory)")

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .bookdiff in current or home directory)")
	cmd.Flags().StringP("profile", "P", "",
		"Configuration file profile to apply")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the text logger used by the one-shot commands.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	return log.NewLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))
}

// buildParameterConfig creates a Config from defaults, the configuration
// file and the parameter flags. Flags override the file only when given
// explicitly.
func buildParameterConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.Profile, err = cmd.Flags().GetString("profile")
	if err != nil {
		return nil, err
	}

	if err := applyConfigFile(cfg); err != nil {
		return nil, err
	}
	if err := applyParameterFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyConfigFile loads the configuration file, if any, into cfg.
// If the user explicitly specified a config file path, it is an error when
// the file is missing. Otherwise running without a file is fine.
func applyConfigFile(cfg *config.Config) error {
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath == "" {
		if explicitConfigPath {
			return fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
		}
		if cfg.Profile != "" {
			return fmt.Errorf("%w: %q (no configuration file found)", config.ErrUnknownProfile, cfg.Profile)
		}
		return nil
	}

	file, err := config.LoadConfigFile(configPath)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return fmt.Errorf("%w: %s", err, configPath)
		}
		return fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	settings, err := file.GetProfile(cfg.Profile)
	if err != nil {
		return err
	}
	cfg.Apply(settings)
	return nil
}

// applyParameterFlags copies every explicitly set parameter flag into cfg.
func applyParameterFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("threshold") {
		if cfg.Threshold, err = flags.GetInt("threshold"); err != nil {
			return err
		}
	}
	if flags.Changed("algorithm") {
		name, err := flags.GetString("algorithm")
		if err != nil {
			return err
		}
		cfg.Algorithm = fingerprint.Algorithm(name)
	}
	if flags.Changed("hash-size") {
		if cfg.HashSize, err = flags.GetInt("hash-size"); err != nil {
			return err
		}
	}
	if flags.Changed("band") {
		if cfg.Band, err = flags.GetInt("band"); err != nil {
			return err
		}
	}
	if flags.Changed("workers") {
		if cfg.Workers, err = flags.GetInt("workers"); err != nil {
			return err
		}
	}
	if flags.Changed("no-moves") {
		noMoves, err := flags.GetBool("no-moves")
		if err != nil {
			return err
		}
		cfg.DetectMoves = !noMoves
	}
	if flags.Changed("sort") {
		order, err := flags.GetString("sort")
		if err != nil {
			return err
		}
		cfg.SortOrder = pages.SortOrder(order)
	}
	if flags.Changed("cache") {
		if cfg.UseCache, err = flags.GetBool("cache"); err != nil {
			return err
		}
	}
	if flags.Changed("cache-dir") {
		if cfg.CacheDir, err = flags.GetString("cache-dir"); err != nil {
			return err
		}
	}
	return nil
}
