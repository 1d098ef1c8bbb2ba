package config

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"

	"github.com/nao1215/bookdiff/internal/fingerprint"
	"github.com/nao1215/bookdiff/internal/pages"
)

// Default configuration values.
const (
	// DefaultThreshold is the maximum fingerprint distance, in bits of a
	// 64-bit hash, still treated as the same page.
	DefaultThreshold = 8

	// DefaultAlgorithm is the perceptual hash used for fingerprints.
	DefaultAlgorithm = fingerprint.AlgorithmPerception

	// DefaultHashSize yields 64-bit fingerprints.
	DefaultHashSize = fingerprint.SizeDefault

	// DefaultBand of 0 computes the full alignment table.
	DefaultBand = 0

	// DefaultSortOrder orders page files byte by byte.
	DefaultSortOrder = pages.SortLexical

	// DefaultServerAddress is the listen address of the serve command.
	DefaultServerAddress = "127.0.0.1:8080"

	// AppName is the application name used for XDG directory paths.
	AppName = "bookdiff"
)

// Config holds all configuration options for bookdiff.
// It is populated from defaults, the optional config file and CLI flags, in
// that order, and passed through the application explicitly.
type Config struct {
	// OldPath and NewPath are the two versions to compare: directories of
	// page images or PDF files.
	OldPath string
	NewPath string

	// Threshold is the maximum fingerprint distance of a true match.
	// Pages further apart are reported ALTERED even at the same position.
	Threshold int

	// Algorithm is the perceptual hash algorithm.
	Algorithm fingerprint.Algorithm

	// HashSize is the hash edge length: 8 for 64-bit, 16 for 256-bit hashes.
	// The threshold scales with it; 256-bit hashes need roughly four times
	// the threshold of 64-bit ones.
	HashSize int

	// Band limits the alignment to cells with |i-j| <= Band.
	// Zero computes the full table. Banding never changes the result; inputs
	// the band cannot cover fall back to the full table.
	Band int

	// Workers is the number of pages fingerprinted concurrently.
	Workers int

	// DetectMoves pairs missing and inserted pages with matching content and
	// reports them as MOVED.
	DetectMoves bool

	// SortOrder is the page file name order, lexical or natural.
	SortOrder pages.SortOrder

	// UseCache enables the SQLite fingerprint cache and comparison history.
	UseCache bool

	// CacheDir is the directory of the cache database.
	// Defaults to the XDG cache directory (~/.cache/bookdiff on Linux).
	CacheDir string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .bookdiff in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// Profile selects a named profile of the config file.
	Profile string

	// JSONReport enables JSON report output instead of the text format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the text
	// format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// IncludeOps adds the raw edit script to JSON reports.
	IncludeOps bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Threshold:   DefaultThreshold,
		Algorithm:   DefaultAlgorithm,
		HashSize:    DefaultHashSize,
		Band:        DefaultBand,
		Workers:     runtime.NumCPU(),
		DetectMoves: true,
		SortOrder:   DefaultSortOrder,
		CacheDir:    XDGCacheDir(),
	}
}

// XDGConfigDir returns the XDG config directory for bookdiff.
// On Linux: ~/.config/bookdiff
// On macOS: ~/Library/Application Support/bookdiff
// On Windows: %APPDATA%\bookdiff
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for bookdiff.
// On Linux: ~/.cache/bookdiff
// On macOS: ~/Library/Caches/bookdiff
// On Windows: %LOCALAPPDATA%\bookdiff\cache
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as an error wrapping one of the
// sentinel errors of this package. It is called once after CLI parsing,
// before any page is read.
func (c *Config) Validate() error {
	if c.OldPath == "" || c.NewPath == "" {
		return ErrMissingPath
	}
	return c.ValidateParameters()
}

// ValidateParameters checks everything except the two paths.
// The serve command validates its defaults with it, since the paths arrive
// per request.
func (c *Config) ValidateParameters() error {
	if c.Threshold < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidThreshold, c.Threshold)
	}
	if c.HashSize > 0 && c.Threshold >= c.HashSize*c.HashSize {
		return fmt.Errorf("%w: %d is not below the hash width %d", ErrInvalidThreshold, c.Threshold, c.HashSize*c.HashSize)
	}
	if c.Band < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBand, c.Band)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}
	if _, err := fingerprint.ParseAlgorithm(string(c.Algorithm)); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, c.Algorithm)
	}
	if err := fingerprint.ValidateSize(c.HashSize); err != nil {
		return fmt.Errorf("%w: %d", ErrInvalidHashSize, c.HashSize)
	}
	if _, err := pages.ParseSortOrder(string(c.SortOrder)); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownSortOrder, c.SortOrder)
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
