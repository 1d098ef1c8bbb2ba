package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and identify what is wrong
// with the configuration; callers match them with errors.Is().
var (
	// ErrMissingPath is returned when the old or new version is not given.
	ErrMissingPath = errors.New("missing path: provide the old and the new version")

	// ErrInvalidThreshold is returned when the threshold is negative or not
	// below the hash width.
	ErrInvalidThreshold = errors.New("invalid threshold: must be non-negative and below the hash width")

	// ErrInvalidBand is returned when the band is negative.
	// Use 0 to compute the full alignment table.
	ErrInvalidBand = errors.New("invalid band: must be non-negative")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrUnknownAlgorithm is returned for a hash algorithm other than
	// perception, difference or average.
	ErrUnknownAlgorithm = errors.New("unknown algorithm: use perception, difference or average")

	// ErrInvalidHashSize is returned for a hash size other than 8 or 16.
	ErrInvalidHashSize = errors.New("invalid hash size: use 8 or 16")

	// ErrUnknownSortOrder is returned for a sort order other than lexical
	// or natural.
	ErrUnknownSortOrder = errors.New("unknown sort order: use lexical or natural")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrUnknownProfile is returned when the selected profile is not defined
	// in the config file.
	ErrUnknownProfile = errors.New("unknown profile")
)
