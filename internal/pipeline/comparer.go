package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/bookdiff/internal/cache"
	"github.com/nao1215/bookdiff/internal/config"
	"github.com/nao1215/bookdiff/internal/fingerprint"
	"github.com/nao1215/bookdiff/internal/model"
)

// Comparer runs comparisons. It is safe for concurrent use; each call to
// Compare builds its own pipeline.
type Comparer struct {
	cache  *cache.Cache
	logger *slog.Logger
}

// NewComparer creates a Comparer. c may be nil, which disables the
// fingerprint cache and the comparison history for every run.
func NewComparer(c *cache.Cache, logger *slog.Logger) *Comparer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Comparer{cache: c, logger: logger}
}

// OpenCache opens the cache database when cfg.UseCache is set.
// It returns nil when caching is disabled or the database cannot be opened;
// the latter is logged as a warning.
func OpenCache(cfg *config.Config, logger *slog.Logger) *cache.Cache {
	if !cfg.UseCache {
		return nil
	}
	c, err := cache.Open(cfg.CacheDir, cache.DefaultOptions())
	if err != nil {
		logger.Warn("fingerprint cache disabled", "cache_dir", cfg.CacheDir, "error", err)
		return nil
	}
	return c
}

// Compare compares cfg.OldPath against cfg.NewPath.
// The returned comparison is non-nil whenever cfg is valid, so callers can
// inspect the steps performed even when an error is returned.
func (c *Comparer) Compare(ctx context.Context, cfg *config.Config) (*model.Comparison, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hasher, err := fingerprint.NewHasher(cfg.Algorithm, cfg.HashSize)
	if err != nil {
		return nil, fmt.Errorf("create hasher: %w", err)
	}

	opts := []FingerprinterOption{
		WithWorkers(cfg.Workers),
		WithFingerprintLogger(c.logger),
	}
	var history *cache.Cache
	if cfg.UseCache && c.cache != nil {
		opts = append(opts, WithCache(c.cache))
		history = c.cache
	}
	fp := NewFingerprinter(hasher, opts...)

	cmp := model.NewComparison(cfg.OldPath, cfg.NewPath)
	cmp.Algorithm = hasher.Name()
	cmp.Threshold = cfg.Threshold

	p := DefaultPipeline(cfg, fp, history, c.logger)
	if err := p.Execute(ctx, cmp); err != nil {
		return cmp, err
	}
	return cmp, nil
}
