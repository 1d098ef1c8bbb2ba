package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/bookdiff/internal/cache"
	"github.com/nao1215/bookdiff/internal/fingerprint"
	"github.com/nao1215/bookdiff/internal/model"
	"github.com/nao1215/bookdiff/internal/pages"
)

// Fingerprinter hashes the pages of one version concurrently.
// It uses errgroup to bound the number of pages decoded at once.
type Fingerprinter struct {
	// hasher computes the perceptual hash of a decoded page.
	hasher *fingerprint.Hasher

	// cache stores hashes by content digest. nil disables caching.
	cache *cache.Cache

	// workers is the maximum number of pages hashed concurrently.
	workers int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// FingerprinterOption configures a Fingerprinter.
type FingerprinterOption func(*Fingerprinter)

// WithFingerprintLogger sets a custom logger for fingerprinting.
func WithFingerprintLogger(logger *slog.Logger) FingerprinterOption {
	return func(f *Fingerprinter) {
		f.logger = logger
	}
}

// WithWorkers sets the maximum number of concurrently hashed pages.
// Default is runtime.NumCPU() if not specified.
func WithWorkers(n int) FingerprinterOption {
	return func(f *Fingerprinter) {
		if n > 0 {
			f.workers = n
		}
	}
}

// WithCache enables the fingerprint cache.
func WithCache(c *cache.Cache) FingerprinterOption {
	return func(f *Fingerprinter) {
		f.cache = c
	}
}

// NewFingerprinter creates a new Fingerprinter for the given hasher.
func NewFingerprinter(hasher *fingerprint.Hasher, opts ...FingerprinterOption) *Fingerprinter {
	f := &Fingerprinter{
		hasher:  hasher,
		workers: runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = slog.Default()
	}

	return f
}

// Fingerprint hashes every page and returns the sequence for side.
// Results are written into a pre-sized slice, so the sequence follows page
// order whatever order the workers finish in. The first failing page
// cancels the remaining work and its error, naming the page, is returned.
func (f *Fingerprinter) Fingerprint(ctx context.Context, side model.Side, pgs []pages.Page) (model.PageSequence, error) {
	f.logger.Info("fingerprinting pages",
		"side", side.String(),
		"pages", len(pgs),
		"workers", f.workers,
		"hasher", f.hasher.Name(),
	)

	startTime := time.Now()

	seq := make(model.PageSequence, len(pgs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)

	for i, page := range pgs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			bits, err := f.hashPage(ctx, page)
			if err != nil {
				return fmt.Errorf("fingerprint %s: %w", page.Path, err)
			}

			// Each goroutine owns one slot.
			seq[i] = model.Fingerprint{
				Index: i,
				Side:  side,
				Path:  page.Path,
				Bits:  bits,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	f.logger.Info("fingerprinting complete",
		"side", side.String(),
		"pages", len(pgs),
		"elapsed", time.Since(startTime),
	)

	return seq, nil
}

// hashPage returns the hash of one page, consulting the cache when enabled.
// Cache failures are logged and the page is hashed directly.
func (f *Fingerprinter) hashPage(ctx context.Context, page pages.Page) (model.Bits, error) {
	data, err := page.ReadAll()
	if err != nil {
		return nil, err
	}

	var digest string
	if f.cache != nil {
		digest = cache.Digest(data)
		bits, ok, err := f.cache.Get(ctx, digest, f.hasher.Name())
		switch {
		case err != nil:
			f.logger.Warn("fingerprint cache lookup failed", "path", page.Path, "error", err)
		case ok:
			f.logger.Debug("fingerprint cache hit", "path", page.Path)
			return bits, nil
		}
	}

	bits, err := f.hasher.HashBytes(data)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if err := f.cache.Put(ctx, digest, f.hasher.Name(), bits); err != nil {
			f.logger.Warn("fingerprint cache store failed", "path", page.Path, "error", err)
		}
	}
	return bits, nil
}
