package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/nao1215/bookdiff/internal/config"
	"github.com/nao1215/bookdiff/internal/model"
	"github.com/nao1215/bookdiff/internal/testutil"
)

// newTestConfig returns a configuration comparing two fresh directories.
// Threshold 0 makes only byte-identical renderings match.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()

	root := t.TempDir()
	cfg := config.NewConfig()
	cfg.OldPath = filepath.Join(root, "old")
	cfg.NewPath = filepath.Join(root, "new")
	cfg.Threshold = 0
	cfg.Workers = 2
	cfg.CacheDir = filepath.Join(root, "cache")
	return cfg
}

func verdicts(r *model.DiffReport) []model.Verdict {
	out := make([]model.Verdict, 0, r.Len())
	for _, v := range r.Verdicts() {
		out = append(out, v.Verdict)
	}
	return out
}

func TestComparerCompare(t *testing.T) {
	t.Parallel()

	const (
		a = iota
		b
		c
		d
	)
	book := testutil.Book

	testCases := []struct {
		name        string
		old         []int
		new         []int
		detectMoves bool
		want        []model.Verdict
	}{
		{
			name:        "identical",
			old:         []int{a, b, c},
			new:         []int{a, b, c},
			detectMoves: true,
			want:        []model.Verdict{model.VerdictMatched, model.VerdictMatched, model.VerdictMatched},
		},
		{
			name:        "page removed",
			old:         []int{a, b, c},
			new:         []int{a, c},
			detectMoves: true,
			want:        []model.Verdict{model.VerdictMatched, model.VerdictMissing, model.VerdictMatched},
		},
		{
			name:        "page added",
			old:         []int{a, c},
			new:         []int{a, b, c},
			detectMoves: true,
			want:        []model.Verdict{model.VerdictMatched, model.VerdictInserted, model.VerdictMatched},
		},
		{
			name:        "page replaced",
			old:         []int{a, b, c},
			new:         []int{a, d, c},
			detectMoves: true,
			want:        []model.Verdict{model.VerdictMatched, model.VerdictAltered, model.VerdictMatched},
		},
		{
			name:        "adjacent swap",
			old:         []int{a, b, c},
			new:         []int{b, a, c},
			detectMoves: true,
			want:        []model.Verdict{model.VerdictMatched, model.VerdictMoved, model.VerdictMatched},
		},
		{
			name:        "adjacent swap without move detection",
			old:         []int{a, b, c},
			new:         []int{b, a, c},
			detectMoves: false,
			want:        []model.Verdict{model.VerdictInserted, model.VerdictMatched, model.VerdictMissing, model.VerdictMatched},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := newTestConfig(t)
			cfg.DetectMoves = tc.detectMoves
			for _, side := range []struct {
				dir string
				idx []int
			}{{cfg.OldPath, tc.old}, {cfg.NewPath, tc.new}} {
				patterns := make([]testutil.Pattern, len(side.idx))
				for i, k := range side.idx {
					patterns[i] = book[k]
				}
				testutil.WritePages(t, side.dir, patterns...)
			}

			cmp, err := NewComparer(nil, discardLogger()).Compare(context.Background(), cfg)
			if err != nil {
				t.Fatalf("Compare() error = %v", err)
			}

			if got := verdicts(cmp.Report); !slices.Equal(got, tc.want) {
				t.Errorf("verdicts = %v, want %v", got, tc.want)
			}
			if cmp.Algorithm != "perception-8" {
				t.Errorf("Algorithm = %q, want perception-8", cmp.Algorithm)
			}
			if cmp.Report.Summary().OldPages != len(tc.old) || cmp.Report.Summary().NewPages != len(tc.new) {
				t.Errorf("Summary() = %+v", cmp.Report.Summary())
			}
			identical := slices.Equal(tc.old, tc.new)
			if cmp.HasDifferences() == identical {
				t.Errorf("HasDifferences() = %v", cmp.HasDifferences())
			}
		})
	}
}

func TestComparerEmptySide(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	testutil.WritePages(t, cfg.OldPath, testutil.LShape, testutil.Block)
	testutil.WritePages(t, cfg.NewPath)

	cmp, err := NewComparer(nil, discardLogger()).Compare(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	want := []model.Verdict{model.VerdictMissing, model.VerdictMissing}
	if got := verdicts(cmp.Report); !slices.Equal(got, want) {
		t.Errorf("verdicts = %v, want %v", got, want)
	}
}

func TestComparerInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	cfg.Threshold = -1

	cmp, err := NewComparer(nil, discardLogger()).Compare(context.Background(), cfg)
	if !errors.Is(err, config.ErrInvalidThreshold) {
		t.Errorf("Compare() error = %v, want ErrInvalidThreshold", err)
	}
	if cmp != nil {
		t.Error("Compare() returned a comparison for an invalid config")
	}
}

func TestComparerMissingSource(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	testutil.WritePages(t, cfg.NewPath, testutil.LShape)

	cmp, err := NewComparer(nil, discardLogger()).Compare(context.Background(), cfg)
	if err == nil {
		t.Fatal("Compare() of a missing directory succeeded")
	}
	if len(cmp.PerformedSteps) != 0 {
		t.Errorf("PerformedSteps = %v, want none", cmp.PerformedSteps)
	}
	if cmp.Report != nil {
		t.Error("Report set after a failed step")
	}
}

func TestComparerHistory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := newTestConfig(t)
	cfg.UseCache = true
	testutil.WritePages(t, cfg.OldPath, testutil.LShape, testutil.Disc)
	testutil.WritePages(t, cfg.NewPath, testutil.LShape)

	c := OpenCache(cfg, discardLogger())
	if c == nil {
		t.Fatal("OpenCache() returned nil")
	}
	t.Cleanup(func() { _ = c.Close() })

	cmp, err := NewComparer(c, discardLogger()).Compare(ctx, cfg)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if !slices.Contains(cmp.PerformedSteps, StepSaveHistory) {
		t.Errorf("PerformedSteps = %v, want %s", cmp.PerformedSteps, StepSaveHistory)
	}

	records, err := c.History(ctx, 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(records) != 1 || records[0].Summary.Missing != 1 {
		t.Errorf("History() = %+v", records)
	}

	n, err := c.Count(ctx)
	if err != nil || n != 2 {
		t.Errorf("Count() = %d, %v; want 2 cached fingerprints", n, err)
	}
}

func TestOpenCache(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	if c := OpenCache(cfg, discardLogger()); c != nil {
		t.Error("OpenCache() without UseCache returned a cache")
	}

	cfg.UseCache = true
	cfg.CacheDir = filepath.Join(cfg.CacheDir, "db")
	c := OpenCache(cfg, discardLogger())
	if c == nil {
		t.Fatal("OpenCache() = nil")
	}
	defer func() { _ = c.Close() }()
	if filepath.Dir(c.Path()) != cfg.CacheDir {
		t.Errorf("Path() = %s", c.Path())
	}
}
