package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/bookdiff/internal/model"
)

// setupTestCache creates a temporary cache for testing.
func setupTestCache(t *testing.T) *Cache {
	t.Helper()

	c, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "newdir", "subdir")
		c, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open cache: %v", err)
		}
		defer c.Close()

		if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
			t.Errorf("database file was not created: %v", err)
		}
		if c.Path() != filepath.Join(dir, FileName) {
			t.Errorf("Path() = %s", c.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns ErrNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		c, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		if err := c.Put(context.Background(), "d1", "perception-8", model.Bits{0xABCD}); err != nil {
			t.Fatal(err)
		}
		_ = c.Close()

		reopened, err := Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen cache: %v", err)
		}
		defer reopened.Close()

		n, err := reopened.Count(context.Background())
		if err != nil || n != 1 {
			t.Errorf("Count() = %d, %v; want 1", n, err)
		}
	})
}

func TestDigest(t *testing.T) {
	t.Parallel()

	a := Digest([]byte("page one"))
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex digits", len(a))
	}
	if a != Digest([]byte("page one")) {
		t.Error("digest is not stable")
	}
	if a == Digest([]byte("page two")) {
		t.Error("different content has the same digest")
	}
}

func TestFingerprints(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := setupTestCache(t)

	if _, ok, err := c.Get(ctx, "missing", "perception-8"); err != nil || ok {
		t.Errorf("Get() of missing digest = %v, %v", ok, err)
	}

	wide := model.Bits{1, 2, 3, 0xFFFFFFFFFFFFFFFF}
	if err := c.Put(ctx, "d1", "perception-16", wide); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := c.Put(ctx, "d1", "average-8", model.Bits{7}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok, err := c.Get(ctx, "d1", "perception-16")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if model.Hamming(got, wide) != 0 {
		t.Errorf("Get() = %s, want %s", got, wide)
	}

	// Same digest, other hasher.
	got, ok, err = c.Get(ctx, "d1", "average-8")
	if err != nil || !ok || got[0] != 7 {
		t.Errorf("Get(average-8) = %v, %v, %v", got, ok, err)
	}

	if err := c.Put(ctx, "d1", "average-8", model.Bits{9}); err != nil {
		t.Fatal(err)
	}
	got, _, _ = c.Get(ctx, "d1", "average-8")
	if got[0] != 9 {
		t.Errorf("Put() did not replace the value: %v", got)
	}

	n, err := c.Count(ctx)
	if err != nil || n != 2 {
		t.Errorf("Count() = %d, %v; want 2", n, err)
	}

	removed, err := c.Purge(ctx, time.Now().Add(time.Hour))
	if err != nil || removed != 2 {
		t.Errorf("Purge() = %d, %v; want 2", removed, err)
	}
}

func TestHistory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := setupTestCache(t)

	if _, err := c.SaveComparison(ctx, model.NewComparison("a", "b")); err == nil {
		t.Error("SaveComparison() without report succeeded")
	}

	report := model.NewDiffReport([]model.PageVerdict{
		{Verdict: model.VerdictMatched, Old: &model.PageRef{Index: 0}, New: &model.PageRef{Index: 0}},
		{Verdict: model.VerdictMissing, Old: &model.PageRef{Index: 1, Path: "old/p2.png"}},
	})

	var ids []int64
	for _, src := range []string{"scan-1", "scan-2"} {
		cmp := model.NewComparison("old", src)
		cmp.Algorithm = "perception-8"
		cmp.Threshold = 6
		cmp.Report = report
		id, err := c.SaveComparison(ctx, cmp)
		if err != nil {
			t.Fatalf("SaveComparison() error = %v", err)
		}
		ids = append(ids, id)
	}

	records, err := c.History(ctx, 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ID != ids[1] || records[0].NewSource != "scan-2" {
		t.Errorf("newest record = %+v", records[0])
	}
	if records[0].Summary.Missing != 1 || records[0].Threshold != 6 || records[0].Algorithm != "perception-8" {
		t.Errorf("record = %+v", records[0])
	}
	if records[0].Timestamp.IsZero() {
		t.Error("timestamp was not parsed")
	}

	limited, err := c.History(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Errorf("History(1) = %d records, %v", len(limited), err)
	}

	stored, err := c.Report(ctx, ids[0])
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if stored.Summary() != report.Summary() || stored.At(1).Old.Path != "old/p2.png" {
		t.Errorf("stored report = %+v", stored.Summary())
	}

	cmp, err := c.Comparison(ctx, ids[1])
	if err != nil {
		t.Fatalf("Comparison() error = %v", err)
	}
	if cmp.NewSource != "scan-2" || cmp.Threshold != 6 || cmp.Report.Len() != 2 || cmp.StartedAt.IsZero() {
		t.Errorf("Comparison() = %+v", cmp)
	}

	if _, err := c.Report(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Report(9999) error = %v, want ErrNotFound", err)
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   string
		zero bool
	}{
		{"2026-01-02 15:04:05", false},
		{"2026-01-02T15:04:05Z", false},
		{"2026-01-02T15:04:05.123456789Z", false},
		{"yesterday", true},
	}
	for _, tc := range testCases {
		if got := parseTimestamp(tc.in); got.IsZero() != tc.zero {
			t.Errorf("parseTimestamp(%q) = %v", tc.in, got)
		}
	}
}
