package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/bookdiff/internal/cache"
	"github.com/nao1215/bookdiff/internal/fingerprint"
	"github.com/nao1215/bookdiff/internal/model"
	"github.com/nao1215/bookdiff/internal/pages"
	"github.com/nao1215/bookdiff/internal/testutil"
)

func newTestHasher(t *testing.T) *fingerprint.Hasher {
	t.Helper()

	h, err := fingerprint.NewHasher(fingerprint.AlgorithmPerception, fingerprint.SizeDefault)
	if err != nil {
		t.Fatalf("NewHasher() error = %v", err)
	}
	return h
}

func listPages(t *testing.T, dir string) []pages.Page {
	t.Helper()

	pgs, err := pages.List(context.Background(), dir, pages.SortLexical)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	return pgs
}

func TestFingerprinterOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := testutil.WritePages(t, dir, testutil.Book...)

	fp := NewFingerprinter(newTestHasher(t), WithWorkers(3), WithFingerprintLogger(discardLogger()))
	seq, err := fp.Fingerprint(context.Background(), model.SideNew, listPages(t, dir))
	if err != nil {
		t.Fatalf("Fingerprint() error = %v", err)
	}

	if err := seq.Validate(model.SideNew); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if len(seq) != len(paths) {
		t.Fatalf("got %d fingerprints, want %d", len(seq), len(paths))
	}
	for i, f := range seq {
		if f.Path != paths[i] {
			t.Errorf("seq[%d].Path = %s, want %s", i, f.Path, paths[i])
		}
		if f.Bits.Width() != 64 {
			t.Errorf("seq[%d] width = %d, want 64", i, f.Bits.Width())
		}
	}
}

func TestFingerprinterEmpty(t *testing.T) {
	t.Parallel()

	fp := NewFingerprinter(newTestHasher(t), WithFingerprintLogger(discardLogger()))
	seq, err := fp.Fingerprint(context.Background(), model.SideOld, nil)
	if err != nil {
		t.Fatalf("Fingerprint() error = %v", err)
	}
	if len(seq) != 0 {
		t.Errorf("got %d fingerprints, want 0", len(seq))
	}
}

func TestFingerprinterDecodeError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WritePages(t, dir, testutil.LShape, testutil.Block)
	broken := filepath.Join(dir, "page03.png")
	if err := os.WriteFile(broken, []byte("not an image"), 0o600); err != nil {
		t.Fatal(err)
	}

	fp := NewFingerprinter(newTestHasher(t), WithWorkers(1), WithFingerprintLogger(discardLogger()))
	_, err := fp.Fingerprint(context.Background(), model.SideOld, listPages(t, dir))
	if !errors.Is(err, fingerprint.ErrDecode) {
		t.Fatalf("Fingerprint() error = %v, want ErrDecode", err)
	}
	if !strings.Contains(err.Error(), "page03.png") {
		t.Errorf("error %q does not name the page", err)
	}
}

func TestFingerprinterCancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WritePages(t, dir, testutil.LShape, testutil.Block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fp := NewFingerprinter(newTestHasher(t), WithFingerprintLogger(discardLogger()))
	if _, err := fp.Fingerprint(ctx, model.SideOld, listPages(t, dir)); !errors.Is(err, context.Canceled) {
		t.Errorf("Fingerprint() error = %v, want context.Canceled", err)
	}
}

func TestFingerprinterCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	testutil.WritePages(t, dir, testutil.Disc, testutil.Steps, testutil.Disc)

	c, err := cache.Open(t.TempDir(), cache.DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	hasher := newTestHasher(t)
	fp := NewFingerprinter(hasher, WithCache(c), WithWorkers(1), WithFingerprintLogger(discardLogger()))
	first, err := fp.Fingerprint(ctx, model.SideOld, listPages(t, dir))
	if err != nil {
		t.Fatalf("Fingerprint() error = %v", err)
	}

	// Two distinct page contents.
	n, err := c.Count(ctx)
	if err != nil || n != 2 {
		t.Fatalf("Count() = %d, %v; want 2", n, err)
	}

	second, err := fp.Fingerprint(ctx, model.SideOld, listPages(t, dir))
	if err != nil {
		t.Fatalf("Fingerprint() error = %v", err)
	}
	for i := range first {
		if model.Hamming(first[i].Bits, second[i].Bits) != 0 {
			t.Errorf("page %d: cached hash %s differs from %s", i, second[i].Bits, first[i].Bits)
		}
	}

	// A cached value wins over decoding, so a poisoned entry shows up.
	pgs := listPages(t, dir)
	data, err := pgs[1].ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Put(ctx, cache.Digest(data), hasher.Name(), model.Bits{42}); err != nil {
		t.Fatal(err)
	}
	third, err := fp.Fingerprint(ctx, model.SideOld, pgs)
	if err != nil {
		t.Fatalf("Fingerprint() error = %v", err)
	}
	if third[1].Bits[0] != 42 {
		t.Errorf("cache was not consulted: got %s", third[1].Bits)
	}
}
