package pages

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Page is one page image of a document version.
type Page struct {
	// Index is the 0-based position of the page in its version.
	Index int

	// Path identifies the page in reports. For directory pages it is the
	// file path; for PDF pages it is "<file>#page=<n>" with n 1-based.
	Path string

	// data holds the encoded image of pages that do not live in their own
	// file.
	data []byte
}

// ReadAll returns the encoded image bytes of the page.
func (p Page) ReadAll() ([]byte, error) {
	if p.data != nil {
		return p.data, nil
	}
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("read page %s: %w", p.Path, err)
	}
	return data, nil
}

// Open returns a reader over the encoded image bytes of the page.
func (p Page) Open() (io.ReadCloser, error) {
	if p.data != nil {
		return io.NopCloser(bytes.NewReader(p.data)), nil
	}
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("open page %s: %w", p.Path, err)
	}
	return f, nil
}

// List enumerates the pages of the version at path. A directory is listed
// with ListDir, a file with a .pdf extension with ListPDF.
func List(ctx context.Context, path string, order SortOrder) ([]Page, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	switch {
	case info.IsDir():
		return ListDir(path, order)
	case info.Mode().IsRegular() && strings.EqualFold(filepath.Ext(path), ".pdf"):
		return ListPDF(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, path)
	}
}

// Paths returns the Path of every page, in order.
func Paths(pages []Page) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.Path
	}
	return out
}
