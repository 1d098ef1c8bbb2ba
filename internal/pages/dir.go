package pages

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// imageExtensions are the file extensions listed as pages, lower-case.
var imageExtensions = []string{
	".bmp",
	".gif",
	".jpeg",
	".jpg",
	".png",
	".tif",
	".tiff",
	".webp",
}

// IsImageFile reports whether name has a page image extension.
// The comparison ignores case.
func IsImageFile(name string) bool {
	return slices.Contains(imageExtensions, strings.ToLower(filepath.Ext(name)))
}

// ListDir lists the page images directly inside dir, ordered by file name.
// Subdirectories, hidden files and files without an image extension are
// skipped. Symbolic links are followed.
func ListDir(dir string, order SortOrder) ([]Page, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list pages in %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !IsImageFile(name) {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read metadata for %s: %w", filepath.Join(dir, name), err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		names = append(names, name)
	}

	if err := order.Sort(names); err != nil {
		return nil, err
	}

	pages := make([]Page, len(names))
	for i, name := range names {
		pages[i] = Page{Index: i, Path: filepath.Join(dir, name)}
	}
	return pages, nil
}
