// Package testutil generates synthetic page images for tests.
//
// Every pattern is a black and white 64x64 picture. Repeated renderings of
// one pattern hash identically.
package testutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// Size is the edge length of generated pages in pixels.
const Size = 64

// Pattern reports whether pixel (x, y) is white.
type Pattern func(x, y int) bool

// Predefined patterns. None of them is a mirror image or a rotation of
// another, and none has a symmetry axis, so the pages stay apart under
// every hash algorithm and a page turned sideways no longer hashes like
// the upright one.
var (
	// LShape is a vertical bar with a foot to the right.
	LShape Pattern = func(x, y int) bool {
		return (x >= 7 && x < 18 && y >= 12 && y < 53) || (x >= 7 && x < 38 && y >= 45 && y < 53)
	}
	// Block is an off-centre rectangle in the upper left.
	Block Pattern = func(x, y int) bool { return x >= 10 && x < 37 && y >= 6 && y < 31 }
	// Wedge is a region below a steep sloped edge.
	Wedge Pattern = func(x, y int) bool { return 3*x+y < 96 }
	// Cross is an off-centre plus sign.
	Cross Pattern = func(x, y int) bool { return (x >= 20 && x < 30) || (y >= 36 && y < 46) }
	// Disc is a disc in the upper right.
	Disc Pattern = func(x, y int) bool {
		dx, dy := x-40, y-24
		return dx*dx+dy*dy < 16*16
	}
	// Steps is a staircase rising to the left.
	Steps Pattern = func(x, y int) bool { return x >= 60-(y/16+1)*13 }
	// Frame is an off-centre hollow rectangle.
	Frame Pattern = func(x, y int) bool {
		outer := x >= 6 && x < 50 && y >= 12 && y < 58
		inner := x >= 14 && x < 42 && y >= 20 && y < 50
		return outer && !inner
	}
)

// Book lists every predefined pattern. Any two of them are more than four
// bits apart under each supported hash algorithm and size.
var Book = []Pattern{LShape, Block, Wedge, Cross, Disc, Steps, Frame}

// Image renders a pattern.
func Image(p Pattern) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, Size, Size))
	for y := range Size {
		for x := range Size {
			if p(x, y) {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// PNG returns the PNG encoding of a pattern.
func PNG(t testing.TB, p Pattern) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, Image(p)); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// WritePNG writes a pattern as a PNG file.
func WritePNG(t testing.TB, path string, p Pattern) {
	t.Helper()

	if err := os.WriteFile(path, PNG(t, p), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WritePages creates dir and writes one PNG per pattern, named page01.png,
// page02.png and so on. It returns the file paths in page order.
func WritePages(t testing.TB, dir string, patterns ...Pattern) []string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("create %s: %v", dir, err)
	}
	paths := make([]string, len(patterns))
	for i, p := range patterns {
		paths[i] = filepath.Join(dir, fmt.Sprintf("page%02d.png", i+1))
		WritePNG(t, paths[i], p)
	}
	return paths
}
