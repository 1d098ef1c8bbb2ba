package fingerprint

import (
	"image"

	"github.com/dsoprea/go-exif/v3"
)

// orientationTagID is the EXIF Orientation tag.
const orientationTagID = 0x0112

// Orientation returns the EXIF orientation (1-8) stored in an encoded image.
// Images without EXIF data or with an unreadable or out of range tag report
// 1, the upright orientation.
func Orientation(data []byte) int {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return 1
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return 1
	}

	for _, entry := range entries {
		if entry.TagId != orientationTagID {
			continue
		}
		values, ok := entry.Value.([]uint16)
		if !ok || len(values) == 0 {
			return 1
		}
		if o := int(values[0]); o >= 1 && o <= 8 {
			return o
		}
		return 1
	}
	return 1
}

// Orient returns img transformed so that an image stored with the given EXIF
// orientation is displayed upright. Orientation 1 and unknown values return
// img unchanged.
func Orient(img image.Image, orientation int) image.Image {
	if orientation <= 1 || orientation > 8 {
		return img
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	dw, dh := w, h
	if orientation >= 5 {
		dw, dh = h, w
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))

	// src maps a destination pixel to its source pixel.
	var src func(x, y int) (int, int)
	switch orientation {
	case 2: // mirrored horizontally
		src = func(x, y int) (int, int) { return w - 1 - x, y }
	case 3: // rotated 180
		src = func(x, y int) (int, int) { return w - 1 - x, h - 1 - y }
	case 4: // mirrored vertically
		src = func(x, y int) (int, int) { return x, h - 1 - y }
	case 5: // transposed
		src = func(x, y int) (int, int) { return y, x }
	case 6: // needs 90 clockwise
		src = func(x, y int) (int, int) { return y, h - 1 - x }
	case 7: // transversed
		src = func(x, y int) (int, int) { return w - 1 - y, h - 1 - x }
	case 8: // needs 90 counter-clockwise
		src = func(x, y int) (int, int) { return w - 1 - y, x }
	}

	for y := range dh {
		for x := range dw {
			sx, sy := src(x, y)
			dst.Set(x, y, img.At(b.Min.X+sx, b.Min.Y+sy))
		}
	}
	return dst
}
