package fingerprint

import (
	"bytes"
	"fmt"
	"image"

	// Registered decoders for page images.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode decodes an encoded image and returns it with its format name.
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return img, format, nil
}

// DecodeUpright decodes an encoded image and applies its EXIF orientation.
// Formats without EXIF support are returned as decoded.
func DecodeUpright(data []byte) (image.Image, error) {
	img, format, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if format != "jpeg" && format != "tiff" {
		return img, nil
	}
	return Orient(img, Orientation(data)), nil
}
