// Package fingerprint turns page images into perceptual hashes.
//
// A Hasher decodes the encoded image bytes (JPEG, PNG, GIF, TIFF, BMP or
// WebP), applies the EXIF orientation of JPEG scans and hashes the upright
// image with one of the goimagehash algorithms. Hashes of size 8 are 64 bits
// wide; size 16 selects the extended 256-bit variants.
package fingerprint
