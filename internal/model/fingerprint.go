package model

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/bits"
	"strings"
)

// Side identifies which version of the document a page belongs to.
type Side int

const (
	// SideOld is the reference version (the original scan).
	SideOld Side = iota
	// SideNew is the version being verified (the re-scan or re-edit).
	SideNew
)

// String returns the lower-case side name.
func (s Side) String() string {
	switch s {
	case SideOld:
		return "old"
	case SideNew:
		return "new"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "old":
		*s = SideOld
	case "new":
		*s = SideNew
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSide, text)
	}
	return nil
}

// Bits is a fixed-width bit vector stored as 64-bit words.
// A 64-bit perceptual hash is a single word; a 16x16 hash is four words.
type Bits []uint64

// Width returns the number of bits in the vector.
func (b Bits) Width() int {
	return len(b) * 64
}

// String returns the bits as lower-case hex, most significant word first.
func (b Bits) String() string {
	buf := make([]byte, 8*len(b))
	for i, w := range b {
		binary.BigEndian.PutUint64(buf[i*8:], w)
	}
	return hex.EncodeToString(buf)
}

// ParseBits parses the hex form produced by Bits.String.
func ParseBits(s string) (Bits, error) {
	s = strings.TrimSpace(s)
	if len(s)%16 != 0 {
		return nil, fmt.Errorf("invalid bits length %d: must be a multiple of 16 hex digits", len(s))
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid bits: %w", err)
	}
	out := make(Bits, len(raw)/8)
	for i := range out {
		out[i] = binary.BigEndian.Uint64(raw[i*8:])
	}
	return out, nil
}

// Hamming returns the number of differing bits between a and b.
// It is pure, symmetric and bounded by the bit width.
// Both vectors must have the same width; comparing hashes of different
// widths is a programming error and panics.
func Hamming(a, b Bits) int {
	if len(a) != len(b) {
		panic(fmt.Sprintf("model: hamming distance of %d-bit and %d-bit fingerprints", a.Width(), b.Width()))
	}
	d := 0
	for i := range a {
		d += bits.OnesCount64(a[i] ^ b[i])
	}
	return d
}

// Fingerprint is the perceptual summary of one page image.
// It is immutable once produced.
type Fingerprint struct {
	// Index is the 0-based position of the page within its side.
	Index int `json:"index"`

	// Side is the document version the page belongs to.
	Side Side `json:"side"`

	// Path is the originating file path, used only for report rendering.
	// PDF pages use "file.pdf#page=N".
	Path string `json:"path"`

	// Bits is the perceptual hash.
	Bits Bits `json:"bits"`
}

// Distance returns the Hamming distance between two fingerprints.
func (f Fingerprint) Distance(other Fingerprint) int {
	return Hamming(f.Bits, other.Bits)
}

// PageSequence is the ordered list of fingerprints of one side.
// Invariant: the fingerprint at position i has Index i, every entry has the
// same Side, and every entry has the same bit width.
type PageSequence []Fingerprint

// NewPageSequence builds a valid sequence from hashes in page order.
// paths may be nil; otherwise it must have the same length as hashes.
func NewPageSequence(side Side, hashes []Bits, paths []string) (PageSequence, error) {
	if paths != nil && len(paths) != len(hashes) {
		return nil, fmt.Errorf("got %d paths for %d hashes", len(paths), len(hashes))
	}
	seq := make(PageSequence, len(hashes))
	for i, h := range hashes {
		seq[i] = Fingerprint{Index: i, Side: side, Bits: h}
		if paths != nil {
			seq[i].Path = paths[i]
		}
	}
	if err := seq.Validate(side); err != nil {
		return nil, err
	}
	return seq, nil
}

// Validate checks the sequence invariant for the given side.
func (s PageSequence) Validate(side Side) error {
	width := -1
	for i, f := range s {
		if f.Index != i {
			return fmt.Errorf("%w: position %d has index %d", ErrIndexOutOfOrder, i, f.Index)
		}
		if f.Side != side {
			return fmt.Errorf("%w: position %d is %s, want %s", ErrSideMismatch, i, f.Side, side)
		}
		if width == -1 {
			width = f.Bits.Width()
		} else if f.Bits.Width() != width {
			return fmt.Errorf("%w: position %d is %d bits, want %d", ErrWidthMismatch, i, f.Bits.Width(), width)
		}
	}
	return nil
}

// Width returns the bit width shared by the sequence, or 0 when empty.
func (s PageSequence) Width() int {
	if len(s) == 0 {
		return 0
	}
	return s[0].Bits.Width()
}

// Paths returns the page paths in order.
func (s PageSequence) Paths() []string {
	paths := make([]string, len(s))
	for i, f := range s {
		paths[i] = f.Path
	}
	return paths
}
