package fingerprint

import (
	"fmt"
	"image"
	"strings"

	"github.com/corona10/goimagehash"
	"github.com/nao1215/bookdiff/internal/model"
)

// Algorithm names a perceptual hash algorithm.
type Algorithm string

const (
	// AlgorithmPerception is the DCT based pHash.
	AlgorithmPerception Algorithm = "perception"
	// AlgorithmDifference is the gradient based dHash.
	AlgorithmDifference Algorithm = "difference"
	// AlgorithmAverage is the mean based aHash.
	AlgorithmAverage Algorithm = "average"
)

// Algorithms lists every supported algorithm.
var Algorithms = []Algorithm{AlgorithmPerception, AlgorithmDifference, AlgorithmAverage}

// Supported hash sizes.
const (
	// SizeDefault yields 64-bit hashes.
	SizeDefault = 8
	// SizeExtended yields 256-bit hashes.
	SizeExtended = 16
)

// ParseAlgorithm parses an algorithm name, ignoring case.
func ParseAlgorithm(s string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(s))
	for _, known := range Algorithms {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// ValidateSize checks a hash size.
func ValidateSize(size int) error {
	if size != SizeDefault && size != SizeExtended {
		return fmt.Errorf("%w: %d (want %d or %d)", ErrInvalidHashSize, size, SizeDefault, SizeExtended)
	}
	return nil
}

// Hasher computes fingerprints with a fixed algorithm and size.
// It holds no mutable state and is safe for concurrent use.
type Hasher struct {
	algorithm Algorithm
	size      int
}

// NewHasher returns a Hasher for the given algorithm and size.
func NewHasher(algorithm Algorithm, size int) (*Hasher, error) {
	if _, err := ParseAlgorithm(string(algorithm)); err != nil {
		return nil, err
	}
	if err := ValidateSize(size); err != nil {
		return nil, err
	}
	return &Hasher{algorithm: algorithm, size: size}, nil
}

// Algorithm returns the hash algorithm.
func (h *Hasher) Algorithm() Algorithm {
	return h.algorithm
}

// Size returns the hash size.
func (h *Hasher) Size() int {
	return h.size
}

// Name identifies the algorithm and size, e.g. "perception-8".
// Hashes are only comparable between hashers with the same name.
func (h *Hasher) Name() string {
	return fmt.Sprintf("%s-%d", h.algorithm, h.size)
}

// Hash returns the fingerprint of a decoded image.
func (h *Hasher) Hash(img image.Image) (model.Bits, error) {
	if h.size == SizeExtended {
		return h.hashExtended(img)
	}

	var (
		hash *goimagehash.ImageHash
		err  error
	)
	switch h.algorithm {
	case AlgorithmPerception:
		hash, err = goimagehash.PerceptionHash(img)
	case AlgorithmDifference:
		hash, err = goimagehash.DifferenceHash(img)
	case AlgorithmAverage:
		hash, err = goimagehash.AverageHash(img)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, h.algorithm)
	}
	if err != nil {
		return nil, fmt.Errorf("%s hash: %w", h.algorithm, err)
	}
	return model.Bits{hash.GetHash()}, nil
}

func (h *Hasher) hashExtended(img image.Image) (model.Bits, error) {
	var (
		hash *goimagehash.ExtImageHash
		err  error
	)
	switch h.algorithm {
	case AlgorithmPerception:
		hash, err = goimagehash.ExtPerceptionHash(img, h.size, h.size)
	case AlgorithmDifference:
		hash, err = goimagehash.ExtDifferenceHash(img, h.size, h.size)
	case AlgorithmAverage:
		hash, err = goimagehash.ExtAverageHash(img, h.size, h.size)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, h.algorithm)
	}
	if err != nil {
		return nil, fmt.Errorf("%s hash: %w", h.algorithm, err)
	}
	return model.Bits(hash.GetHash()), nil
}

// HashBytes decodes an encoded image, rotates it upright and hashes it.
func (h *Hasher) HashBytes(data []byte) (model.Bits, error) {
	img, err := DecodeUpright(data)
	if err != nil {
		return nil, err
	}
	return h.Hash(img)
}
