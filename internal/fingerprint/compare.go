package fingerprint

import (
	"fmt"
	"image"

	"github.com/nao1215/bookdiff/internal/model"
)

// Distance is the distance between two images under one hasher.
type Distance struct {
	Algorithm Algorithm `json:"algorithm"`
	Size      int       `json:"size"`
	Distance  int       `json:"distance"`

	// Bits is the hash width, the largest possible distance.
	Bits int `json:"bits"`
}

// CompareAll hashes two images with every algorithm at both sizes and
// returns the distances, grouped by algorithm in Algorithms order.
// It helps pick an algorithm and threshold for a given scan setup.
func CompareAll(a, b image.Image) ([]Distance, error) {
	out := make([]Distance, 0, len(Algorithms)*2)
	for _, alg := range Algorithms {
		for _, size := range []int{SizeDefault, SizeExtended} {
			h, err := NewHasher(alg, size)
			if err != nil {
				return nil, err
			}
			ha, err := h.Hash(a)
			if err != nil {
				return nil, fmt.Errorf("hash first image with %s: %w", h.Name(), err)
			}
			hb, err := h.Hash(b)
			if err != nil {
				return nil, fmt.Errorf("hash second image with %s: %w", h.Name(), err)
			}
			out = append(out, Distance{
				Algorithm: alg,
				Size:      size,
				Distance:  model.Hamming(ha, hb),
				Bits:      ha.Width(),
			})
		}
	}
	return out, nil
}
