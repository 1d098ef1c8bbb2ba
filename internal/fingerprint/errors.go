package fingerprint

import "errors"

var (
	// ErrUnknownAlgorithm is returned for an algorithm name that is not
	// perception, difference or average.
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

	// ErrInvalidHashSize is returned for a hash size other than 8 or 16.
	ErrInvalidHashSize = errors.New("invalid hash size")

	// ErrDecode is returned when the image bytes cannot be decoded.
	ErrDecode = errors.New("cannot decode image")
)
