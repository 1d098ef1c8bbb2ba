package align

import "errors"

// Cost model validation errors.
var (
	// ErrNegativeThreshold is returned when the threshold is negative.
	ErrNegativeThreshold = errors.New("threshold must be non-negative")

	// ErrInvalidGapPenalty is returned when the gap penalty is not positive.
	ErrInvalidGapPenalty = errors.New("gap penalty must be positive")

	// ErrInvalidSubstitutePenalty is returned when the substitution penalty
	// does not exceed the threshold. A substitution must never be cheaper
	// than a true match.
	ErrInvalidSubstitutePenalty = errors.New("substitute penalty must exceed the threshold")

	// ErrNegativeBand is returned when the band is negative.
	ErrNegativeBand = errors.New("band must be non-negative")
)
