package model

import "errors"

// Page sequence contract violations.
// These are returned by PageSequence.Validate. The alignment engine treats
// them as caller defects and panics; higher layers validate first and
// surface them as ordinary errors.
var (
	// ErrIndexOutOfOrder is returned when a fingerprint's Index does not equal
	// its position in the sequence (non-monotonic or duplicate indices).
	ErrIndexOutOfOrder = errors.New("page sequence index out of order")

	// ErrSideMismatch is returned when a fingerprint belongs to the other side.
	ErrSideMismatch = errors.New("page sequence side mismatch")

	// ErrWidthMismatch is returned when fingerprints have different bit widths.
	ErrWidthMismatch = errors.New("fingerprint width mismatch")
)

// Decoding errors for the text forms of enumerations.
var (
	// ErrUnknownOpKind is returned when decoding an op kind other than
	// MATCH, SUBSTITUTE, DELETE or INSERT.
	ErrUnknownOpKind = errors.New("unknown edit op kind")

	// ErrUnknownSide is returned when decoding a side other than old or new.
	ErrUnknownSide = errors.New("unknown page side")
)
