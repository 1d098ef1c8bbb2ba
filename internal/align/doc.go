// Package align implements the alignment engine: a global sequence alignment
// between the old and new fingerprint sequences of a document.
//
// The engine fills a dynamic-programming table of size
// (|old|+1) x (|new|+1). A diagonal step pairs two pages and costs their
// fingerprint distance when it is within the threshold, or the substitution
// penalty otherwise. Vertical and horizontal steps leave a page without a
// counterpart and cost the gap penalty. Ties are broken diagonal first, then
// up (delete), then left (insert), so the output is deterministic and
// ambiguous cases are reported as altered pages rather than as a
// missing+inserted pair.
//
// Design decision: The table is a flat arena indexed by i*width+j rather than
// a slice of rows. One allocation per call, no shared state, so Align is
// reentrant and safe to call concurrently for different inputs.
//
// A banded variant computes only cells within a fixed offset of the
// diagonal. It is a performance option for long, mostly order-preserving
// books; whenever it cannot prove its answer equals the full table's answer
// it falls back to the full computation.
//
// An order-preserving alignment can never pair pages whose relative order
// changed; those surface as a DELETE plus an INSERT. RecoverMoves pairs such
// leftovers back up when their fingerprints match within the threshold.
package align
