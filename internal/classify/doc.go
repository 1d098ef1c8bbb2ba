// Package classify turns an alignment edit script into page-level verdicts.
//
// Each op yields exactly one verdict, in op order:
//   - MATCH: MATCHED, or MOVED when the pair breaks the relative page order
//   - SUBSTITUTE: ALTERED
//   - DELETE: MISSING
//   - INSERT: INSERTED
//
// Order inversions are detected in a single pass with a watermark holding the
// highest new index of any in-order match seen so far. A match whose new
// index falls below the watermark is MOVED. Matches produced by move recovery
// are off the alignment path and are always MOVED.
//
// An inversion marks one page of the pair, never both. Swapping two adjacent
// pages therefore yields one MATCHED and one MOVED verdict: the page that
// stays on the alignment path keeps its place in the reading order, and its
// partner is the one reported as moved.
package classify
