// Package model defines the core data structures used throughout bookdiff.
//
// This package contains the following main types:
//   - Fingerprint / PageSequence: the per-page perceptual hashes of one side
//   - EditOp: one step of the alignment between the old and new sequences
//   - PageVerdict / DiffReport: the classified, page-level comparison result
//   - Comparison: the envelope a single run fills in step by step
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The align, classify, pipeline and report packages all need
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output.
// Serialization of a DiffReport is deterministic: the same inputs always
// produce the same bytes.
package model
