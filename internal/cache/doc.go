// Package cache provides the opt-in SQLite store of bookdiff.
//
// It keeps two tables:
//   - fingerprints: page hashes keyed by the SHA3-256 digest of the encoded
//     image and the hasher name, so unchanged scans are not decoded again
//   - comparisons: one row per finished run with its summary and report
//
// The alignment engine never reads the cache. Every run produces the same
// report with or without it.
package cache
