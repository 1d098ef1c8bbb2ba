// Package pipeline runs one comparison as a sequence of steps.
//
// A comparison passes through these stages:
//   - fingerprint_old and fingerprint_new list the pages of each version and
//     hash them concurrently
//   - align computes the edit script
//   - recover_moves pairs missing and inserted pages with the same content
//   - classify turns the script into the DiffReport
//   - save_history records the run in the cache database
//
// Each stage is a Step that receives the current model.Comparison and fills
// in its part. The Comparer builds the pipeline from a config.Config.
package pipeline
