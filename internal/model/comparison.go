package model

import "time"

// Comparison is the main result structure of one bookdiff run.
// Pipeline steps fill it in order: page sequences, then the edit script,
// then the report.
//
// Design decision: We keep the intermediate edit script next to the final
// report so the JSON writer can emit it for debugging, and so tests can check
// the round-trip invariant on real runs.
type Comparison struct {
	// OldSource and NewSource are the directories or PDF files compared.
	OldSource string `json:"old_source"`
	NewSource string `json:"new_source"`

	// Threshold is the maximum fingerprint distance still considered the same page.
	Threshold int `json:"threshold"`

	// Algorithm is the perceptual hash algorithm used for fingerprints.
	Algorithm string `json:"algorithm"`

	// Old and New are the fingerprint sequences of each side.
	Old PageSequence `json:"-"`
	New PageSequence `json:"-"`

	// Ops is the edit script after move recovery.
	Ops []EditOp `json:"ops,omitempty"`

	// Report is the classified result.
	Report *DiffReport `json:"report"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"-"`

	// StartedAt and Elapsed describe the run; they are not part of the report
	// so that reports stay deterministic.
	StartedAt time.Time     `json:"-"`
	Elapsed   time.Duration `json:"-"`

	// Error holds the error that stopped the pipeline, if any.
	Error error `json:"-"`
}

// NewComparison creates an empty comparison for two page sources.
func NewComparison(oldSource, newSource string) *Comparison {
	return &Comparison{
		OldSource:      oldSource,
		NewSource:      newSource,
		PerformedSteps: make([]string, 0),
		StartedAt:      time.Now(),
	}
}

// HasDifferences reports whether the comparison produced any difference.
// A comparison without a report has none.
func (c *Comparison) HasDifferences() bool {
	return c.Report != nil && c.Report.Summary().HasDifferences()
}
