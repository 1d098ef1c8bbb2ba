package model

// Verdict is the page-level diagnosis produced by the classifier.
type Verdict string

const (
	// VerdictMatched means the page has an in-order counterpart within the threshold.
	VerdictMatched Verdict = "MATCHED"
	// VerdictMoved means the page has a counterpart within the threshold,
	// but at a position that breaks the relative page order.
	VerdictMoved Verdict = "MOVED"
	// VerdictAltered means the page is paired positionally but its content
	// differs beyond the threshold.
	VerdictAltered Verdict = "ALTERED"
	// VerdictMissing means an old page has no counterpart in the new version.
	VerdictMissing Verdict = "MISSING"
	// VerdictInserted means a new page has no counterpart in the old version.
	VerdictInserted Verdict = "INSERTED"
)

// AllVerdicts lists every verdict in report order.
var AllVerdicts = []Verdict{
	VerdictMatched,
	VerdictMoved,
	VerdictAltered,
	VerdictMissing,
	VerdictInserted,
}

// IsDifference reports whether the verdict counts as a difference between
// the two versions.
func (v Verdict) IsDifference() bool {
	return v != VerdictMatched
}

// PageRef identifies a page on one side.
type PageRef struct {
	Index int    `json:"index"`
	Path  string `json:"path,omitempty"`
}

// PageVerdict is the classification of one edit op.
// Paired verdicts (MATCHED, MOVED, ALTERED) carry both references;
// MISSING carries only Old and INSERTED only New.
type PageVerdict struct {
	Verdict Verdict  `json:"verdict"`
	Old     *PageRef `json:"old,omitempty"`
	New     *PageRef `json:"new,omitempty"`

	// Distance is the measured fingerprint distance of a paired verdict.
	// It is 0 for MISSING and INSERTED.
	Distance int `json:"distance"`
}

// Paired reports whether the verdict links an old page to a new page.
func (v PageVerdict) Paired() bool {
	return v.Old != nil && v.New != nil
}

// clone returns a deep copy so a DiffReport never shares PageRefs with callers.
func (v PageVerdict) clone() PageVerdict {
	out := v
	if v.Old != nil {
		ref := *v.Old
		out.Old = &ref
	}
	if v.New != nil {
		ref := *v.New
		out.New = &ref
	}
	return out
}
