package model

import "encoding/json"

// Summary holds the per-verdict tallies of a DiffReport.
type Summary struct {
	Matched  int `json:"matched"`
	Moved    int `json:"moved"`
	Altered  int `json:"altered"`
	Missing  int `json:"missing"`
	Inserted int `json:"inserted"`

	// OldPages and NewPages are the number of pages on each side.
	OldPages int `json:"old_pages"`
	NewPages int `json:"new_pages"`
}

// Count returns the tally for a verdict.
func (s Summary) Count(v Verdict) int {
	switch v {
	case VerdictMatched:
		return s.Matched
	case VerdictMoved:
		return s.Moved
	case VerdictAltered:
		return s.Altered
	case VerdictMissing:
		return s.Missing
	case VerdictInserted:
		return s.Inserted
	default:
		return 0
	}
}

// Differences returns the number of verdicts other than MATCHED.
func (s Summary) Differences() int {
	return s.Moved + s.Altered + s.Missing + s.Inserted
}

// HasDifferences reports whether any MOVED, ALTERED, MISSING or INSERTED
// verdict exists.
func (s Summary) HasDifferences() bool {
	return s.Differences() > 0
}

// DiffReport is the ordered, immutable result of one comparison.
// It is created once per run by the classifier and only read afterwards;
// accessors return copies.
type DiffReport struct {
	verdicts []PageVerdict
	summary  Summary
}

// NewDiffReport builds a report from verdicts in op order and computes the
// summary tallies. The verdicts are copied.
func NewDiffReport(verdicts []PageVerdict) *DiffReport {
	r := &DiffReport{verdicts: make([]PageVerdict, len(verdicts))}
	for i, v := range verdicts {
		r.verdicts[i] = v.clone()
		r.summary.add(v)
	}
	return r
}

func (s *Summary) add(v PageVerdict) {
	switch v.Verdict {
	case VerdictMatched:
		s.Matched++
	case VerdictMoved:
		s.Moved++
	case VerdictAltered:
		s.Altered++
	case VerdictMissing:
		s.Missing++
	case VerdictInserted:
		s.Inserted++
	}
	if v.Old != nil {
		s.OldPages++
	}
	if v.New != nil {
		s.NewPages++
	}
}

// Verdicts returns a copy of the verdicts in op order.
func (r *DiffReport) Verdicts() []PageVerdict {
	out := make([]PageVerdict, len(r.verdicts))
	for i, v := range r.verdicts {
		out[i] = v.clone()
	}
	return out
}

// Len returns the number of verdicts.
func (r *DiffReport) Len() int {
	return len(r.verdicts)
}

// At returns a copy of the i-th verdict.
func (r *DiffReport) At(i int) PageVerdict {
	return r.verdicts[i].clone()
}

// Summary returns the verdict tallies.
func (r *DiffReport) Summary() Summary {
	return r.summary
}

// Filter returns copies of the verdicts of the given kind, in op order.
func (r *DiffReport) Filter(v Verdict) []PageVerdict {
	var out []PageVerdict
	for _, pv := range r.verdicts {
		if pv.Verdict == v {
			out = append(out, pv.clone())
		}
	}
	return out
}

// Identical reports whether every page was MATCHED.
func (r *DiffReport) Identical() bool {
	return !r.summary.HasDifferences()
}

// diffReportJSON is the wire form of a DiffReport.
type diffReportJSON struct {
	Summary  Summary       `json:"summary"`
	Verdicts []PageVerdict `json:"verdicts"`
}

// MarshalJSON implements json.Marshaler.
// Field order is fixed and no maps are involved, so the output is
// byte-identical for equal reports.
func (r *DiffReport) MarshalJSON() ([]byte, error) {
	verdicts := r.verdicts
	if verdicts == nil {
		verdicts = []PageVerdict{}
	}
	return json.Marshal(diffReportJSON{Summary: r.summary, Verdicts: verdicts})
}

// UnmarshalJSON implements json.Unmarshaler. The summary is recomputed from
// the verdicts rather than trusted.
func (r *DiffReport) UnmarshalJSON(data []byte) error {
	var wire diffReportJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*r = *NewDiffReport(wire.Verdicts)
	return nil
}
