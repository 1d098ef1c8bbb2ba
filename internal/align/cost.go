package align

import (
	"fmt"

	"github.com/nao1215/bookdiff/internal/model"
)

// CostModel parameterizes the alignment.
// All parameters are passed explicitly into Align; the engine reads no
// process-wide state.
type CostModel struct {
	// Threshold is the maximum fingerprint distance of a true match.
	Threshold int

	// GapPenalty is the cost of leaving one page without a counterpart.
	GapPenalty int

	// SubstitutePenalty is the cost of pairing two pages whose distance
	// exceeds Threshold.
	SubstitutePenalty int

	// Band limits the computed cells to |i-j| <= Band. Zero means unbounded.
	Band int
}

// NewCostModel returns the default cost model for a threshold.
//
// GapPenalty is threshold+1, so any true match is cheaper than a single gap
// and a delete+insert pair is never preferred over a match. SubstitutePenalty
// is exactly two gaps: a substitution ties with a delete+insert pair, and the
// diagonal-first tie-break reports the positions as one altered page.
func NewCostModel(threshold int) CostModel {
	gap := threshold + 1
	return CostModel{
		Threshold:         threshold,
		GapPenalty:        gap,
		SubstitutePenalty: 2 * gap,
	}
}

// WithBand returns a copy of the model with the given band.
func (cm CostModel) WithBand(band int) CostModel {
	cm.Band = band
	return cm
}

// Validate checks the cost model parameters.
// A SubstitutePenalty above 2*GapPenalty is accepted, but then ALTERED is
// never produced: two gaps are always cheaper.
func (cm CostModel) Validate() error {
	if cm.Threshold < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeThreshold, cm.Threshold)
	}
	if cm.GapPenalty <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidGapPenalty, cm.GapPenalty)
	}
	if cm.SubstitutePenalty <= cm.Threshold {
		return fmt.Errorf("%w: %d <= %d", ErrInvalidSubstitutePenalty, cm.SubstitutePenalty, cm.Threshold)
	}
	if cm.Band < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeBand, cm.Band)
	}
	return nil
}

// diagonal returns the cost of pairing two pages at the given distance.
func (cm CostModel) diagonal(distance int) int {
	if distance <= cm.Threshold {
		return distance
	}
	return cm.SubstitutePenalty
}

// Cost returns the total cost of an edit script under the model.
func Cost(ops []model.EditOp, cm CostModel) int {
	total := 0
	for _, op := range ops {
		switch op.Kind {
		case model.OpMatch, model.OpSubstitute:
			total += cm.diagonal(op.Distance)
		case model.OpDelete, model.OpInsert:
			total += cm.GapPenalty
		}
	}
	return total
}
