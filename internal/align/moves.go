package align

import (
	"slices"

	"github.com/nao1215/bookdiff/internal/model"
)

// RecoverMoves pairs DELETE ops with INSERT ops whose fingerprints match
// within the threshold, turning each pair into a single relocated MATCH.
//
// DELETE ops are visited in script order. Each takes the unpaired INSERT
// with the smallest distance; ties go to the smallest index offset, then to
// the smallest new index. The MATCH replaces the DELETE in place and the
// INSERT is dropped, so the result keeps old-side order while the new-side
// projection becomes a permutation.
//
// The input is not modified.
func RecoverMoves(ops []model.EditOp, oldSeq, newSeq model.PageSequence, cm CostModel) []model.EditOp {
	var inserts []int
	for i, op := range ops {
		if op.Kind == model.OpInsert {
			inserts = append(inserts, i)
		}
	}
	if len(inserts) == 0 {
		return slices.Clone(ops)
	}

	paired := make(map[int]bool, len(inserts))
	out := slices.Clone(ops)
	for i, op := range ops {
		if op.Kind != model.OpDelete {
			continue
		}
		best, bestDistance := -1, 0
		for _, k := range inserts {
			if paired[k] {
				continue
			}
			candidate := ops[k].New
			d := model.Hamming(oldSeq[op.Old].Bits, newSeq[candidate].Bits)
			if d > cm.Threshold {
				continue
			}
			if best == -1 || better(d, op.Old, candidate, bestDistance, ops[best].New) {
				best, bestDistance = k, d
			}
		}
		if best == -1 {
			continue
		}
		paired[best] = true
		out[i] = model.EditOp{
			Kind:      model.OpMatch,
			Old:       op.Old,
			New:       ops[best].New,
			Distance:  bestDistance,
			Relocated: true,
		}
	}

	if len(paired) == 0 {
		return out
	}
	kept := out[:0]
	for i, op := range out {
		if paired[i] {
			continue
		}
		kept = append(kept, op)
	}
	return kept
}

// better reports whether candidate (d, newIdx) beats the current best for
// the old page oldIdx.
func better(d, oldIdx, newIdx, bestDistance, bestNew int) bool {
	if d != bestDistance {
		return d < bestDistance
	}
	offset, bestOffset := abs(oldIdx-newIdx), abs(oldIdx-bestNew)
	if offset != bestOffset {
		return offset < bestOffset
	}
	return newIdx < bestNew
}
