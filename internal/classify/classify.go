package classify

import (
	"fmt"

	"github.com/nao1215/bookdiff/internal/model"
)

// Classify builds the DiffReport for an edit script.
//
// oldSeq and newSeq only supply the page paths for the references; a nil or
// shorter sequence leaves the path empty. ops and the sequences are not
// modified.
func Classify(ops []model.EditOp, oldSeq, newSeq model.PageSequence) *model.DiffReport {
	verdicts := make([]model.PageVerdict, 0, len(ops))
	watermark := -1

	for _, op := range ops {
		v := model.PageVerdict{}
		if op.HasOld() {
			v.Old = ref(oldSeq, op.Old)
		}
		if op.HasNew() {
			v.New = ref(newSeq, op.New)
		}

		switch op.Kind {
		case model.OpMatch:
			v.Distance = op.Distance
			if op.Relocated || op.New < watermark {
				v.Verdict = model.VerdictMoved
			} else {
				v.Verdict = model.VerdictMatched
				watermark = op.New
			}
		case model.OpSubstitute:
			v.Verdict = model.VerdictAltered
			v.Distance = op.Distance
		case model.OpDelete:
			v.Verdict = model.VerdictMissing
		case model.OpInsert:
			v.Verdict = model.VerdictInserted
		default:
			panic(fmt.Sprintf("classify: unknown op kind %d", op.Kind))
		}
		verdicts = append(verdicts, v)
	}
	return model.NewDiffReport(verdicts)
}

func ref(seq model.PageSequence, idx int) *model.PageRef {
	r := &model.PageRef{Index: idx}
	if idx >= 0 && idx < len(seq) {
		r.Path = seq[idx].Path
	}
	return r
}
