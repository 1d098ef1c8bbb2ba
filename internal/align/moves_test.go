package align

import (
	"slices"
	"testing"

	"github.com/nao1215/bookdiff/internal/model"
)

func relocated(oldIdx, newIdx, distance int) model.EditOp {
	op := model.Match(oldIdx, newIdx, distance)
	op.Relocated = true
	return op
}

func TestRecoverMoves(t *testing.T) {
	t.Parallel()

	cm := NewCostModel(testThreshold)

	testCases := []struct {
		name string
		old  model.PageSequence
		new  model.PageSequence
		want []model.EditOp
	}{
		{
			name: "swap of two pages",
			old:  oldSeq(pageA, pageB),
			new:  newSeq(pageB, pageA),
			want: []model.EditOp{model.Match(0, 1, 0), relocated(1, 0, 0)},
		},
		{
			name: "first page moved to the end",
			old:  oldSeq(pageA, pageB, pageC, pageD, pageE),
			new:  newSeq(pageB, pageC, pageD, pageE, pageA),
			want: []model.EditOp{
				relocated(0, 4, 0),
				model.Match(1, 0, 0),
				model.Match(2, 1, 0),
				model.Match(3, 2, 0),
				model.Match(4, 3, 0),
			},
		},
		{
			name: "moved page slightly altered",
			old:  oldSeq(pageA, pageB, pageC, pageD),
			new:  newSeq(pageB, pageC, pageD, flip(pageA, 3)),
			want: []model.EditOp{
				relocated(0, 3, 3),
				model.Match(1, 0, 0),
				model.Match(2, 1, 0),
				model.Match(3, 2, 0),
			},
		},
		{
			name: "deleted and inserted pages differ",
			old:  oldSeq(pageA, pageB, pageC),
			new:  newSeq(pageB, pageC, pageD),
			want: []model.EditOp{
				model.Delete(0),
				model.Match(1, 0, 0),
				model.Match(2, 1, 0),
				model.Insert(2),
			},
		},
		{
			name: "identical books",
			old:  oldSeq(pageA, pageB),
			new:  newSeq(pageA, pageB),
			want: []model.EditOp{model.Match(0, 0, 0), model.Match(1, 1, 0)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ops := Align(tc.old, tc.new, cm)
			assertOps(t, RecoverMoves(ops, tc.old, tc.new, cm), tc.want...)
		})
	}
}

// TestRecoverMovesTieBreak tests candidate selection when several inserts
// qualify for one delete.
func TestRecoverMovesTieBreak(t *testing.T) {
	t.Parallel()

	cm := NewCostModel(testThreshold)
	o := oldSeq(pageA, pageB, pageC)
	n := newSeq(pageC, flip(pageA, 1), pageB, pageA)

	t.Run("smallest distance wins", func(t *testing.T) {
		t.Parallel()
		ops := []model.EditOp{model.Delete(0), model.Insert(1), model.Insert(3)}
		got := RecoverMoves(ops, o, n, cm)
		assertOps(t, got, relocated(0, 3, 0), model.Insert(1))
	})

	t.Run("smallest offset breaks distance ties", func(t *testing.T) {
		t.Parallel()
		twins := newSeq(pageA, pageB, pageC, pageA)
		ops := []model.EditOp{model.Delete(2), model.Insert(0), model.Insert(3)}
		got := RecoverMoves(ops, oldSeq(pageB, pageC, pageA), twins, cm)
		assertOps(t, got, relocated(2, 3, 0), model.Insert(0))
	})

	t.Run("smallest new index breaks offset ties", func(t *testing.T) {
		t.Parallel()
		twins := newSeq(pageA, pageB, pageA)
		ops := []model.EditOp{model.Delete(1), model.Insert(0), model.Insert(2)}
		got := RecoverMoves(ops, oldSeq(pageB, pageA), twins, cm)
		assertOps(t, got, relocated(1, 0, 0), model.Insert(2))
	})

	t.Run("each insert pairs at most once", func(t *testing.T) {
		t.Parallel()
		ops := []model.EditOp{model.Delete(0), model.Delete(1), model.Insert(0)}
		got := RecoverMoves(ops, oldSeq(pageA, pageA), newSeq(pageA), cm)
		assertOps(t, got, relocated(0, 0, 0), model.Delete(1))
	})
}

func TestRecoverMovesDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	cm := NewCostModel(testThreshold)
	o := oldSeq(pageA, pageB)
	n := newSeq(pageB, pageA)
	ops := Align(o, n, cm)
	before := slices.Clone(ops)

	_ = RecoverMoves(ops, o, n, cm)
	assertOps(t, ops, before...)
}

// TestRecoverMovesCoversBothSides tests that every page still appears once.
func TestRecoverMovesCoversBothSides(t *testing.T) {
	t.Parallel()

	cm := NewCostModel(testThreshold)
	o := oldSeq(pageA, pageB, pageC, pageD, pageE)
	n := newSeq(pageE, pageD, pageC, pageB, pageA)

	ops := RecoverMoves(Align(o, n, cm), o, n, cm)

	if got := model.ProjectOld(ops); !slices.Equal(got, []int{0, 1, 2, 3, 4}) {
		t.Errorf("old projection = %v", got)
	}
	newSide := model.ProjectNew(ops)
	slices.Sort(newSide)
	if !slices.Equal(newSide, []int{0, 1, 2, 3, 4}) {
		t.Errorf("new projection is not a permutation: %v", newSide)
	}
}
