package align

import (
	"fmt"
	"slices"

	"github.com/nao1215/bookdiff/internal/model"
)

// step is the predecessor direction recorded in a cell.
type step uint8

const (
	stepNone step = iota
	stepDiagonal
	stepUp
	stepLeft
)

// cell is one entry of the alignment table.
// It exists only for the duration of one Align call.
type cell struct {
	cost     int
	distance int
	choice   step
}

// grid is the alignment table stored as a flat arena.
// With band == 0 it covers every (i, j); otherwise row i stores only the
// columns i-band..i+band.
type grid struct {
	rows, cols int
	band       int
	width      int
	cells      []cell
}

func newGrid(rows, cols, band int) *grid {
	g := &grid{rows: rows, cols: cols, band: band}
	if band == 0 {
		g.width = cols + 1
	} else {
		g.width = 2*band + 1
	}
	g.cells = make([]cell, (rows+1)*g.width)
	return g
}

// inside reports whether (i, j) is a computed cell.
func (g *grid) inside(i, j int) bool {
	if i < 0 || j < 0 || i > g.rows || j > g.cols {
		return false
	}
	if g.band == 0 {
		return true
	}
	d := i - j
	return d >= -g.band && d <= g.band
}

func (g *grid) at(i, j int) *cell {
	if g.band == 0 {
		return &g.cells[i*g.width+j]
	}
	return &g.cells[i*g.width+(j-i+g.band)]
}

// columns returns the computed column range of row i.
func (g *grid) columns(i int) (lo, hi int) {
	if g.band == 0 {
		return 0, g.cols
	}
	return max(0, i-g.band), min(g.cols, i+g.band)
}

// fill computes every cell. Candidates are tried diagonal, up, left and a
// later candidate only wins when strictly cheaper, which implements the
// diagonal-over-up-over-left tie-break.
func (g *grid) fill(oldSeq, newSeq model.PageSequence, cm CostModel) {
	for i := 0; i <= g.rows; i++ {
		lo, hi := g.columns(i)
		for j := lo; j <= hi; j++ {
			c := g.at(i, j)
			if i == 0 && j == 0 {
				*c = cell{}
				continue
			}
			best := cell{choice: stepNone}
			if i > 0 && j > 0 && g.inside(i-1, j-1) {
				d := model.Hamming(oldSeq[i-1].Bits, newSeq[j-1].Bits)
				best = cell{
					cost:     g.at(i-1, j-1).cost + cm.diagonal(d),
					distance: d,
					choice:   stepDiagonal,
				}
			}
			if i > 0 && g.inside(i-1, j) {
				cost := g.at(i-1, j).cost + cm.GapPenalty
				if best.choice == stepNone || cost < best.cost {
					best = cell{cost: cost, choice: stepUp}
				}
			}
			if j > 0 && g.inside(i, j-1) {
				cost := g.at(i, j-1).cost + cm.GapPenalty
				if best.choice == stepNone || cost < best.cost {
					best = cell{cost: cost, choice: stepLeft}
				}
			}
			*c = best
		}
	}
}

// backtrace walks the recorded choices from (rows, cols) to (0, 0) and
// returns the edit script in forward order. touched reports whether the path
// visited a cell on the band boundary.
func (g *grid) backtrace(cm CostModel) (ops []model.EditOp, touched bool) {
	ops = make([]model.EditOp, 0, g.rows+g.cols)
	i, j := g.rows, g.cols
	for i > 0 || j > 0 {
		if g.band > 0 && abs(i-j) == g.band {
			touched = true
		}
		c := g.at(i, j)
		switch c.choice {
		case stepDiagonal:
			if c.distance <= cm.Threshold {
				ops = append(ops, model.Match(i-1, j-1, c.distance))
			} else {
				ops = append(ops, model.Substitute(i-1, j-1, c.distance))
			}
			i--
			j--
		case stepUp:
			ops = append(ops, model.Delete(i-1))
			i--
		case stepLeft:
			ops = append(ops, model.Insert(j-1))
			j--
		default:
			panic(fmt.Sprintf("align: unreachable cell (%d,%d) on backtrace", i, j))
		}
	}
	slices.Reverse(ops)
	return ops, touched
}

// Align computes the lowest-cost edit script turning oldSeq into newSeq.
//
// The result is deterministic for fixed inputs. Projected onto either side it
// lists that side's indices in increasing order. An empty old sequence yields
// only INSERT ops, an empty new sequence only DELETE ops, and two empty
// sequences an empty script.
//
// Both sequences must satisfy the PageSequence invariant for their side and
// share a bit width, and cm must be valid. Violations are caller defects and
// panic.
func Align(oldSeq, newSeq model.PageSequence, cm CostModel) []model.EditOp {
	mustValidate(oldSeq, newSeq, cm)

	if cm.Band > 0 && cm.Band < max(len(oldSeq), len(newSeq)) {
		if ops, ok := alignBanded(oldSeq, newSeq, cm); ok {
			return ops
		}
	}
	return alignFull(oldSeq, newSeq, cm)
}

func alignFull(oldSeq, newSeq model.PageSequence, cm CostModel) []model.EditOp {
	g := newGrid(len(oldSeq), len(newSeq), 0)
	g.fill(oldSeq, newSeq, cm)
	ops, _ := g.backtrace(cm)
	return ops
}

// alignBanded runs the banded variant. ok is false when the band cannot
// guarantee the full table's answer and the caller must fall back.
//
// Any path that leaves the band must reach |i-j| = band+1 and come back to
// the final offset, which takes at least 2*(band+1)-|len(old)-len(new)| gaps.
// When the banded optimum is strictly cheaper than that bound, every optimal
// path lies inside the band and the recorded choices along it are the same as
// in the full table, so the scripts are identical.
func alignBanded(oldSeq, newSeq model.PageSequence, cm CostModel) (ops []model.EditOp, ok bool) {
	offset := abs(len(oldSeq) - len(newSeq))
	if offset > cm.Band {
		return nil, false
	}

	g := newGrid(len(oldSeq), len(newSeq), cm.Band)
	g.fill(oldSeq, newSeq, cm)

	lowerBound := (2*(cm.Band+1) - offset) * cm.GapPenalty
	if g.at(g.rows, g.cols).cost >= lowerBound {
		return nil, false
	}

	ops, touched := g.backtrace(cm)
	if touched {
		return nil, false
	}
	return ops, true
}

func mustValidate(oldSeq, newSeq model.PageSequence, cm CostModel) {
	if err := cm.Validate(); err != nil {
		panic(fmt.Sprintf("align: invalid cost model: %v", err))
	}
	if err := oldSeq.Validate(model.SideOld); err != nil {
		panic(fmt.Sprintf("align: invalid old sequence: %v", err))
	}
	if err := newSeq.Validate(model.SideNew); err != nil {
		panic(fmt.Sprintf("align: invalid new sequence: %v", err))
	}
	if len(oldSeq) > 0 && len(newSeq) > 0 && oldSeq.Width() != newSeq.Width() {
		panic(fmt.Sprintf("align: %v: old %d bits, new %d bits", model.ErrWidthMismatch, oldSeq.Width(), newSeq.Width()))
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
