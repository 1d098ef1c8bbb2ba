package model

import "fmt"

// OpKind is the kind of one alignment step.
type OpKind int

const (
	// OpMatch pairs an old page with a new page within the threshold.
	OpMatch OpKind = iota
	// OpSubstitute pairs an old page with a new page beyond the threshold.
	OpSubstitute
	// OpDelete marks an old page that has no counterpart.
	OpDelete
	// OpInsert marks a new page that has no counterpart.
	OpInsert
)

// String returns the upper-case op name.
func (k OpKind) String() string {
	switch k {
	case OpMatch:
		return "MATCH"
	case OpSubstitute:
		return "SUBSTITUTE"
	case OpDelete:
		return "DELETE"
	case OpInsert:
		return "INSERT"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k OpKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *OpKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "MATCH":
		*k = OpMatch
	case "SUBSTITUTE":
		*k = OpSubstitute
	case "DELETE":
		*k = OpDelete
	case "INSERT":
		*k = OpInsert
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOpKind, text)
	}
	return nil
}

// EditOp is one step of an edit script.
// Old and New are page indices; the index of a side the op does not touch
// is -1.
type EditOp struct {
	Kind OpKind `json:"kind"`
	Old  int    `json:"old"`
	New  int    `json:"new"`

	// Distance is the measured fingerprint distance for MATCH and SUBSTITUTE.
	Distance int `json:"distance"`

	// Relocated is set on MATCH ops produced by move recovery: the pair lies
	// off the order-preserving alignment path.
	Relocated bool `json:"relocated,omitempty"`
}

// Match returns a MATCH op.
func Match(oldIdx, newIdx, distance int) EditOp {
	return EditOp{Kind: OpMatch, Old: oldIdx, New: newIdx, Distance: distance}
}

// Substitute returns a SUBSTITUTE op.
func Substitute(oldIdx, newIdx, distance int) EditOp {
	return EditOp{Kind: OpSubstitute, Old: oldIdx, New: newIdx, Distance: distance}
}

// Delete returns a DELETE op.
func Delete(oldIdx int) EditOp {
	return EditOp{Kind: OpDelete, Old: oldIdx, New: -1}
}

// Insert returns an INSERT op.
func Insert(newIdx int) EditOp {
	return EditOp{Kind: OpInsert, Old: -1, New: newIdx}
}

// HasOld reports whether the op consumes an old page.
func (op EditOp) HasOld() bool {
	return op.Kind != OpInsert
}

// HasNew reports whether the op consumes a new page.
func (op EditOp) HasNew() bool {
	return op.Kind != OpDelete
}

// String renders the op the way the edit script is written in docs and logs,
// e.g. "MATCH(3,4,2)" or "DELETE(7)".
func (op EditOp) String() string {
	switch op.Kind {
	case OpMatch, OpSubstitute:
		s := fmt.Sprintf("%s(%d,%d,%d)", op.Kind, op.Old, op.New, op.Distance)
		if op.Relocated {
			s += "*"
		}
		return s
	case OpDelete:
		return fmt.Sprintf("DELETE(%d)", op.Old)
	case OpInsert:
		return fmt.Sprintf("INSERT(%d)", op.New)
	default:
		return "UNKNOWN"
	}
}

// ProjectOld returns the old indices touched by ops, in op order.
func ProjectOld(ops []EditOp) []int {
	out := make([]int, 0, len(ops))
	for _, op := range ops {
		if op.HasOld() {
			out = append(out, op.Old)
		}
	}
	return out
}

// ProjectNew returns the new indices touched by ops, in op order.
func ProjectNew(ops []EditOp) []int {
	out := make([]int, 0, len(ops))
	for _, op := range ops {
		if op.HasNew() {
			out = append(out, op.New)
		}
	}
	return out
}
