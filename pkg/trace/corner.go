package trace

import (
	"errors"
	"fmt"

	"github.com/chazu/blockcut/pkg/grid"
)

// ErrUndefinedCorner is returned for a corner whose previous, corner and
// next pixels are all cut.
var ErrUndefinedCorner = errors.New("trace: undefined corner case")

// CornerPolicy selects how the all-cut corner is handled.
type CornerPolicy int

const (
	// CornerStrict rejects the all-cut corner with a *CornerError.
	CornerStrict CornerPolicy = iota
	// CornerInset keeps the pen inset and emits no moves for it.
	CornerInset
)

func (p CornerPolicy) String() string {
	switch p {
	case CornerStrict:
		return "strict"
	case CornerInset:
		return "inset"
	default:
		return fmt.Sprintf("CornerPolicy(%d)", int(p))
	}
}

// ParseCornerPolicy converts "strict" or "inset" into a CornerPolicy. The
// empty string means strict.
func ParseCornerPolicy(s string) (CornerPolicy, error) {
	switch s {
	case "", "strict":
		return CornerStrict, nil
	case "inset":
		return CornerInset, nil
	default:
		return CornerStrict, fmt.Errorf("trace: unknown corner policy %q", s)
	}
}

// Corner is the cut state around the last pixel of a side: the pen's
// state before the corner (Prev), the corner pixel itself (This) and the
// first traced pixel of the next side (Next).
type Corner struct {
	Prev bool
	This bool
	Next bool
}

// Case returns the corner number next + 2*this + 4*prev.
func (c Corner) Case() int {
	n := 0
	if c.Next {
		n |= 1
	}
	if c.This {
		n |= 2
	}
	if c.Prev {
		n |= 4
	}
	return n
}

var cornerSteps = [7][]Step{
	{draw(Forward), draw(In)},
	{draw(Forward), draw(In), draw(Back)},
	{draw(In), draw(Forward)},
	{draw(In)},
	{draw(Out), draw(Forward), draw(In)},
	{draw(Out), draw(Forward), draw(In), draw(Back)},
	{draw(Forward)},
}

// Steps returns the pen moves that carry the trace round the corner onto
// the next side.
func (c Corner) Steps(policy CornerPolicy) ([]Step, error) {
	n := c.Case()
	if n < len(cornerSteps) {
		return append([]Step(nil), cornerSteps[n]...), nil
	}
	if policy == CornerInset {
		return nil, nil
	}
	return nil, ErrUndefinedCorner
}

// CornerError reports the position of an undefined corner.
type CornerError struct {
	Level  grid.Level
	Side   grid.Face
	Corner Corner
}

func (e *CornerError) Error() string {
	return fmt.Sprintf("%s at level %d, %s side (case %d)", ErrUndefinedCorner, e.Level, e.Side, e.Corner.Case())
}

func (e *CornerError) Unwrap() error { return ErrUndefinedCorner }
