package trace

import (
	"fmt"

	"github.com/chazu/blockcut/pkg/grid"
	"github.com/chazu/blockcut/pkg/kernel"
)

// Move is one unit step of the tracing pen, relative to the basis of the
// side or face being traced.
type Move int

const (
	Forward Move = iota
	Back
	In
	Out
)

func (m Move) String() string {
	switch m {
	case Forward:
		return "F"
	case Back:
		return "B"
	case In:
		return "I"
	case Out:
		return "O"
	default:
		return fmt.Sprintf("Move(%d)", int(m))
	}
}

// Step is a Move that either draws a segment or only repositions the pen.
type Step struct {
	Move Move
	Draw bool
}

func (s Step) String() string {
	if s.Draw {
		return s.Move.String()
	}
	return "m" + s.Move.String()
}

func draw(m Move) Step { return Step{Move: m, Draw: true} }
func move(m Move) Step { return Step{Move: m} }

// Basis maps each Move to a unit direction in block space.
type Basis [4]kernel.Vec3

// FrameBasis returns the basis of a face frame.
func FrameBasis(f grid.Frame) Basis {
	return Basis{Forward: f.Forward, Back: f.Back, In: f.In, Out: f.Out}
}

// sideBasis holds the pen basis used by the core tracer on each side:
// Forward runs anticlockwise round the block seen from above and In
// points towards the block centre.
var sideBasis = [grid.NumSides]Basis{
	grid.FaceFront: {kernel.XAxis, kernel.XAxis.Neg(), kernel.YAxis, kernel.YAxis.Neg()},
	grid.FaceRight: {kernel.YAxis, kernel.YAxis.Neg(), kernel.XAxis.Neg(), kernel.XAxis},
	grid.FaceBack:  {kernel.XAxis.Neg(), kernel.XAxis, kernel.YAxis.Neg(), kernel.YAxis},
	grid.FaceLeft:  {kernel.YAxis.Neg(), kernel.YAxis, kernel.XAxis, kernel.XAxis.Neg()},
}

// Walk runs steps from at, each one length long along basis, and returns
// where the pen ends up together with the segments drawn on the way.
func Walk(k kernel.Kernel, at kernel.Vec3, basis Basis, length float64, steps []Step) (kernel.Vec3, []kernel.Segment) {
	var segs []kernel.Segment
	for _, s := range steps {
		next := k.Add(at, k.Scale(basis[s.Move], length))
		if s.Draw {
			segs = append(segs, k.Line(at, next))
		}
		at = next
	}
	return at, segs
}
