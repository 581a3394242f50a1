package trace

import (
	"errors"
	"fmt"

	"github.com/chazu/blockcut/pkg/grid"
	"github.com/chazu/blockcut/pkg/kernel"
)

// ErrOpenOutline is returned when traced segments do not chain into
// closed loops.
var ErrOpenOutline = errors.New("trace: outline is not closed")

// Assemble joins segments into closed curves and grows each one outward
// by half the kerf so that the cut piece keeps its drawn size. normal is
// the normal of the plane the segments lie in. Curves with fewer than
// three corners are degenerate and dropped.
func Assemble(k kernel.Kernel, segs []kernel.Segment, normal kernel.Vec3, kerf float64) ([]kernel.Curve, error) {
	if len(segs) == 0 {
		return nil, nil
	}
	joined, err := k.Join(segs)
	if err != nil {
		return nil, fmt.Errorf("trace: join: %w", err)
	}
	out := make([]kernel.Curve, 0, len(joined))
	for _, c := range joined {
		if !c.Closed() {
			return nil, ErrOpenOutline
		}
		if len(c.Points()) < 4 {
			continue
		}
		off, err := k.Offset(c, normal, kerf/2)
		if err != nil {
			return nil, fmt.Errorf("trace: kerf offset: %w", err)
		}
		out = append(out, off)
	}
	return out, nil
}

// Tag wraps assembled curves with their colour and source.
func Tag(curves []kernel.Curve, color grid.Color, src Source) []Curve {
	out := make([]Curve, len(curves))
	for i, c := range curves {
		out[i] = Curve{Outline: c, Color: color, Source: src}
	}
	return out
}
