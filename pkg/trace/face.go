package trace

import (
	"github.com/chazu/blockcut/pkg/grid"
	"github.com/chazu/blockcut/pkg/kernel"
)

// Edge strokes of a pixel, drawn from its lower corner. Each stroke
// returns the pen to where it started.
var (
	strokeLeft  = []Step{draw(In), move(Out)}
	strokeRight = []Step{move(Forward), draw(In), move(Out), move(Back)}
	strokeDown  = []Step{draw(Forward), move(Back)}
	strokeUp    = []Step{move(In), draw(Forward), move(Back), move(Out)}
)

// faceRange returns the pixel ranges [i0, i1) along Forward and [j0, j1)
// along In traced on face. Side faces stop below the top level, and the
// right and left sides skip the corner columns the front and back own.
func faceRange(face grid.Face, n int) (i0, i1, j0, j1 int) {
	i0, i1, j0, j1 = 0, n-1, 0, n
	if face == grid.FaceTop {
		i1 = n
	}
	if face == grid.FaceRight || face == grid.FaceLeft {
		j0, j1 = 1, n-1
	}
	return i0, i1, j0, j1
}

// TraceFace outlines every same-colour region of a face. faceGrid is the
// colour grid the face reads (the definition for sides, TopFace for the
// top), where pixel (i, j) has colour faceGrid.At(i, j). An edge is drawn
// wherever a pixel's neighbour has a different colour or lies outside the
// traced range. Regions in the core colour are dropped on side faces.
func TraceFace(k kernel.Kernel, faceGrid *grid.Definition, frame grid.Frame, opts Options) map[grid.Color][]kernel.Segment {
	i0, i1, j0, j1 := faceRange(frame.Face, faceGrid.Size())
	basis := FrameBasis(frame)

	color := func(i, j int) grid.Color {
		if i < i0 || i >= i1 || j < j0 || j >= j1 {
			return grid.NoColor
		}
		return faceGrid.At(grid.Level(i), j)
	}

	out := make(map[grid.Color][]kernel.Segment)
	for i := i0; i < i1; i++ {
		for j := j0; j < j1; j++ {
			c := color(i, j)
			if frame.Face.IsSide() && c == opts.Core {
				continue
			}
			var steps []Step
			if color(i-1, j) != c {
				steps = append(steps, strokeLeft...)
			}
			if color(i+1, j) != c {
				steps = append(steps, strokeRight...)
			}
			if color(i, j-1) != c {
				steps = append(steps, strokeDown...)
			}
			if color(i, j+1) != c {
				steps = append(steps, strokeUp...)
			}
			if len(steps) == 0 {
				continue
			}
			_, segs := Walk(k, frame.PixOrigin(k, i, j, opts.Cell), basis, opts.Cell, steps)
			out[c] = append(out[c], segs...)
		}
	}
	return out
}
