package trace

import (
	"github.com/chazu/blockcut/pkg/grid"
	"github.com/chazu/blockcut/pkg/kernel"
)

// Options configures the tracers.
type Options struct {
	Origin       kernel.Vec3 // minimum corner of the block
	Cell         float64     // pixel edge length in mm
	Core         grid.Color  // colour of the block core
	PlainSlabs   bool        // outline levels that have no cut pixel
	CornerPolicy CornerPolicy
}

var (
	straight  = []Step{draw(Forward)}
	cutIn     = []Step{draw(In), draw(Forward)}
	cutOut    = []Step{draw(Out), draw(Forward)}
	startedIn = []Step{move(In), draw(Forward)}
)

// LevelCut reports whether any pixel of level differs from the core
// colour.
func LevelCut(def *grid.Definition, level grid.Level, core grid.Color) bool {
	for col := 0; col < def.Size(); col++ {
		if def.At(level, col) != core {
			return true
		}
	}
	return false
}

// CoreSteps returns the pen steps of the core outline of level, one slice
// per side. The pen starts one pixel in from the front-left corner on the
// outside edge of the front side, or inset if that pixel is cut.
func CoreSteps(def *grid.Definition, level grid.Level, opts Options) ([grid.NumSides][]Step, error) {
	var out [grid.NumSides][]Step
	n := def.Size()
	cut := func(face grid.Face, pix int) bool {
		return def.Pixel(face, level, pix) != opts.Core
	}

	prevCut := false
	for side := grid.FaceFront; side < grid.FaceTop; side++ {
		for pix := 1; pix < n; pix++ {
			thisCut := cut(side, pix)
			first := side == grid.FaceFront && pix == 1

			if pix == n-1 {
				c := Corner{Prev: prevCut, This: thisCut, Next: cut(side.Next(), 1)}
				steps, err := c.Steps(opts.CornerPolicy)
				if err != nil {
					return out, &CornerError{Level: level, Side: side, Corner: c}
				}
				// The pen already starts inset when the first pixel is cut.
				if first && len(steps) > 0 && steps[0].Move == In {
					steps[0].Draw = false
				}
				out[side] = append(out[side], steps...)
				prevCut = c.Next
				continue
			}

			switch {
			case thisCut == prevCut:
				out[side] = append(out[side], straight...)
			case thisCut && first:
				out[side] = append(out[side], startedIn...)
			case thisCut:
				out[side] = append(out[side], cutIn...)
			default:
				out[side] = append(out[side], cutOut...)
			}
			prevCut = thisCut
		}
	}
	return out, nil
}

// TraceCore returns the segments of the core outline of one level. The
// top level is covered by the top face and yields nothing, as does a
// level without cut pixels unless opts.PlainSlabs is set.
func TraceCore(k kernel.Kernel, def *grid.Definition, level grid.Level, opts Options) ([]kernel.Segment, error) {
	if level >= def.TopLevel() {
		return nil, nil
	}
	if !opts.PlainSlabs && !LevelCut(def, level, opts.Core) {
		return nil, nil
	}
	sides, err := CoreSteps(def, level, opts)
	if err != nil {
		return nil, err
	}

	at := k.Add(opts.Origin, k.Scale(kernel.ZAxis, float64(level)*opts.Cell))
	at = k.Add(at, k.Scale(kernel.XAxis, opts.Cell))
	var segs []kernel.Segment
	for side, steps := range sides {
		var drawn []kernel.Segment
		at, drawn = Walk(k, at, sideBasis[side], opts.Cell, steps)
		segs = append(segs, drawn...)
	}
	return segs, nil
}
