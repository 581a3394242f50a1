package trace

import (
	"github.com/chazu/blockcut/pkg/grid"
	"github.com/chazu/blockcut/pkg/kernel"
)

// LayFlat brings a face curve into a horizontal plane ready for packing.
// Side curves turn -90 degrees about the face's In axis through the face
// origin; top curves drop by the block height along the top DepthIn.
func LayFlat(k kernel.Kernel, c kernel.Curve, frame grid.Frame, height float64) kernel.Curve {
	if frame.Face == grid.FaceTop {
		return k.Translate(c, k.Scale(frame.DepthIn, height))
	}
	return k.Rotate(c, frame.Origin, frame.In, -90)
}
