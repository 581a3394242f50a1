package grid

import "github.com/chazu/blockcut/pkg/kernel"

// Frame places the pixels of one face in block space. Forward runs along
// the face's levels (rows of its grid), In along its columns, and
// DepthIn points into the block.
type Frame struct {
	Face     Face
	Origin   kernel.Vec3
	Forward  kernel.Vec3
	Back     kernel.Vec3
	In       kernel.Vec3
	Out      kernel.Vec3
	DepthIn  kernel.Vec3
	DepthOut kernel.Vec3
}

// PixOrigin returns the lower corner of pixel (i, j) of the face, where i
// counts along Forward and j along In.
func (f Frame) PixOrigin(k kernel.Kernel, i, j int, cell float64) kernel.Vec3 {
	p := k.Add(f.Origin, k.Scale(f.Forward, float64(i)*cell))
	return k.Add(p, k.Scale(f.In, float64(j)*cell))
}

func newFrame(face Face, origin, fwd, in, depth kernel.Vec3) Frame {
	return Frame{
		Face:     face,
		Origin:   origin,
		Forward:  fwd,
		Back:     fwd.Neg(),
		In:       in,
		Out:      in.Neg(),
		DepthIn:  depth,
		DepthOut: depth.Neg(),
	}
}

// Frames returns the frame of every face of a block of numPix pixels of
// size cell whose minimum corner is origin, indexed by Face.
func Frames(k kernel.Kernel, origin kernel.Vec3, numPix int, cell float64) [5]Frame {
	side := float64(numPix) * cell
	x, y, z := kernel.XAxis, kernel.YAxis, kernel.ZAxis
	far := k.Add(origin, k.Add(k.Scale(x, side), k.Scale(y, side)))
	top := k.Add(origin, k.Scale(z, side))

	return [5]Frame{
		FaceFront: newFrame(FaceFront, origin, z, x, y),
		FaceRight: newFrame(FaceRight, far, z, y.Neg(), x.Neg()),
		FaceBack:  newFrame(FaceBack, far, z, x.Neg(), y.Neg()),
		FaceLeft:  newFrame(FaceLeft, origin, z, y, x),
		FaceTop:   newFrame(FaceTop, top, x, y, z.Neg()),
	}
}
