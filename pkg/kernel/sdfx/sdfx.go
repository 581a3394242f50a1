// Package sdfx implements the kernel.Kernel interface using the vector and
// matrix types of the github.com/deadsy/sdfx CAD library.
package sdfx

import (
	"math"

	"github.com/chazu/blockcut/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface checks.
var _ kernel.Kernel = (*SdfxKernel)(nil)
var _ kernel.Segment = (*segment)(nil)
var _ kernel.Curve = (*polyline)(nil)

// snap is the number of grid steps per unit that transformed coordinates
// are rounded to, so that rotations by multiples of 90 degrees land back on
// exact pixel corners. Decimal literals such as 0.3 round back to themselves.
const snap = 1e9

// SdfxKernel implements kernel.Kernel using sdfx vectors.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

func toV3(v kernel.Vec3) v3.Vec {
	return v3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

func fromV3(v v3.Vec) kernel.Vec3 {
	return kernel.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

func round(f float64) float64 {
	r := math.Round(f*snap) / snap
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

func clean(v v3.Vec) v3.Vec {
	return v3.Vec{X: round(v.X), Y: round(v.Y), Z: round(v.Z)}
}

// unwrap extracts the underlying polyline from a kernel.Curve.
func unwrap(c kernel.Curve) *polyline {
	return c.(*polyline)
}

// Add returns a + b.
func (k *SdfxKernel) Add(a, b kernel.Vec3) kernel.Vec3 {
	return fromV3(toV3(a).Add(toV3(b)))
}

// Scale returns v * f.
func (k *SdfxKernel) Scale(v kernel.Vec3, f float64) kernel.Vec3 {
	return fromV3(toV3(v).MulScalar(f))
}

// Line creates a straight segment from p0 to p1.
func (k *SdfxKernel) Line(p0, p1 kernel.Vec3) kernel.Segment {
	return &segment{p0: toV3(p0), p1: toV3(p1)}
}

// Join chains segments that share endpoints into polylines.
// See join for the chaining rules.
func (k *SdfxKernel) Join(segs []kernel.Segment) ([]kernel.Curve, error) {
	lines := make([]*segment, 0, len(segs))
	for _, s := range segs {
		p0, p1 := s.Endpoints()
		lines = append(lines, &segment{p0: toV3(p0), p1: toV3(p1)})
	}
	joined := join(lines)
	curves := make([]kernel.Curve, 0, len(joined))
	for _, pl := range joined {
		curves = append(curves, pl)
	}
	return curves, nil
}

// Offset moves every edge of a closed planar curve outward by distance.
func (k *SdfxKernel) Offset(c kernel.Curve, normal kernel.Vec3, distance float64) (kernel.Curve, error) {
	return offset(unwrap(c), toV3(normal), distance)
}

// BoundingBox returns the axis-aligned bounding box of a curve.
func (k *SdfxKernel) BoundingBox(c kernel.Curve) (min, max kernel.Vec3) {
	pts := unwrap(c).pts
	if len(pts) == 0 {
		return min, max
	}
	bb := sdf.Box3{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		bb.Min = bb.Min.Min(p)
		bb.Max = bb.Max.Max(p)
	}
	return fromV3(bb.Min), fromV3(bb.Max)
}

// Translate moves a curve by d.
func (k *SdfxKernel) Translate(c kernel.Curve, d kernel.Vec3) kernel.Curve {
	m := sdf.Translate3d(toV3(d))
	src := unwrap(c)
	out := &polyline{pts: make([]v3.Vec, len(src.pts)), closed: src.closed}
	for i, p := range src.pts {
		out.pts[i] = clean(m.MulPosition(p))
	}
	return out
}

// Rotate turns a curve by degrees about the axis through center, using
// Rodrigues' rotation formula. Positive angles are counter-clockwise when
// looking down the axis towards center.
func (k *SdfxKernel) Rotate(c kernel.Curve, center, axis kernel.Vec3, degrees float64) kernel.Curve {
	src := unwrap(c)
	out := &polyline{pts: make([]v3.Vec, len(src.pts)), closed: src.closed}

	ax := toV3(axis).Normalize()
	o := toV3(center)
	sin, cos := math.Sincos(degrees * math.Pi / 180.0)

	for i, p := range src.pts {
		v := p.Sub(o)
		r := v.MulScalar(cos).
			Add(ax.Cross(v).MulScalar(sin)).
			Add(ax.MulScalar(ax.Dot(v) * (1 - cos)))
		out.pts[i] = clean(r.Add(o))
	}
	return out
}
