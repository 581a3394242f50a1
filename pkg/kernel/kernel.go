// Package kernel defines the abstract geometry kernel interface.
// Implementations (sdfx) provide the vector arithmetic, line and curve
// construction, joining, offsetting and rigid moves that the tracers and
// the sheet packer need. The kernel abstraction keeps the tracing and
// packing code independent of any particular CAD backend.
package kernel

// Segment is an opaque handle to a straight line segment created by a
// kernel. Implementations wrap their internal representation.
type Segment interface {
	// Endpoints returns the start and end points of the segment.
	Endpoints() (p0, p1 Vec3)
}

// Curve is an opaque handle to a joined polyline curve.
type Curve interface {
	// Points returns the curve vertices in order. For a closed curve the
	// first point is repeated at the end.
	Points() []Vec3

	// Closed reports whether the curve ends where it starts.
	Closed() bool
}

// Kernel is the abstract geometry kernel interface.
// The tracers only combine vectors through Add and Scale and never look
// inside the curves they build.
type Kernel interface {
	// Vector arithmetic
	Add(a, b Vec3) Vec3
	Scale(v Vec3, k float64) Vec3

	// Construction
	Line(p0, p1 Vec3) Segment
	Join(segs []Segment) ([]Curve, error)

	// Offset grows (distance > 0) or shrinks a closed planar curve.
	// normal is any normal of the curve's plane.
	Offset(c Curve, normal Vec3, distance float64) (Curve, error)

	// Queries
	BoundingBox(c Curve) (min, max Vec3)

	// Transforms
	Translate(c Curve, d Vec3) Curve
	Rotate(c Curve, center, axis Vec3, degrees float64) Curve // right-handed about axis
}
