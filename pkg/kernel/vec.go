package kernel

import "math"

// Vec3 is a point or direction in block space, in millimetres.
// It is a plain value so that it can cross the kernel boundary cheaply;
// arithmetic on it goes through Kernel.Add and Kernel.Scale.
type Vec3 struct {
	X, Y, Z float64
}

// Unit axis vectors.
var (
	XAxis = Vec3{X: 1}
	YAxis = Vec3{Y: 1}
	ZAxis = Vec3{Z: 1}
)

// Neg returns the vector pointing the opposite way.
func (v Vec3) Neg() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Near reports whether v and o are within tol of each other on every axis.
func (v Vec3) Near(o Vec3, tol float64) bool {
	return math.Abs(v.X-o.X) <= tol &&
		math.Abs(v.Y-o.Y) <= tol &&
		math.Abs(v.Z-o.Z) <= tol
}

// IsZero returns true if all components are zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}
