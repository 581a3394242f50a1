package sdfx

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/blockcut/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// epsilon is the distance below which two points are treated as the same
// vertex when chaining segments.
const epsilon = 1e-6

// ErrOpenCurve is returned when an operation needs a closed curve.
var ErrOpenCurve = errors.New("sdfx: curve is not closed")

// segment wraps a pair of sdfx vectors to implement kernel.Segment.
type segment struct {
	p0, p1 v3.Vec
}

// Endpoints returns the segment's start and end.
func (s *segment) Endpoints() (kernel.Vec3, kernel.Vec3) {
	return fromV3(s.p0), fromV3(s.p1)
}

// polyline is an ordered vertex list. Closed polylines repeat their first
// vertex at the end.
type polyline struct {
	pts    []v3.Vec
	closed bool
}

// Points returns the polyline vertices.
func (p *polyline) Points() []kernel.Vec3 {
	out := make([]kernel.Vec3, len(p.pts))
	for i, v := range p.pts {
		out[i] = fromV3(v)
	}
	return out
}

// Closed reports whether the polyline is a loop.
func (p *polyline) Closed() bool {
	return p.closed
}

// vkey is a quantised vertex used to find shared endpoints.
type vkey struct {
	x, y, z int64
}

func keyOf(v v3.Vec) vkey {
	return vkey{
		x: int64(math.Round(v.X / epsilon)),
		y: int64(math.Round(v.Y / epsilon)),
		z: int64(math.Round(v.Z / epsilon)),
	}
}

// join chains segments into polylines. A chain keeps growing from its end
// while any unused segment touches it, taking the lowest-indexed candidate
// that turns, and then grows backwards from its start the same way. Because
// chaining does not stop at the first return to the start vertex, regions
// that touch at a single vertex come out as one loop. Zero-length segments
// are dropped.
func join(segs []*segment) []*polyline {
	adj := make(map[vkey][]int)
	for i, s := range segs {
		k0, k1 := keyOf(s.p0), keyOf(s.p1)
		if k0 == k1 {
			continue
		}
		adj[k0] = append(adj[k0], i)
		adj[k1] = append(adj[k1], i)
	}

	used := make([]bool, len(segs))
	// next takes the lowest-indexed unused segment leaving at, preferring
	// one that turns over one that runs straight on from heading. Running
	// straight through a vertex where two regions touch would flip the
	// winding of the second region.
	next := func(at, heading v3.Vec) (v3.Vec, bool) {
		k := keyOf(at)
		pick, far := -1, v3.Vec{}
		for _, j := range adj[k] {
			if used[j] {
				continue
			}
			other := segs[j].p0
			if keyOf(other) == k {
				other = segs[j].p1
			}
			if pick < 0 {
				pick, far = j, other
			}
			if !collinear(at.Sub(heading), at, other) {
				pick, far = j, other
				break
			}
		}
		if pick < 0 {
			return v3.Vec{}, false
		}
		used[pick] = true
		return far, true
	}

	var out []*polyline
	for i, s := range segs {
		if used[i] || keyOf(s.p0) == keyOf(s.p1) {
			continue
		}
		used[i] = true
		pts := []v3.Vec{s.p0, s.p1}

		for {
			last := pts[len(pts)-1]
			p, ok := next(last, last.Sub(pts[len(pts)-2]))
			if !ok {
				break
			}
			pts = append(pts, p)
		}

		closed := keyOf(pts[0]) == keyOf(pts[len(pts)-1])
		if !closed {
			var head []v3.Vec
			at, from := pts[0], pts[1]
			for {
				p, ok := next(at, at.Sub(from))
				if !ok {
					break
				}
				head = append(head, p)
				at, from = p, at
			}
			for l, r := 0, len(head)-1; l < r; l, r = l+1, r-1 {
				head[l], head[r] = head[r], head[l]
			}
			pts = append(head, pts...)
			closed = keyOf(pts[0]) == keyOf(pts[len(pts)-1])
		}
		if closed {
			pts[len(pts)-1] = pts[0]
		}
		out = append(out, &polyline{pts: simplify(pts, closed), closed: closed})
	}
	return out
}

// collinear reports whether b lies on the straight run a→b→c heading the
// same way (a reversal is not collinear).
func collinear(a, b, c v3.Vec) bool {
	d0 := b.Sub(a)
	d1 := c.Sub(b)
	if d0.Cross(d1).Length() > epsilon*(d0.Length()+d1.Length()) {
		return false
	}
	return d0.Dot(d1) > 0
}

// simplify drops vertices that sit in the middle of a straight run.
func simplify(pts []v3.Vec, closed bool) []v3.Vec {
	if len(pts) < 3 {
		return pts
	}
	out := []v3.Vec{pts[0]}
	for i := 1; i < len(pts)-1; i++ {
		if collinear(out[len(out)-1], pts[i], pts[i+1]) {
			continue
		}
		out = append(out, pts[i])
	}
	out = append(out, pts[len(pts)-1])

	// The seam of a loop can sit mid-run too.
	if closed && len(out) > 4 && collinear(out[len(out)-2], out[0], out[1]) {
		out = out[1 : len(out)-1]
		out = append(out, out[0])
	}
	return out
}

// signedArea returns the area of a closed polyline projected onto the
// plane with unit normal n; positive means counter-clockwise about n.
func signedArea(pts []v3.Vec, n v3.Vec) float64 {
	var sum v3.Vec
	o := pts[0]
	for i := 1; i+1 < len(pts); i++ {
		sum = sum.Add(pts[i].Sub(o).Cross(pts[i+1].Sub(o)))
	}
	return 0.5 * sum.Dot(n)
}

// offset mitres every vertex of a closed polyline outward by distance.
func offset(pl *polyline, normal v3.Vec, distance float64) (*polyline, error) {
	if !pl.closed {
		return nil, ErrOpenCurve
	}
	if distance == 0 {
		return pl, nil
	}
	// Ring of distinct vertices (the closing duplicate dropped).
	ring := pl.pts[:len(pl.pts)-1]
	if len(ring) < 3 {
		return nil, fmt.Errorf("sdfx: offset needs at least 3 vertices, got %d", len(ring))
	}

	n := normal.Normalize()
	area := signedArea(pl.pts, n)
	if math.Abs(area) < epsilon {
		return nil, fmt.Errorf("sdfx: offset of zero-area curve")
	}
	side := 1.0
	if area < 0 {
		side = -1.0
	}

	outward := func(a, b v3.Vec) v3.Vec {
		return b.Sub(a).Normalize().Cross(n).MulScalar(side)
	}

	count := len(ring)
	out := make([]v3.Vec, 0, count+1)
	for i := range ring {
		prev := ring[(i+count-1)%count]
		cur := ring[i]
		nxt := ring[(i+1)%count]

		oIn := outward(prev, cur)
		oOut := outward(cur, nxt)
		denom := 1 + oIn.Dot(oOut)
		var shift v3.Vec
		if denom < epsilon {
			shift = oIn.MulScalar(distance)
		} else {
			shift = oIn.Add(oOut).MulScalar(distance / denom)
		}
		out = append(out, clean(cur.Add(shift)))
	}
	out = append(out, out[0])
	return &polyline{pts: out, closed: true}, nil
}
