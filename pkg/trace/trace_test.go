package trace_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/chazu/blockcut/pkg/grid"
	"github.com/chazu/blockcut/pkg/kernel"
	"github.com/chazu/blockcut/pkg/kernel/sdfx"
	"github.com/chazu/blockcut/pkg/trace"
)

var alpha = grid.Alphabet{'R', 'O', 'Y', 'X'}

func mustDef(t *testing.T, rows ...string) *grid.Definition {
	t.Helper()
	d, err := grid.NewDefinition(rows, alpha)
	if err != nil {
		t.Fatalf("NewDefinition: %v", err)
	}
	return d
}

// expectEvenDegree fails if any vertex of segs is not shared by an even
// number of segments, which is what a set of closed loops looks like.
func expectEvenDegree(t *testing.T, segs []kernel.Segment) {
	t.Helper()
	degree := make(map[kernel.Vec3]int)
	for _, s := range segs {
		p0, p1 := s.Endpoints()
		degree[p0]++
		degree[p1]++
	}
	for v, d := range degree {
		if d%2 != 0 {
			t.Fatalf("vertex %v has odd degree %d", v, d)
		}
	}
}

func expectBox(t *testing.T, k kernel.Kernel, c kernel.Curve, wantMin, wantMax kernel.Vec3) {
	t.Helper()
	min, max := k.BoundingBox(c)
	if !min.Near(wantMin, 1e-6) || !max.Near(wantMax, 1e-6) {
		t.Fatalf("bounding box = %v..%v, want %v..%v", min, max, wantMin, wantMax)
	}
}

func TestTraceCoreTwoByTwo(t *testing.T) {
	k := sdfx.New()
	def := mustDef(t, "OO", "OR")
	opts := trace.Options{Cell: 5, Core: 'O'}

	segs, err := trace.TraceCore(k, def, 0, opts)
	if err != nil {
		t.Fatalf("TraceCore: %v", err)
	}
	expectEvenDegree(t, segs)

	curves, err := trace.Assemble(k, segs, kernel.ZAxis, 0.2)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(curves) != 1 {
		t.Fatalf("expected 1 core curve, got %d", len(curves))
	}
	if !curves[0].Closed() {
		t.Fatal("core curve not closed")
	}
	expectBox(t, k, curves[0], kernel.Vec3{X: -0.1, Y: -0.1}, kernel.Vec3{X: 10.1, Y: 10.1})

	top, err := trace.TraceCore(k, def, def.TopLevel(), opts)
	if err != nil || top != nil {
		t.Errorf("top level traced: %d segments, err %v", len(top), err)
	}
}

func TestTraceCoreNoCutLevel(t *testing.T) {
	k := sdfx.New()
	def := mustDef(t, "OO", "OO")

	segs, err := trace.TraceCore(k, def, 0, trace.Options{Cell: 5, Core: 'O'})
	if err != nil || len(segs) != 0 {
		t.Fatalf("uncut level: %d segments, err %v; want none", len(segs), err)
	}

	segs, err = trace.TraceCore(k, def, 0, trace.Options{Cell: 5, Core: 'O', PlainSlabs: true})
	if err != nil {
		t.Fatalf("TraceCore: %v", err)
	}
	curves, err := trace.Assemble(k, segs, kernel.ZAxis, 0)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(curves) != 1 {
		t.Fatalf("expected 1 slab outline, got %d", len(curves))
	}
	expectBox(t, k, curves[0], kernel.Vec3{}, kernel.Vec3{X: 10, Y: 10})
}

func TestTraceCoreLevelOrigin(t *testing.T) {
	k := sdfx.New()
	def := mustDef(t, "OOO", "OOO", "OOO")
	opts := trace.Options{Origin: kernel.Vec3{X: 100, Y: 50, Z: 7}, Cell: 2, Core: 'O', PlainSlabs: true}

	segs, err := trace.TraceCore(k, def, 1, opts)
	if err != nil {
		t.Fatalf("TraceCore: %v", err)
	}
	curves, _ := trace.Assemble(k, segs, kernel.ZAxis, 0)
	expectBox(t, k, curves[0], kernel.Vec3{X: 100, Y: 50, Z: 9}, kernel.Vec3{X: 106, Y: 56, Z: 9})
}

func TestTraceCoreAllCutCorner(t *testing.T) {
	k := sdfx.New()
	def := mustDef(t, "RRR", "RRR", "RRR")

	_, err := trace.TraceCore(k, def, 0, trace.Options{Cell: 5, Core: 'O'})
	if !errors.Is(err, trace.ErrUndefinedCorner) {
		t.Fatalf("expected ErrUndefinedCorner, got %v", err)
	}
	var ce *trace.CornerError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CornerError, got %T", err)
	}
	if ce.Level != 0 || ce.Side != grid.FaceFront {
		t.Errorf("corner error at level %d side %s, want level 0 front", ce.Level, ce.Side)
	}

	segs, err := trace.TraceCore(k, def, 0, trace.Options{Cell: 5, Core: 'O', CornerPolicy: trace.CornerInset})
	if err != nil {
		t.Fatalf("inset policy: %v", err)
	}
	curves, err := trace.Assemble(k, segs, kernel.ZAxis, 0)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(curves) != 1 {
		t.Fatalf("expected 1 inset curve, got %d", len(curves))
	}
	expectBox(t, k, curves[0], kernel.Vec3{X: 5, Y: 5}, kernel.Vec3{X: 10, Y: 10})
}

func TestTraceCoreRandomGridsClose(t *testing.T) {
	k := sdfx.New()
	rng := rand.New(rand.NewSource(7))
	colours := []byte{'O', 'R'}

	for trial := 0; trial < 200; trial++ {
		n := 2 + rng.Intn(6)
		rows := make([]string, n)
		for r := range rows {
			b := make([]byte, n)
			for c := range b {
				b[c] = colours[rng.Intn(len(colours))]
			}
			rows[r] = string(b)
		}
		def := mustDef(t, rows...)
		opts := trace.Options{Cell: 1, Core: 'O', PlainSlabs: true, CornerPolicy: trace.CornerInset}

		for level := grid.Level(0); level < def.TopLevel(); level++ {
			segs, err := trace.TraceCore(k, def, level, opts)
			if err != nil {
				t.Fatalf("%v level %d: %v", rows, level, err)
			}
			expectEvenDegree(t, segs)
			curves, err := trace.Assemble(k, segs, kernel.ZAxis, 0)
			if err != nil {
				t.Fatalf("%v level %d: %v", rows, level, err)
			}
			for _, c := range curves {
				if !c.Closed() {
					t.Fatalf("%v level %d: open curve", rows, level)
				}
				min, max := k.BoundingBox(c)
				if min.X < 0 || min.Y < 0 || max.X > float64(n) || max.Y > float64(n) {
					t.Fatalf("%v level %d: curve %v..%v leaves the block", rows, level, min, max)
				}
			}
		}
	}
}

func TestTraceFaceTwoByTwo(t *testing.T) {
	k := sdfx.New()
	def := mustDef(t, "OO", "OR")
	frames := grid.Frames(k, kernel.Vec3{}, def.Size(), 5)
	opts := trace.Options{Cell: 5, Core: 'O'}

	front := trace.TraceFace(k, def, frames[grid.FaceFront], opts)
	if _, ok := front['O']; ok {
		t.Error("core colour traced on a side face")
	}
	if len(front['R']) != 4 {
		t.Errorf("expected 4 segments around the R pixel, got %d", len(front['R']))
	}

	right := trace.TraceFace(k, def, frames[grid.FaceRight], opts)
	if len(right) != 0 {
		t.Errorf("2x2 right face has no own columns, got %d colours", len(right))
	}

	top := trace.TraceFace(k, grid.TopFace(def), frames[grid.FaceTop], opts)
	curves, err := trace.Assemble(k, top['O'], kernel.ZAxis, 0)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(curves) != 1 {
		t.Fatalf("expected 1 top outline, got %d", len(curves))
	}
	expectBox(t, k, curves[0], kernel.Vec3{Z: 10}, kernel.Vec3{X: 10, Y: 10, Z: 10})
}

func TestTraceFaceUniform(t *testing.T) {
	k := sdfx.New()
	def := mustDef(t, "OOO", "OOO", "OOO")
	frames := grid.Frames(k, kernel.Vec3{}, def.Size(), 5)
	opts := trace.Options{Cell: 5, Core: 'O'}

	for _, face := range []grid.Face{grid.FaceFront, grid.FaceRight, grid.FaceBack, grid.FaceLeft} {
		if got := trace.TraceFace(k, def, frames[face], opts); len(got) != 0 {
			t.Errorf("%s face: expected no cut-outs, got %d colours", face, len(got))
		}
	}
	for level := grid.Level(0); level <= def.TopLevel(); level++ {
		segs, err := trace.TraceCore(k, def, level, opts)
		if err != nil || len(segs) != 0 {
			t.Errorf("level %d: %d core segments, err %v; want none", level, len(segs), err)
		}
	}
}

func TestTraceFaceRegionsClose(t *testing.T) {
	k := sdfx.New()
	def := mustDef(t,
		"RROY",
		"OYXR",
		"XORY",
		"YYOR",
	)
	frames := grid.Frames(k, kernel.Vec3{}, def.Size(), 1)
	opts := trace.Options{Cell: 1, Core: 'O'}

	for _, face := range grid.Faces {
		fg := def
		if face == grid.FaceTop {
			fg = grid.TopFace(def)
		}
		for c, segs := range trace.TraceFace(k, fg, frames[face], opts) {
			expectEvenDegree(t, segs)
			curves, err := trace.Assemble(k, segs, frames[face].DepthIn, 0.1)
			if err != nil {
				t.Fatalf("%s face colour %s: %v", face, c, err)
			}
			if len(curves) == 0 {
				t.Errorf("%s face colour %s: no curves", face, c)
			}
		}
	}
}

func TestTraceFaceEnclosedRegionHasInnerLoop(t *testing.T) {
	k := sdfx.New()
	// On the front face a Y ring (levels 0-2, columns 0-2) surrounds one
	// R pixel.
	def := mustDef(t,
		"OOOOO",
		"OOOOO",
		"YYYOO",
		"YRYOO",
		"YYYOO",
	)
	frames := grid.Frames(k, kernel.Vec3{}, def.Size(), 1)
	opts := trace.Options{Cell: 1, Core: 'O'}
	const kerf = 0.2

	segs := trace.TraceFace(k, def, frames[grid.FaceFront], opts)
	ring, err := trace.Assemble(k, segs['Y'], frames[grid.FaceFront].DepthIn, kerf)
	if err != nil {
		t.Fatal(err)
	}
	if len(ring) != 2 {
		t.Fatalf("Y ring traced as %d loops, want outer and inner", len(ring))
	}

	extent := func(c kernel.Curve) float64 {
		min, max := k.BoundingBox(c)
		return math.Max(max.X-min.X, math.Max(max.Y-min.Y, max.Z-min.Z))
	}
	got := []float64{extent(ring[0]), extent(ring[1])}
	if got[0] > got[1] {
		got[0], got[1] = got[1], got[0]
	}
	// Both loops are offset outward, so the inner loop grows as well.
	if math.Abs(got[0]-(1+kerf)) > 1e-6 || math.Abs(got[1]-(3+kerf)) > 1e-6 {
		t.Errorf("loop extents = %v, want [%v %v]", got, 1+kerf, 3+kerf)
	}
}

func TestLayFlat(t *testing.T) {
	k := sdfx.New()
	def := mustDef(t, "RROY", "OYXR", "XORY", "YYOR")
	const cell = 5.0
	height := float64(def.Size()) * cell
	frames := grid.Frames(k, kernel.Vec3{X: 10, Y: 20}, def.Size(), cell)
	opts := trace.Options{Cell: cell, Core: 'O'}

	for _, face := range grid.Faces {
		fg := def
		if face == grid.FaceTop {
			fg = grid.TopFace(def)
		}
		for _, segs := range trace.TraceFace(k, fg, frames[face], opts) {
			curves, err := trace.Assemble(k, segs, frames[face].DepthIn, 0)
			if err != nil {
				t.Fatalf("%s: %v", face, err)
			}
			for _, c := range curves {
				flat := trace.LayFlat(k, c, frames[face], height)
				for _, p := range flat.Points() {
					if math.Abs(p.Z) > 1e-6 {
						t.Fatalf("%s face point %v not on the z=0 plane", face, p)
					}
				}
			}
		}
	}
}

func TestSourceString(t *testing.T) {
	tests := []struct {
		src  trace.Source
		want string
	}{
		{trace.CoreSource(3), "core level 3"},
		{trace.FaceSource(grid.FaceBack), "back face"},
		{trace.FaceSource(grid.FaceTop), "top face"},
	}
	for _, tt := range tests {
		if got := tt.src.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
