package trace

import (
	"errors"
	"strings"
	"testing"

	"github.com/chazu/blockcut/pkg/grid"
	"github.com/chazu/blockcut/pkg/kernel/sdfx"
)

func stepString(steps []Step) string {
	var b strings.Builder
	for _, s := range steps {
		b.WriteString(s.String())
	}
	return b.String()
}

func TestCornerTable(t *testing.T) {
	tests := []struct {
		corner Corner
		want   int
		steps  string
	}{
		{Corner{}, 0, "FI"},
		{Corner{Next: true}, 1, "FIB"},
		{Corner{This: true}, 2, "IF"},
		{Corner{This: true, Next: true}, 3, "I"},
		{Corner{Prev: true}, 4, "OFI"},
		{Corner{Prev: true, Next: true}, 5, "OFIB"},
		{Corner{Prev: true, This: true}, 6, "F"},
	}
	for _, tt := range tests {
		if got := tt.corner.Case(); got != tt.want {
			t.Errorf("%+v.Case() = %d, want %d", tt.corner, got, tt.want)
		}
		for _, policy := range []CornerPolicy{CornerStrict, CornerInset} {
			steps, err := tt.corner.Steps(policy)
			if err != nil {
				t.Fatalf("case %d (%s): %v", tt.want, policy, err)
			}
			if got := stepString(steps); got != tt.steps {
				t.Errorf("case %d (%s) steps = %s, want %s", tt.want, policy, got, tt.steps)
			}
		}
	}
}

func TestCornerAllCut(t *testing.T) {
	c := Corner{Prev: true, This: true, Next: true}
	if c.Case() != 7 {
		t.Fatalf("Case() = %d, want 7", c.Case())
	}
	if _, err := c.Steps(CornerStrict); !errors.Is(err, ErrUndefinedCorner) {
		t.Errorf("strict policy: expected ErrUndefinedCorner, got %v", err)
	}
	steps, err := c.Steps(CornerInset)
	if err != nil || len(steps) != 0 {
		t.Errorf("inset policy: got %v, %v; want no steps", steps, err)
	}
}

func TestCornerStepsAreCopies(t *testing.T) {
	steps, _ := Corner{This: true}.Steps(CornerStrict)
	steps[0].Draw = false
	again, _ := Corner{This: true}.Steps(CornerStrict)
	if got := stepString(again); got != "IF" {
		t.Errorf("table modified through returned slice: %s", got)
	}
}

func TestParseCornerPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    CornerPolicy
		wantErr bool
	}{
		{"", CornerStrict, false},
		{"strict", CornerStrict, false},
		{"inset", CornerInset, false},
		{"lenient", CornerStrict, true},
	}
	for _, tt := range tests {
		got, err := ParseCornerPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCornerPolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseCornerPolicy(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestCoreStepsTwoByTwo(t *testing.T) {
	def, err := grid.NewDefinition([]string{"OO", "OR"}, grid.Alphabet{'R', 'O'})
	if err != nil {
		t.Fatal(err)
	}
	sides, err := CoreSteps(def, 0, Options{Core: 'O'})
	if err != nil {
		t.Fatalf("CoreSteps: %v", err)
	}
	want := [grid.NumSides]string{"mIF", "FIB", "F", "FIB"}
	for side, steps := range sides {
		if got := stepString(steps); got != want[side] {
			t.Errorf("%s side steps = %s, want %s", grid.Face(side), got, want[side])
		}
	}
}

func TestCoreStepsStraightRuns(t *testing.T) {
	// Level 0 reads "OROO": cut in, then out, then an uncut corner.
	def, err := grid.NewDefinition([]string{"OOOO", "OOOO", "OOOO", "OROO"}, grid.Alphabet{'R', 'O'})
	if err != nil {
		t.Fatal(err)
	}
	sides, err := CoreSteps(def, 0, Options{Core: 'O'})
	if err != nil {
		t.Fatalf("CoreSteps: %v", err)
	}
	// Front reads O R O O: pix 1 cuts in first, pix 2 cuts out, pix 3 corner.
	if got := stepString(sides[grid.FaceFront]); got != "mIFOFFI" {
		t.Errorf("front steps = %s, want mIFOFFI", got)
	}
	// Right reads O O R O mirrored: pix 2 cuts in, and the uncut corner
	// sits between two cut pixels.
	if got := stepString(sides[grid.FaceRight]); got != "FIFOFIB" {
		t.Errorf("right steps = %s, want FIFOFIB", got)
	}
}

func TestWalkMovesWithoutDrawing(t *testing.T) {
	k := sdfx.New()
	end, segs := Walk(k, sideBasis[grid.FaceFront][Forward], sideBasis[grid.FaceFront], 2,
		[]Step{move(In), draw(Forward), draw(Out)})
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if end.X != 3 || end.Y != 0 {
		t.Errorf("end = %v, want (3,0,0)", end)
	}
}
