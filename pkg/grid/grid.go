package grid

import "fmt"

// NumSides is the number of vertical faces around a block.
const NumSides = 4

// Face identifies one side of the block. Sides are numbered
// counter-clockwise seen from above, starting with the face on the
// block's y=0 plane; the top face comes last.
type Face int

const (
	FaceFront Face = iota // y = 0
	FaceRight             // x = numPix
	FaceBack              // y = numPix
	FaceLeft              // x = 0
	FaceTop               // z = numPix
)

// Faces lists every face in tracing order.
var Faces = []Face{FaceFront, FaceRight, FaceBack, FaceLeft, FaceTop}

func (f Face) String() string {
	switch f {
	case FaceFront:
		return "front"
	case FaceRight:
		return "right"
	case FaceBack:
		return "back"
	case FaceLeft:
		return "left"
	case FaceTop:
		return "top"
	default:
		return fmt.Sprintf("Face(%d)", int(f))
	}
}

// IsSide reports whether f is one of the four vertical faces.
func (f Face) IsSide() bool {
	return f >= FaceFront && f < FaceTop
}

// Next returns the side that follows f going round the block.
// The left side wraps back to the front.
func (f Face) Next() Face {
	return Face((int(f) + 1) % NumSides)
}

// Level is a horizontal slice of the block; level 0 is the bottom.
type Level int

// Definition is an immutable square grid of colours. Rows are stored as
// written: row 0 is the top level of the block and row numPix-1 the
// bottom level.
type Definition struct {
	cells [][]Color
}

// NewDefinition builds a Definition from one string per row. It fails
// with a *MalformedError if the rows are not a square grid over alpha.
func NewDefinition(rows []string, alpha Alphabet) (*Definition, error) {
	if findings := Validate(len(rows), rows, alpha); HasErrors(findings) {
		return nil, &MalformedError{Findings: findings}
	}
	cells := make([][]Color, len(rows))
	for i, row := range rows {
		for _, r := range row {
			cells[i] = append(cells[i], Color(r))
		}
	}
	return &Definition{cells: cells}, nil
}

// Size returns numPix, the grid side length.
func (d *Definition) Size() int {
	return len(d.cells)
}

// TopLevel returns the highest level of the block.
func (d *Definition) TopLevel() Level {
	return Level(d.Size() - 1)
}

// Cell returns the colour stored at row, col.
func (d *Definition) Cell(row, col int) Color {
	return d.cells[row][col]
}

// Rows returns the grid as strings, top row first.
func (d *Definition) Rows() []string {
	out := make([]string, len(d.cells))
	for i, row := range d.cells {
		rs := make([]rune, len(row))
		for j, c := range row {
			rs[j] = rune(c)
		}
		out[i] = string(rs)
	}
	return out
}

// RowOf returns the grid row holding the colours of level.
func (d *Definition) RowOf(level Level) int {
	return d.Size() - 1 - int(level)
}

// At returns the colour at level, column in face-local coordinates,
// without any mirroring.
func (d *Definition) At(level Level, col int) Color {
	return d.cells[d.RowOf(level)][col]
}

// Pixel returns the colour of the offset-th pixel along face at level,
// counting in the direction the core tracer walks the face. Odd faces
// read the row mirrored so that the last pixel of one side and the first
// pixel of the next are the same physical corner cell. FaceTop reads like
// an even face.
func (d *Definition) Pixel(face Face, level Level, offset int) Color {
	return d.At(level, faceColumn(face, offset, d.Size()))
}

// faceColumn maps a walking offset along face to a grid column.
func faceColumn(face Face, offset, n int) int {
	if face.IsSide() && face%2 == 1 {
		return n - 1 - offset
	}
	return offset
}

// Uniform returns the single colour of the grid and true if every cell
// has the same colour.
func (d *Definition) Uniform() (Color, bool) {
	first := d.cells[0][0]
	for _, row := range d.cells {
		for _, c := range row {
			if c != first {
				return NoColor, false
			}
		}
	}
	return first, true
}

// Colors returns the colours of alpha that appear in the grid, in
// alphabet order.
func (d *Definition) Colors(alpha Alphabet) []Color {
	seen := make(map[Color]bool)
	for _, row := range d.cells {
		for _, c := range row {
			seen[c] = true
		}
	}
	var out []Color
	for _, c := range alpha {
		if seen[c] {
			out = append(out, c)
		}
	}
	return out
}
