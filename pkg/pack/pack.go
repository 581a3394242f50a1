// Package pack lays cutting outlines out on fixed-size sheets, one sheet
// per colour, using a greedy shelf packer. Curves are placed in the order
// they are given, left to right along a row; a row wraps when the next
// curve would cross the sheet edge. The per-colour cursor persists across
// calls so that every batch of one colour continues where the last left
// off. Curves are never rotated or reordered.
package pack

import (
	"errors"
	"fmt"

	"github.com/chazu/blockcut/pkg/grid"
	"github.com/chazu/blockcut/pkg/kernel"
	"github.com/chazu/blockcut/pkg/trace"
)

// ErrNoSheet is returned when a colour has no sheet origin.
var ErrNoSheet = errors.New("pack: no sheet for colour")

// Sheet describes the stock every colour is cut from.
type Sheet struct {
	Width   float64
	Height  float64
	Spacing float64 // gap between parts and between rows
}

// Origins places one sheet per colour side by side along +X starting at
// base, in alphabet order, Spacing apart.
func Origins(k kernel.Kernel, base kernel.Vec3, alpha grid.Alphabet, sheet Sheet) map[grid.Color]kernel.Vec3 {
	out := make(map[grid.Color]kernel.Vec3, len(alpha))
	for i, c := range alpha {
		out[c] = k.Add(base, k.Scale(kernel.XAxis, float64(i)*(sheet.Width+sheet.Spacing)))
	}
	return out
}

// Cursor is the packing position on one colour's sheet: where the next
// part goes and the top of the tallest part so far.
type Cursor struct {
	X         float64
	Y         float64
	MaxHeight float64
}

// Placement records where one curve ended up.
type Placement struct {
	Curve  trace.Curve // outline moved onto its sheet
	X, Y   float64     // offset of the part's lower-left corner on the sheet
	Width  float64
	Height float64
	Row    int // shelf index on the sheet, counting from 0
}

// Packer owns the cursors of one packing run.
type Packer struct {
	k       kernel.Kernel
	sheet   Sheet
	origins map[grid.Color]kernel.Vec3
	cursors map[grid.Color]*Cursor
	rows    map[grid.Color]int
	widest  map[grid.Color]float64
}

// New returns a Packer with every cursor at the sheet origin.
func New(k kernel.Kernel, sheet Sheet, origins map[grid.Color]kernel.Vec3) *Packer {
	return &Packer{
		k:       k,
		sheet:   sheet,
		origins: origins,
		cursors: make(map[grid.Color]*Cursor),
		rows:    make(map[grid.Color]int),
		widest:  make(map[grid.Color]float64),
	}
}

// Place moves curves onto the sheet of color in order and returns their
// placements.
func (p *Packer) Place(color grid.Color, curves []trace.Curve) ([]Placement, error) {
	origin, ok := p.origins[color]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrNoSheet, color.String())
	}
	cur := p.cursors[color]
	if cur == nil {
		cur = &Cursor{}
		p.cursors[color] = cur
	}

	out := make([]Placement, 0, len(curves))
	for _, c := range curves {
		min, max := p.k.BoundingBox(c.Outline)
		w, h := max.X-min.X, max.Y-min.Y

		if cur.X > 0 && cur.X+w+p.sheet.Spacing > p.sheet.Width {
			cur.X = 0
			cur.Y = cur.MaxHeight + p.sheet.Spacing
			p.rows[color]++
		}

		at := p.k.Add(origin, kernel.Vec3{X: cur.X, Y: cur.Y})
		moved := p.k.Translate(c.Outline, p.k.Add(at, p.k.Scale(min, -1)))
		placed := c
		placed.Outline = moved
		out = append(out, Placement{
			Curve: placed, X: cur.X, Y: cur.Y,
			Width: w, Height: h, Row: p.rows[color],
		})

		cur.X += w + p.sheet.Spacing
		if cur.Y+h > cur.MaxHeight {
			cur.MaxHeight = cur.Y + h
		}
		if w > p.widest[color] {
			p.widest[color] = w
		}
	}
	return out, nil
}

// Cursor returns the cursor of color; the zero Cursor if nothing has been
// placed on it yet.
func (p *Packer) Cursor(color grid.Color) Cursor {
	if cur := p.cursors[color]; cur != nil {
		return *cur
	}
	return Cursor{}
}

// Cursors returns a copy of every cursor used so far.
func (p *Packer) Cursors() map[grid.Color]Cursor {
	out := make(map[grid.Color]Cursor, len(p.cursors))
	for c, cur := range p.cursors {
		out[c] = *cur
	}
	return out
}

// Overflow lists, in alphabet order, the colours whose parts run past the
// top of the sheet or include a part wider than it. Packing never corrects
// this; the caller decides what to do.
func (p *Packer) Overflow(alpha grid.Alphabet) []grid.Color {
	var out []grid.Color
	for _, c := range alpha {
		cur := p.cursors[c]
		if cur == nil {
			continue
		}
		if cur.MaxHeight > p.sheet.Height || p.widest[c] > p.sheet.Width {
			out = append(out, c)
		}
	}
	return out
}
