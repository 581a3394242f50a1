package export

import (
	"gonum.org/v1/gonum/floats"

	"github.com/chazu/blockcut/pkg/grid"
	"github.com/chazu/blockcut/pkg/kernel"
	"github.com/chazu/blockcut/pkg/pipeline"
)

// SheetSummary describes how full one colour's sheet is.
type SheetSummary struct {
	Color    grid.Color
	Parts    int
	Rows     int
	UsedMM2  float64 // area enclosed by the placed outlines
	Height   float64 // top of the tallest row
	Fill     float64 // UsedMM2 over the sheet area
	Overflow bool
}

// Summarize returns one summary per colour of res, in alphabet order.
func (w *Writer) Summarize(res *pipeline.Result) []SheetSummary {
	sheet := w.cfg.PackSheet()
	overflow := make(map[grid.Color]bool, len(res.Overflow))
	for _, c := range res.Overflow {
		overflow[c] = true
	}

	out := make([]SheetSummary, 0, len(res.Alphabet))
	for _, c := range res.Alphabet {
		placed := res.Placements[c]
		areas := make([]float64, len(placed))
		rows := 0
		for i, p := range placed {
			areas[i] = Area(p.Curve.Outline.Points())
			if p.Row+1 > rows {
				rows = p.Row + 1
			}
		}
		s := SheetSummary{
			Color:    c,
			Parts:    len(placed),
			Rows:     rows,
			UsedMM2:  floats.Sum(areas),
			Height:   res.Cursors[c].MaxHeight,
			Overflow: overflow[c],
		}
		if a := sheet.Width * sheet.Height; a > 0 {
			s.Fill = s.UsedMM2 / a
		}
		out = append(out, s)
	}
	return out
}

// Area returns the area enclosed by a closed outline in the XY plane.
func Area(pts []kernel.Vec3) float64 {
	if len(pts) < 4 {
		return 0
	}
	terms := make([]float64, len(pts)-1)
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		terms[i-1] = a.X*b.Y - b.X*a.Y
	}
	area := floats.Sum(terms) / 2
	if area < 0 {
		return -area
	}
	return area
}
