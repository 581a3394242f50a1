package export

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/chazu/blockcut/pkg/pipeline"
)

// previewWidth is the width of the preview image; its height follows the
// aspect ratio of the sheet row.
const previewWidth = 14 * vg.Inch

var sheetEdge = color.Gray{Y: 160}

// preview plots every sheet outline and every placed curve in its palette
// colour.
func (w *Writer) preview(res *pipeline.Result, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("blockcut %s", res.ID.String()[:8])
	p.X.Label.Text = "x (mm)"
	p.Y.Label.Text = "y (mm)"

	sheet := w.cfg.PackSheet()
	for _, c := range res.Alphabet {
		o := w.origins[c]
		border, err := plotter.NewLine(plotter.XYs{
			{X: o.X, Y: o.Y},
			{X: o.X + sheet.Width, Y: o.Y},
			{X: o.X + sheet.Width, Y: o.Y + sheet.Height},
			{X: o.X, Y: o.Y + sheet.Height},
			{X: o.X, Y: o.Y},
		})
		if err != nil {
			return fmt.Errorf("export: preview: %w", err)
		}
		border.Color = sheetEdge
		border.Width = vg.Points(0.5)
		p.Add(border)

		col := paletteColor(w.cfg.Hex(c))
		for _, pl := range res.Placements[c] {
			pts := pl.Curve.Outline.Points()
			xys := make(plotter.XYs, len(pts))
			for i, v := range pts {
				xys[i] = plotter.XY{X: v.X, Y: v.Y}
			}
			line, err := plotter.NewLine(xys)
			if err != nil {
				return fmt.Errorf("export: preview %s: %w", c, err)
			}
			line.Color = col
			line.Width = vg.Points(1)
			p.Add(line)
		}
	}

	n := float64(len(res.Alphabet))
	if n == 0 {
		n = 1
	}
	aspect := sheet.Height / (n*sheet.Width + (n-1)*sheet.Spacing)
	height := vg.Length(float64(previewWidth)*aspect) + 1*vg.Inch
	if err := p.Save(previewWidth, height, path); err != nil {
		return fmt.Errorf("export: preview: %w", err)
	}
	return nil
}

// paletteColor parses a palette entry, falling back to black.
func paletteColor(hex string) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.Black
	}
	return c
}
