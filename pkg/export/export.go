// Package export writes packed sheets to files: one DXF or SVG cutting
// file per colour, and a PNG preview of every sheet side by side.
// Coordinates in cutting files are relative to the sheet's own origin.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/blockcut/pkg/config"
	"github.com/chazu/blockcut/pkg/grid"
	"github.com/chazu/blockcut/pkg/kernel"
	"github.com/chazu/blockcut/pkg/pack"
	"github.com/chazu/blockcut/pkg/pipeline"
)

// Output formats.
const (
	FormatDXF = "dxf"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDXF: true,
	FormatSVG: true,
	FormatPNG: true,
}

// ErrUnknownFormat is returned for a format outside ValidFormats.
var ErrUnknownFormat = errors.New("export: unknown format")

// DefaultStrokeMM is the SVG line width.
const DefaultStrokeMM = 0.1

// Options controls where and how sheets are written.
type Options struct {
	Dir      string   // output directory, created if missing
	Prefix   string   // file name stem; "sheet" when empty
	Formats  []string // any of FormatDXF, FormatSVG, FormatPNG
	StrokeMM float64  // SVG stroke width; DefaultStrokeMM when zero
}

// Writer exports the result of one run.
type Writer struct {
	k       kernel.Kernel
	cfg     config.Config
	origins map[grid.Color]kernel.Vec3
	opts    Options
}

// New returns a Writer for results produced from cfg.
func New(k kernel.Kernel, cfg config.Config, opts Options) (*Writer, error) {
	for _, f := range opts.Formats {
		if !ValidFormats[f] {
			return nil, fmt.Errorf("%w %q", ErrUnknownFormat, f)
		}
	}
	alpha, err := cfg.Colors()
	if err != nil {
		return nil, err
	}
	if opts.Prefix == "" {
		opts.Prefix = "sheet"
	}
	if opts.StrokeMM <= 0 {
		opts.StrokeMM = DefaultStrokeMM
	}
	return &Writer{
		k:       k,
		cfg:     cfg,
		origins: pack.Origins(k, cfg.SheetsBase(), alpha, cfg.PackSheet()),
		opts:    opts,
	}, nil
}

// Write writes every requested format and returns the paths written, in
// format order and then alphabet order. Colours with nothing placed get no
// cutting file.
func (w *Writer) Write(res *pipeline.Result) ([]string, error) {
	if err := os.MkdirAll(w.opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	var paths []string
	for _, f := range w.opts.Formats {
		if f == FormatPNG {
			path := w.path("preview", FormatPNG)
			if err := w.preview(res, path); err != nil {
				return paths, err
			}
			paths = append(paths, path)
			continue
		}
		for _, c := range res.Alphabet {
			placed := res.Placements[c]
			if len(placed) == 0 {
				continue
			}
			path := w.path(fileSymbol(c), f)
			var err error
			switch f {
			case FormatDXF:
				err = w.dxf(path, c, placed)
			case FormatSVG:
				err = w.svg(path, c, placed)
			}
			if err != nil {
				return paths, fmt.Errorf("export: %s: %w", path, err)
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func (w *Writer) path(name, ext string) string {
	return filepath.Join(w.opts.Dir, fmt.Sprintf("%s-%s.%s", w.opts.Prefix, name, ext))
}

// fileSymbol keeps colour symbols that are unsafe in file names readable.
func fileSymbol(c grid.Color) string {
	r := rune(c)
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return string(r)
	}
	return fmt.Sprintf("u%04x", r)
}

// lines calls line for every edge of the placed curves of c, in sheet
// coordinates.
func (w *Writer) lines(c grid.Color, placed []pack.Placement, line func(p0, p1 v2.Vec)) {
	origin := w.origins[c]
	for _, p := range placed {
		pts := p.Curve.Outline.Points()
		for i := 1; i < len(pts); i++ {
			a, b := pts[i-1], pts[i]
			line(
				v2.Vec{X: a.X - origin.X, Y: a.Y - origin.Y},
				v2.Vec{X: b.X - origin.X, Y: b.Y - origin.Y},
			)
		}
	}
}

func (w *Writer) dxf(path string, c grid.Color, placed []pack.Placement) error {
	d := render.NewDXF(path)
	w.lines(c, placed, func(p0, p1 v2.Vec) {
		d.Line(&sdf.Line2{p0, p1})
	})
	return d.Save()
}

func (w *Writer) svg(path string, c grid.Color, placed []pack.Placement) error {
	style := strings.Join([]string{
		"fill:none",
		"stroke:" + w.cfg.Hex(c),
		fmt.Sprintf("stroke-width:%g", w.opts.StrokeMM),
	}, ";")
	s := render.NewSVG(path, style)
	w.lines(c, placed, s.Line)
	return s.Save()
}
