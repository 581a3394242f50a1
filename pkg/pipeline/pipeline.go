// Package pipeline runs a block from configuration to packed sheets.
//
// The stages are:
//
//  1. Trace: outline the core slab of every level, then the colour regions
//     of every face, joining segments into kerf-compensated closed curves
//  2. Lay flat: turn face curves into the cutting plane
//  3. Pack: place every curve on its colour's sheet
//
// Curves reach the packer in a fixed order (core levels bottom up, then
// faces by index, colours in alphabet order), so the same configuration
// always gives the same layout.
//
//	res, err := pipeline.Run(ctx, cfg, sdfx.New(), pipeline.Options{Logger: logger})
//	if err != nil {
//	    return err
//	}
//	for _, c := range res.Overflow {
//	    logger.Warn("sheet overflow", "colour", c)
//	}
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/chazu/blockcut/pkg/config"
	"github.com/chazu/blockcut/pkg/grid"
	"github.com/chazu/blockcut/pkg/kernel"
	"github.com/chazu/blockcut/pkg/pack"
	"github.com/chazu/blockcut/pkg/trace"
)

// Options controls a run.
type Options struct {
	// Logger receives progress at debug level and a summary at info level.
	// Nil discards everything.
	Logger *log.Logger
}

// Stats summarises a run.
type Stats struct {
	CoreCurves int
	FaceCurves int
	TraceTime  time.Duration
	PackTime   time.Duration
}

// Result is the output of a run: every placed curve, grouped by colour in
// placement order.
type Result struct {
	ID         uuid.UUID
	Alphabet   grid.Alphabet
	Placements map[grid.Color][]pack.Placement
	Cursors    map[grid.Color]pack.Cursor
	Overflow   []grid.Color // colours whose parts do not fit their sheet
	Stats      Stats
}

// Count returns the number of placed curves.
func (r *Result) Count() int {
	n := 0
	for _, ps := range r.Placements {
		n += len(ps)
	}
	return n
}

// batch is one group of curves of a single colour handed to the packer.
type batch struct {
	color  grid.Color
	curves []trace.Curve
}

// Run traces, lays flat and packs the block described by cfg. Any error
// aborts the run; no partial result is returned.
func Run(ctx context.Context, cfg config.Config, k kernel.Kernel, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	alpha, err := cfg.Colors()
	if err != nil {
		return nil, err
	}
	def, err := cfg.Definition()
	if err != nil {
		return nil, err
	}
	topts, err := cfg.TraceOptions()
	if err != nil {
		return nil, err
	}

	res := &Result{
		ID:         uuid.New(),
		Alphabet:   alpha,
		Placements: make(map[grid.Color][]pack.Placement),
	}
	logger = logger.With("run", res.ID.String()[:8])

	traceStart := time.Now()
	core, err := traceCore(ctx, k, def, topts, cfg.KerfMM, logger)
	if err != nil {
		return nil, err
	}
	faces, err := traceFaces(ctx, k, def, alpha, topts, cfg.KerfMM, logger)
	if err != nil {
		return nil, err
	}
	res.Stats.TraceTime = time.Since(traceStart)
	for _, b := range core {
		res.Stats.CoreCurves += len(b.curves)
	}
	for _, b := range faces {
		res.Stats.FaceCurves += len(b.curves)
	}

	packStart := time.Now()
	sheet := cfg.PackSheet()
	packer := pack.New(k, sheet, pack.Origins(k, cfg.SheetsBase(), alpha, sheet))
	for _, b := range append(core, faces...) {
		placed, err := packer.Place(b.color, b.curves)
		if err != nil {
			return nil, fmt.Errorf("pipeline: pack: %w", err)
		}
		res.Placements[b.color] = append(res.Placements[b.color], placed...)
	}
	res.Stats.PackTime = time.Since(packStart)
	res.Cursors = packer.Cursors()
	res.Overflow = packer.Overflow(alpha)

	logger.Info("packed block",
		"core_curves", res.Stats.CoreCurves,
		"face_curves", res.Stats.FaceCurves,
		"trace", res.Stats.TraceTime,
		"pack", res.Stats.PackTime)
	return res, nil
}

// traceCore returns one batch per traced level, bottom up.
func traceCore(ctx context.Context, k kernel.Kernel, def *grid.Definition, opts trace.Options, kerf float64, logger *log.Logger) ([]batch, error) {
	var out []batch
	for level := grid.Level(0); level < def.TopLevel(); level++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		segs, err := trace.TraceCore(k, def, level, opts)
		if err != nil {
			return nil, fmt.Errorf("pipeline: core: %w", err)
		}
		curves, err := trace.Assemble(k, segs, kernel.ZAxis, kerf)
		if err != nil {
			return nil, fmt.Errorf("pipeline: core level %d: %w", level, err)
		}
		if len(curves) == 0 {
			logger.Debug("level has no core outline", "level", level)
			continue
		}
		logger.Debug("traced core", "level", level, "curves", len(curves))
		out = append(out, batch{color: opts.Core, curves: trace.Tag(curves, opts.Core, trace.CoreSource(level))})
	}
	return out, nil
}

// traceFaces returns the laid-flat cut-outs of every face by face index,
// colours in alphabet order within a face.
func traceFaces(ctx context.Context, k kernel.Kernel, def *grid.Definition, alpha grid.Alphabet, opts trace.Options, kerf float64, logger *log.Logger) ([]batch, error) {
	n := def.Size()
	height := float64(n) * opts.Cell
	frames := grid.Frames(k, opts.Origin, n, opts.Cell)
	top := grid.TopFace(def)

	var out []batch
	for _, face := range grid.Faces {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame := frames[face]
		faceGrid := def
		if face == grid.FaceTop {
			faceGrid = top
		}
		regions := trace.TraceFace(k, faceGrid, frame, opts)
		for _, c := range alpha {
			segs := regions[c]
			if len(segs) == 0 {
				continue
			}
			curves, err := trace.Assemble(k, segs, frame.DepthIn, kerf)
			if err != nil {
				return nil, fmt.Errorf("pipeline: %s face colour %s: %w", face, c, err)
			}
			for i := range curves {
				curves[i] = trace.LayFlat(k, curves[i], frame, height)
			}
			logger.Debug("traced face", "face", face, "colour", c, "curves", len(curves))
			out = append(out, batch{color: c, curves: trace.Tag(curves, c, trace.FaceSource(face))})
		}
	}
	return out, nil
}
