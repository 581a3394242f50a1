package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/blockcut/pkg/export"
	"github.com/chazu/blockcut/pkg/kernel/sdfx"
	"github.com/chazu/blockcut/pkg/pipeline"
	"github.com/chazu/blockcut/pkg/trace"
)

// cutOpts holds the command-line flags for the cut command.
type cutOpts struct {
	output  string   // output directory
	prefix  string   // file name stem
	formats []string // dxf, svg, png
	policy  string   // corner policy override
	kerf    float64  // kerf override in mm; negative keeps the file's value
}

func (c *CLI) cutCommand() *cobra.Command {
	var formatsStr string
	opts := cutOpts{kerf: -1}

	cmd := &cobra.Command{
		Use:   "cut [block-file]",
		Short: "Trace and pack a block into per-colour cutting files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			return c.runCut(cmd, optionalArg(args), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "out", "output directory")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "sheet", "output file name prefix")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "dxf", "output formats: dxf, svg, png (comma-separated)")
	cmd.Flags().StringVar(&opts.policy, "corner-policy", "", "override the corner policy: strict or inset")
	cmd.Flags().Float64Var(&opts.kerf, "kerf", -1, "override the kerf width in mm")
	return cmd
}

func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func (c *CLI) runCut(cmd *cobra.Command, path string, opts cutOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	cfg, err := decodeBlock(path)
	if err != nil {
		return err
	}
	if opts.policy != "" {
		if _, err := trace.ParseCornerPolicy(opts.policy); err != nil {
			return err
		}
		cfg.CornerPolicy = opts.policy
	}
	if opts.kerf >= 0 {
		cfg.KerfMM = opts.kerf
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	k := sdfx.New()
	w, err := export.New(k, cfg, export.Options{Dir: opts.output, Prefix: opts.prefix, Formats: opts.formats})
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	res, err := pipeline.Run(ctx, cfg, k, pipeline.Options{Logger: logger})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Placed %d outlines", res.Count()))

	for _, col := range res.Overflow {
		logger.Warn("parts do not fit the sheet", "colour", col.String(), "height", res.Cursors[col].MaxHeight, "sheet", cfg.Sheet.Height)
	}

	paths, err := w.Write(res)
	if err != nil {
		return err
	}

	for _, s := range w.Summarize(res) {
		if s.Parts == 0 {
			continue
		}
		line := fmt.Sprintf("%s  %s parts  %s rows  %s filled",
			swatch(s.Color.String(), cfg.Hex(s.Color)),
			styleNumber.Render(fmt.Sprint(s.Parts)),
			styleNumber.Render(fmt.Sprint(s.Rows)),
			styleNumber.Render(fmt.Sprintf("%.1f%%", 100*s.Fill)))
		if s.Overflow {
			printWarning(out, "%s  overflows the sheet", line)
			continue
		}
		printSuccess(out, "%s", line)
	}
	for _, p := range paths {
		printFile(out, p)
	}
	return nil
}
