package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/blockcut/pkg/config"
	"github.com/chazu/blockcut/pkg/grid"
	"github.com/chazu/blockcut/pkg/trace"
)

func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "inspect [block-file]",
		Short: "Print the side and top colour grids of a block",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadBlock(optionalArg(args))
			if err != nil {
				return err
			}
			return renderInspect(cmd.OutOrStdout(), cfg, plain)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print symbols without colour")
	return cmd
}

// renderInspect prints the side grid with its levels, the derived top face
// and the levels whose core outline has a notch.
func renderInspect(w io.Writer, cfg config.Config, plain bool) error {
	def, err := cfg.Definition()
	if err != nil {
		return err
	}
	opts, err := cfg.TraceOptions()
	if err != nil {
		return err
	}

	cell := func(c grid.Color) string {
		if plain {
			return c.String()
		}
		return swatch(c.String(), cfg.Hex(c))
	}
	row := func(d *grid.Definition, r int) string {
		var b strings.Builder
		for col := 0; col < d.Size(); col++ {
			b.WriteString(cell(d.Cell(r, col)))
		}
		return b.String()
	}

	fmt.Fprintln(w, styleTitle.Render("Side faces"))
	for r := 0; r < def.Size(); r++ {
		level := grid.Level(def.Size() - 1 - r)
		mark := " "
		if trace.LevelCut(def, level, opts.Core) {
			mark = "*"
		}
		fmt.Fprintf(w, "  %s %s %s\n", styleDim.Render(fmt.Sprintf("L%-2d", level)), row(def, r), styleDim.Render(mark))
	}

	top := grid.TopFace(def)
	fmt.Fprintln(w)
	fmt.Fprintln(w, styleTitle.Render("Top face"))
	for r := 0; r < top.Size(); r++ {
		fmt.Fprintf(w, "      %s\n", row(top, r))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s level with cut pixels; core %s, top %s, corner policy %s\n",
		styleDim.Render("*"), cell(opts.Core), cfg.Top, opts.CornerPolicy)
	return nil
}
