package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/blockcut/pkg/config"
	"github.com/chazu/blockcut/pkg/grid"
)

// errInvalidBlock is returned by validate when any finding is an error.
var errInvalidBlock = errors.New("block is not valid")

func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [block-file]",
		Short: "Check a block file and list every problem",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd, optionalArg(args))
		},
	}
}

func (c *CLI) runValidate(cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()
	logger := loggerFromContext(cmd.Context())

	cfg, err := decodeBlock(path)
	if err != nil {
		return err
	}

	findings := cfg.Findings()
	failed := grid.HasErrors(findings)
	for _, f := range findings {
		if f.Severity == grid.SeverityError {
			printError(out, "%s", f.Error())
		} else {
			printWarning(out, "%s", f.Error())
		}
	}
	// Settings problems only show once the grid itself is sound.
	if !failed {
		if err := cfg.Validate(); err != nil {
			printError(out, "%v", err)
			failed = true
		}
	}
	if !failed && !topColourShown(cfg) {
		printWarning(out, "top colour %q does not appear on the top face", cfg.Top)
	}
	if failed {
		logger.Debug("validation failed", "findings", len(findings))
		return errInvalidBlock
	}

	name := path
	if name == "" {
		name = "reference block"
	}
	printSuccess(out, "%s is valid (%s pixels, %s colours)", name,
		styleNumber.Render(fmt.Sprint(cfg.NumPix)),
		styleNumber.Render(fmt.Sprint(len(cfg.Alphabet))))
	return nil
}

// topColourShown reports whether the top colour occurs on the derived top
// face of a valid block.
func topColourShown(cfg config.Config) bool {
	def, err := cfg.Definition()
	if err != nil {
		return false
	}
	alpha, err := cfg.Colors()
	if err != nil {
		return false
	}
	top, err := grid.ParseColor(cfg.Top)
	if err != nil {
		return false
	}
	for _, c := range grid.TopFace(def).Colors(alpha) {
		if c == top {
			return true
		}
	}
	return false
}
