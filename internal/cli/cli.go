// Package cli implements the blockcut command-line interface.
//
// # Commands
//
//   - cut: trace and pack a block, then write cutting files
//   - validate: check a block file and list every finding
//   - inspect: print the side and top colour grids of a block
//
// A block file is TOML (.toml) or an element script (.lisp, .zy). Without
// a file the built-in reference block is used.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// travels in the command context.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const appName = "blockcut"

var (
	version string
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI holds the output streams shared by all commands.
type CLI struct {
	out  io.Writer
	errw io.Writer
}

// New returns a CLI printing results to out and logs to errw.
func New(out, errw io.Writer) *CLI {
	if out == nil {
		out = os.Stdout
	}
	if errw == nil {
		errw = os.Stderr
	}
	return &CLI{out: out, errw: errw}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "blockcut turns a coloured pixel block into laser cutting sheets",
		Long:         `blockcut traces the core slabs and coloured face regions of a voxel block and packs the outlines onto one sheet per colour.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(c.errw, level)))
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.errw)
	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.cutCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.inspectCommand())
	return root
}
