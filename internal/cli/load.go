package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chazu/blockcut/pkg/config"
	"github.com/chazu/blockcut/pkg/engine"
)

// ErrUnknownInput is returned for a block file with an unrecognised
// extension.
var ErrUnknownInput = errors.New("unknown block file type")

// blockReader pairs the non-validating and validating readers of one block
// file format.
type blockReader struct {
	decode func(path string) (config.Config, error)
	load   func(path string) (config.Config, error)
}

// readerFor picks the reader for path by extension.
func readerFor(path string) (blockReader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return blockReader{decode: config.DecodeFile, load: config.LoadFile}, nil
	case ".lisp", ".zy":
		eng := engine.NewEngine()
		return blockReader{decode: eng.DecodeFile, load: eng.Load}, nil
	}
	return blockReader{}, fmt.Errorf("%w %q (want .toml, .lisp or .zy)", ErrUnknownInput, filepath.Ext(path))
}

// decodeBlock reads a block file without validating it. An empty path
// yields the reference block.
func decodeBlock(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	r, err := readerFor(path)
	if err != nil {
		return config.Config{}, err
	}
	return r.decode(path)
}

// loadBlock reads and validates a block file.
func loadBlock(path string) (config.Config, error) {
	if path == "" {
		cfg := config.Default()
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
		return cfg, nil
	}
	r, err := readerFor(path)
	if err != nil {
		return config.Config{}, err
	}
	return r.load(path)
}

// optionalArg returns the single optional positional argument.
func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
