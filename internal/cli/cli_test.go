package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/blockcut/pkg/config"
	"github.com/chazu/blockcut/pkg/export"
	"github.com/chazu/blockcut/pkg/trace"
)

const smallTOML = `
num_pix = 3
cell_mm = 4
kerf_mm = 0.2
core = "O"
top = "R"
alphabet = ["R", "O"]
plain_slabs = false
rows = ["ORO", "OOO", "ROR"]

[palette]
R = "#ff0000"
O = "#ff7700"
`

const smallLisp = `
(block :num-pix 3 :cell 4 :kerf 0.2)
(colour :R :hex "#ff0000")
(colour :O :hex "#ff7700")
(plain-slabs :no)
(rows "ORO" "OOO" "ROR")
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errw bytes.Buffer
	root := New(&out, &errw).RootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errw.String(), err
}

func TestDecodeBlock(t *testing.T) {
	dir := t.TempDir()

	fromTOML, err := decodeBlock(writeFile(t, dir, "small.toml", smallTOML))
	require.NoError(t, err)
	fromLisp, err := decodeBlock(writeFile(t, dir, "small.lisp", smallLisp))
	require.NoError(t, err)
	assert.Equal(t, fromTOML, fromLisp, "both formats describe the same block")

	def, err := decodeBlock("")
	require.NoError(t, err)
	assert.Equal(t, 16, def.NumPix)

	_, err = decodeBlock(writeFile(t, dir, "small.yaml", "num_pix: 3"))
	assert.True(t, errors.Is(err, ErrUnknownInput))

	_, err = decodeBlock(writeFile(t, dir, "broken.zy", `(rows "RO"`))
	assert.ErrorContains(t, err, "broken.zy")
}

func TestLoadBlockValidates(t *testing.T) {
	dir := t.TempDir()
	_, err := loadBlock(writeFile(t, dir, "bad.toml", `num_pix = 1`))
	assert.ErrorContains(t, err, "num_pix")

	// An unknown core colour parses fine but is not a valid block.
	badLisp := writeFile(t, dir, "bad.lisp", `(core :Q)`)
	_, err = decodeBlock(badLisp)
	assert.NoError(t, err, "decoding does not validate")
	_, err = loadBlock(badLisp)
	assert.True(t, errors.Is(err, config.ErrInvalidConfig), "got %v", err)
	assert.ErrorContains(t, err, "bad.lisp")

	def, err := loadBlock("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), def)
}

func TestCut(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "small.toml", smallTOML)
	outDir := filepath.Join(dir, "cut")

	stdout, stderr, err := run(t, "cut", in, "-o", outDir, "-f", "dxf,svg", "--prefix", "small")
	require.NoError(t, err)

	for _, name := range []string{"small-R.dxf", "small-O.dxf", "small-R.svg", "small-O.svg"} {
		assert.FileExists(t, filepath.Join(outDir, name))
		assert.Contains(t, stdout, name)
	}
	assert.Contains(t, stderr, "Placed")
}

func TestCutFlagOverrides(t *testing.T) {
	dir := t.TempDir()

	_, _, err := run(t, "cut", "-o", dir, "--corner-policy", "strict")
	assert.True(t, errors.Is(err, trace.ErrUndefinedCorner), "reference block needs the inset policy, got %v", err)

	_, _, err = run(t, "cut", "-o", dir, "--corner-policy", "loose")
	assert.Error(t, err)

	_, _, err = run(t, "cut", "-o", dir, "--kerf", "9")
	assert.ErrorContains(t, err, "kerf_mm")

	_, _, err = run(t, "cut", "-o", dir, "-f", "gcode")
	assert.True(t, errors.Is(err, export.ErrUnknownFormat))
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := run(t, "validate", writeFile(t, dir, "small.toml", smallTOML))
	require.NoError(t, err)
	assert.Contains(t, stdout, "is valid")

	bad := strings.Replace(smallTOML, `"ROR"`, `"RQR"`, 1)
	stdout, _, err = run(t, "validate", writeFile(t, dir, "bad.toml", bad))
	assert.True(t, errors.Is(err, errInvalidBlock))
	assert.Contains(t, stdout, "unknown colour")

	unused := strings.Replace(smallTOML, `alphabet = ["R", "O"]`, `alphabet = ["R", "O", "Y"]`, 1)
	stdout, _, err = run(t, "validate", writeFile(t, dir, "unused.toml", unused))
	require.NoError(t, err, "warnings do not fail validation")
	assert.Contains(t, stdout, "never used")
}

func TestValidateTopColour(t *testing.T) {
	dir := t.TempDir()
	noTop := strings.Replace(smallTOML, `rows = ["ORO", "OOO", "ROR"]`, `rows = ["OOO", "OOO", "ROR"]`, 1)
	stdout, _, err := run(t, "validate", writeFile(t, dir, "notop.toml", noTop))
	require.NoError(t, err)
	assert.Contains(t, stdout, "does not appear on the top face")
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	stdout, _, err := run(t, "inspect", "--plain", writeFile(t, dir, "small.toml", smallTOML))
	require.NoError(t, err)

	assert.Contains(t, stdout, "Side faces")
	assert.Contains(t, stdout, "Top face")
	// Row 0 is level 2; the top level's R pixel marks it as cut.
	assert.Contains(t, stdout, "L2  ORO *")
	assert.Contains(t, stdout, "L1  OOO  ")
	assert.Contains(t, stdout, "corner policy inset")
}

func TestParseFormats(t *testing.T) {
	assert.Equal(t, []string{"dxf", "svg"}, parseFormats(" DXF, svg ,"))
	assert.Empty(t, parseFormats(""))
}
