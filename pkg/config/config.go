// Package config holds the settings of one block: grid size, cell and
// kerf dimensions, sheet stock, colours and the colour grid itself. A
// Config is read from TOML on top of Default, or built by an element
// script (see package engine).
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/chazu/blockcut/pkg/grid"
	"github.com/chazu/blockcut/pkg/kernel"
	"github.com/chazu/blockcut/pkg/pack"
	"github.com/chazu/blockcut/pkg/trace"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// SheetSize is the usable area of one stock sheet in mm.
type SheetSize struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Config is the complete input of a run.
type Config struct {
	NumPix       int               `toml:"num_pix"`
	CellMM       float64           `toml:"cell_mm"`
	KerfMM       float64           `toml:"kerf_mm"`
	SpacingMM    float64           `toml:"spacing_mm"`
	Sheet        SheetSize         `toml:"sheet"`
	SheetsOrigin [3]float64        `toml:"sheets_origin"`
	Origin       [3]float64        `toml:"origin"`
	Core         string            `toml:"core"`
	Top          string            `toml:"top"`
	Alphabet     []string          `toml:"alphabet"`
	Palette      map[string]string `toml:"palette"`
	PlainSlabs   bool              `toml:"plain_slabs"`
	CornerPolicy string            `toml:"corner_policy"`
	Rows         []string          `toml:"rows"`
}

// Default returns the settings of the reference element block: a 16 pixel
// block of 5 mm cells cut from 680 x 600 mm sheets. It outlines every
// level and keeps all-cut corners inset, which its grid needs.
func Default() Config {
	return Config{
		NumPix:       16,
		CellMM:       5,
		KerfMM:       0.15,
		SpacingMM:    2,
		Sheet:        SheetSize{Width: 680, Height: 600},
		SheetsOrigin: [3]float64{200, 0, 0},
		Core:         "O",
		Top:          "R",
		Alphabet:     []string{"R", "O", "Y", "X"},
		Palette: map[string]string{
			"R": "#ff0000",
			"O": "#ff7700",
			"Y": "#c8c800",
			"X": "#ffff00",
		},
		PlainSlabs:   true,
		CornerPolicy: "inset",
		Rows: []string{
			"RROOYYOYXYORRRRR",
			"RROOROYXYOORRRRR",
			"OROOROYXYOOROROO",
			"OOORROYXXYOROOOO",
			"OROORROYXYORROYX",
			"OOOORRROOORROOYX",
			"OYXYOORRRRROROYX",
			"OYXOORROOROOOOXY",
			"OYXYORRROYXYOYXY",
			"ROYYOORROYXYOYOO",
			"OYXYORRROYYOOOOO",
			"YXXYOORRROROOYOY",
			"YXYORRROOORRROOY",
			"OOORRORRRRRRROOO",
			"RRRROOORROOORRRR",
			"RRROOOROYOORRRRR",
		},
	}
}

// Decode reads TOML over Default without validating the result. Keys
// missing from data keep their default value; a palette table replaces the
// default palette.
func Decode(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &struct{}{})
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if md.IsDefined("palette") {
		cfg.Palette = nil
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Parse decodes TOML over Default and validates it.
func Parse(data []byte) (Config, error) {
	cfg, err := Decode(data)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DecodeFile reads a TOML configuration file without validating it.
func DecodeFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Decode(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFile reads and validates a TOML configuration file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate checks every setting and the colour grid. Grid warnings do not
// fail validation; see Findings.
func (c Config) Validate() error {
	switch {
	case c.NumPix < 2:
		return invalid("num_pix must be at least 2, got %d", c.NumPix)
	case c.CellMM <= 0:
		return invalid("cell_mm must be positive, got %g", c.CellMM)
	case c.KerfMM < 0:
		return invalid("kerf_mm must not be negative, got %g", c.KerfMM)
	case c.KerfMM >= c.CellMM:
		return invalid("kerf_mm %g must be smaller than cell_mm %g", c.KerfMM, c.CellMM)
	case c.SpacingMM < 0:
		return invalid("spacing_mm must not be negative, got %g", c.SpacingMM)
	case c.Sheet.Width <= 0 || c.Sheet.Height <= 0:
		return invalid("sheet size must be positive, got %gx%g", c.Sheet.Width, c.Sheet.Height)
	}

	alpha, err := c.Colors()
	if err != nil {
		return err
	}
	for _, f := range []struct{ name, sym string }{{"core", c.Core}, {"top", c.Top}} {
		col, err := grid.ParseColor(f.sym)
		if err != nil {
			return invalid("%s: %v", f.name, err)
		}
		if !alpha.Contains(col) {
			return invalid("%s colour %q is not in the alphabet", f.name, f.sym)
		}
	}
	if _, err := trace.ParseCornerPolicy(c.CornerPolicy); err != nil {
		return invalid("%v", err)
	}
	for sym, hex := range c.Palette {
		col, err := grid.ParseColor(sym)
		if err != nil || !alpha.Contains(col) {
			return invalid("palette entry %q is not a colour of the alphabet", sym)
		}
		if _, err := colorful.Hex(hex); err != nil {
			return invalid("palette entry %q: %v", sym, err)
		}
	}

	if findings := c.Findings(); grid.HasErrors(findings) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, &grid.MalformedError{Findings: findings})
	}
	return nil
}

// Findings returns every grid validation finding, warnings included.
func (c Config) Findings() []grid.ValidationError {
	alpha, err := c.Colors()
	if err != nil {
		return []grid.ValidationError{{Row: -1, Col: -1, Message: err.Error(), Severity: grid.SeverityError}}
	}
	return grid.Validate(c.NumPix, c.Rows, alpha)
}

// Colors returns the parsed colour alphabet.
func (c Config) Colors() (grid.Alphabet, error) {
	if len(c.Alphabet) == 0 {
		return nil, invalid("alphabet is empty")
	}
	alpha, err := grid.ParseAlphabet(c.Alphabet)
	if err != nil {
		return nil, invalid("%v", err)
	}
	return alpha, nil
}

// Definition returns the validated colour grid.
func (c Config) Definition() (*grid.Definition, error) {
	alpha, err := c.Colors()
	if err != nil {
		return nil, err
	}
	if len(c.Rows) != c.NumPix {
		return nil, invalid("expected %d rows, got %d", c.NumPix, len(c.Rows))
	}
	def, err := grid.NewDefinition(c.Rows, alpha)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return def, nil
}

// TraceOptions returns the tracer settings.
func (c Config) TraceOptions() (trace.Options, error) {
	core, err := grid.ParseColor(c.Core)
	if err != nil {
		return trace.Options{}, invalid("core: %v", err)
	}
	policy, err := trace.ParseCornerPolicy(c.CornerPolicy)
	if err != nil {
		return trace.Options{}, invalid("%v", err)
	}
	return trace.Options{
		Origin:       vec(c.Origin),
		Cell:         c.CellMM,
		Core:         core,
		PlainSlabs:   c.PlainSlabs,
		CornerPolicy: policy,
	}, nil
}

// PackSheet returns the sheet stock for the packer.
func (c Config) PackSheet() pack.Sheet {
	return pack.Sheet{Width: c.Sheet.Width, Height: c.Sheet.Height, Spacing: c.SpacingMM}
}

// SheetsBase returns the origin of the first colour's sheet.
func (c Config) SheetsBase() kernel.Vec3 {
	return vec(c.SheetsOrigin)
}

// Hex returns the display colour of sym, or mid grey when the palette has
// none.
func (c Config) Hex(sym grid.Color) string {
	if hex, ok := c.Palette[sym.String()]; ok {
		return hex
	}
	return "#808080"
}

func vec(a [3]float64) kernel.Vec3 {
	return kernel.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
