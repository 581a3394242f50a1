package engine

import (
	"fmt"
	"strings"
	"sync/atomic"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/blockcut/pkg/config"
	"github.com/chazu/blockcut/pkg/kernel"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms element script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: num-pix -> num_pix
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator).
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, kwPrefix...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Only when the hyphen sits between identifier characters.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types
// ---------------------------------------------------------------------------

// sexpVec3 wraps a kernel.Vec3 so it can be passed between builtins.
type sexpVec3 struct {
	vec kernel.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// unknownKeys returns an error naming the first keyword not in allowed.
func (a kwArgs) unknownKeys(fn string, allowed ...string) error {
	for k := range a.kw {
		found := false
		for _, name := range allowed {
			if k == name {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%s: unknown keyword :%s", fn, k)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts a whole number.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_R) and plain strings ("R").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toBool accepts true/false as well as :yes/:no style keywords.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	name, err := toKeywordString(s)
	if err != nil {
		return false, fmt.Errorf("expected boolean: %w", err)
	}
	switch strings.ToLower(name) {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("expected boolean, got %q", name)
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (kernel.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return kernel.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Config builder
// ---------------------------------------------------------------------------

// builder accumulates the effect of builtin calls on one config.
type builder struct {
	cfg        *config.Config
	numPixSet  bool
	rowsSet    bool
	colourSeen bool
	abandoned  atomic.Bool
}

func newBuilder(cfg *config.Config) *builder {
	return &builder{cfg: cfg}
}

// finish derives num_pix from the grid when the script gave rows but no size.
func (b *builder) finish() {
	if b.rowsSet && !b.numPixSet {
		b.cfg.NumPix = len(b.cfg.Rows)
	}
}

// define registers fn as a builtin that refuses to run once the builder has
// been abandoned.
func (b *builder) define(env *zygo.Zlisp, name string, fn zygo.ZlispUserFunction) {
	env.AddFunction(name, func(env *zygo.Zlisp, n string, args []zygo.Sexp) (zygo.Sexp, error) {
		if b.isAbandoned() {
			return zygo.SexpNull, fmt.Errorf("%s: %w", n, errAbandoned)
		}
		return fn(env, n, args)
	})
}

// floatKW sets *dst from the keyword name when present.
func floatKW(fn string, a kwArgs, name string, dst *float64) error {
	v, ok := a.kw[name]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, name, err)
	}
	*dst = f
	return nil
}

// vecKW sets *dst from a vec3 keyword when present.
func vecKW(fn string, a kwArgs, name string, dst *[3]float64) error {
	v, ok := a.kw[name]
	if !ok {
		return nil
	}
	vec, err := toVec3(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, name, err)
	}
	*dst = [3]float64{vec.X, vec.Y, vec.Z}
	return nil
}

// leadingSymbol splits a call like (colour :R :hex "#f00") into the colour
// symbol and the keyword arguments that follow it.
func leadingSymbol(fn string, args []zygo.Sexp) (string, kwArgs, error) {
	if len(args) == 0 {
		return "", kwArgs{}, fmt.Errorf("%s: expected a colour", fn)
	}
	sym, err := toKeywordString(args[0])
	if err != nil {
		return "", kwArgs{}, fmt.Errorf("%s: %w", fn, err)
	}
	rest := parseArgs(args[1:])
	if len(rest.positional) > 0 {
		return "", kwArgs{}, fmt.Errorf("%s: expected one colour, got %d", fn, 1+len(rest.positional))
	}
	return sym, rest, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the element builtins into a zygomys environment.
// Every builtin writes through b into the config under construction.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {

	// (vec3 x y z)
	b.define(env, "vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3: expected 3 arguments, got %d", len(args))
		}
		var xyz [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: argument %d: %w", i+1, err)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: kernel.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// (block :num-pix 16 :cell 5 :kerf 0.15 :spacing 2 :origin (vec3 0 0 0))
	b.define(env, "block", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.unknownKeys("block", "num-pix", "cell", "kerf", "spacing", "origin"); err != nil {
			return zygo.SexpNull, err
		}
		if v, ok := pa.kw["num-pix"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("block: num-pix: %w", err)
			}
			b.cfg.NumPix = n
			b.numPixSet = true
		}
		for _, f := range []struct {
			key string
			dst *float64
		}{
			{"cell", &b.cfg.CellMM},
			{"kerf", &b.cfg.KerfMM},
			{"spacing", &b.cfg.SpacingMM},
		} {
			if err := floatKW("block", pa, f.key, f.dst); err != nil {
				return zygo.SexpNull, err
			}
		}
		if err := vecKW("block", pa, "origin", &b.cfg.Origin); err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, nil
	})

	// (sheet :width 680 :height 600 :origin (vec3 200 0 0))
	b.define(env, "sheet", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.unknownKeys("sheet", "width", "height", "origin"); err != nil {
			return zygo.SexpNull, err
		}
		if err := floatKW("sheet", pa, "width", &b.cfg.Sheet.Width); err != nil {
			return zygo.SexpNull, err
		}
		if err := floatKW("sheet", pa, "height", &b.cfg.Sheet.Height); err != nil {
			return zygo.SexpNull, err
		}
		if err := vecKW("sheet", pa, "origin", &b.cfg.SheetsOrigin); err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, nil
	})

	// (colour :R :hex "#ff0000")
	// The first call replaces the default alphabet; later calls append.
	colour := func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		sym, pa, err := leadingSymbol(name, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.unknownKeys(name, "hex"); err != nil {
			return zygo.SexpNull, err
		}
		if !b.colourSeen {
			b.cfg.Alphabet = nil
			b.cfg.Palette = make(map[string]string)
			b.colourSeen = true
		}
		b.cfg.Alphabet = append(b.cfg.Alphabet, sym)
		if v, ok := pa.kw["hex"]; ok {
			hex, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: hex: %w", name, err)
			}
			b.cfg.Palette[sym] = hex
		}
		return zygo.SexpNull, nil
	}
	b.define(env, "colour", colour)
	b.define(env, "color", colour)

	// (core :O)
	b.define(env, "core", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		sym, pa, err := leadingSymbol("core", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.unknownKeys("core"); err != nil {
			return zygo.SexpNull, err
		}
		b.cfg.Core = sym
		return zygo.SexpNull, nil
	})

	// (top :R)
	b.define(env, "top", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		sym, pa, err := leadingSymbol("top", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.unknownKeys("top"); err != nil {
			return zygo.SexpNull, err
		}
		b.cfg.Top = sym
		return zygo.SexpNull, nil
	})

	// (corner-policy :strict)
	b.define(env, "corner_policy", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("corner-policy: expected 1 argument, got %d", len(args))
		}
		policy, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("corner-policy: %w", err)
		}
		b.cfg.CornerPolicy = policy
		return zygo.SexpNull, nil
	})

	// (plain-slabs :no); with no argument it turns plain slabs on.
	b.define(env, "plain_slabs", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		switch len(args) {
		case 0:
			b.cfg.PlainSlabs = true
		case 1:
			on, err := toBool(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plain-slabs: %w", err)
			}
			b.cfg.PlainSlabs = on
		default:
			return zygo.SexpNull, fmt.Errorf("plain-slabs: expected at most 1 argument, got %d", len(args))
		}
		return zygo.SexpNull, nil
	})

	// (rows "RROY" "OYXR" ...) or (rows ["RROY" "OYXR" ...])
	// Row 0 is the top level of the block.
	b.define(env, "rows", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var rows []string
		for i, a := range args {
			if s, ok := a.(*zygo.SexpStr); ok {
				rows = append(rows, s.S)
				continue
			}
			items, err := sexpListToSlice(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rows: argument %d: %w", i+1, err)
			}
			for _, it := range items {
				s, err := toString(it)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("rows: argument %d: %w", i+1, err)
				}
				rows = append(rows, s)
			}
		}
		if len(rows) == 0 {
			return zygo.SexpNull, fmt.Errorf("rows: expected at least one row")
		}
		b.cfg.Rows = rows
		b.rowsSet = true
		return zygo.SexpNull, nil
	})
}
