package grid

import (
	"fmt"
	"unicode/utf8"
)

// Color is a single-symbol material colour. Colours are compared for
// equality only; the rune carries no numeric meaning.
type Color rune

// NoColor marks a missing neighbour outside the grid.
const NoColor Color = 0

func (c Color) String() string {
	if c == NoColor {
		return ""
	}
	return string(rune(c))
}

// ParseColor converts a one-symbol string into a Color.
func ParseColor(s string) (Color, error) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) || r == 0 {
		return NoColor, fmt.Errorf("grid: colour %q must be a single symbol", s)
	}
	return Color(r), nil
}

// Alphabet is the ordered set of recognised colours. Its order fixes the
// order colours are processed and laid out in.
type Alphabet []Color

// ParseAlphabet converts symbol strings into an Alphabet, rejecting
// duplicates.
func ParseAlphabet(symbols []string) (Alphabet, error) {
	a := make(Alphabet, 0, len(symbols))
	for _, s := range symbols {
		c, err := ParseColor(s)
		if err != nil {
			return nil, err
		}
		if a.Contains(c) {
			return nil, fmt.Errorf("grid: colour %q listed twice in alphabet", s)
		}
		a = append(a, c)
	}
	return a, nil
}

// Contains reports whether c is part of the alphabet.
func (a Alphabet) Contains(c Color) bool {
	return a.Index(c) >= 0
}

// Index returns the position of c in the alphabet, or -1.
func (a Alphabet) Index(c Color) int {
	for i, x := range a {
		if x == c {
			return i
		}
	}
	return -1
}
