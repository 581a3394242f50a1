package grid

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrMalformed is wrapped by every error returned for a grid that cannot
// be traced.
var ErrMalformed = errors.New("grid: malformed definition")

// ValidationSeverity indicates whether a validation finding blocks tracing
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks tracing
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding. Row and Col are
// -1 when the finding is not tied to a cell.
type ValidationError struct {
	Row      int
	Col      int
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	switch {
	case e.Row < 0:
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	case e.Col < 0:
		return fmt.Sprintf("[%s] row %d: %s", e.Severity, e.Row, e.Message)
	default:
		return fmt.Sprintf("[%s] row %d col %d: %s", e.Severity, e.Row, e.Col, e.Message)
	}
}

// MalformedError carries the findings that made a definition unusable.
type MalformedError struct {
	Findings []ValidationError
}

func (e *MalformedError) Error() string {
	var msgs []string
	for _, f := range e.Findings {
		if f.Severity == SeverityError {
			msgs = append(msgs, f.Error())
		}
	}
	return ErrMalformed.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *MalformedError) Unwrap() error { return ErrMalformed }

// HasErrors reports whether any finding blocks tracing.
func HasErrors(findings []ValidationError) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks that rows form a numPix x numPix grid over alpha and
// returns every finding. An empty slice means the grid is valid. Alphabet
// colours that never appear are reported as warnings.
func Validate(numPix int, rows []string, alpha Alphabet) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateSize(numPix, rows)...)
	errs = append(errs, validateCells(numPix, rows, alpha)...)
	if !HasErrors(errs) {
		errs = append(errs, validateUsage(rows, alpha)...)
	}
	return errs
}

func validateSize(numPix int, rows []string) []ValidationError {
	var errs []ValidationError
	if numPix < 2 {
		errs = append(errs, ValidationError{
			Row: -1, Col: -1, Severity: SeverityError,
			Message: fmt.Sprintf("grid size %d is below the minimum of 2", numPix),
		})
	}
	if len(rows) != numPix {
		errs = append(errs, ValidationError{
			Row: -1, Col: -1, Severity: SeverityError,
			Message: fmt.Sprintf("expected %d rows, got %d", numPix, len(rows)),
		})
	}
	return errs
}

func validateCells(numPix int, rows []string, alpha Alphabet) []ValidationError {
	var errs []ValidationError
	for i, row := range rows {
		if n := utf8.RuneCountInString(row); n != numPix {
			errs = append(errs, ValidationError{
				Row: i, Col: -1, Severity: SeverityError,
				Message: fmt.Sprintf("expected %d columns, got %d", numPix, n),
			})
		}
		col := 0
		for _, r := range row {
			if !alpha.Contains(Color(r)) {
				errs = append(errs, ValidationError{
					Row: i, Col: col, Severity: SeverityError,
					Message: fmt.Sprintf("unknown colour %q", r),
				})
			}
			col++
		}
	}
	return errs
}

func validateUsage(rows []string, alpha Alphabet) []ValidationError {
	used := make(map[Color]bool)
	for _, row := range rows {
		for _, r := range row {
			used[Color(r)] = true
		}
	}
	var errs []ValidationError
	for _, c := range alpha {
		if !used[c] {
			errs = append(errs, ValidationError{
				Row: -1, Col: -1, Severity: SeverityWarning,
				Message: fmt.Sprintf("colour %q is never used", c.String()),
			})
		}
	}
	return errs
}
