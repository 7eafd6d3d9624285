package formula

import (
	"errors"
	"fmt"
)

// ErrFormulaFormat is matched by every error returned from Parse.
var ErrFormulaFormat = errors.New("formula: invalid format")

// ParseError describes why a formula could not be parsed.
type ParseError struct {
	Source string
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %q: %s", ErrFormulaFormat, e.Source, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrFormulaFormat }

// Error is the result of a formula that parsed but could not be evaluated,
// for example because a referenced cell has no numeric value or the
// expression divides by zero.
type Error struct {
	Formula string
	Reason  string
	// Err is the lookup failure that caused the error, if any.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("formula %q: %s", e.Formula, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }
