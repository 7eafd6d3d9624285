package sheet

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidName is returned when a cell name is empty or fails the
	// sheet's validator.
	ErrInvalidName = errors.New("sheet: invalid cell name")

	// ErrNullContent is returned when a required formula or contents value
	// is missing.
	ErrNullContent = errors.New("sheet: contents are missing")

	// ErrCircularDependency is returned when a formula would make a cell
	// depend on itself, directly or through other cells.
	ErrCircularDependency = errors.New("sheet: circular dependency")
)

// NameError reports the rejected name.
type NameError struct {
	Name string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidName, e.Name)
}

func (e *NameError) Unwrap() error { return ErrInvalidName }

// CycleError reports the cell whose new formula was rejected and one cycle
// the formula would have closed. Path starts and ends with the same name and
// follows the dependent direction.
type CycleError struct {
	Cell string
	Path []string
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("%s through %s", ErrCircularDependency, e.Cell)
	}
	return fmt.Sprintf("%s through %s: %s", ErrCircularDependency, e.Cell, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCircularDependency }
