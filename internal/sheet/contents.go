package sheet

import (
	"strconv"

	"github.com/specialistvlad/gridcalc/internal/formula"
)

// Contents is what a cell holds. The concrete type is always one of Empty,
// Number, Text or Formula.
type Contents interface {
	// String renders the contents the way a user would type them.
	String() string
	isContents()
}

// Empty is the contents of a cell that was never set or was set to "".
type Empty struct{}

// Number is a literal number.
type Number float64

// Text is a literal, non-empty string.
type Text string

// Formula wraps a parsed formula.
type Formula struct {
	*formula.Formula
}

func (Empty) isContents()   {}
func (Number) isContents()  {}
func (Text) isContents()    {}
func (Formula) isContents() {}

func (Empty) String() string { return "" }

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

func (t Text) String() string { return string(t) }

func (f Formula) String() string {
	if f.Formula == nil {
		return "="
	}
	return "=" + f.Formula.String()
}
