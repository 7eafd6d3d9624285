package cellname

import (
	"cmp"
	"strconv"
	"strings"
)

// Address is the structured form of a cell name.
type Address struct {
	Column string
	Row    int
}

// String returns the cell name the address was parsed from.
func (a *Address) String() string {
	if a == nil {
		return ""
	}
	return a.Column + strconv.Itoa(a.Row)
}

// Equal compares two addresses, including the case of the column.
func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Column == other.Column && a.Row == other.Row
}

// Compare orders addresses column first, then row, the way a sheet is read
// top to bottom one column at a time. Columns compare like column numbers
// (Z before AA) without regard to case; case only breaks ties.
func (a *Address) Compare(other *Address) int {
	if c := cmp.Compare(len(a.Column), len(other.Column)); c != 0 {
		return c
	}
	if c := strings.Compare(strings.ToUpper(a.Column), strings.ToUpper(other.Column)); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Row, other.Row); c != 0 {
		return c
	}
	return strings.Compare(a.Column, other.Column)
}

// Compare orders two cell names by their addresses. Names that do not parse
// sort after every valid name, in plain string order.
func Compare(a, b string) int {
	addrA, errA := Parse(a)
	addrB, errB := Parse(b)
	switch {
	case errA == nil && errB == nil:
		return addrA.Compare(addrB)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
