package config

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/gridcalc/internal/cellname"
)

// CellKind tells which of the literal fields of a Cell is populated.
type CellKind int

const (
	KindNumber CellKind = iota + 1
	KindText
	KindFormula
)

func (k CellKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindFormula:
		return "formula"
	default:
		return "unknown"
	}
}

// Model is the unified, format-agnostic representation of a sheet file.
type Model struct {
	Cells []*Cell
}

// Cell is the format-agnostic representation of a `cell` block.
type Cell struct {
	Name    string
	Kind    CellKind
	Number  float64
	Text    string
	Formula string // without the leading '='
	// Source is where the cell was declared. It is the zero range for cells
	// that did not come from a file.
	Source hcl.Range
}

// Raw renders the cell the way a user would type it into the workbook.
func (c *Cell) Raw() string {
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.Number, 'g', -1, 64)
	case KindFormula:
		return "=" + c.Formula
	default:
		return c.Text
	}
}

func (c *Cell) String() string {
	return fmt.Sprintf("%s(%s)", c.Kind, c.Name)
}

// Sorted returns the cells ordered by address, column first and then row.
// The model is not modified.
func (m *Model) Sorted() []*Cell {
	cells := slices.Clone(m.Cells)
	slices.SortStableFunc(cells, func(a, b *Cell) int {
		return cellname.Compare(a.Name, b.Name)
	})
	return cells
}

// Find returns the cell with the given name, or nil.
func (m *Model) Find(name string) *Cell {
	i := slices.IndexFunc(m.Cells, func(c *Cell) bool { return c.Name == name })
	if i < 0 {
		return nil
	}
	return m.Cells[i]
}
