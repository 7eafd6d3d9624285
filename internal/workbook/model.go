package workbook

import (
	"context"
	"fmt"

	"github.com/specialistvlad/gridcalc/internal/config"
	"github.com/specialistvlad/gridcalc/internal/ctxlog"
	"github.com/specialistvlad/gridcalc/internal/sheet"
)

// Apply stores every cell of m in the workbook, in model order. Formulas may
// reference cells that appear later in the model. The first failing cell
// stops the load and is named in the returned error; cells applied before it
// are kept.
func (w *Workbook) Apply(ctx context.Context, m *config.Model) error {
	logger := ctxlog.FromContext(ctx)
	for _, c := range m.Cells {
		contents, err := w.cellContents(c)
		if err == nil {
			_, err = w.Set(ctx, c.Name, contents)
		}
		if err != nil {
			if c.Source.Filename != "" {
				return fmt.Errorf("%s: cell %s: %w", c.Source, c.Name, err)
			}
			return fmt.Errorf("cell %s: %w", c.Name, err)
		}
	}
	logger.Debug("Applied sheet model", "cells", len(m.Cells))
	return nil
}

// cellContents converts a model cell without re-guessing its kind, so text
// that looks like a number stays text.
func (w *Workbook) cellContents(c *config.Cell) (sheet.Contents, error) {
	switch c.Kind {
	case config.KindNumber:
		return sheet.Number(c.Number), nil
	case config.KindText:
		if c.Text == "" {
			return sheet.Empty{}, nil
		}
		return sheet.Text(c.Text), nil
	case config.KindFormula:
		return w.Parse("=" + c.Formula)
	default:
		return nil, fmt.Errorf("unknown cell kind %d", c.Kind)
	}
}

// Model captures the contents of every non-empty cell, in the order the cells
// were first set.
func (w *Workbook) Model() *config.Model {
	m := &config.Model{}
	for name := range w.NonEmptyCellNames() {
		c, err := w.Contents(name)
		if err != nil {
			continue
		}
		cell := &config.Cell{Name: name}
		switch v := c.(type) {
		case sheet.Number:
			cell.Kind = config.KindNumber
			cell.Number = float64(v)
		case sheet.Text:
			cell.Kind = config.KindText
			cell.Text = string(v)
		case sheet.Formula:
			cell.Kind = config.KindFormula
			cell.Formula = v.Formula.String()
		default:
			continue
		}
		m.Cells = append(m.Cells, cell)
	}
	return m
}
