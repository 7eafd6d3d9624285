package hcl

import (
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/gridcalc/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// Writer is the HCL-specific implementation of the config.Writer interface.
type Writer struct{}

// NewWriter creates a new HCL sheet writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write renders model as a sheet file with one `cell` block per cell, sorted
// by name.
func (wr *Writer) Write(w io.Writer, model *config.Model) error {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	for i, cell := range model.Sorted() {
		if i > 0 {
			body.AppendNewline()
		}
		block := body.AppendNewBlock("cell", []string{cell.Name})
		switch cell.Kind {
		case config.KindNumber:
			block.Body().SetAttributeValue("number", cty.NumberFloatVal(cell.Number))
		case config.KindText:
			block.Body().SetAttributeValue("text", cty.StringVal(cell.Text))
		case config.KindFormula:
			block.Body().SetAttributeValue("formula", cty.StringVal(cell.Formula))
		default:
			return fmt.Errorf("cell %s: unknown kind %v", cell.Name, cell.Kind)
		}
	}

	if _, err := w.Write(hclwrite.Format(f.Bytes())); err != nil {
		return fmt.Errorf("failed to write sheet: %w", err)
	}
	return nil
}
