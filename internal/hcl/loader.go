package hcl

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/gridcalc/internal/config"
	"github.com/specialistvlad/gridcalc/internal/ctxlog"
	"github.com/specialistvlad/gridcalc/internal/fsutil"
)

const fileExtension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL sheet loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every sheet file found under paths and merges their cells into
// one model, in file order and then declaration order. A cell name may be
// declared only once across all files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	model := &config.Model{}
	declared := make(map[string]hcl.Range)

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Cells {
			cell, diags := translateCell(block)
			if prev, dup := declared[block.Name]; dup {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate cell",
					Detail:   fmt.Sprintf("Cell %q was already declared at %s.", block.Name, prev),
					Subject:  block.DeclRange.Ptr(),
				})
			}
			if diags.HasErrors() {
				return nil, fmt.Errorf("invalid sheet file %s: %w", file, diags)
			}
			declared[block.Name] = block.DeclRange
			model.Cells = append(model.Cells, cell)
		}
	}

	logger.Debug("HCL loading complete.", "files", len(files), "cells", len(model.Cells))
	return model, nil
}

// translateCell converts a decoded block into the agnostic model.
func translateCell(b *cellBlock) (*config.Cell, hcl.Diagnostics) {
	cell := &config.Cell{Name: b.Name, Source: b.DeclRange}

	set := 0
	if b.Number != nil {
		set++
		cell.Kind = config.KindNumber
		cell.Number = *b.Number
	}
	if b.Text != nil {
		set++
		cell.Kind = config.KindText
		cell.Text = *b.Text
	}
	if b.Formula != nil {
		set++
		cell.Kind = config.KindFormula
		cell.Formula = strings.TrimPrefix(strings.TrimSpace(*b.Formula), "=")
	}

	if set != 1 {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid cell block",
			Detail:   fmt.Sprintf("Cell %q must set exactly one of number, text or formula; found %d.", b.Name, set),
			Subject:  b.DeclRange.Ptr(),
		}}
	}
	return cell, nil
}

// findAllHCLFiles expands every path into the sorted .hcl files beneath it.
// A file listed twice is loaded once.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		files, err := fsutil.FindFilesByExtension(path, fileExtension)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		for _, f := range files {
			if _, wasSeen := seen[f]; !wasSeen {
				allFiles = append(allFiles, f)
				seen[f] = struct{}{}
			}
		}
	}
	return allFiles, nil
}
