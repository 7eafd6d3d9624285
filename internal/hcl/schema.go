package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is the top-level structure of a sheet file.
type fileRoot struct {
	Cells []*cellBlock `hcl:"cell,block"`
}

// cellBlock is a `cell "NAME" { ... }` block. Exactly one of the attributes
// must be set.
type cellBlock struct {
	Name      string    `hcl:"name,label"`
	Number    *float64  `hcl:"number,optional"`
	Text      *string   `hcl:"text,optional"`
	Formula   *string   `hcl:"formula,optional"`
	DeclRange hcl.Range `hcl:",def_range"`
}
