// Package config defines the format-agnostic sheet file model, along with the
// interfaces (Loader, Writer) for reading and writing it.
//
// A `config.Model` is what the workbook is populated from and what it is
// saved back into. Concrete implementations of the interfaces, such as for
// HCL, are provided in separate packages.
package config
