// Package hcl provides the concrete HCL implementation of the sheet file
// interfaces defined in the `config` package. It is responsible for file
// discovery, parsing, HCL-to-model translation and writing models back out.
package hcl
