// Package sheet is the cell store and recalculation engine.
//
// A Sheet maps cell names to Contents and keeps a dag.Graph of which cells
// read which. Every setter returns the cells that must be re-evaluated after
// the change, starting with the changed cell, in an order where no cell
// appears before a cell it depends on. A formula that would close a cycle is
// rejected and leaves the sheet untouched.
//
// The sheet never evaluates anything. Computing values in the returned order
// is the caller's job (see package workbook).
package sheet
