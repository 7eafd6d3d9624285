// Package dag keeps the dependency relation between cells: for every cell,
// which cells its formula reads (dependees) and which cells read it
// (dependents). It knows nothing about contents or values and never checks
// that a name belongs to a real cell.
package dag
