package sheet

import (
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/specialistvlad/gridcalc/internal/cellname"
	"github.com/specialistvlad/gridcalc/internal/dag"
	"github.com/specialistvlad/gridcalc/internal/formula"
)

// Sheet owns the contents of every non-empty cell and the dependency graph
// between them. Every mutation, including the tentative graph edit and
// rollback of SetFormula, runs under one write lock.
type Sheet struct {
	mu       sync.RWMutex
	validate func(string) bool
	// cells holds non-empty contents only.
	cells map[string]Contents
	// order lists the keys of cells in the order they were first set.
	order []string
	graph *dag.Graph
}

// Option configures a Sheet.
type Option func(*Sheet)

// WithValidator replaces the cell-name predicate. The default is
// cellname.IsValid.
func WithValidator(fn func(string) bool) Option {
	return func(s *Sheet) {
		s.validate = fn
	}
}

// New creates an empty sheet.
func New(opts ...Option) *Sheet {
	s := &Sheet{
		validate: cellname.IsValid,
		cells:    make(map[string]Contents),
		graph:    dag.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sheet) checkName(name string) error {
	if name == "" || !s.validate(name) {
		return &NameError{Name: name}
	}
	return nil
}

// Contents returns what the cell holds, or Empty for a cell that was never set.
func (s *Sheet) Contents(name string) (Contents, error) {
	if err := s.checkName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.cells[name]; ok {
		return c, nil
	}
	return Empty{}, nil
}

// SetNumber stores a number in the cell and returns the cells to recompute,
// starting with name.
func (s *Sheet) SetNumber(name string, v float64) ([]string, error) {
	if err := s.checkName(name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.setLiteral(name, Number(v))
}

// SetText stores text in the cell and returns the cells to recompute,
// starting with name. Setting "" empties the cell.
func (s *Sheet) SetText(name string, text string) ([]string, error) {
	if err := s.checkName(name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if text == "" {
		return s.setLiteral(name, Empty{})
	}
	return s.setLiteral(name, Text(text))
}

// setLiteral drops the cell's dependees and stores c. A literal has no
// dependees, so removing edges cannot introduce a cycle. Caller must hold the
// write lock.
func (s *Sheet) setLiteral(name string, c Contents) ([]string, error) {
	if s.graph.HasDependees(name) {
		s.graph.ReplaceDependees(name, nil)
	}
	s.store(name, c)
	if !s.graph.HasDependents(name) {
		return []string{name}, nil
	}

	order, err := s.recalculationOrder(name)
	if err != nil {
		// Unreachable while the graph is acyclic.
		return nil, fmt.Errorf("sheet: ordering after setting %s: %w", name, err)
	}
	return order, nil
}

// SetFormula stores f in the cell and returns the cells to recompute, starting
// with name. If f would create a circular dependency the sheet is left exactly
// as it was and a *CycleError is returned.
func (s *Sheet) SetFormula(name string, f *formula.Formula) ([]string, error) {
	if err := s.checkName(name); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("%w: formula for %s", ErrNullContent, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.graph.Dependees(name)
	s.graph.ReplaceDependees(name, f.Variables())

	order, err := s.recalculationOrder(name)
	if err != nil {
		s.graph.ReplaceDependees(name, snapshot)
		return nil, err
	}

	s.store(name, Formula{f})
	return order, nil
}

// SetContents dispatches to the setter matching the variant of c.
func (s *Sheet) SetContents(name string, c Contents) ([]string, error) {
	switch v := c.(type) {
	case Empty:
		return s.SetText(name, "")
	case Number:
		return s.SetNumber(name, float64(v))
	case Text:
		return s.SetText(name, string(v))
	case Formula:
		return s.SetFormula(name, v.Formula)
	default:
		if err := s.checkName(name); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: contents for %s", ErrNullContent, name)
	}
}

// store records c as the cell's contents. Caller must hold the write lock.
func (s *Sheet) store(name string, c Contents) {
	if _, isEmpty := c.(Empty); isEmpty {
		if _, ok := s.cells[name]; ok {
			delete(s.cells, name)
			s.order = slices.DeleteFunc(s.order, func(n string) bool { return n == name })
		}
		return
	}
	if _, ok := s.cells[name]; !ok {
		s.order = append(s.order, name)
	}
	s.cells[name] = c
}

// DirectDependents returns the sorted names whose formulas reference name.
func (s *Sheet) DirectDependents(name string) ([]string, error) {
	if err := s.checkName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.graph.Dependents(name), nil
}

// RecalculationOrder returns name followed by all of its transitive
// dependents in an order that is safe for re-evaluation. On an unchanged
// sheet repeated calls return the same sequence.
func (s *Sheet) RecalculationOrder(name string) ([]string, error) {
	if err := s.checkName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.recalculationOrder(name)
}

// NonEmptyCellNames yields the names of all non-empty cells in the order they
// were first set. The set of names is captured when NonEmptyCellNames is
// called; ranging over the result again yields the same names.
func (s *Sheet) NonEmptyCellNames() iter.Seq[string] {
	s.mu.RLock()
	names := slices.Clone(s.order)
	s.mu.RUnlock()

	return slices.Values(names)
}

// Len returns the number of non-empty cells.
func (s *Sheet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cells)
}

// Dependencies returns how many cells take part in a reference and how many
// references there are in total.
func (s *Sheet) Dependencies() (cells, refs int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph.Len(), s.graph.Size()
}
