package sheet

import (
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/specialistvlad/gridcalc/internal/formula"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setFormula is a helper that parses src and stores it in name.
func setFormula(t *testing.T, s *Sheet, name, src string) []string {
	t.Helper()
	order, err := s.SetFormula(name, formula.MustParse(src))
	require.NoError(t, err)
	return order
}

// requirePrecedes asserts that before appears ahead of after in order.
func requirePrecedes(t *testing.T, order []string, before, after string) {
	t.Helper()
	i := slices.Index(order, before)
	j := slices.Index(order, after)
	require.NotEqual(t, -1, i, "%s missing from %v", before, order)
	require.NotEqual(t, -1, j, "%s missing from %v", after, order)
	assert.Less(t, i, j, "%s should precede %s in %v", before, after, order)
}

func collect(s *Sheet) []string {
	return slices.Collect(s.NonEmptyCellNames())
}

func TestContents_FreshSheetIsEmpty(t *testing.T) {
	s := New()
	for _, name := range []string{"A1", "ZZ999", "b7"} {
		c, err := s.Contents(name)
		require.NoError(t, err)
		assert.Equal(t, Empty{}, c)
	}
}

func TestSetNumber(t *testing.T) {
	s := New()
	order, err := s.SetNumber("A1", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, order)

	c, err := s.Contents("A1")
	require.NoError(t, err)
	assert.Equal(t, Number(5), c)
}

func TestSetText(t *testing.T) {
	s := New()
	_, err := s.SetText("A1", "hello")
	require.NoError(t, err)

	c, err := s.Contents("A1")
	require.NoError(t, err)
	assert.Equal(t, Text("hello"), c)
}

func TestSetFormula_RegistersDependents(t *testing.T) {
	s := New()
	setFormula(t, s, "B1", "A1 * 2")

	deps, err := s.DirectDependents("A1")
	require.NoError(t, err)
	assert.Equal(t, []string{"B1"}, deps)

	c, err := s.Contents("B1")
	require.NoError(t, err)
	f, ok := c.(Formula)
	require.True(t, ok, "expected Formula contents, got %T", c)
	assert.Equal(t, "A1 * 2", f.Formula.String())
	assert.Equal(t, "=A1 * 2", c.String())
}

func TestChainRecalculation(t *testing.T) {
	s := New()
	_, err := s.SetNumber("A1", 3)
	require.NoError(t, err)
	setFormula(t, s, "B1", "A1 * 2")
	setFormula(t, s, "C1", "B1 + A1")

	order, err := s.SetNumber("A1", 4)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"A1", "B1", "C1"}, order)
	requirePrecedes(t, order, "A1", "B1")
	requirePrecedes(t, order, "B1", "C1")
	assert.Equal(t, "A1", order[0])
}

func TestRecalculationOrder_Diamond(t *testing.T) {
	s := New()
	setFormula(t, s, "B1", "A1 + 1")
	setFormula(t, s, "C1", "A1 + 2")
	setFormula(t, s, "D1", "B1 + C1")
	setFormula(t, s, "E1", "D1 + A1")
	setFormula(t, s, "X1", "Y1") // unrelated component

	order, err := s.RecalculationOrder("A1")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"A1", "B1", "C1", "D1", "E1"}, order)
	assert.Equal(t, "A1", order[0])
	requirePrecedes(t, order, "B1", "D1")
	requirePrecedes(t, order, "C1", "D1")
	requirePrecedes(t, order, "D1", "E1")
}

func TestRecalculationOrder_Repeatable(t *testing.T) {
	s := New()
	setFormula(t, s, "B1", "A1")
	setFormula(t, s, "C1", "A1")
	setFormula(t, s, "D1", "B1 + C1")

	first, err := s.RecalculationOrder("A1")
	require.NoError(t, err)
	second, err := s.RecalculationOrder("A1")
	require.NoError(t, err)

	assert.ElementsMatch(t, first, second)
	assert.Equal(t, first, second)
}

func TestRecalculationOrder_DeepChain(t *testing.T) {
	s := New()
	const depth = 20000
	for i := 2; i <= depth; i++ {
		setFormula(t, s, fmt.Sprintf("A%d", i), fmt.Sprintf("A%d + 1", i-1))
	}

	order, err := s.SetNumber("A1", 1)
	require.NoError(t, err)
	require.Len(t, order, depth)
	for i, name := range order {
		assert.Equal(t, fmt.Sprintf("A%d", i+1), name)
	}
}

func TestSetFormula_CycleRejected(t *testing.T) {
	s := New()
	setFormula(t, s, "A1", "B1 + 1")

	order, err := s.SetFormula("B1", formula.MustParse("A1 + 1"))
	require.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrCircularDependency)

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, "B1", cycleErr.Cell)
	assert.Equal(t, []string{"B1", "A1", "B1"}, cycleErr.Path)

	c, err := s.Contents("B1")
	require.NoError(t, err)
	assert.Equal(t, Empty{}, c)

	// Only the committed edge B1 -> A1 remains.
	deps, err := s.DirectDependents("B1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, deps)
	deps, err = s.DirectDependents("A1")
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestSetFormula_SelfCycle(t *testing.T) {
	s := New()
	_, err := s.SetFormula("A1", formula.MustParse("A1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCircularDependency)

	deps, err := s.DirectDependents("A1")
	require.NoError(t, err)
	assert.Empty(t, deps)
	assert.Empty(t, collect(s))
}

func TestSetFormula_LongCycleRollsBackToPreviousFormula(t *testing.T) {
	s := New()
	setFormula(t, s, "B1", "A1")
	setFormula(t, s, "C1", "B1")
	setFormula(t, s, "D1", "C1")
	setFormula(t, s, "A1", "Z1 * 2")

	_, err := s.SetFormula("A1", formula.MustParse("D1 + Z1"))
	require.ErrorIs(t, err, ErrCircularDependency)

	c, err := s.Contents("A1")
	require.NoError(t, err)
	assert.Equal(t, "=Z1 * 2", c.String())

	deps, err := s.DirectDependents("Z1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, deps)
	deps, err = s.DirectDependents("D1")
	require.NoError(t, err)
	assert.Empty(t, deps)

	order, err := s.RecalculationOrder("A1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "B1", "C1", "D1"}, order)
}

func TestOverwriteClearsStaleEdges(t *testing.T) {
	s := New()
	setFormula(t, s, "A1", "B1 + 1")

	_, err := s.SetText("A1", "hello")
	require.NoError(t, err)

	deps, err := s.DirectDependents("B1")
	require.NoError(t, err)
	assert.NotContains(t, deps, "A1")
}

func TestOverwriteWithNumberClearsStaleEdges(t *testing.T) {
	s := New()
	setFormula(t, s, "A1", "B1 + C1")

	_, err := s.SetNumber("A1", 2)
	require.NoError(t, err)

	for _, name := range []string{"B1", "C1"} {
		deps, err := s.DirectDependents(name)
		require.NoError(t, err)
		assert.Empty(t, deps, name)
	}
}

func TestDependencies(t *testing.T) {
	s := New()
	cells, refs := s.Dependencies()
	assert.Equal(t, 0, cells)
	assert.Equal(t, 0, refs)

	setFormula(t, s, "C1", "A1 + B1")
	setFormula(t, s, "D1", "C1 * A1")
	cells, refs = s.Dependencies()
	assert.Equal(t, 4, cells)
	assert.Equal(t, 4, refs)

	_, err := s.SetNumber("D1", 1)
	require.NoError(t, err)
	cells, refs = s.Dependencies()
	assert.Equal(t, 3, cells, "D1 no longer references anything")
	assert.Equal(t, 2, refs)

	_, err = s.SetText("C1", "")
	require.NoError(t, err)
	cells, refs = s.Dependencies()
	assert.Equal(t, 0, cells)
	assert.Equal(t, 0, refs)
}

func TestLiteralWithoutDependentsRecalculatesOnlyItself(t *testing.T) {
	s := New()
	setFormula(t, s, "B1", "A1")

	order, err := s.SetNumber("B1", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"B1"}, order)

	order, err = s.SetNumber("A1", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, order, "B1 stopped referencing A1")
}

func TestNumberAndTextSettersReturnDependents(t *testing.T) {
	s := New()
	setFormula(t, s, "B1", "A1")

	order, err := s.SetText("A1", "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "B1"}, order)

	order, err = s.SetText("A1", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "B1"}, order)
}

func TestNonEmptyCellNames(t *testing.T) {
	s := New()
	_, err := s.SetNumber("C1", 1)
	require.NoError(t, err)
	_, err = s.SetText("A1", "a")
	require.NoError(t, err)
	setFormula(t, s, "B1", "C1")
	_, err = s.SetNumber("C1", 2) // overwrite keeps position
	require.NoError(t, err)

	assert.Equal(t, []string{"C1", "A1", "B1"}, collect(s))
	assert.Equal(t, 3, s.Len())

	_, err = s.SetText("A1", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"C1", "B1"}, collect(s))

	c, err := s.Contents("A1")
	require.NoError(t, err)
	assert.Equal(t, Empty{}, c)
}

func TestNonEmptyCellNames_IsSnapshot(t *testing.T) {
	s := New()
	_, err := s.SetNumber("A1", 1)
	require.NoError(t, err)

	names := s.NonEmptyCellNames()
	_, err = s.SetNumber("B1", 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"A1"}, slices.Collect(names))
	assert.Equal(t, []string{"A1"}, slices.Collect(names), "second pass yields the same snapshot")
}

func TestNonEmptyCellNames_FormulaToEmptyDisappears(t *testing.T) {
	s := New()
	setFormula(t, s, "A1", "B1")
	_, err := s.SetContents("A1", Empty{})
	require.NoError(t, err)
	assert.Empty(t, collect(s))
}

func TestInvalidNames(t *testing.T) {
	s := New()
	f := formula.MustParse("A1")

	for _, name := range []string{"2x", "", "A", "A0", "hello world"} {
		t.Run(fmt.Sprintf("%q", name), func(t *testing.T) {
			_, err := s.Contents(name)
			assert.ErrorIs(t, err, ErrInvalidName)

			_, err = s.SetNumber(name, 1)
			assert.ErrorIs(t, err, ErrInvalidName)

			_, err = s.SetText(name, "x")
			assert.ErrorIs(t, err, ErrInvalidName)

			_, err = s.SetFormula(name, f)
			assert.ErrorIs(t, err, ErrInvalidName)

			_, err = s.SetFormula(name, nil)
			assert.ErrorIs(t, err, ErrInvalidName)

			_, err = s.SetContents(name, Number(1))
			assert.ErrorIs(t, err, ErrInvalidName)

			_, err = s.DirectDependents(name)
			assert.ErrorIs(t, err, ErrInvalidName)

			_, err = s.RecalculationOrder(name)
			assert.ErrorIs(t, err, ErrInvalidName)

			var nameErr *NameError
			require.ErrorAs(t, err, &nameErr)
			assert.Equal(t, name, nameErr.Name)
		})
	}
	assert.Empty(t, collect(s))
}

func TestNullContent(t *testing.T) {
	s := New()

	_, err := s.SetFormula("A1", nil)
	assert.ErrorIs(t, err, ErrNullContent)

	_, err = s.SetContents("A1", nil)
	assert.ErrorIs(t, err, ErrNullContent)

	_, err = s.SetContents("A1", Formula{})
	assert.ErrorIs(t, err, ErrNullContent)

	assert.Empty(t, collect(s))
}

func TestSetContents_Dispatch(t *testing.T) {
	s := New()

	testCases := []struct {
		name     string
		contents Contents
	}{
		{name: "A1", contents: Number(2.5)},
		{name: "B1", contents: Text("label")},
		{name: "C1", contents: Formula{formula.MustParse("A1 * 2")}},
	}
	for _, tc := range testCases {
		_, err := s.SetContents(tc.name, tc.contents)
		require.NoError(t, err)

		got, err := s.Contents(tc.name)
		require.NoError(t, err)
		assert.Equal(t, tc.contents.String(), got.String())
	}

	deps, err := s.DirectDependents("A1")
	require.NoError(t, err)
	assert.Equal(t, []string{"C1"}, deps)
}

func TestWithValidator(t *testing.T) {
	onlyA1 := func(name string) bool { return name == "A1" }
	s := New(WithValidator(onlyA1))

	_, err := s.SetNumber("A1", 1)
	require.NoError(t, err)
	_, err = s.SetNumber("B1", 1)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestContents_String(t *testing.T) {
	assert.Equal(t, "", Empty{}.String())
	assert.Equal(t, "2.5", Number(2.5).String())
	assert.Equal(t, "1e+21", Number(1e21).String())
	assert.Equal(t, "hi", Text("hi").String())
	assert.Equal(t, "=A1 + 1", Formula{formula.MustParse("=A1 + 1")}.String())
	assert.Equal(t, "=", Formula{}.String())
}

func TestSheet_ConcurrentReadsAndWrites(t *testing.T) {
	s := New()
	numGoroutines := 50
	var wg sync.WaitGroup

	wg.Add(numGoroutines)
	for i := range numGoroutines {
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("A%d", i+1)
			if _, err := s.SetFormula(name, formula.MustParse("Z1 + 1")); err != nil {
				t.Errorf("set %s: %v", name, err)
			}
			if _, err := s.DirectDependents("Z1"); err != nil {
				t.Errorf("dependents: %v", err)
			}
		}(i)
	}
	wg.Wait()

	deps, err := s.DirectDependents("Z1")
	require.NoError(t, err)
	assert.Len(t, deps, numGoroutines)

	order, err := s.SetNumber("Z1", 1)
	require.NoError(t, err)
	assert.Len(t, order, numGoroutines+1)
	assert.Equal(t, "Z1", order[0])
}
