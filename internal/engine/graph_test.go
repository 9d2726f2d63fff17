package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCycle_NoCycle(t *testing.T) {
	grid, err := NewGrid(3, 3)
	require.NoError(t, err)
	a1 := CellReference{Row: 0, Col: 0}
	b1 := CellReference{Row: 0, Col: 1}
	grid.AddEdge(a1, b1)
	assert.False(t, grid.HasCycle(a1))
}

func TestHasCycle_DirectCycle(t *testing.T) {
	grid, err := NewGrid(3, 3)
	require.NoError(t, err)
	a1 := CellReference{Row: 0, Col: 0}
	b1 := CellReference{Row: 0, Col: 1}
	grid.AddEdge(a1, b1)
	grid.AddEdge(b1, a1)
	assert.True(t, grid.HasCycle(a1))
}

func TestHasCycle_TransitiveCycle(t *testing.T) {
	grid, err := NewGrid(3, 3)
	require.NoError(t, err)
	a1 := CellReference{Row: 0, Col: 0}
	b1 := CellReference{Row: 0, Col: 1}
	c1 := CellReference{Row: 0, Col: 2}
	grid.AddEdge(a1, b1)
	grid.AddEdge(b1, c1)
	grid.AddEdge(c1, a1)
	assert.True(t, grid.HasCycle(a1))
}

func TestExtractPrecedents_DedupesRangeOverlap(t *testing.T) {
	expr := &BinOpExpr{
		Op:    OpAdd,
		Left:  &RangeExpr{TopLeft: CellReference{Row: 0, Col: 0}, BottomRight: CellReference{Row: 1, Col: 1}},
		Right: &CellRefExpr{Ref: CellReference{Row: 0, Col: 0}},
	}
	refs := ExtractPrecedents(expr)
	assert.Len(t, refs, 4)
}

func TestClearPrecedents_RemovesBothSidesOfEdge(t *testing.T) {
	grid, err := NewGrid(3, 3)
	require.NoError(t, err)
	a1 := CellReference{Row: 0, Col: 0}
	b1 := CellReference{Row: 0, Col: 1}
	grid.AddEdge(a1, b1)
	grid.ClearPrecedents(b1)
	assert.Empty(t, grid.At(b1).Precedents)
	assert.Empty(t, grid.At(a1).Dependents)
}
