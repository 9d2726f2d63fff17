package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormula_Literal(t *testing.T) {
	expr, err := ParseFormula("42")
	require.NoError(t, err)
	assert.Equal(t, int32(42), expr.Eval(nil))
}

func TestParseFormula_CellRef(t *testing.T) {
	expr, err := ParseFormula("B2")
	require.NoError(t, err)
	ref, ok := expr.(*CellRefExpr)
	require.True(t, ok)
	assert.Equal(t, CellReference{Row: 1, Col: 1}, ref.Ref)
}

func TestParseFormula_Precedence(t *testing.T) {
	grid, err := NewGrid(5, 5)
	require.NoError(t, err)
	expr, err := ParseFormula("2 + 3 * 4")
	require.NoError(t, err)
	assert.Equal(t, int32(14), expr.Eval(grid))
}

func TestParseFormula_Parens(t *testing.T) {
	grid, err := NewGrid(5, 5)
	require.NoError(t, err)
	expr, err := ParseFormula("(2 + 3) * 4")
	require.NoError(t, err)
	assert.Equal(t, int32(20), expr.Eval(grid))
}

func TestParseFormula_UnaryMinus(t *testing.T) {
	grid, err := NewGrid(5, 5)
	require.NoError(t, err)
	expr, err := ParseFormula("-5 + 2")
	require.NoError(t, err)
	assert.Equal(t, int32(-3), expr.Eval(grid))
}

func TestParseFormula_UnaryOnCellRefRejected(t *testing.T) {
	_, err := ParseFormula("-A1")
	assert.Error(t, err)
}

func TestParseFormula_Range(t *testing.T) {
	grid, err := NewGrid(5, 5)
	require.NoError(t, err)
	ctx := NewContext(grid, MinUndoDepth, nil, nil)
	require.NoError(t, ctx.AssignFormula(CellReference{Row: 0, Col: 0}, "1"))
	require.NoError(t, ctx.AssignFormula(CellReference{Row: 0, Col: 1}, "2"))
	require.NoError(t, ctx.AssignFormula(CellReference{Row: 1, Col: 0}, "3"))
	require.NoError(t, ctx.AssignFormula(CellReference{Row: 1, Col: 1}, "4"))

	expr, err := ParseFormula("SUM(A1:B2)")
	require.NoError(t, err)
	assert.Equal(t, int32(10), expr.Eval(grid))
}

func TestParseFormula_RangeOutsideCallIsRejected(t *testing.T) {
	_, err := ParseFormula("A1:B2")
	assert.Error(t, err)
}

func TestParseFormula_UnknownFunction(t *testing.T) {
	_, err := ParseFormula("NOPE(1)")
	assert.Error(t, err)
}

func TestParseFormula_TrailingGarbage(t *testing.T) {
	_, err := ParseFormula("1 + 1 2")
	assert.Error(t, err)
}

func TestParseFormula_EmptyInput(t *testing.T) {
	_, err := ParseFormula("   ")
	assert.Error(t, err)
}

func TestParseFormula_MaxMinAvgScalarArgs(t *testing.T) {
	grid, err := NewGrid(5, 5)
	require.NoError(t, err)

	maxExpr, err := ParseFormula("MAX(3, 9, 1)")
	require.NoError(t, err)
	assert.Equal(t, int32(9), maxExpr.Eval(grid))

	minExpr, err := ParseFormula("MIN(3, 9, 1)")
	require.NoError(t, err)
	assert.Equal(t, int32(1), minExpr.Eval(grid))

	avgExpr, err := ParseFormula("AVG(3, 9, 3)")
	require.NoError(t, err)
	assert.Equal(t, int32(5), avgExpr.Eval(grid))
}

func TestParseFormula_MaxMinAvgRangeArgs(t *testing.T) {
	grid, err := NewGrid(5, 5)
	require.NoError(t, err)
	ctx := NewContext(grid, MinUndoDepth, nil, nil)
	require.NoError(t, ctx.AssignFormula(CellReference{Row: 0, Col: 0}, "1"))
	require.NoError(t, ctx.AssignFormula(CellReference{Row: 0, Col: 1}, "2"))
	require.NoError(t, ctx.AssignFormula(CellReference{Row: 1, Col: 0}, "3"))
	require.NoError(t, ctx.AssignFormula(CellReference{Row: 1, Col: 1}, "4"))

	maxExpr, err := ParseFormula("MAX(A1:B2)")
	require.NoError(t, err)
	assert.Equal(t, int32(4), maxExpr.Eval(grid))

	minExpr, err := ParseFormula("MIN(A1:B2)")
	require.NoError(t, err)
	assert.Equal(t, int32(1), minExpr.Eval(grid))

	avgExpr, err := ParseFormula("AVG(A1:B2)")
	require.NoError(t, err)
	assert.Equal(t, int32(2), avgExpr.Eval(grid))
}

func TestParseFormula_MaxMinAvgEmptyIsZero(t *testing.T) {
	grid, err := NewGrid(5, 5)
	require.NoError(t, err)

	maxExpr, err := ParseFormula("MAX()")
	require.NoError(t, err)
	assert.Equal(t, int32(0), maxExpr.Eval(grid))

	avgExpr, err := ParseFormula("AVG()")
	require.NoError(t, err)
	assert.Equal(t, int32(0), avgExpr.Eval(grid))
}

// TestParseFormula_Stdev covers spec.md §8 scenario 7: seeding A1=1, A2=3,
// A3=5 and evaluating STDEV(A1:A3) rounds the population standard
// deviation (sqrt(8/3) ≈ 1.633) to 2.
func TestParseFormula_Stdev(t *testing.T) {
	grid, err := NewGrid(3, 3)
	require.NoError(t, err)
	ctx := NewContext(grid, MinUndoDepth, nil, nil)
	require.NoError(t, ctx.AssignFormula(CellReference{Row: 0, Col: 0}, "1"))
	require.NoError(t, ctx.AssignFormula(CellReference{Row: 1, Col: 0}, "3"))
	require.NoError(t, ctx.AssignFormula(CellReference{Row: 2, Col: 0}, "5"))

	expr, err := ParseFormula("STDEV(A1:A3)")
	require.NoError(t, err)
	assert.Equal(t, int32(2), expr.Eval(grid))
}

func TestParseFormula_StdevScalarArgs(t *testing.T) {
	grid, err := NewGrid(3, 3)
	require.NoError(t, err)
	expr, err := ParseFormula("STDEV(1, 3, 5)")
	require.NoError(t, err)
	assert.Equal(t, int32(2), expr.Eval(grid))
}

func TestParseFormula_StdevFewerThanTwoValuesIsZero(t *testing.T) {
	grid, err := NewGrid(3, 3)
	require.NoError(t, err)
	expr, err := ParseFormula("STDEV(5)")
	require.NoError(t, err)
	assert.Equal(t, int32(0), expr.Eval(grid))
}

func TestColumnLabel(t *testing.T) {
	assert.Equal(t, "A", ColumnLabel(0))
	assert.Equal(t, "Z", ColumnLabel(25))
	assert.Equal(t, "AA", ColumnLabel(26))
	assert.Equal(t, "AZ", ColumnLabel(51))
}
