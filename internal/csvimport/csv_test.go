package csvimport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reactivesheet/internal/engine"
)

func writeTempCSV(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func newTestContext(t *testing.T, rows, cols int) *engine.Context {
	t.Helper()
	grid, err := engine.NewGrid(rows, cols)
	require.NoError(t, err)
	return engine.NewContext(grid, engine.MinUndoDepth, nil, nil)
}

func TestImport_LiteralAndFormulaFields(t *testing.T) {
	path := writeTempCSV(t, "1,2\n=A1+1,9\n")
	ctx := newTestContext(t, 5, 5)

	require.NoError(t, Import(ctx, path))
	assert.Equal(t, int32(1), ctx.Grid.ValueAt(engine.CellReference{Row: 0, Col: 0}))
	assert.Equal(t, int32(2), ctx.Grid.ValueAt(engine.CellReference{Row: 0, Col: 1}))
	assert.Equal(t, int32(2), ctx.Grid.ValueAt(engine.CellReference{Row: 1, Col: 0}))
	assert.Equal(t, int32(9), ctx.Grid.ValueAt(engine.CellReference{Row: 1, Col: 1}))
}

func TestImport_NonIntegerNonFormulaFallsBackToZero(t *testing.T) {
	path := writeTempCSV(t, "hello world,3\n")
	ctx := newTestContext(t, 5, 5)

	require.NoError(t, Import(ctx, path))
	assert.Equal(t, int32(0), ctx.Grid.ValueAt(engine.CellReference{Row: 0, Col: 0}))
	assert.Equal(t, int32(3), ctx.Grid.ValueAt(engine.CellReference{Row: 0, Col: 1}))
}

func TestImport_RowsAndColumnsBeyondGridAreDropped(t *testing.T) {
	path := writeTempCSV(t, "1,2,3\n4,5,6\n7,8,9\n")
	ctx := newTestContext(t, 2, 2)

	require.NoError(t, Import(ctx, path))
	assert.Equal(t, int32(1), ctx.Grid.ValueAt(engine.CellReference{Row: 0, Col: 0}))
	assert.Equal(t, int32(5), ctx.Grid.ValueAt(engine.CellReference{Row: 1, Col: 1}))
}

func TestImport_BlankFieldIsSkipped(t *testing.T) {
	path := writeTempCSV(t, ",5\n")
	ctx := newTestContext(t, 5, 5)

	require.NoError(t, Import(ctx, path))
	assert.Equal(t, int32(0), ctx.Grid.ValueAt(engine.CellReference{Row: 0, Col: 0}))
	assert.Equal(t, int32(5), ctx.Grid.ValueAt(engine.CellReference{Row: 0, Col: 1}))
}

func TestImport_MissingFileReturnsError(t *testing.T) {
	ctx := newTestContext(t, 5, 5)
	err := Import(ctx, filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
