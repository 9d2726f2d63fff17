// Package csvimport feeds a CSV file through the engine's assignment
// protocol one cell at a time, so imported data is subject to exactly the
// same parsing, dependency tracking, and undo history as interactive
// input.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"reactivesheet/internal/engine"
)

// Import streams rows from path and assigns each field to the
// corresponding grid cell through ctx. Rows and columns beyond the grid's
// dimensions are discarded with a logged diagnostic rather than an error.
func Import(ctx *engine.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("csvimport: open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // flexible record lengths
	reader.TrimLeadingSpace = true

	row := 0
	droppedRows := false
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("csvimport: %s: %w", path, err)
		}

		if row >= ctx.Grid.Rows() {
			if !droppedRows {
				ctx.Logger.Warn("csv import: dropping rows beyond grid bounds", "path", path, "grid_rows", ctx.Grid.Rows())
				droppedRows = true
			}
			row++
			continue
		}

		droppedCols := false
		for col, field := range record {
			if col >= ctx.Grid.Cols() {
				if !droppedCols {
					ctx.Logger.Warn("csv import: dropping columns beyond grid bounds", "row", row, "grid_cols", ctx.Grid.Cols())
					droppedCols = true
				}
				continue
			}
			assignField(ctx, engine.CellReference{Row: row, Col: col}, field)
		}
		row++
	}
	return nil
}

// assignField implements the per-field decision in SPEC_FULL §4.8: an
// explicit "=" prefix is always a formula; otherwise the raw token is
// tried as a formula first, falling back to a literal integer (0 for
// anything non-integer).
func assignField(ctx *engine.Context, ref engine.CellReference, raw string) {
	field := strings.TrimSpace(raw)
	if field == "" {
		return
	}

	if strings.HasPrefix(field, "=") {
		if err := ctx.AssignFormula(ref, field[1:]); err != nil {
			ctx.Logger.Warn("csv import: formula error", "cell", ref.String(), "error", err)
		}
		return
	}

	if err := ctx.AssignFormula(ref, field); err == nil {
		return
	}

	lit := int32(0)
	if n, err := strconv.ParseInt(field, 10, 32); err == nil {
		lit = int32(n)
	}
	_ = ctx.Assign(ref, &engine.LiteralExpr{Value: lit})
}
