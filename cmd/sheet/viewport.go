package main

import (
	"fmt"
	"io"

	"reactivesheet/internal/engine"
)

// viewportStep is how far w/a/s/d scroll per keystroke, per spec.md §6.
const viewportStep = 10

// viewportWindow is how many rows/columns are rendered at once.
const viewportWindow = 10

// viewport tracks the CLI's scroll position. It is purely a rendering
// concern — the engine never sees it.
type viewport struct {
	rows, cols     int
	topRow, topCol int
}

func newViewport(rows, cols int) *viewport {
	return &viewport{rows: rows, cols: cols}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (v *viewport) maxTopRow() int {
	return max(0, v.rows-viewportWindow)
}

func (v *viewport) maxTopCol() int {
	return max(0, v.cols-viewportWindow)
}

func (v *viewport) up()    { v.topRow = clamp(v.topRow-viewportStep, 0, v.maxTopRow()) }
func (v *viewport) down()  { v.topRow = clamp(v.topRow+viewportStep, 0, v.maxTopRow()) }
func (v *viewport) left()  { v.topCol = clamp(v.topCol-viewportStep, 0, v.maxTopCol()) }
func (v *viewport) right() { v.topCol = clamp(v.topCol+viewportStep, 0, v.maxTopCol()) }

// scrollTo centers the viewport on ref, erroring if ref is out of bounds.
func (v *viewport) scrollTo(ref engine.CellReference) error {
	if !ref.InBounds(v.rows, v.cols) {
		return engine.NewEngineError(engine.StatusInvalidInput, "scroll_to target %s is out of bounds", ref)
	}
	v.topRow = clamp(ref.Row-viewportWindow/2, 0, v.maxTopRow())
	v.topCol = clamp(ref.Col-viewportWindow/2, 0, v.maxTopCol())
	return nil
}

// render prints the visible window of the grid as a plain text table.
// This stands in for the terminal/GUI renderer, which is out of scope for
// the core (spec.md §1) — it exists only so the CLI is usable headless.
func (v *viewport) render(g *engine.Grid, out io.Writer) {
	endRow := min(v.topRow+viewportWindow, g.Rows())
	endCol := min(v.topCol+viewportWindow, g.Cols())

	fmt.Fprint(out, "     ")
	for c := v.topCol; c < endCol; c++ {
		fmt.Fprintf(out, "%9s", engine.ColumnLabel(c))
	}
	fmt.Fprintln(out)

	for r := v.topRow; r < endRow; r++ {
		fmt.Fprintf(out, "%4d ", r+1)
		for c := v.topCol; c < endCol; c++ {
			ref := engine.CellReference{Row: r, Col: c}
			cell := g.At(ref)
			if cell.IsError {
				fmt.Fprintf(out, "%9s", "ERR")
			} else {
				fmt.Fprintf(out, "%9d", cell.Value)
			}
		}
		fmt.Fprintln(out)
	}
}
