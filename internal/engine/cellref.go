package engine

import "fmt"

// CellReference is a (row, column) pair of zero-based indices.
// Equality and hashing are structural, which Go already gives a comparable
// struct for free — it is used directly as a map key throughout the engine.
type CellReference struct {
	Row int
	Col int
}

// Operand is either a literal integer or a CellReference. The parser and
// evaluator do not use it: range corners are CellReferences and function
// arguments are Expressions.
type Operand struct {
	IsRef bool
	Lit   int32
	Ref   CellReference
}

// ColumnLabel renders a zero-based column index as its base-26 spreadsheet
// label (0 -> "A", 25 -> "Z", 26 -> "AA", ...).
func ColumnLabel(col int) string {
	col++
	var buf [8]byte
	i := len(buf)
	for col > 0 {
		col--
		i--
		buf[i] = byte('A' + col%26)
		col /= 26
	}
	return string(buf[i:])
}

// String renders the reference in A1 notation.
func (r CellReference) String() string {
	return fmt.Sprintf("%s%d", ColumnLabel(r.Col), r.Row+1)
}

// InBounds reports whether the reference falls inside a rows x cols grid.
func (r CellReference) InBounds(rows, cols int) bool {
	return r.Row >= 0 && r.Row < rows && r.Col >= 0 && r.Col < cols
}
