package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// cellValueSource is the read surface Eval/HasError need from the grid.
// Grid implements it; expr.go never depends on Grid's other machinery.
type cellValueSource interface {
	InBounds(ref CellReference) bool
	ValueAt(ref CellReference) int32
	IsErrorAt(ref CellReference) bool
}

// Expression is a node in a parsed formula tree. Eval is a total function:
// it never panics and never returns an error, matching the evaluator
// contract in SPEC_FULL §4. HasError is the companion predicate that
// decides whether the cell reading this expression should be error-flagged.
type Expression interface {
	Eval(g cellValueSource) int32
	HasError(g cellValueSource) bool
	Precedents() []CellReference
	String() string
}

// LiteralExpr is an integer constant.
type LiteralExpr struct {
	Value int32
}

func (e *LiteralExpr) Eval(cellValueSource) int32    { return e.Value }
func (e *LiteralExpr) HasError(cellValueSource) bool { return false }
func (e *LiteralExpr) Precedents() []CellReference   { return nil }
func (e *LiteralExpr) String() string                { return strconv.FormatInt(int64(e.Value), 10) }

// CellRefExpr reads a single cell's value.
type CellRefExpr struct {
	Ref CellReference
}

func (e *CellRefExpr) Eval(g cellValueSource) int32 {
	if !g.InBounds(e.Ref) {
		return 0
	}
	return g.ValueAt(e.Ref)
}

func (e *CellRefExpr) HasError(g cellValueSource) bool {
	if !g.InBounds(e.Ref) {
		return true
	}
	return g.IsErrorAt(e.Ref)
}

func (e *CellRefExpr) Precedents() []CellReference { return []CellReference{e.Ref} }
func (e *CellRefExpr) String() string              { return e.Ref.String() }

// BinOp is one of the four arithmetic operators.
type BinOp byte

const (
	OpAdd BinOp = '+'
	OpSub BinOp = '-'
	OpMul BinOp = '*'
	OpDiv BinOp = '/'
)

// BinOpExpr applies a binary arithmetic operator to two subexpressions.
type BinOpExpr struct {
	Op          BinOp
	Left, Right Expression
}

func (e *BinOpExpr) Eval(g cellValueSource) int32 {
	l, r := e.Left.Eval(g), e.Right.Eval(g)
	switch e.Op {
	case OpAdd:
		return int32(uint32(l) + uint32(r))
	case OpSub:
		return int32(uint32(l) - uint32(r))
	case OpMul:
		return int32(uint32(l) * uint32(r))
	case OpDiv:
		if r == 0 {
			return 0
		}
		return l / r
	default:
		return 0
	}
}

func (e *BinOpExpr) HasError(g cellValueSource) bool {
	if e.Left.HasError(g) || e.Right.HasError(g) {
		return true
	}
	if e.Op == OpDiv && e.Right.Eval(g) == 0 {
		return true
	}
	return false
}

func (e *BinOpExpr) Precedents() []CellReference {
	return append(e.Left.Precedents(), e.Right.Precedents()...)
}

func (e *BinOpExpr) String() string {
	return fmt.Sprintf("(%s %c %s)", e.Left, byte(e.Op), e.Right)
}

// RangeExpr denotes an inclusive rectangular block of cells. It is only
// ever valid as a function argument; the parser never produces one
// anywhere else. Eval on a bare range is defensive/undefined per SPEC_FULL.
type RangeExpr struct {
	TopLeft     CellReference
	BottomRight CellReference
}

// normalized returns the top-left/bottom-right corners with rows and
// columns sorted, regardless of the order the user typed them in.
func (e *RangeExpr) normalized() (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = e.TopLeft.Row, e.BottomRight.Row
	if minRow > maxRow {
		minRow, maxRow = maxRow, minRow
	}
	minCol, maxCol = e.TopLeft.Col, e.BottomRight.Col
	if minCol > maxCol {
		minCol, maxCol = maxCol, minCol
	}
	return
}

// cells enumerates every reference in the rectangle, inclusive.
func (e *RangeExpr) cells() []CellReference {
	minRow, maxRow, minCol, maxCol := e.normalized()
	out := make([]CellReference, 0, (maxRow-minRow+1)*(maxCol-minCol+1))
	for r := minRow; r <= maxRow; r++ {
		for c := minCol; c <= maxCol; c++ {
			out = append(out, CellReference{Row: r, Col: c})
		}
	}
	return out
}

func (e *RangeExpr) Eval(cellValueSource) int32 { return 0 }

func (e *RangeExpr) HasError(g cellValueSource) bool {
	for _, ref := range e.cells() {
		if !g.InBounds(ref) || g.IsErrorAt(ref) {
			return true
		}
	}
	return false
}

func (e *RangeExpr) Precedents() []CellReference { return e.cells() }

func (e *RangeExpr) String() string {
	return fmt.Sprintf("%s:%s", e.TopLeft, e.BottomRight)
}

// FuncName is a canonicalized (upper-cased) spreadsheet function name.
type FuncName string

const (
	FuncSum   FuncName = "SUM"
	FuncMax   FuncName = "MAX"
	FuncMin   FuncName = "MIN"
	FuncAvg   FuncName = "AVG"
	FuncStdev FuncName = "STDEV"
	FuncSleep FuncName = "SLEEP"
)

// FuncExpr is a call to one of the six built-in functions. Arguments may
// be scalar expressions or, for the aggregate functions, range nodes.
type FuncExpr struct {
	Name FuncName
	Args []Expression
}

// expand evaluates every argument, flattening any range argument into the
// values of the cells it covers. An out-of-bounds cell inside a range
// contributes nothing to the value list but is still reported by
// HasError.
func (e *FuncExpr) expand(g cellValueSource) []int32 {
	var values []int32
	for _, arg := range e.Args {
		if rng, ok := arg.(*RangeExpr); ok {
			for _, ref := range rng.cells() {
				if g.InBounds(ref) {
					values = append(values, g.ValueAt(ref))
				}
			}
			continue
		}
		values = append(values, arg.Eval(g))
	}
	return values
}

func (e *FuncExpr) Eval(g cellValueSource) int32 {
	switch e.Name {
	case FuncSleep:
		if len(e.Args) == 0 {
			return 0
		}
		return e.Args[0].Eval(g)
	case FuncSum:
		var sum int32
		for _, v := range e.expand(g) {
			sum = int32(uint32(sum) + uint32(v))
		}
		return sum
	case FuncMax:
		values := e.expand(g)
		if len(values) == 0 {
			return 0
		}
		m := values[0]
		for _, v := range values[1:] {
			if v > m {
				m = v
			}
		}
		return m
	case FuncMin:
		values := e.expand(g)
		if len(values) == 0 {
			return 0
		}
		m := values[0]
		for _, v := range values[1:] {
			if v < m {
				m = v
			}
		}
		return m
	case FuncAvg:
		values := e.expand(g)
		if len(values) == 0 {
			return 0
		}
		var sum int64
		for _, v := range values {
			sum += int64(v)
		}
		return int32(sum / int64(len(values)))
	case FuncStdev:
		values := e.expand(g)
		if len(values) < 2 {
			return 0
		}
		var sum float64
		for _, v := range values {
			sum += float64(v)
		}
		mean := sum / float64(len(values))
		var sq float64
		for _, v := range values {
			d := float64(v) - mean
			sq += d * d
		}
		stdev := math.Sqrt(sq / float64(len(values)))
		return int32(math.Round(stdev))
	default:
		return 0
	}
}

func (e *FuncExpr) HasError(g cellValueSource) bool {
	for _, arg := range e.Args {
		if arg.HasError(g) {
			return true
		}
	}
	return false
}

func (e *FuncExpr) Precedents() []CellReference {
	var out []CellReference
	for _, arg := range e.Args {
		out = append(out, arg.Precedents()...)
	}
	return out
}

func (e *FuncExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(parts, ", "))
}

// sleepCalls returns every SLEEP(...) function node reachable in the tree,
// used by the assignment protocol to schedule completions (SPEC_FULL §4).
func sleepCalls(e Expression) []*FuncExpr {
	var out []*FuncExpr
	var walk func(Expression)
	walk = func(n Expression) {
		switch v := n.(type) {
		case *FuncExpr:
			if v.Name == FuncSleep {
				out = append(out, v)
			}
			for _, a := range v.Args {
				walk(a)
			}
		case *BinOpExpr:
			walk(v.Left)
			walk(v.Right)
		}
	}
	walk(e)
	return out
}
