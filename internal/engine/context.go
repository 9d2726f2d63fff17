package engine

// Logger is satisfied by *slog.Logger without any wrapping, matching its
// Info/Warn method set. Engine callers inject whichever Logger they like
// (or a no-op one in tests) instead of reaching for a package-level
// logger.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}

// Context couples a Grid with the undo/redo stacks, the sleep
// coordinator, and the single shared status code, in place of the
// source's global status variable.
type Context struct {
	Grid   *Grid
	Undo   *UndoManager
	Sleep  *SleepCoordinator
	Logger Logger
	Status Status

	// OnStatus, when set, receives a StatusEvent for every cell that
	// Assign, propagation, or undo/redo writes — the hook internal/statuspub
	// wires up to broadcast over WebSocket. InvalidInput rejections, sleep
	// completions, and statuses a caller sets directly are not reported.
	// It is nil by default and never required for correctness.
	OnStatus func(StatusEvent)
}

// NewContext builds a ready-to-use engine context around grid.
func NewContext(grid *Grid, undoDepth int, logger Logger, clock Clock) *Context {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Context{
		Grid:   grid,
		Undo:   NewUndoManager(undoDepth),
		Sleep:  NewSleepCoordinator(clock),
		Logger: logger,
		Status: StatusOk,
	}
}

func (c *Context) emit(ev StatusEvent) {
	if c.OnStatus != nil {
		c.OnStatus(ev)
	}
}

func (c *Context) setStatus(s Status, ref CellReference, value int32, isErr bool) {
	c.Status = s
	c.emit(StatusEvent{Status: s, Cell: &ref, Value: value, IsErr: isErr})
}

// AssignFormula parses formulaText (the substring of a command after '=')
// and assigns the resulting expression to ref, or fails with
// StatusInvalidInput if the text does not parse.
func (c *Context) AssignFormula(ref CellReference, formulaText string) error {
	if !c.Grid.InBounds(ref) {
		c.Status = StatusInvalidInput
		return NewEngineError(StatusInvalidInput, "cell %s is out of bounds", ref)
	}
	expr, err := ParseFormula(formulaText)
	if err != nil {
		c.Status = StatusInvalidInput
		c.Logger.Warn("formula parse failed", "cell", ref.String(), "error", err)
		return err
	}
	return c.Assign(ref, expr)
}

// Assign binds newExpr to ref following the transactional protocol of
// SPEC_FULL §4.4: snapshot, detach, install tentatively, cycle-test, then
// either evaluate-and-propagate or roll back.
func (c *Context) Assign(ref CellReference, newExpr Expression) error {
	grid := c.Grid
	if !grid.InBounds(ref) {
		c.Status = StatusInvalidInput
		return NewEngineError(StatusInvalidInput, "cell %s is out of bounds", ref)
	}

	newPrecedents := ExtractPrecedents(newExpr)
	for _, p := range newPrecedents {
		if !grid.InBounds(p) {
			c.Status = StatusInvalidInput
			return NewEngineError(StatusInvalidInput, "reference %s in formula for %s is out of bounds", p, ref)
		}
	}

	cell := grid.At(ref)

	// 1. snapshot
	prevExpr := cell.Expression
	prevIsError := cell.IsError
	prevPrecedents := ExtractPrecedents(prevExpr)
	c.Undo.RecordAssign(UndoRecord{Ref: ref, Expr: prevExpr, IsErrorBefore: prevIsError, Precedents: prevPrecedents})

	// 2. detach
	grid.ClearPrecedents(ref)

	// 3. install tentatively
	cell.Expression = newExpr
	for _, p := range newPrecedents {
		grid.AddEdge(p, ref)
	}

	// 4. cycle test
	if grid.HasCycle(ref) {
		grid.ClearPrecedents(ref)
		cell.Expression = prevExpr
		for _, p := range prevPrecedents {
			grid.AddEdge(p, ref)
		}
		c.setStatus(StatusCyclicDependency, ref, cell.Value, cell.IsError)
		c.Logger.Warn("cyclic dependency rejected", "cell", ref.String())
		return NewEngineError(StatusCyclicDependency, "assigning %s would introduce a cycle", ref)
	}

	cell.IsError = newExpr.HasError(grid)
	if cell.IsError {
		c.setStatus(StatusComputationError, ref, cell.Value, true)
	} else {
		cell.Value = newExpr.Eval(grid)
		c.setStatus(StatusOk, ref, cell.Value, false)
	}

	c.propagate(ref)
	if !cell.IsError {
		c.scheduleSleeps(ref, newExpr)
	}
	return nil
}

// propagate breadth-first re-evaluates origin's dependents, following
// SPEC_FULL §4.5: it does not guard against revisits, and any cell it
// flags as erroneous upgrades the overall status to ComputationError.
func (c *Context) propagate(origin CellReference) {
	grid := c.Grid
	start := grid.At(origin)
	if len(start.Dependents) == 0 {
		return
	}

	queue := make([]CellReference, 0, len(start.Dependents))
	for d := range start.Dependents {
		queue = append(queue, d)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		cell := grid.At(cur)

		if cell.Expression.HasError(grid) {
			cell.IsError = true
			c.Status = StatusComputationError
			c.emit(StatusEvent{Status: StatusComputationError, Cell: &cur, Value: cell.Value, IsErr: true})
		} else {
			cell.IsError = false
			cell.Value = cell.Expression.Eval(grid)
			c.emit(StatusEvent{Status: c.Status, Cell: &cur, Value: cell.Value, IsErr: false})
		}

		for d := range cell.Dependents {
			queue = append(queue, d)
		}
	}
}

// scheduleSleeps finds every SLEEP(...) call in expr and schedules its
// delayed completion. Called only after a successful, non-error
// assignment, matching the source's behavior of never scheduling a timer
// for a cell that is itself error-flagged.
func (c *Context) scheduleSleeps(ref CellReference, expr Expression) {
	for _, call := range sleepCalls(expr) {
		n := call.Eval(c.Grid)
		c.Sleep.Schedule(ref, n)
	}
}

// DrainSleepCompletions non-blockingly applies every SLEEP completion
// queued since the last drain, writing the stored value back and clearing
// the error flag. It never propagates to dependents, matching the
// source's write-back behavior.
func (c *Context) DrainSleepCompletions() {
	for _, comp := range c.Sleep.Drain() {
		if !c.Grid.InBounds(comp.Ref) {
			continue
		}
		cell := c.Grid.At(comp.Ref)
		cell.Value = comp.Value
		cell.IsError = false
	}
}

// DoUndo restores the most recently assigned cell to its pre-assignment
// state, pushing the cell's current state onto the redo stack first. It
// is a no-op, leaving Status unchanged, when the undo stack is empty.
func (c *Context) DoUndo() {
	rec, ok := c.Undo.popUndo()
	if !ok {
		return
	}
	c.restore(rec, true)
}

// DoRedo re-applies the most recently undone assignment.
func (c *Context) DoRedo() {
	rec, ok := c.Undo.popRedo()
	if !ok {
		return
	}
	c.restore(rec, false)
}

// restore rewinds or replays a cell to the state captured in rec,
// snapshotting the cell's current state onto the opposite stack first.
func (c *Context) restore(rec UndoRecord, fromUndo bool) {
	grid := c.Grid
	cell := grid.At(rec.Ref)

	opposite := UndoRecord{
		Ref:           rec.Ref,
		Expr:          cell.Expression,
		IsErrorBefore: cell.IsError,
		Precedents:    ExtractPrecedents(cell.Expression),
	}
	if fromUndo {
		c.Undo.pushRedo(opposite)
	} else {
		c.Undo.pushUndo(opposite)
	}

	grid.ClearPrecedents(rec.Ref)
	cell.Expression = rec.Expr
	for _, p := range ExtractPrecedents(rec.Expr) {
		grid.AddEdge(p, rec.Ref)
	}
	cell.IsError = rec.Expr.HasError(grid)
	if !cell.IsError {
		cell.Value = rec.Expr.Eval(grid)
	}
	c.setStatus(StatusOk, rec.Ref, cell.Value, cell.IsError)
	c.propagate(rec.Ref)
}
