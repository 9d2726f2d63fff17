package engine

// DefaultUndoDepth is the bounded history depth used when the caller does
// not request a different cap. SPEC_FULL requires a floor of 17; this
// repo defaults to a more generous 32.
const DefaultUndoDepth = 32

// MinUndoDepth is the floor spec.md §3 requires for the undo/redo caps.
const MinUndoDepth = 17

// UndoRecord captures everything needed to restore a cell to a prior
// state: its expression, whether it was error-flagged, and the precedent
// set that expression produced at the time of capture.
type UndoRecord struct {
	Ref           CellReference
	Expr          Expression
	IsErrorBefore bool
	Precedents    []CellReference
}

// UndoManager holds the two bounded LIFO stacks described in SPEC_FULL
// §4.6. PreserveRedoOnAssign selects between the conventional behavior
// (redo cleared on a new assignment, the default) and the source
// program's behavior (redo left untouched); see DESIGN.md for the
// decision record.
type UndoManager struct {
	depth                int
	undo                 []UndoRecord
	redo                 []UndoRecord
	PreserveRedoOnAssign bool
}

// NewUndoManager creates an UndoManager with the given cap, raised to
// MinUndoDepth if the caller asks for less.
func NewUndoManager(depth int) *UndoManager {
	if depth < MinUndoDepth {
		depth = MinUndoDepth
	}
	return &UndoManager{depth: depth}
}

func (m *UndoManager) pushBounded(stack *[]UndoRecord, rec UndoRecord) {
	*stack = append(*stack, rec)
	if len(*stack) > m.depth {
		*stack = (*stack)[1:]
	}
}

// RecordAssign pushes a pre-assignment snapshot onto the undo stack. It is
// called for every attempted assignment, successful or cyclic-and-rolled-
// back, per SPEC_FULL §4.4.
func (m *UndoManager) RecordAssign(rec UndoRecord) {
	m.pushBounded(&m.undo, rec)
	if !m.PreserveRedoOnAssign {
		m.redo = nil
	}
}

func (m *UndoManager) CanUndo() bool { return len(m.undo) > 0 }
func (m *UndoManager) CanRedo() bool { return len(m.redo) > 0 }

func (m *UndoManager) popUndo() (UndoRecord, bool) {
	if len(m.undo) == 0 {
		return UndoRecord{}, false
	}
	n := len(m.undo) - 1
	rec := m.undo[n]
	m.undo = m.undo[:n]
	return rec, true
}

func (m *UndoManager) popRedo() (UndoRecord, bool) {
	if len(m.redo) == 0 {
		return UndoRecord{}, false
	}
	n := len(m.redo) - 1
	rec := m.redo[n]
	m.redo = m.redo[:n]
	return rec, true
}

func (m *UndoManager) pushRedo(rec UndoRecord) { m.pushBounded(&m.redo, rec) }
func (m *UndoManager) pushUndo(rec UndoRecord) { m.pushBounded(&m.undo, rec) }
