package engine

import "fmt"

// Status is the single status code surfaced to a caller after a command,
// mirroring the four-value status channel described by the original
// engine's global status variable.
type Status int

const (
	StatusOk Status = iota
	StatusInvalidInput
	StatusComputationError
	StatusCyclicDependency
)

func (s Status) String() string {
	switch s {
	case StatusOk:
		return "Ok"
	case StatusInvalidInput:
		return "InvalidInput"
	case StatusComputationError:
		return "ComputationError"
	case StatusCyclicDependency:
		return "CyclicDependency"
	default:
		return "Unknown"
	}
}

// EngineError is a typed error carrying the status code a failure should
// surface as. Callers recover the code with errors.As instead of string
// matching, per SPEC_FULL's ambient error-handling stack.
type EngineError struct {
	Status  Status
	Message string
}

func (e *EngineError) Error() string {
	if e.Message == "" {
		return e.Status.String()
	}
	return fmt.Sprintf("%s: %s", e.Status, e.Message)
}

func NewEngineError(status Status, format string, args ...any) *EngineError {
	return &EngineError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// StatusEvent is a snapshot published to external subscribers (see
// internal/statuspub) describing the outcome of one command.
type StatusEvent struct {
	Status Status
	Cell   *CellReference // nil when the event is not tied to one cell
	Value  int32
	IsErr  bool
}
