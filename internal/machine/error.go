package machine

import "fmt"

// RuntimeError is a p2sh runtime error: a message plus the source line
// active when it was raised (spec.md §4.H "the VM unwinds all frames ...
// and reports the topmost user-visible line").
type RuntimeError struct {
	Message string
	Line    int

	// Err is the original Go error a built-in returned, when this
	// RuntimeError wraps one (e.g. builtin.ExitError), so callers can
	// recover it with errors.As/errors.Is instead of string-matching
	// Message.
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

func runtimeErrorf(line int, format string, args ...any) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...), Line: line}
}

func wrapRuntimeError(line int, name string, err error) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf("%s: %s", name, err), Line: line, Err: err}
}
