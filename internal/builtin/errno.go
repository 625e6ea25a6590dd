package builtin

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/binoyjayan/p2sh/internal/object"
)

// setErrno records err's underlying OS errno on the VM's shared errno
// cell (spec.md §9 "Global mutable state... treat the errno store as a
// single writable cell that every I/O primitive updates on failure").
// Errors with no syscall.Errno cause (e.g. a format error) leave the
// cell untouched.
func (r *Registry) setErrno(err error) {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		r.vm.Errno = int(errno)
	}
}

// ioError wraps err as a p2sh error value (spec.md §7 IoError: "built-ins
// that can return these return an error value rather than raise"),
// recording errno as a side effect.
func (r *Registry) ioError(err error) *object.Error {
	r.setErrno(err)
	return object.NewError(r.vm.Errno, err.Error())
}

func (r *Registry) builtinGetErrno(args []object.Value) (object.Value, error) {
	return object.Int(r.vm.Errno), nil
}

func (r *Registry) builtinStrerror(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("strerror: expected 1 argument, got %d", len(args))
	}
	n, ok := args[0].(object.Int)
	if !ok {
		return nil, fmt.Errorf("strerror: expected an int, got %s", args[0].Type())
	}
	return object.String(syscall.Errno(n).Error()), nil
}

func (r *Registry) builtinIsError(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("is_error: expected 1 argument, got %d", len(args))
	}
	_, ok := args[0].(*object.Error)
	return object.Bool(ok), nil
}
