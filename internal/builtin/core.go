package builtin

import (
	"fmt"
	"strconv"

	"github.com/binoyjayan/p2sh/internal/object"
)

// ExitError is a sentinel returned by exit() and recognized by
// internal/cli to terminate the process with a specific code (spec.md
// §6 "exit codes... or as requested by the script via exit(n)") rather
// than by calling os.Exit directly from inside a built-in, which would
// skip every deferred flush between here and main.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("exit(%d)", e.Code) }

func (r *Registry) builtinExit(args []object.Value) (object.Value, error) {
	code := 0
	if len(args) > 0 {
		n, ok := args[0].(object.Int)
		if !ok {
			return nil, fmt.Errorf("exit: expected an int, got %s", args[0].Type())
		}
		code = int(n) & 0xff
	}
	return nil, &ExitError{Code: code}
}

func (r *Registry) builtinLen(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("len: expected 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case object.String:
		return object.Int(len(v)), nil
	case *object.Array:
		return object.Int(len(v.Elems)), nil
	case *object.Map:
		return object.Int(v.Len()), nil
	default:
		return nil, fmt.Errorf("len: value of type %s has no length", v.Type())
	}
}

func (r *Registry) builtinInt(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("int: expected 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case object.Int:
		return v, nil
	case object.Float:
		return object.Int(v), nil
	case object.Char:
		return object.Int(v), nil
	case object.Byte:
		return object.Int(v), nil
	case object.Bool:
		if v {
			return object.Int(1), nil
		}
		return object.Int(0), nil
	case object.String:
		n, err := strconv.ParseInt(string(v), 0, 64)
		if err != nil {
			return nil, fmt.Errorf("int: cannot parse %q as an integer", string(v))
		}
		return object.Int(n), nil
	default:
		return nil, fmt.Errorf("int: cannot convert %s", v.Type())
	}
}

func (r *Registry) builtinFloat(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("float: expected 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case object.Float:
		return v, nil
	case object.Int:
		return object.Float(v), nil
	case object.String:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return nil, fmt.Errorf("float: cannot parse %q as a float", string(v))
		}
		return object.Float(f), nil
	default:
		return nil, fmt.Errorf("float: cannot convert %s", v.Type())
	}
}

func (r *Registry) builtinStr(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("str: expected 1 argument, got %d", len(args))
	}
	return object.String(args[0].String()), nil
}

func (r *Registry) builtinChar(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("char: expected 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case object.Int:
		return object.Char(v), nil
	case object.Byte:
		return object.Char(v), nil
	default:
		return nil, fmt.Errorf("char: cannot convert %s", v.Type())
	}
}

func (r *Registry) builtinByte(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("byte: expected 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case object.Int:
		return object.Byte(v), nil
	case object.Char:
		return object.Byte(v), nil
	default:
		return nil, fmt.Errorf("byte: cannot convert %s", v.Type())
	}
}

func (r *Registry) builtinTime(args []object.Value) (object.Value, error) {
	return object.Int(timeNowUnix()), nil
}

func (r *Registry) builtinSleep(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("sleep: expected 1 argument, got %d", len(args))
	}
	secs, ok := asFloat(args[0])
	if !ok {
		return nil, fmt.Errorf("sleep: expected a numeric value, got %s", args[0].Type())
	}
	sleepSeconds(secs)
	return object.NullValue, nil
}
