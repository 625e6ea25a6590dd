package builtin

import (
	"bufio"
	"fmt"
	"os"

	"github.com/binoyjayan/p2sh/internal/object"
)

// builtinOpen opens path in mode "r", "w" or "a" (spec.md §5 "any
// built-in that opens a file returns either a file value or an error
// value"). An invalid mode argument is a RuntimeError (spec.md §7's
// carve-out: "EXCEPT when the I/O target is invalid as an argument
// type"), since that is a caller bug, not an OS-level failure.
func (r *Registry) builtinOpen(args []object.Value) (object.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("open: expected 2 arguments, got %d", len(args))
	}
	path, ok := args[0].(object.String)
	if !ok {
		return nil, fmt.Errorf("open: path must be a string, got %s", args[0].Type())
	}
	mode, ok := args[1].(object.String)
	if !ok {
		return nil, fmt.Errorf("open: mode must be a string, got %s", args[1].Type())
	}

	var flag int
	switch string(mode) {
	case "r":
		flag = os.O_RDONLY
	case "w":
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case "a":
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	default:
		return nil, fmt.Errorf("open: invalid mode %q, expected \"r\", \"w\" or \"a\"", string(mode))
	}

	f, err := os.OpenFile(string(path), flag, 0o644)
	if err != nil {
		return r.ioError(err), nil
	}
	return object.NewFile(string(path), string(mode), f), nil
}

func (r *Registry) builtinRead(args []object.Value) (object.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("read: expected 2 arguments, got %d", len(args))
	}
	f, ok := args[0].(*object.File)
	if !ok {
		return nil, fmt.Errorf("read: expected a file, got %s", args[0].Type())
	}
	n, ok := args[1].(object.Int)
	if !ok {
		return nil, fmt.Errorf("read: expected an int byte count, got %s", args[1].Type())
	}

	buf := make([]byte, n)
	nread, err := f.F.Read(buf)
	if nread == 0 && err != nil {
		return r.ioError(err), nil
	}
	return object.String(buf[:nread]), nil
}

func (r *Registry) builtinReadline(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("readline: expected 1 argument, got %d", len(args))
	}
	f, ok := args[0].(*object.File)
	if !ok {
		return nil, fmt.Errorf("readline: expected a file, got %s", args[0].Type())
	}
	if f.Reader == nil {
		f.Reader = bufio.NewReader(f.F)
	}
	line, err := f.Reader.ReadString('\n')
	if err != nil {
		if len(line) > 0 {
			return object.String(trimNewline(line)), nil
		}
		return object.NullValue, nil
	}
	return object.String(trimNewline(line)), nil
}

func trimNewline(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\n' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '\r' {
		s = s[:len(s)-1]
	}
	return s
}

func (r *Registry) builtinWrite(args []object.Value) (object.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("write: expected 2 arguments, got %d", len(args))
	}
	f, ok := args[0].(*object.File)
	if !ok {
		return nil, fmt.Errorf("write: expected a file, got %s", args[0].Type())
	}
	s, ok := args[1].(object.String)
	if !ok {
		return nil, fmt.Errorf("write: expected a string, got %s", args[1].Type())
	}
	n, err := f.F.WriteString(string(s))
	if err != nil {
		return r.ioError(err), nil
	}
	return object.Int(n), nil
}

func (r *Registry) builtinFlush(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("flush: expected 1 argument, got %d", len(args))
	}
	f, ok := args[0].(*object.File)
	if !ok {
		return nil, fmt.Errorf("flush: expected a file, got %s", args[0].Type())
	}
	if err := f.F.Sync(); err != nil {
		return r.ioError(err), nil
	}
	return object.NullValue, nil
}

func (r *Registry) builtinClose(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("close: expected 1 argument, got %d", len(args))
	}
	f, ok := args[0].(*object.File)
	if !ok {
		return nil, fmt.Errorf("close: expected a file, got %s", args[0].Type())
	}
	if err := f.Close(); err != nil {
		return r.ioError(err), nil
	}
	return object.NullValue, nil
}
