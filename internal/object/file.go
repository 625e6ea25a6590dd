package object

import (
	"bufio"
	"fmt"
	"os"
)

// File wraps an open OS file handle as a p2sh value (read/write builtins
// operate on it; spec.md §6 External interfaces). There is no nenuphar
// counterpart: Starlark scripts don't do file IO, so this is grounded
// directly on the os.File API it wraps.
type File struct {
	Path   string
	Mode   string // "r", "w", "a"
	F      *os.File
	Closed bool

	// Reader lazily backs the readline built-in with buffered line
	// scanning; nil until the first readline call on this handle.
	Reader *bufio.Reader
}

func NewFile(path, mode string, f *os.File) *File {
	return &File{Path: path, Mode: mode, F: f}
}

func (f *File) Type() string   { return "file" }
func (f *File) Truth() bool    { return !f.Closed }
func (f *File) String() string { return fmt.Sprintf("<file %s %q>", f.Mode, f.Path) }

func (f *File) Close() error {
	if f.Closed {
		return nil
	}
	f.Closed = true
	return f.F.Close()
}

// Error is a runtime error value surfaced to scripts (e.g. by read/write
// builtins) rather than raised as a VM panic, recognizable via the
// is_error builtin (spec.md §7 Error handling design).
type Error struct {
	Errno   int
	Message string
}

func NewError(errno int, message string) *Error {
	return &Error{Errno: errno, Message: message}
}

func (e *Error) Type() string   { return "error" }
func (e *Error) Truth() bool    { return false }
func (e *Error) String() string { return fmt.Sprintf("error: %s", e.Message) }
