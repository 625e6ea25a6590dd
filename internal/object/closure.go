package object

import "fmt"

// Closure is a callable value: a compiled function chunk plus the
// upvalue cells it closed over at creation time (spec.md §4.D).
type Closure struct {
	Fn       *Chunk
	Upvalues []*Upvalue
}

func NewClosure(fn *Chunk, upvalues []*Upvalue) *Closure {
	return &Closure{Fn: fn, Upvalues: upvalues}
}

func (c *Closure) Type() string   { return "closure" }
func (c *Closure) Truth() bool    { return true }
func (c *Closure) String() string { return fmt.Sprintf("<fn %s>", c.Fn.Name) }

// Upvalue is a captured-variable cell: open while the owning local is
// still live on the VM stack (Location points at the stack slot), closed
// once that frame returns (spec.md §4.H "CloseUpvalue": hoist the local's
// value into a heap cell, redirecting all open upvalues pointing at that
// slot).
type Upvalue struct {
	Location *Value
	Closed   Value
	IsClosed bool
}

func NewOpenUpvalue(location *Value) *Upvalue {
	return &Upvalue{Location: location}
}

func (u *Upvalue) Get() Value {
	if u.IsClosed {
		return u.Closed
	}
	return *u.Location
}

func (u *Upvalue) Set(v Value) {
	if u.IsClosed {
		u.Closed = v
		return
	}
	*u.Location = v
}

// Close hoists the value at the open location into the cell itself, so
// it survives the owning frame popping off the stack.
func (u *Upvalue) Close() {
	if u.IsClosed {
		return
	}
	u.Closed = *u.Location
	u.IsClosed = true
	u.Location = nil
}

// BuiltinFunc is the Go signature every built-in registry entry
// implements (spec.md §4.D "Built-ins").
type BuiltinFunc func(args []Value) (Value, error)

// Builtin wraps a native Go function as a callable p2sh value.
type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

func (b *Builtin) Type() string   { return "builtin" }
func (b *Builtin) Truth() bool    { return true }
func (b *Builtin) String() string { return fmt.Sprintf("<builtin %s>", b.Name) }
