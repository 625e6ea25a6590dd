package resolver

import "fmt"

// Scope classifies a Binding per spec.md §3's symbol table entry:
// {name, scope ∈ {global, local, free, builtin}, index, is_mutable}.
type Scope uint8

const (
	Undefined Scope = iota
	Global
	Local
	Free
	Builtin
)

var scopeNames = [...]string{
	Undefined: "undefined",
	Global:    "global",
	Local:     "local",
	Free:      "free",
	Builtin:   "builtin",
}

func (s Scope) String() string {
	if int(s) >= len(scopeNames) {
		return fmt.Sprintf("<invalid scope %d>", s)
	}
	return scopeNames[s]
}

// Binding ties an identifier to where the compiler should find its value at
// runtime. Globals are addressed by a monotonic index; locals by stack
// offset relative to the frame base; free variables by upvalue index inside
// the enclosing closure; builtins by a fixed registry index (spec.md §3).
type Binding struct {
	Name      string
	Scope     Scope
	Index     int
	IsMutable bool

	// IsCaptured reports whether some nested function closes over this
	// binding. The compiler uses this to know when a local going out of
	// scope must be hoisted via OpCloseUpvalue (spec.md §4.H) rather than
	// simply popped.
	IsCaptured bool
}

// UpvalueDesc records how a closure's Nth upvalue is populated from its
// immediately enclosing function, mirroring the Chunk upvalue descriptor
// format of spec.md §3: {is_local, index}.
type UpvalueDesc struct {
	Name    string
	IsLocal bool // true: enclosing function's local slot; false: enclosing function's upvalue slot
	Index   int
}

// FuncInfo is the resolved shape of one function (the top-level chunk, or a
// FuncExpr/FnStmt body): its locals in declaration order (parameters
// first) and the upvalue descriptor chain the compiler must emit for
// OpClosure.
type FuncInfo struct {
	Locals   []*Binding
	Upvalues []UpvalueDesc
}
