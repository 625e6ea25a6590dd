// Package builtin implements p2sh's fixed built-in registry (spec.md §2
// component I "Numeric/string/collection/IO/time/pcap primitives"),
// grounded on github.com/mna/nenuphar's lang/machine.Universe /
// Thread.Predeclared pattern (a name-indexed table of native values
// injected into every program) but index-rather-than-name addressed,
// since internal/resolver and internal/compiler resolve GetBuiltin
// operands against the fixed slice position a name occupies in Names,
// not a runtime map lookup.
package builtin

import (
	"os"

	"github.com/binoyjayan/p2sh/internal/machine"
	"github.com/binoyjayan/p2sh/internal/object"
)

// PreludeGlobals names the implicit globals every p2sh program gets,
// regardless of whether a filter driver is present (spec.md §6 "stdin,
// stdout, stderr are preopened file values in the built-in namespace").
// These are globals rather than registry entries because a bare
// reference to a built-in pushes the callable *object.Builtin itself
// (OpGetBuiltin), whereas `stdin` must evaluate directly to a file
// value usable by read/write without a call. internal/cli passes this
// slice as the head of resolver.Resolve's implicitGlobals (ahead of
// internal/filter's own implicit globals, when a filter driver is
// present) and calls BindPrelude once the VM exists.
var PreludeGlobals = []string{"stdin", "stdout", "stderr", "argv"}

// BindPrelude populates the first len(PreludeGlobals) global slots with
// the preopened stdio file values and argv (spec.md §6 "argv is an
// array of strings: argv[0] is the script path... the remainder is the
// tail"). Call once, right after constructing vm and before running any
// chunk compiled against PreludeGlobals.
func BindPrelude(vm *machine.VM, argv []string) {
	vm.Globals[0] = object.NewFile("/dev/stdin", "r", os.Stdin)
	vm.Globals[1] = object.NewFile("/dev/stdout", "w", os.Stdout)
	vm.Globals[2] = object.NewFile("/dev/stderr", "w", os.Stderr)

	elems := make([]object.Value, len(argv))
	for i, a := range argv {
		elems[i] = object.String(a)
	}
	vm.Globals[3] = object.NewArray(elems)
}

// Names lists every built-in in registry order. internal/resolver and
// internal/compiler are both given this exact slice (or an identical
// copy) so that a name's position here is the GetBuiltin operand the
// compiler emits for it.
var Names = []string{
	"puts", "print", "println", "format", "eprint", "eprintln",
	"exit",
	"len", "is_error", "get_errno", "strerror",
	"int", "float", "str", "char", "byte",
	"push", "pop", "keys", "has", "delete",
	"sort", "sort_by",
	"split", "join", "upper", "lower", "trim", "replace", "contains", "index_of",
	"time", "sleep",
	"open", "read", "readline", "write", "flush", "close",
	"pcap_open_read", "pcap_open_write", "pcap_read_next", "pcap_write", "pcap_close",
}

// Registry holds the Go-side state shared by built-ins that need more
// than their arguments: the owning VM, for CallClosure in sort_by and
// the shared errno cell, and the default snaplen pcap_open_write falls
// back to when the caller omits one.
type Registry struct {
	vm             *machine.VM
	defaultSnapLen uint32
}

// New constructs vm's built-in registry. snapLen overrides
// defaultSnapLen for pcap_open_write calls that omit an explicit
// snaplen argument (internal/cli.Config's P2SH_SNAPLEN, normally); pass
// none to keep defaultSnapLen.
func New(vm *machine.VM, snapLen ...uint32) []*object.Builtin {
	r := &Registry{vm: vm, defaultSnapLen: defaultSnapLen}
	if len(snapLen) > 0 && snapLen[0] > 0 {
		r.defaultSnapLen = snapLen[0]
	}

	fns := map[string]object.BuiltinFunc{
		"puts":     r.builtinPuts,
		"print":    r.builtinPrint,
		"println":  r.builtinPrintln,
		"format":   r.builtinFormat,
		"eprint":   r.builtinEprint,
		"eprintln": r.builtinEprintln,

		"exit": r.builtinExit,

		"len":        r.builtinLen,
		"is_error":   r.builtinIsError,
		"get_errno":  r.builtinGetErrno,
		"strerror":   r.builtinStrerror,

		"int":   r.builtinInt,
		"float": r.builtinFloat,
		"str":   r.builtinStr,
		"char":  r.builtinChar,
		"byte":  r.builtinByte,

		"push":   r.builtinPush,
		"pop":    r.builtinPop,
		"keys":   r.builtinKeys,
		"has":    r.builtinHas,
		"delete": r.builtinDelete,

		"sort":    r.builtinSort,
		"sort_by": r.builtinSortBy,

		"split":    r.builtinSplit,
		"join":     r.builtinJoin,
		"upper":    r.builtinUpper,
		"lower":    r.builtinLower,
		"trim":     r.builtinTrim,
		"replace":  r.builtinReplace,
		"contains": r.builtinContains,
		"index_of": r.builtinIndexOf,

		"time":  r.builtinTime,
		"sleep": r.builtinSleep,

		"open":     r.builtinOpen,
		"read":     r.builtinRead,
		"readline": r.builtinReadline,
		"write":    r.builtinWrite,
		"flush":    r.builtinFlush,
		"close":    r.builtinClose,

		"pcap_open_read":  r.builtinPcapOpenRead,
		"pcap_open_write": r.builtinPcapOpenWrite,
		"pcap_read_next":  r.builtinPcapReadNext,
		"pcap_write":      r.builtinPcapWrite,
		"pcap_close":      r.builtinPcapClose,
	}

	out := make([]*object.Builtin, len(Names))
	for i, name := range Names {
		fn, ok := fns[name]
		if !ok {
			panic("builtin: no implementation registered for " + name)
		}
		out[i] = &object.Builtin{Name: name, Fn: fn}
	}
	return out
}
