package object

import "fmt"

// Op is a single bytecode instruction (spec.md §4.G), grounded on
// github.com/mna/nenuphar's lang/machine/opcode.go (an Opcode uint8 enum
// plus an opcode-name table), but with p2sh's own instruction set and a
// fixed-width encoding instead of nenuphar's variable-length varint
// operands: every operand is a 2-byte big-endian unsigned integer, which
// keeps jump-patching (the compiler backpatches a forward jump target
// once the jump distance is known) a simple fixed-offset overwrite.
type Op uint8

const (
	OpNop Op = iota

	OpConstant // Constant<constIdx>
	OpNull
	OpTrue
	OpFalse
	OpPop
	OpDup

	OpGetLocal  // GetLocal<slot>
	OpSetLocal  // SetLocal<slot>
	OpGetGlobal // GetGlobal<slot>
	OpSetGlobal // SetGlobal<slot>
	OpGetUpvalue
	OpSetUpvalue
	OpGetBuiltin

	OpGetIndex
	OpSetIndex
	OpGetProperty // GetProperty<constIdx of name>
	OpSetProperty

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
	OpNot
	OpBitAnd
	OpBitOr
	OpBitXor
	OpBitNot
	OpShl
	OpShr

	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	OpJump            // Jump<addr>
	OpJumpIfFalse     // JumpIfFalse<addr>            (pops)
	OpJumpIfFalseNoPop // JumpIfFalseNoPop<addr>      (&&/|| short-circuit)
	OpJumpIfTrueNoPop

	OpCall  // Call<argc>
	OpReturn

	OpClosure // Closure<constIdx><nUpvalues> [is_local,index]*nUpvalues
	OpCloseUpvalue

	OpArray // Array<n>
	OpMap   // Map<nPairs>

	OpRange
	OpRangeInclusive

	opCount
)

var opNames = [...]string{
	OpNop:              "nop",
	OpConstant:         "constant",
	OpNull:             "null",
	OpTrue:             "true",
	OpFalse:            "false",
	OpPop:              "pop",
	OpDup:              "dup",
	OpGetLocal:         "get_local",
	OpSetLocal:         "set_local",
	OpGetGlobal:        "get_global",
	OpSetGlobal:        "set_global",
	OpGetUpvalue:       "get_upvalue",
	OpSetUpvalue:       "set_upvalue",
	OpGetBuiltin:       "get_builtin",
	OpGetIndex:         "get_index",
	OpSetIndex:         "set_index",
	OpGetProperty:      "get_property",
	OpSetProperty:      "set_property",
	OpAdd:              "add",
	OpSub:              "sub",
	OpMul:              "mul",
	OpDiv:              "div",
	OpMod:              "mod",
	OpNeg:              "neg",
	OpNot:              "not",
	OpBitAnd:           "bit_and",
	OpBitOr:            "bit_or",
	OpBitXor:           "bit_xor",
	OpBitNot:           "bit_not",
	OpShl:              "shl",
	OpShr:              "shr",
	OpEq:               "eq",
	OpNe:               "ne",
	OpLt:               "lt",
	OpLe:               "le",
	OpGt:               "gt",
	OpGe:               "ge",
	OpJump:             "jump",
	OpJumpIfFalse:      "jump_if_false",
	OpJumpIfFalseNoPop: "jump_if_false_no_pop",
	OpJumpIfTrueNoPop:  "jump_if_true_no_pop",
	OpCall:             "call",
	OpReturn:           "return",
	OpClosure:          "closure",
	OpCloseUpvalue:     "close_upvalue",
	OpArray:            "array",
	OpMap:              "map",
	OpRange:            "range",
	OpRangeInclusive:   "range_inclusive",
}

func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return fmt.Sprintf("op(%d)", byte(op))
}

// OperandWidth is the number of bytes of immediate operand opcode op
// takes, 0 for opcodes with none. Every operand is fixed-width (2 bytes,
// big-endian), except Closure whose upvalue-descriptor tail has a
// length determined by its own operand (spec.md §4.G).
func (op Op) OperandWidth() int {
	switch op {
	case OpConstant, OpGetLocal, OpSetLocal, OpGetGlobal, OpSetGlobal,
		OpGetUpvalue, OpSetUpvalue, OpGetBuiltin, OpGetProperty, OpSetProperty,
		OpJump, OpJumpIfFalse, OpJumpIfFalseNoPop, OpJumpIfTrueNoPop,
		OpCall, OpArray, OpMap:
		return 2
	case OpClosure:
		return 4 // constIdx (2 bytes) + upvalue count (2 bytes)
	default:
		return 0
	}
}
