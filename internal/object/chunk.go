package object

// UpvalueRef describes one upvalue slot of a compiled function: whether
// it closes over a local of the immediately enclosing function (IsLocal)
// or forwards an upvalue of that enclosing function (spec.md §4.D).
type UpvalueRef struct {
	IsLocal bool
	Index   int
}

// Chunk is a compiled function body: its bytecode, constant pool and
// debug/line table, grounded on github.com/mna/nenuphar's
// lang/compiler/compiled.go Funcode (Code []byte + a pc-to-line table),
// simplified to a flat parallel []int line table (one entry per
// code byte) since p2sh's fixed-width encoding makes the
// varint-packed pclinetab unnecessary.
type Chunk struct {
	Name string

	Code  []byte
	Lines []int // Lines[i] is the source line of the instruction that Code[i] belongs to; operand bytes carry their instruction's line.

	Constants []Value

	Arity      int // number of declared parameters
	NumLocals  int // total local slots, params included
	Upvalues   []UpvalueRef
	IsVariadic bool
}

// NewChunk returns an empty chunk named name.
func NewChunk(name string) *Chunk {
	return &Chunk{Name: name, Lines: make([]int, 0, 64)}
}

// Emit appends op and a fixed-width operand (big-endian, truncated to
// op.OperandWidth() bytes) at the current line, returning the offset the
// instruction starts at.
func (c *Chunk) Emit(op Op, line int, operand int) int {
	start := len(c.Code)
	c.Code = append(c.Code, byte(op))
	c.padLines(start, line)
	for i := 0; i < op.OperandWidth(); i++ {
		c.Code = append(c.Code, 0)
		c.padLines(len(c.Code)-1, line)
	}
	if w := op.OperandWidth(); w > 0 {
		writeUint(c.Code[start+1:start+1+w], operand, w)
	}
	return start
}

func (c *Chunk) padLines(uptoIdx, line int) {
	for len(c.Lines) <= uptoIdx {
		c.Lines = append(c.Lines, line)
	}
}

// PatchOperand overwrites the operand of the instruction starting at
// offset (used to back-patch forward jumps once their target is known).
func (c *Chunk) PatchOperand(offset int, operand int) {
	op := Op(c.Code[offset])
	w := op.OperandWidth()
	writeUint(c.Code[offset+1:offset+1+w], operand, w)
}

// ReadOperand decodes the w-byte big-endian operand starting at offset.
func ReadOperand(code []byte, offset, w int) int {
	n := 0
	for i := 0; i < w; i++ {
		n = n<<8 | int(code[offset+i])
	}
	return n
}

func writeUint(dst []byte, v, w int) {
	for i := w - 1; i >= 0; i-- {
		dst[i] = byte(v & 0xff)
		v >>= 8
	}
}

// EmitClosure emits OpClosure followed by its variable-length upvalue
// descriptor tail: constIdx (2 bytes), upvalue count (2 bytes), then 3
// bytes per upvalue (1-byte IsLocal flag, 2-byte index). The descriptor
// list's length is carried in the operand itself, so unlike every other
// opcode its total encoded size is not a function of Op.OperandWidth()
// alone (spec.md §4.G "Closure <const_idx> <n_upvalues> [desc…]").
func (c *Chunk) EmitClosure(line int, constIdx int, upvalues []UpvalueRef) int {
	start := len(c.Code)
	c.Code = append(c.Code, byte(OpClosure))
	c.padLines(start, line)

	c.appendUint(constIdx, 2, line)
	c.appendUint(len(upvalues), 2, line)
	for _, uv := range upvalues {
		isLocal := 0
		if uv.IsLocal {
			isLocal = 1
		}
		c.appendUint(isLocal, 1, line)
		c.appendUint(uv.Index, 2, line)
	}
	return start
}

func (c *Chunk) appendUint(v, w, line int) {
	start := len(c.Code)
	for i := 0; i < w; i++ {
		c.Code = append(c.Code, 0)
	}
	writeUint(c.Code[start:start+w], v, w)
	for i := 0; i < w; i++ {
		c.padLines(start+i, line)
	}
}

// DecodeClosure reads back the operands EmitClosure wrote, starting
// immediately after the opcode byte at offset. It returns the function
// constant index, the upvalue descriptors, and the offset of the next
// instruction.
func DecodeClosure(code []byte, offset int) (constIdx int, upvalues []UpvalueRef, next int) {
	constIdx = ReadOperand(code, offset, 2)
	offset += 2
	n := ReadOperand(code, offset, 2)
	offset += 2
	upvalues = make([]UpvalueRef, n)
	for i := 0; i < n; i++ {
		isLocal := ReadOperand(code, offset, 1) != 0
		offset++
		idx := ReadOperand(code, offset, 2)
		offset += 2
		upvalues[i] = UpvalueRef{IsLocal: isLocal, Index: idx}
	}
	return constIdx, upvalues, offset
}

// AddConstant interns v into the constant pool, returning its index. No
// deduplication is attempted: equal-valued constants from distinct
// literal sites are kept distinct, matching how the source reads them.
func (c *Chunk) AddConstant(v Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// LineFor returns the source line the instruction at offset was emitted
// from, or 0 if offset is out of range.
func (c *Chunk) LineFor(offset int) int {
	if offset < 0 || offset >= len(c.Lines) {
		return 0
	}
	return c.Lines[offset]
}
