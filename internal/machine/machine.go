// Package machine implements the stack-based virtual machine that
// executes object.Chunk bytecode (spec.md §4.H), grounded on
// github.com/mna/nenuphar's lang/machine package (a Thread holding a
// shared value/frame stack and a fetch-decode-dispatch loop over
// compiler.Opcode) but built around p2sh's own simpler value/frame
// model: no iterators, no defer/catch blocks, no kwargs — just locals,
// globals, upvalues, builtins and the runtime's own operators.
package machine

import (
	"github.com/binoyjayan/p2sh/internal/object"
)

// VM runs one or more chunks sharing a global table and built-in
// registry. A single VM instance is reused across every filter unit
// invocation in internal/filter, so globals and open files persist
// across packets.
type VM struct {
	Globals  []object.Value
	Builtins []*object.Builtin

	// MaxSteps bounds the number of dispatched instructions before
	// execution aborts with a runtime error; <= 0 means unlimited
	// (spec.md §5 "no timeouts").
	MaxSteps int
	// MaxCallStackDepth bounds frame nesting; <= 0 means unlimited
	// (spec.md §4.H "stack overflow at a configured limit").
	MaxCallStackDepth int

	// Errno is the last OS errno observed by an I/O built-in (spec.md §9
	// "Global mutable state": a single writable cell every I/O primitive
	// updates on failure; internal/builtin's get_errno/strerror read it).
	Errno int

	stack  []object.Value
	frames []frame
	open   openUpvalues
	steps  int
}

// stackCapacity is the shared value stack's fixed backing-array size.
// Open upvalues hold a raw *object.Value pointer into this array
// (spec.md invariant vi: "an open upvalue always points into a live
// frame's stack range"), so the array must never be reallocated by a
// growing append; a capacity this generous only matters for pathologically
// deep recursion, which MaxCallStackDepth is the intended defense against.
const stackCapacity = 1 << 16

// New returns a VM with numGlobals global slots (all initially null)
// and the given built-in registry, indexed exactly as the compiler
// resolved OpGetBuiltin operands.
func New(numGlobals int, builtins []*object.Builtin) *VM {
	globals := make([]object.Value, numGlobals)
	for i := range globals {
		globals[i] = object.NullValue
	}
	return &VM{Globals: globals, Builtins: builtins, stack: make([]object.Value, 0, stackCapacity)}
}

// Run executes main as the program's top-level chunk (spec.md §4.H),
// returning the value its trailing expression (if any) produced.
func (vm *VM) Run(main *object.Chunk) (object.Value, error) {
	return vm.invoke(&object.Closure{Fn: main}, nil)
}

// CallClosure invokes a zero-or-more-argument closure and returns its
// result. internal/filter uses this to run each compiled filter unit
// once per packet, and built-ins that accept a callback use it too.
func (vm *VM) CallClosure(cl *object.Closure, args []object.Value) (object.Value, error) {
	return vm.invoke(cl, args)
}

// invoke pushes a frame for cl and runs the dispatch loop until
// control returns past the depth at which it was pushed.
func (vm *VM) invoke(cl *object.Closure, args []object.Value) (object.Value, error) {
	if err := vm.pushFrame(cl, args, 0); err != nil {
		return nil, err
	}
	return vm.run(len(vm.frames) - 1)
}

// pushFrame allocates cl's locals (params bound from args) on the
// shared stack and pushes a new frame for it.
func (vm *VM) pushFrame(cl *object.Closure, args []object.Value, line int) error {
	if vm.MaxCallStackDepth > 0 && len(vm.frames) >= vm.MaxCallStackDepth {
		return runtimeErrorf(line, "stack overflow: call stack depth exceeds %d", vm.MaxCallStackDepth)
	}
	if len(args) != cl.Fn.Arity {
		return runtimeErrorf(line, "%s: expected %d argument(s), got %d", cl.Fn.Name, cl.Fn.Arity, len(args))
	}
	if len(vm.stack)+cl.Fn.NumLocals > cap(vm.stack) {
		return runtimeErrorf(line, "stack overflow: value stack exhausted")
	}

	base := len(vm.stack)
	for i := 0; i < cl.Fn.NumLocals; i++ {
		if i < len(args) {
			vm.stack = append(vm.stack, args[i])
		} else {
			vm.stack = append(vm.stack, object.NullValue)
		}
	}
	vm.frames = append(vm.frames, frame{closure: cl, base: base})
	return nil
}

// run dispatches instructions for the frame at floor and everything it
// calls, returning once control unwinds back to floor-1 (i.e. the
// frame at floor has returned).
func (vm *VM) run(floor int) (object.Value, error) {
	for {
		fr := &vm.frames[len(vm.frames)-1]
		code := fr.chunk().Code

		vm.steps++
		if vm.MaxSteps > 0 && vm.steps > vm.MaxSteps {
			return nil, runtimeErrorf(fr.chunk().LineFor(fr.ip), "step limit exceeded (%d)", vm.MaxSteps)
		}

		op := object.Op(code[fr.ip])
		line := fr.chunk().LineFor(fr.ip)
		fr.ip++

		var operand int
		if w := op.OperandWidth(); w > 0 && op != object.OpClosure {
			operand = object.ReadOperand(code, fr.ip, w)
			fr.ip += w
		}

		switch op {
		case object.OpNop:
			// nothing

		case object.OpConstant:
			vm.push(fr.chunk().Constants[operand])

		case object.OpNull:
			vm.push(object.NullValue)
		case object.OpTrue:
			vm.push(object.Bool(true))
		case object.OpFalse:
			vm.push(object.Bool(false))

		case object.OpPop:
			vm.pop()
		case object.OpDup:
			vm.push(vm.top())

		case object.OpGetLocal:
			vm.push(vm.stack[fr.base+operand])
		case object.OpSetLocal:
			vm.stack[fr.base+operand] = vm.pop()

		case object.OpGetGlobal:
			vm.push(vm.Globals[operand])
		case object.OpSetGlobal:
			vm.Globals[operand] = vm.pop()

		case object.OpGetUpvalue:
			vm.push(fr.closure.Upvalues[operand].Get())
		case object.OpSetUpvalue:
			fr.closure.Upvalues[operand].Set(vm.pop())

		case object.OpGetBuiltin:
			vm.push(vm.Builtins[operand])

		case object.OpGetIndex:
			idx := vm.pop()
			x := vm.pop()
			v, err := getIndex(x, idx, line)
			if err != nil {
				return nil, err
			}
			vm.push(v)

		case object.OpSetIndex:
			v := vm.pop()
			idx := vm.pop()
			x := vm.pop()
			if err := setIndex(x, idx, v, line); err != nil {
				return nil, err
			}
			vm.push(v)

		case object.OpGetProperty:
			name := string(fr.chunk().Constants[operand].(object.String))
			x := vm.pop()
			v, err := getProperty(x, name, line)
			if err != nil {
				return nil, err
			}
			vm.push(v)

		case object.OpSetProperty:
			name := string(fr.chunk().Constants[operand].(object.String))
			v := vm.pop()
			x := vm.pop()
			if err := setProperty(x, name, v, line); err != nil {
				return nil, err
			}
			vm.push(v)

		case object.OpAdd, object.OpSub, object.OpMul, object.OpDiv, object.OpMod:
			y := vm.pop()
			x := vm.pop()
			v, err := binaryArith(op, x, y, line)
			if err != nil {
				return nil, err
			}
			vm.push(v)

		case object.OpBitAnd, object.OpBitOr, object.OpBitXor, object.OpShl, object.OpShr:
			y := vm.pop()
			x := vm.pop()
			v, err := bitwiseArith(op, x, y, line)
			if err != nil {
				return nil, err
			}
			vm.push(v)

		case object.OpNeg:
			v, err := negate(vm.pop(), line)
			if err != nil {
				return nil, err
			}
			vm.push(v)

		case object.OpNot:
			vm.push(object.Bool(!vm.pop().Truth()))

		case object.OpBitNot:
			v, err := bitNot(vm.pop(), line)
			if err != nil {
				return nil, err
			}
			vm.push(v)

		case object.OpEq, object.OpNe, object.OpLt, object.OpLe, object.OpGt, object.OpGe:
			y := vm.pop()
			x := vm.pop()
			v, err := compareOp(op, x, y, line)
			if err != nil {
				return nil, err
			}
			vm.push(v)

		case object.OpRange, object.OpRangeInclusive:
			hi := vm.pop()
			lo := vm.pop()
			subj := vm.pop()
			v, err := rangeTest(op, subj, lo, hi, line)
			if err != nil {
				return nil, err
			}
			vm.push(v)

		case object.OpJump:
			fr.ip = operand

		case object.OpJumpIfFalse:
			if !vm.pop().Truth() {
				fr.ip = operand
			}

		case object.OpJumpIfFalseNoPop:
			if !vm.top().Truth() {
				fr.ip = operand
			}

		case object.OpJumpIfTrueNoPop:
			if vm.top().Truth() {
				fr.ip = operand
			}

		case object.OpCall:
			if err := vm.call(operand, line); err != nil {
				return nil, err
			}

		case object.OpReturn:
			result := vm.pop()
			vm.open.closeFrom(fr.base)
			vm.stack = vm.stack[:fr.base]
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) <= floor {
				return result, nil
			}
			vm.push(result)

		case object.OpClosure:
			constIdx, upvalues, next := object.DecodeClosure(code, fr.ip)
			fr.ip = next
			fn := fr.chunk().Constants[constIdx].(*object.Closure).Fn
			cells := make([]*object.Upvalue, len(upvalues))
			for i, uv := range upvalues {
				if uv.IsLocal {
					cells[i] = vm.open.capture(vm.stack, fr.base+uv.Index)
				} else {
					cells[i] = fr.closure.Upvalues[uv.Index]
				}
			}
			vm.push(object.NewClosure(fn, cells))

		case object.OpCloseUpvalue:
			idx := len(vm.stack) - 1
			vm.open.closeFrom(idx)
			vm.stack = vm.stack[:idx]

		case object.OpArray:
			elems := make([]object.Value, operand)
			copy(elems, vm.stack[len(vm.stack)-operand:])
			vm.stack = vm.stack[:len(vm.stack)-operand]
			vm.push(object.NewArray(elems))

		case object.OpMap:
			m := object.NewMap(operand)
			pairs := vm.stack[len(vm.stack)-2*operand:]
			for i := 0; i < operand; i++ {
				k, v := pairs[2*i], pairs[2*i+1]
				if !object.Hashable(k) {
					return nil, runtimeErrorf(line, "unhashable type used as map key: %s", k.Type())
				}
				if err := m.Set(k, v); err != nil {
					return nil, runtimeErrorf(line, "%s", err)
				}
			}
			vm.stack = vm.stack[:len(vm.stack)-2*operand]
			vm.push(m)

		default:
			return nil, runtimeErrorf(line, "invalid instruction: %s", op)
		}
	}
}

func (vm *VM) push(v object.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() object.Value {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

func (vm *VM) top() object.Value { return vm.stack[len(vm.stack)-1] }

// call implements OpCall <argc>: pop the callee and argc arguments; a
// closure gets a new frame pushed (the dispatch loop then runs it
// in-line, since run's floor marker means the parent frame simply keeps
// executing once the callee's matching OpReturn truncates back to it);
// a builtin or any other callable runs to completion immediately.
func (vm *VM) call(argc, line int) error {
	args := append([]object.Value(nil), vm.stack[len(vm.stack)-argc:]...)
	vm.stack = vm.stack[:len(vm.stack)-argc]
	callee := vm.pop()

	switch callee := callee.(type) {
	case *object.Closure:
		return vm.pushFrame(callee, args, line)

	case *object.Builtin:
		v, err := callee.Fn(args)
		if err != nil {
			return wrapRuntimeError(line, callee.Name, err)
		}
		vm.push(v)
		return nil

	default:
		return runtimeErrorf(line, "value of type %s is not callable", callee.Type())
	}
}

// rangeTest implements the fused range-membership test OpRange emits
// for a match arm's `lo..hi` / `lo..=hi` pattern (spec.md §4.G).
func rangeTest(op object.Op, subj, lo, hi object.Value, line int) (object.Value, error) {
	c1, ok1 := object.Compare(subj, lo)
	c2, ok2 := object.Compare(subj, hi)
	if !ok1 || !ok2 {
		return nil, runtimeErrorf(line, "values of type %s, %s and %s are not orderable", subj.Type(), lo.Type(), hi.Type())
	}
	if op == object.OpRangeInclusive {
		return object.Bool(c1 >= 0 && c2 <= 0), nil
	}
	return object.Bool(c1 >= 0 && c2 < 0), nil
}
