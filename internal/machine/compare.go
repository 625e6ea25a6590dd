package machine

import "github.com/binoyjayan/p2sh/internal/object"

// compareOp implements the six comparison opcodes. Eq/Ne use p2sh's
// full structural/identity equality (spec.md §3); the four ordering
// operators are restricted to the orderable tags.
func compareOp(op object.Op, x, y object.Value, line int) (object.Value, error) {
	if op == object.OpEq {
		return object.Bool(object.Equal(x, y)), nil
	}
	if op == object.OpNe {
		return object.Bool(!object.Equal(x, y)), nil
	}

	cmp, ok := object.Compare(x, y)
	if !ok {
		return nil, runtimeErrorf(line, "values of type %s and %s are not orderable", x.Type(), y.Type())
	}
	switch op {
	case object.OpLt:
		return object.Bool(cmp < 0), nil
	case object.OpLe:
		return object.Bool(cmp <= 0), nil
	case object.OpGt:
		return object.Bool(cmp > 0), nil
	case object.OpGe:
		return object.Bool(cmp >= 0), nil
	}
	panic("machine: unreachable comparison op " + op.String())
}
