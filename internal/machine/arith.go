package machine

import "github.com/binoyjayan/p2sh/internal/object"

// binaryArith implements the promotion rules of spec.md §4.D "Arithmetic
// promotion": int/int stays int (`/` truncates, `%` truncates toward
// zero); either operand float promotes the whole operation to float;
// `+` with a string operand concatenates, converting a numeric operand
// via its display string.
func binaryArith(op object.Op, x, y object.Value, line int) (object.Value, error) {
	if op == object.OpAdd {
		if xs, ok := x.(object.String); ok {
			return xs + object.String(valueToStr(y)), nil
		}
		if ys, ok := y.(object.String); ok {
			return object.String(valueToStr(x)) + ys, nil
		}
	}

	xf, xIsFloat, xOk := numeric(x)
	yf, yIsFloat, yOk := numeric(y)
	if !xOk || !yOk {
		return nil, runtimeErrorf(line, "unsupported operand types for %s: %s and %s", op, x.Type(), y.Type())
	}

	if !xIsFloat && !yIsFloat {
		xi, yi := int64(x.(object.Int)), int64(y.(object.Int))
		switch op {
		case object.OpAdd:
			return object.Int(xi + yi), nil
		case object.OpSub:
			return object.Int(xi - yi), nil
		case object.OpMul:
			return object.Int(xi * yi), nil
		case object.OpDiv:
			if yi == 0 {
				return nil, runtimeErrorf(line, "division by zero")
			}
			return object.Int(xi / yi), nil
		case object.OpMod:
			if yi == 0 {
				return nil, runtimeErrorf(line, "division by zero")
			}
			return object.Int(xi % yi), nil
		}
	}

	switch op {
	case object.OpAdd:
		return object.Float(xf + yf), nil
	case object.OpSub:
		return object.Float(xf - yf), nil
	case object.OpMul:
		return object.Float(xf * yf), nil
	case object.OpDiv:
		if yf == 0 {
			return nil, runtimeErrorf(line, "division by zero")
		}
		return object.Float(xf / yf), nil
	case object.OpMod:
		if yf == 0 {
			return nil, runtimeErrorf(line, "division by zero")
		}
		return object.Float(mod(xf, yf)), nil
	}
	panic("machine: unreachable arithmetic op " + op.String())
}

func mod(x, y float64) float64 {
	q := int64(x / y)
	return x - float64(q)*y
}

// numeric reports whether v is int or float, and its value widened to
// float64 for the mixed-type path.
func numeric(v object.Value) (f float64, isFloat, ok bool) {
	switch v := v.(type) {
	case object.Int:
		return float64(v), false, true
	case object.Float:
		return float64(v), true, true
	default:
		return 0, false, false
	}
}

func valueToStr(v object.Value) string { return v.String() }

// bitwiseArith implements the integer-only bitwise operators.
func bitwiseArith(op object.Op, x, y object.Value, line int) (object.Value, error) {
	xi, ok1 := x.(object.Int)
	yi, ok2 := y.(object.Int)
	if !ok1 || !ok2 {
		return nil, runtimeErrorf(line, "unsupported operand types for %s: %s and %s", op, x.Type(), y.Type())
	}
	switch op {
	case object.OpBitAnd:
		return xi & yi, nil
	case object.OpBitOr:
		return xi | yi, nil
	case object.OpBitXor:
		return xi ^ yi, nil
	case object.OpShl:
		return xi << uint64(yi), nil
	case object.OpShr:
		return xi >> uint64(yi), nil
	}
	panic("machine: unreachable bitwise op " + op.String())
}

func negate(x object.Value, line int) (object.Value, error) {
	switch x := x.(type) {
	case object.Int:
		return -x, nil
	case object.Float:
		return -x, nil
	default:
		return nil, runtimeErrorf(line, "unsupported operand type for unary -: %s", x.Type())
	}
}

func bitNot(x object.Value, line int) (object.Value, error) {
	xi, ok := x.(object.Int)
	if !ok {
		return nil, runtimeErrorf(line, "unsupported operand type for unary ~: %s", x.Type())
	}
	return ^xi, nil
}
