package object

import "math"

// Equal implements p2sh's `==`/`!=` semantics (spec.md §3, §4.H):
// scalars and strings compare by value, arrays and maps compare
// structurally (element-wise, recursively), and closures/builtins/files/
// packets compare by identity. int and float compare by numeric value
// across tags (`1 == 1.0` is true).
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bb, ok := b.(Bool)
		return ok && a == bb
	case Int:
		switch b := b.(type) {
		case Int:
			return a == b
		case Float:
			return float64(a) == float64(b)
		}
		return false
	case Float:
		switch b := b.(type) {
		case Int:
			return float64(a) == float64(b)
		case Float:
			return float64(a) == float64(b)
		}
		return false
	case Char:
		bb, ok := b.(Char)
		return ok && a == bb
	case Byte:
		bb, ok := b.(Byte)
		return ok && a == bb
	case String:
		bb, ok := b.(String)
		return ok && a == bb
	case *Array:
		bb, ok := b.(*Array)
		if !ok || len(a.Elems) != len(bb.Elems) {
			return false
		}
		for i := range a.Elems {
			if !Equal(a.Elems[i], bb.Elems[i]) {
				return false
			}
		}
		return true
	case *Map:
		bb, ok := b.(*Map)
		if !ok || a.Len() != bb.Len() {
			return false
		}
		for _, k := range a.keys {
			av, _ := a.Get(k)
			bv, ok := bb.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		// closures, builtins, files, packets and protocol layers: identity.
		return a == b
	}
}

// Hashable reports whether v may be used as a map key (spec.md §3: the
// hashable subset is int/float/char/byte/string/bool/builtin-function;
// null is not a legal key, NaN is never a legal key, arrays and maps are
// never keys).
func Hashable(v Value) bool {
	switch v := v.(type) {
	case Bool, Int, Char, Byte, String, *Builtin:
		return true
	case Float:
		return !math.IsNaN(float64(v))
	default:
		return false
	}
}

// Compare implements p2sh's ordering operators for the orderable tags:
// int, float (mixed int/float promotes to float), char, byte and string. ok is
// false if a and b are not mutually orderable.
func Compare(a, b Value) (cmp int, ok bool) {
	switch a := a.(type) {
	case Int:
		switch b := b.(type) {
		case Int:
			return compareInt64(int64(a), int64(b)), true
		case Float:
			return compareFloat64(float64(a), float64(b)), true
		}
	case Float:
		switch b := b.(type) {
		case Int:
			return compareFloat64(float64(a), float64(b)), true
		case Float:
			return compareFloat64(float64(a), float64(b)), true
		}
	case Char:
		if b, ok := b.(Char); ok {
			return compareInt64(int64(a), int64(b)), true
		}
	case Byte:
		if b, ok := b.(Byte); ok {
			return compareInt64(int64(a), int64(b)), true
		}
	case String:
		if b, ok := b.(String); ok {
			switch {
			case a < b:
				return -1, true
			case a > b:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	return 0, false
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
