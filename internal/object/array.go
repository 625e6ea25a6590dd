package object

import "strings"

// Array is a mutable, shared, insertion-ordered sequence of values
// (spec.md §3). Always used by pointer so aliasing is reference semantics.
type Array struct {
	Elems []Value
}

func NewArray(elems []Value) *Array { return &Array{Elems: elems} }

func (a *Array) Type() string { return "array" }
func (a *Array) Truth() bool  { return len(a.Elems) != 0 }

func (a *Array) String() string {
	return displayArray(a, map[any]bool{})
}

// displayArray renders a, detecting a self-referential visit through seen
// so cyclic arrays print a placeholder instead of recursing forever
// (spec.md §9 "Cyclic structures").
func displayArray(a *Array, seen map[any]bool) string {
	if seen[a] {
		return "[...]"
	}
	seen[a] = true
	defer delete(seen, a)

	var b strings.Builder
	b.WriteByte('[')
	for i, e := range a.Elems {
		if i > 0 {
			b.WriteString(", ")
		}
		writeDisplay(&b, e, seen)
	}
	b.WriteByte(']')
	return b.String()
}

func writeDisplay(b *strings.Builder, v Value, seen map[any]bool) {
	switch v := v.(type) {
	case String:
		b.WriteByte('"')
		b.WriteString(string(v))
		b.WriteByte('"')
	case *Array:
		b.WriteString(displayArray(v, seen))
	case *Map:
		b.WriteString(displayMap(v, seen))
	default:
		b.WriteString(v.String())
	}
}
