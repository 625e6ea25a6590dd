// Package object implements p2sh's tagged runtime value system (spec.md
// §3 Data Model) along with the compiled-code representation (Chunk,
// opcodes) shared by internal/compiler and internal/machine. Grounded on
// github.com/mna/nenuphar's lang/machine value set (lang/machine/value.go:
// a Value interface with String/Type/Truth, satisfied by one concrete Go
// type per tag) and lang/machine/map.go's dolthub/swiss-backed Map, but
// generalized to p2sh's own tag set: char, byte, file, packet and error
// have no nenuphar counterpart, and there are no classes/tuples/iterators.
package object

import "fmt"

// Value is any p2sh runtime value (spec.md §3).
type Value interface {
	// Type names the value's tag, e.g. "int", "string", "array".
	Type() string
	// String renders the value the way display/format/print would.
	String() string
	// Truth reports the value's boolean interpretation (spec.md §3
	// Truthiness).
	Truth() bool
}

// Null is the sole value of the "null" tag.
type Null struct{}

func (Null) Type() string   { return "null" }
func (Null) String() string { return "null" }
func (Null) Truth() bool    { return false }

// NullValue is the singleton null value.
var NullValue Value = Null{}

// Bool is the "bool" tag.
type Bool bool

func (b Bool) Type() string   { return "bool" }
func (b Bool) String() string { return fmt.Sprintf("%t", bool(b)) }
func (b Bool) Truth() bool    { return bool(b) }

// Int is the 64-bit signed "int" tag.
type Int int64

func (i Int) Type() string   { return "int" }
func (i Int) String() string { return fmt.Sprintf("%d", int64(i)) }
func (i Int) Truth() bool    { return i != 0 }

// Float is the IEEE-754 double "float" tag.
type Float float64

func (f Float) Type() string   { return "float" }
func (f Float) String() string { return formatFloat(float64(f)) }
func (f Float) Truth() bool    { return f != 0 }

// Char is a 32-bit Unicode scalar, the "char" tag.
type Char rune

func (c Char) Type() string   { return "char" }
func (c Char) String() string { return string(rune(c)) }
func (c Char) Truth() bool    { return c != 0 }

// Byte is an 8-bit value, the "byte" tag.
type Byte byte

func (b Byte) Type() string   { return "byte" }
func (b Byte) String() string { return fmt.Sprintf("%d", byte(b)) }
func (b Byte) Truth() bool    { return b != 0 }

// String is an immutable, shared UTF-8 sequence, the "string" tag.
type String string

func (s String) Type() string   { return "string" }
func (s String) String() string { return string(s) }
func (s String) Truth() bool    { return len(s) != 0 }

func formatFloat(f float64) string {
	// %g loses the distinction between 1.0 and 1 that a scripting language
	// display typically preserves; round-trip through a representation
	// that always carries a fractional part or exponent.
	s := fmt.Sprintf("%g", f)
	for _, r := range s {
		if r == '.' || r == 'e' || r == 'E' || r == 'n' || r == 'N' /* inf/nan */ {
			return s
		}
	}
	return s + ".0"
}
