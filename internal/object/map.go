package object

import (
	"errors"
	"math"
	"strings"

	"github.com/dolthub/swiss"
)

// ErrUnhashableKey is returned by (*Map).Set when k cannot be a map key
// (spec.md §3: only bool, int, float, char, byte, string and
// builtin-function are hashable; null is excluded, and float NaN is
// rejected outright since it is not equal to itself under any
// key-lookup scheme).
var ErrUnhashableKey = errors.New("unhashable type used as map key")

// Map is a mutable, shared, insertion-ordered dictionary (spec.md §3),
// grounded on github.com/mna/nenuphar's lang/machine/map.go (a
// dolthub/swiss-backed Map). swiss.Map does not preserve insertion order,
// so a parallel keys slice is layered on top to satisfy p2sh's
// insertion-order iteration and display requirement (spec.md §5).
type Map struct {
	m    *swiss.Map[Value, Value]
	keys []Value
}

// NewMap returns an empty map with initial capacity for at least size
// entries.
func NewMap(size int) *Map {
	if size < 1 {
		size = 1
	}
	return &Map{m: swiss.NewMap[Value, Value](uint32(size))}
}

func (m *Map) Type() string { return "map" }
func (m *Map) Truth() bool  { return m.Len() != 0 }

func (m *Map) Len() int { return m.m.Count() }

// Get looks up k, returning (value, true) on a hit.
func (m *Map) Get(k Value) (Value, bool) {
	k, ok := normalizeKey(k)
	if !ok {
		return nil, false
	}
	return m.m.Get(k)
}

// Set stores v under k, appending k to the insertion order on first
// insert. It reports ErrUnhashableKey if k cannot be a map key.
func (m *Map) Set(k, v Value) error {
	nk, ok := normalizeKey(k)
	if !ok {
		return ErrUnhashableKey
	}
	if _, existed := m.m.Get(nk); !existed {
		m.keys = append(m.keys, nk)
	}
	m.m.Put(nk, v)
	return nil
}

// Delete removes k, reporting whether it was present.
func (m *Map) Delete(k Value) bool {
	nk, ok := normalizeKey(k)
	if !ok {
		return false
	}
	if _, existed := m.m.Get(nk); !existed {
		return false
	}
	m.m.Delete(nk)
	for i, kk := range m.keys {
		if kk == nk {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the map's keys in insertion order.
func (m *Map) Keys() []Value {
	out := make([]Value, len(m.keys))
	copy(out, m.keys)
	return out
}

// normalizeKey canonicalizes k so that keys equal under p2sh's equality
// rules hash identically: -0.0 and 0.0 both become positive zero, and
// NaN is rejected (spec.md §4.H).
func normalizeKey(k Value) (Value, bool) {
	switch k := k.(type) {
	case Float:
		f := float64(k)
		if math.IsNaN(f) {
			return nil, false
		}
		if f == 0 {
			return Float(0), true
		}
		return k, true
	case Bool, Int, Char, Byte, String, *Builtin:
		return k, true
	default:
		return nil, false
	}
}

func (m *Map) String() string {
	return displayMap(m, map[any]bool{})
}

func displayMap(m *Map, seen map[any]bool) string {
	if seen[m] {
		return "map{...}"
	}
	seen[m] = true
	defer delete(seen, m)

	var b strings.Builder
	b.WriteString("map{")
	for i, k := range m.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		writeDisplay(&b, k, seen)
		b.WriteString(": ")
		v, _ := m.m.Get(k)
		writeDisplay(&b, v, seen)
	}
	b.WriteByte('}')
	return b.String()
}
