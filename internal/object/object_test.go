package object

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualScalarsAndCrossNumericTags(t *testing.T) {
	assert.True(t, Equal(Int(1), Int(1)))
	assert.True(t, Equal(Int(1), Float(1.0)))
	assert.True(t, Equal(Float(2.5), Float(2.5)))
	assert.False(t, Equal(Int(1), Int(2)))
	assert.False(t, Equal(Int(1), String("1")))
	assert.True(t, Equal(NullValue, NullValue))
	assert.False(t, Equal(NullValue, Bool(false)))
}

func TestEqualArraysAndMapsAreStructural(t *testing.T) {
	a := NewArray([]Value{Int(1), Int(2), String("x")})
	b := NewArray([]Value{Int(1), Int(2), String("x")})
	c := NewArray([]Value{Int(1), Int(2)})
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))

	m1 := NewMap(2)
	_ = m1.Set(String("k"), Int(1))
	m2 := NewMap(2)
	_ = m2.Set(String("k"), Int(1))
	assert.True(t, Equal(m1, m2))

	_ = m2.Set(String("k"), Int(2))
	assert.False(t, Equal(m1, m2))
}

func TestEqualClosuresCompareByIdentity(t *testing.T) {
	fn := &Chunk{Name: "f"}
	c1 := &Closure{Fn: fn}
	c2 := &Closure{Fn: fn}
	assert.True(t, Equal(c1, c1))
	assert.False(t, Equal(c1, c2))
}

func TestHashable(t *testing.T) {
	assert.True(t, Hashable(Int(1)))
	assert.True(t, Hashable(String("s")))
	assert.True(t, Hashable(Float(1.5)))
	assert.False(t, Hashable(Float(math.NaN())))
	assert.False(t, Hashable(NewArray(nil)))
	assert.False(t, Hashable(NewMap(1)))
	assert.False(t, Hashable(NullValue))
}

func TestCompareOrdersMixedNumericAndString(t *testing.T) {
	cmp, ok := Compare(Int(1), Float(2.0))
	assert.True(t, ok)
	assert.Equal(t, -1, cmp)

	cmp, ok = Compare(String("abc"), String("abd"))
	assert.True(t, ok)
	assert.Equal(t, -1, cmp)

	_, ok = Compare(NewArray(nil), NewArray(nil))
	assert.False(t, ok)
}

func TestMapSetGetDeleteInsertionOrder(t *testing.T) {
	m := NewMap(4)
	assert.NoError(t, m.Set(String("b"), Int(2)))
	assert.NoError(t, m.Set(String("a"), Int(1)))
	assert.NoError(t, m.Set(String("b"), Int(20)))

	assert.Equal(t, []Value{String("b"), String("a")}, m.Keys())

	v, ok := m.Get(String("b"))
	assert.True(t, ok)
	assert.Equal(t, Int(20), v)

	assert.True(t, m.Delete(String("b")))
	assert.False(t, m.Delete(String("b")))
	assert.Equal(t, []Value{String("a")}, m.Keys())
}

func TestMapRejectsNaNKeyAndNormalizesSignedZero(t *testing.T) {
	m := NewMap(1)
	assert.ErrorIs(t, m.Set(Float(math.NaN()), Int(1)), ErrUnhashableKey)

	assert.NoError(t, m.Set(Float(math.Copysign(0, -1)), Int(9)))
	v, ok := m.Get(Float(0))
	assert.True(t, ok)
	assert.Equal(t, Int(9), v)
}

func TestMapRejectsNullKey(t *testing.T) {
	m := NewMap(1)
	assert.ErrorIs(t, m.Set(NullValue, Int(1)), ErrUnhashableKey)
}

func TestArrayDisplayQuotesStringsAndHandlesCycles(t *testing.T) {
	a := NewArray([]Value{Int(1), String("x")})
	assert.Equal(t, `[1, "x"]`, a.String())

	cyc := NewArray(nil)
	cyc.Elems = []Value{cyc}
	assert.Equal(t, `[[...]]`, cyc.String())
}
