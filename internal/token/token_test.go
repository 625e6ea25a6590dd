package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdent(t *testing.T) {
	cases := []struct {
		lit  string
		want Token
	}{
		{"let", LET},
		{"fn", FN},
		{"stdin", STDIN},
		{"stdout", STDOUT},
		{"struct", STRUCT},
		{"_", UNDERSCORE},
		{"foo", IDENT},
		{"mapping", IDENT},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, LookupIdent(c.lit), "LookupIdent(%q)", c.lit)
	}
}

func TestGoStringQuotesPunctOnly(t *testing.T) {
	assert.Equal(t, "'+'", PLUS.GoString())
	assert.Equal(t, "identifier", IDENT.GoString())
	assert.Equal(t, "let", LET.GoString())
}

func TestBinopPriority(t *testing.T) {
	l, r, ok := BinopPriority(STAR)
	assert.True(t, ok)
	assert.True(t, l > 0 && r > 0)

	addL, _, _ := BinopPriority(PLUS)
	mulL, _, _ := BinopPriority(STAR)
	assert.Less(t, addL, mulL, "* must bind tighter than +")

	_, _, ok = BinopPriority(EQ)
	assert.False(t, ok, "= is not a binary operator in the precedence table")
}
