package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binoyjayan/p2sh/internal/diag"
	"github.com/binoyjayan/p2sh/internal/token"
)

func scanAll(t *testing.T, src string) ([]token.Token, []token.Value) {
	t.Helper()
	var s Scanner
	var errs diag.List
	s.Init([]byte(src), func(pos token.Pos, msg string) {
		errs.Add(diag.Lex, pos, msg)
	})

	var toks []token.Token
	var vals []token.Value
	var v token.Value
	for {
		tok := s.Scan(&v)
		toks = append(toks, tok)
		vals = append(vals, v)
		if tok == token.EOF {
			break
		}
	}
	require.Empty(t, errs, "unexpected scan errors: %v", errs)
	return toks, vals
}

func TestScanPunctAndOperators(t *testing.T) {
	toks, _ := scanAll(t, `+ - * / == != <= >= && || << >> .. ..= => @ // trailing comment`)
	want := []token.Token{
		token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.EQEQ, token.BANGEQ, token.LE, token.GE, token.ANDAND, token.OROR,
		token.LTLT, token.GTGT, token.DOTDOT, token.DOTDOTEQ, token.ARROW, token.AT,
		token.EOF,
	}
	assert.Equal(t, want, toks)
}

func TestScanKeywordsAndIdents(t *testing.T) {
	toks, _ := scanAll(t, `let fn true false if else return null map loop while break continue match struct stdin stdout stderr _ foo`)
	want := []token.Token{
		token.LET, token.FN, token.TRUE, token.FALSE, token.IF, token.ELSE,
		token.RETURN, token.NULL, token.MAP, token.LOOP, token.WHILE, token.BREAK,
		token.CONTINUE, token.MATCH, token.STRUCT, token.STDIN, token.STDOUT,
		token.STDERR, token.UNDERSCORE, token.IDENT, token.EOF,
	}
	assert.Equal(t, want, toks)
}

func TestScanNumbers(t *testing.T) {
	toks, vals := scanAll(t, `123 0x7F 0b101 0o17 1.5 1. 1.5e10`)
	require.Equal(t, []token.Token{
		token.INT, token.INT, token.INT, token.INT, token.FLOAT, token.FLOAT, token.FLOAT, token.EOF,
	}, toks)
	assert.EqualValues(t, 123, vals[0].Int)
	assert.EqualValues(t, 127, vals[1].Int)
	assert.EqualValues(t, 5, vals[2].Int)
	assert.EqualValues(t, 15, vals[3].Int)
	assert.InDelta(t, 1.5, vals[4].Float, 0)
	assert.InDelta(t, 1.0, vals[5].Float, 0)
	assert.InDelta(t, 1.5e10, vals[6].Float, 0)
}

func TestScanStringEscapes(t *testing.T) {
	toks, vals := scanAll(t, `"a\nb\t\\\"c\x41\u{1F600}"`)
	require.Equal(t, []token.Token{token.STRING, token.EOF}, toks)
	assert.Equal(t, "a\nb\t\\\"cA\U0001F600", vals[0].Str)
}

func TestScanCharAndByteLiteral(t *testing.T) {
	toks, vals := scanAll(t, `'a' b'\n'`)
	require.Equal(t, []token.Token{token.CHAR, token.BYTE, token.EOF}, toks)
	assert.Equal(t, 'a', vals[0].Char)
	assert.EqualValues(t, '\n', vals[1].Byte)
}

func TestScanCommentsAreSkipped(t *testing.T) {
	toks, _ := scanAll(t, "1 # line comment\n2 // slash comment\n3")
	require.Equal(t, []token.Token{token.INT, token.INT, token.INT, token.EOF}, toks)
}

func TestScanIllegalCharacterReportsError(t *testing.T) {
	var s Scanner
	var errs diag.List
	s.Init([]byte("1 $ 2"), func(pos token.Pos, msg string) {
		errs.Add(diag.Lex, pos, msg)
	})
	var v token.Value
	for tok := s.Scan(&v); tok != token.EOF; tok = s.Scan(&v) {
	}
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "illegal character")
}
