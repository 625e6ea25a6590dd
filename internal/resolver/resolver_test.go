package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binoyjayan/p2sh/internal/ast"
	"github.com/binoyjayan/p2sh/internal/parser"
)

var testBuiltins = []string{"puts", "read", "len"}

func mustChunk(t *testing.T, src string) *ast.Chunk {
	t.Helper()
	chunk, err := parser.Parse([]byte(src))
	require.NoError(t, err)
	return chunk
}

func resolveSrc(t *testing.T, src string) *Result {
	t.Helper()
	res, err := Resolve(mustChunk(t, src), testBuiltins, nil)
	require.NoError(t, err)
	return res
}

func TestResolveGlobalAndLocal(t *testing.T) {
	res := resolveSrc(t, `
		let x = 1;
		fn f() {
			let x = 2;
			x
		}
	`)
	require.Len(t, res.Globals, 2) // x, f
	assert.Equal(t, "x", res.Globals[0].Name)
	assert.Equal(t, Global, res.Globals[0].Scope)
}

func TestResolveClosureCapture(t *testing.T) {
	// grounded on spec.md §8's closure-capture testable property.
	res := resolveSrc(t, `
		fn mk(x) {
			fn() { x }
		}
	`)
	require.Len(t, res.Globals, 1)
	assert.Equal(t, "mk", res.Globals[0].Name)

	found := false
	for ident, b := range res.Idents {
		if ident.Name == "x" {
			found = true
			assert.Equal(t, Free, b.Scope)
		}
	}
	assert.True(t, found)
}

func TestResolveUndefinedIdentIsCompileError(t *testing.T) {
	_, err := Resolve(mustChunk(t, `puts(nope);`), testBuiltins, nil)
	require.Error(t, err)
}

func TestResolveBuiltin(t *testing.T) {
	res, err := Resolve(mustChunk(t, `puts(1);`), testBuiltins, nil)
	require.NoError(t, err)

	found := false
	for ident, b := range res.Idents {
		if ident.Name == "puts" {
			found = true
			assert.Equal(t, Builtin, b.Scope)
		}
	}
	assert.True(t, found)
}

func TestResolveFreeVariableChainThroughTwoFunctions(t *testing.T) {
	res := resolveSrc(t, `
		fn outer(x) {
			fn middle() {
				fn inner() {
					x
				}
				inner
			}
			middle
		}
	`)
	require.Len(t, res.Globals, 1)

	found := false
	for ident, b := range res.Idents {
		if ident.Name == "x" {
			found = true
			assert.Equal(t, Free, b.Scope)
		}
	}
	assert.True(t, found)
}

func TestResolveAssignmentToUndeclaredIsError(t *testing.T) {
	_, err := Resolve(mustChunk(t, `x = 1;`), testBuiltins, nil)
	require.Error(t, err)
}

func TestResolveLabeledBreak(t *testing.T) {
	_, err := Resolve(mustChunk(t, `outer: loop { break outer; }`), testBuiltins, nil)
	require.NoError(t, err)
}

func TestResolveUnknownLabelIsError(t *testing.T) {
	_, err := Resolve(mustChunk(t, `loop { break nope; }`), testBuiltins, nil)
	require.Error(t, err)
}
