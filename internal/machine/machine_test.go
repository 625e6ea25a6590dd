package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binoyjayan/p2sh/internal/compiler"
	"github.com/binoyjayan/p2sh/internal/object"
	"github.com/binoyjayan/p2sh/internal/parser"
	"github.com/binoyjayan/p2sh/internal/resolver"
)

var testBuiltinNames = []string{"puts"}

func mustRun(t *testing.T, src string) object.Value {
	t.Helper()
	chunk, err := parser.Parse([]byte(src))
	require.NoError(t, err)
	res, err := resolver.Resolve(chunk, testBuiltinNames, nil)
	require.NoError(t, err)
	prog, err := compiler.Compile(chunk, res, testBuiltinNames)
	require.NoError(t, err)

	var captured []object.Value
	builtins := []*object.Builtin{
		{Name: "puts", Fn: func(args []object.Value) (object.Value, error) {
			captured = append(captured, args...)
			return object.NullValue, nil
		}},
	}
	vm := New(prog.NumGlobals, builtins)
	v, err := vm.Run(prog.Main)
	require.NoError(t, err)
	return v
}

func TestArithmeticPromotion(t *testing.T) {
	assert.Equal(t, object.Int(7), mustRun(t, `3 + 4`))
	assert.Equal(t, object.Float(3.5), mustRun(t, `7 / 2.0`))
	assert.Equal(t, object.Int(3), mustRun(t, `7 / 2`))
	assert.Equal(t, object.Int(1), mustRun(t, `7 % 2`))
	assert.Equal(t, object.String("n=5"), mustRun(t, `"n=" + 5`))
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	chunk, err := parser.Parse([]byte(`1 / 0`))
	require.NoError(t, err)
	res, err := resolver.Resolve(chunk, testBuiltinNames, nil)
	require.NoError(t, err)
	prog, err := compiler.Compile(chunk, res, testBuiltinNames)
	require.NoError(t, err)

	vm := New(prog.NumGlobals, nil)
	_, err = vm.Run(prog.Main)
	require.Error(t, err)
	var rerr *RuntimeError
	require.ErrorAs(t, err, &rerr)
}

func TestGlobalsAndLocals(t *testing.T) {
	v := mustRun(t, `
		let total = 0;
		fn add(a, b) {
			let r = a + b;
			r
		}
		total = add(total, 10);
		total = add(total, 5);
		total
	`)
	assert.Equal(t, object.Int(15), v)
}

func TestClosureCapturesUpvalue(t *testing.T) {
	v := mustRun(t, `
		fn makeCounter() {
			let n = 0;
			fn() {
				n = n + 1;
				n
			}
		}
		let c = makeCounter();
		c();
		c();
		c()
	`)
	assert.Equal(t, object.Int(3), v)
}

func TestIfMatchLoopControlFlow(t *testing.T) {
	assert.Equal(t, object.String("mid"), mustRun(t, `match 7 { 1..=5 => "low", 6..=10 => "mid", _ => "hi" }`))
	assert.Equal(t, object.String("low"), mustRun(t, `match 3 { 1..=5 => "low", 6..=10 => "mid", _ => "hi" }`))

	v := mustRun(t, `
		let i = 0;
		let sum = 0;
		while i < 5 {
			i = i + 1;
			if i == 3 {
				continue;
			}
			sum = sum + i;
		}
		sum
	`)
	assert.Equal(t, object.Int(12), v) // 1+2+4+5

	v = mustRun(t, `
		let i = 0;
		loop {
			i = i + 1;
			if i == 4 {
				break;
			}
		}
		i
	`)
	assert.Equal(t, object.Int(4), v)
}

func TestArraysAndMapsAndIndexing(t *testing.T) {
	v := mustRun(t, `
		let a = [1, 2, 3];
		a[1] = 9;
		a[0] + a[1] + a[2]
	`)
	assert.Equal(t, object.Int(13), v)

	v = mustRun(t, `
		let m = map{"a": 1, "b": 2};
		m["c"] = 3;
		m["a"] + m["b"] + m["c"]
	`)
	assert.Equal(t, object.Int(6), v)
}

func TestBuiltinCall(t *testing.T) {
	mustRun(t, `puts("hello")`)
}

func TestShortCircuitLeavesDecisiveOperandUncoerced(t *testing.T) {
	assert.Equal(t, object.Int(0), mustRun(t, `0 && 5`))
	assert.Equal(t, object.Int(3), mustRun(t, `3 || 5`))
}
