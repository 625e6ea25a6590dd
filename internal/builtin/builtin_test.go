package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binoyjayan/p2sh/internal/compiler"
	"github.com/binoyjayan/p2sh/internal/machine"
	"github.com/binoyjayan/p2sh/internal/object"
	"github.com/binoyjayan/p2sh/internal/parser"
	"github.com/binoyjayan/p2sh/internal/resolver"
)

func mustRun(t *testing.T, src string) object.Value {
	t.Helper()
	chunk, err := parser.Parse([]byte(src))
	require.NoError(t, err)
	res, err := resolver.Resolve(chunk, Names, PreludeGlobals)
	require.NoError(t, err)
	prog, err := compiler.Compile(chunk, res, Names)
	require.NoError(t, err)

	vm := machine.New(prog.NumGlobals, nil)
	vm.Builtins = New(vm)
	BindPrelude(vm, []string{"-c"})

	v, err := vm.Run(prog.Main)
	require.NoError(t, err)
	return v
}

func TestFormatSpecifiers(t *testing.T) {
	assert.Equal(t, object.String("ff"), mustRun(t, `format("{:x}", 255)`))
	assert.Equal(t, object.String("FF"), mustRun(t, `format("{:X}", 255)`))
	assert.Equal(t, object.String("101"), mustRun(t, `format("{:b}", 5)`))
	assert.Equal(t, object.String("3.14"), mustRun(t, `format("{:.2}", 3.14159)`))
	assert.Equal(t, object.String("n=7"), mustRun(t, `format("n={}", 7)`))
}

func TestFormatUnrecognizedSpecifierIsError(t *testing.T) {
	chunk, err := parser.Parse([]byte(`format("{:q}", 1)`))
	require.NoError(t, err)
	res, err := resolver.Resolve(chunk, Names, PreludeGlobals)
	require.NoError(t, err)
	prog, err := compiler.Compile(chunk, res, Names)
	require.NoError(t, err)

	vm := machine.New(prog.NumGlobals, nil)
	vm.Builtins = New(vm)
	BindPrelude(vm, nil)

	_, err = vm.Run(prog.Main)
	require.Error(t, err)
}

func TestLenAcrossTypes(t *testing.T) {
	assert.Equal(t, object.Int(5), mustRun(t, `len("hello")`))
	assert.Equal(t, object.Int(3), mustRun(t, `len([1, 2, 3])`))
	assert.Equal(t, object.Int(2), mustRun(t, `len(map{"a": 1, "b": 2})`))
}

func TestPushPopKeepArrayShared(t *testing.T) {
	v := mustRun(t, `
		let a = [1, 2];
		push(a, 3);
		pop(a);
		a
	`)
	arr, ok := v.(*object.Array)
	require.True(t, ok)
	assert.Equal(t, []object.Value{object.Int(1), object.Int(2)}, arr.Elems)
}

func TestSortAndSortBy(t *testing.T) {
	v := mustRun(t, `let a = [3, 1, 2]; sort(a); a`)
	arr := v.(*object.Array)
	assert.Equal(t, []object.Value{object.Int(1), object.Int(2), object.Int(3)}, arr.Elems)

	v = mustRun(t, `
		let a = [3, 1, 2];
		sort_by(a, fn(x, y) { x > y });
		a
	`)
	arr = v.(*object.Array)
	assert.Equal(t, []object.Value{object.Int(3), object.Int(2), object.Int(1)}, arr.Elems)
}

func TestIsErrorAndErrno(t *testing.T) {
	v := mustRun(t, `
		let f = open("/nonexistent/path/p2sh-test", "r");
		is_error(f) && get_errno() != 0
	`)
	assert.Equal(t, object.Bool(true), v)
}

func TestMapBuiltins(t *testing.T) {
	v := mustRun(t, `
		let m = map{"a": 1};
		let ok1 = has(m, "a");
		delete(m, "a");
		let ok2 = has(m, "a");
		ok1 && !ok2
	`)
	assert.Equal(t, object.Bool(true), v)
}

func TestExitReturnsExitError(t *testing.T) {
	chunk, err := parser.Parse([]byte(`exit(3)`))
	require.NoError(t, err)
	res, err := resolver.Resolve(chunk, Names, PreludeGlobals)
	require.NoError(t, err)
	prog, err := compiler.Compile(chunk, res, Names)
	require.NoError(t, err)

	vm := machine.New(prog.NumGlobals, nil)
	vm.Builtins = New(vm)
	BindPrelude(vm, nil)

	_, err = vm.Run(prog.Main)
	require.Error(t, err)
	var rerr *machine.RuntimeError
	require.ErrorAs(t, err, &rerr)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)
}
