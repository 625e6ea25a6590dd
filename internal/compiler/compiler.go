// Package compiler translates a parsed and resolved p2sh AST into the
// bytecode representation defined in internal/object (spec.md §4.D).
// Grounded on github.com/mna/nenuphar's lang/compiler package for
// naming and the general shape of an AST-walking emitter, but single
// pass and tree-walking rather than nenuphar's CFG-then-linearize
// design (lang/compiler/compiler.go builds a graph of *block and
// visits it to compute stack depth and resolve jump targets): spec.md
// §4.D asks for a direct single-pass compiler with backpatched jump
// lists, which fixed-width instructions make straightforward without
// a separate linearization pass.
package compiler

import (
	"fmt"

	"github.com/binoyjayan/p2sh/internal/ast"
	"github.com/binoyjayan/p2sh/internal/diag"
	"github.com/binoyjayan/p2sh/internal/object"
	"github.com/binoyjayan/p2sh/internal/resolver"
	"github.com/binoyjayan/p2sh/internal/token"
)

// Program is the result of compiling one source file: its top-level
// chunk (the prelude, run once) plus the filter units declared by `@`
// statements in source order (spec.md §4.J).
type Program struct {
	Main       *object.Chunk
	NumGlobals int
	Filters    []*FilterUnit
}

// FilterUnit is one `@ pattern? body?` statement compiled to a
// zero-argument closure body, invoked once per packet by internal/filter
// (spec.md §4.D "Filter statements").
type FilterUnit struct {
	IsEnd   bool
	HasBody bool // whether the statement had a body; the driver auto-emits the current packet whenever Fn returns truthy, either way
	Fn      *object.Chunk
}

// Compile compiles chunk, previously resolved into res, against the
// given builtin registry (the same names and order passed to
// resolver.Resolve). It returns diag-wrapped compile errors; a chunk
// that resolved without errors should never fail to compile.
func Compile(chunk *ast.Chunk, res *resolver.Result, builtins []string) (*Program, error) {
	c := &fcomp{
		res:      res,
		builtins: builtins,
		errs:     &diag.List{},
	}
	c.root = c
	main := c.compileFunction("main", chunk, chunk.Block)

	prog := &Program{Main: main, NumGlobals: len(res.Globals)}
	prog.Filters = c.filters

	return prog, c.errs.Err()
}

// fcomp holds state for one function body being compiled; filter units
// and the prelude are compiled via nested fcomp instances that all
// share the same resolver.Result and builtin registry.
type fcomp struct {
	res      *resolver.Result
	builtins []string
	errs     *diag.List

	chunk  *object.Chunk
	parent *fcomp
	loops  []*LoopFrame

	// filters accumulates FilterUnit values discovered while compiling the
	// top-level chunk; only the outermost fcomp (parent == nil) populates
	// this.
	filters []*FilterUnit
	root    *fcomp
}

func (c *fcomp) errorf(pos token.Pos, format string, args ...any) {
	c.errs.Addf(diag.Compile, pos, format, args...)
}

func (c *fcomp) lineAt(pos token.Pos) int {
	l, _ := pos.LineCol()
	return l
}

func (c *fcomp) builtinIndex(name string) int {
	for i, b := range c.builtins {
		if b == name {
			return i
		}
	}
	return -1
}

// compileFunction compiles body as a new Chunk named name, using node's
// resolved FuncInfo for local/upvalue counts. block leaves exactly one
// value on the stack whether this is the top-level chunk or a nested
// function, and OpReturn is what both vm.Run and a nested call need to
// pop a frame, so it is always emitted.
func (c *fcomp) compileFunction(name string, node ast.Node, body *ast.Block) *object.Chunk {
	info := c.res.Funcs[node]
	chunk := object.NewChunk(name)
	chunk.NumLocals = len(info.Locals)
	for _, uv := range info.Upvalues {
		chunk.Upvalues = append(chunk.Upvalues, object.UpvalueRef{IsLocal: uv.IsLocal, Index: uv.Index})
	}

	fc := &fcomp{res: c.res, builtins: c.builtins, errs: c.errs, chunk: chunk, parent: c}
	fc.root = c.root
	if fc.root == nil {
		fc.root = c
	}

	fc.block(body)
	fc.chunk.Emit(object.OpReturn, fc.lastLine(body), 0)
	return chunk
}

func (c *fcomp) lastLine(b *ast.Block) int {
	_, end := b.Span()
	return c.lineAt(end)
}

// block compiles every statement in b. If b's last statement is a
// tail expression (no trailing ';'), its value is left on the stack;
// otherwise a trailing OpNull is left so every block has a uniform
// "produces one value" contract for callers like if/match/loop bodies.
func (c *fcomp) block(b *ast.Block) {
	tail := b.LastExpr()
	for i, s := range b.Stmts {
		if es, ok := s.(*ast.ExprStmt); ok && es.Expr == tail && i == len(b.Stmts)-1 {
			c.expr(tail)
			return
		}
		c.stmt(s)
	}
	line := 0
	if len(b.Stmts) > 0 {
		_, end := b.Stmts[len(b.Stmts)-1].Span()
		line = c.lineAt(end)
	}
	c.chunk.Emit(object.OpNull, line, 0)
}

// allocTemp reserves a local slot beyond those the resolver assigned to
// declared names, for compiler-introduced scratch values (e.g. a match
// subject held across arm predicates). Safe because these slots are
// never resolved to by name, so they can't collide with or be captured
// as an upvalue of a user binding.
func (c *fcomp) allocTemp() int {
	idx := c.chunk.NumLocals
	c.chunk.NumLocals++
	return idx
}

func (c *fcomp) binding(ident *ast.IdentExpr) *resolver.Binding {
	b := c.res.Idents[ident]
	if b == nil {
		panic(fmt.Sprintf("compiler: unresolved identifier %q at compile time", ident.Name))
	}
	return b
}
