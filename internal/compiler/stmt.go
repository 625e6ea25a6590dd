package compiler

import (
	"fmt"

	"github.com/binoyjayan/p2sh/internal/ast"
	"github.com/binoyjayan/p2sh/internal/object"
	"github.com/binoyjayan/p2sh/internal/resolver"
)

// stmt compiles one statement. Every statement pops whatever value its
// expression produced (spec.md §4.D "a statement EXPR ; pushes and pops
// the result").
func (c *fcomp) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.LetStmt:
		c.expr(s.Value)
		c.storeDeclared(s.Name)

	case *ast.FnStmt:
		c.compileFnStmt(s)
		c.storeDeclared(s.Name)

	case *ast.ExprStmt:
		c.expr(s.Expr)
		c.chunk.Emit(object.OpPop, c.lineAt(s.Semi), 0)

	case *ast.ReturnStmt:
		if s.Value != nil {
			c.expr(s.Value)
		} else {
			c.chunk.Emit(object.OpNull, c.lineAt(s.Return), 0)
		}
		c.chunk.Emit(object.OpReturn, c.lineAt(s.Return), 0)

	case *ast.BreakStmt:
		c.compileBreak(s)

	case *ast.ContinueStmt:
		c.compileContinue(s)

	case *ast.FilterStmt:
		unit := c.compileFilterUnit(s)
		c.root.filters = append(c.root.filters, unit)

	default:
		panic(fmt.Sprintf("compiler: unexpected stmt %T", s))
	}
}

// storeDeclared emits the store instruction for a just-declared name
// (global or local; `let` can never declare an upvalue or builtin).
func (c *fcomp) storeDeclared(name *ast.IdentExpr) {
	b := c.binding(name)
	line := c.lineAt(name.Start)
	switch b.Scope {
	case resolver.Global:
		c.chunk.Emit(object.OpSetGlobal, line, b.Index)
	case resolver.Local:
		c.chunk.Emit(object.OpSetLocal, line, b.Index)
	default:
		panic(fmt.Sprintf("compiler: let target %q resolved to unexpected scope %v", name.Name, b.Scope))
	}
}

// compileFnStmt compiles `fn NAME(...) BODY` as a closure expression,
// leaving it on the stack for storeDeclared to bind.
func (c *fcomp) compileFnStmt(s *ast.FnStmt) {
	c.emitClosureFor(s, s.Sig, s.Body, s.Fn)
}

// compileBreak emits a forward OpJump recorded in the matching loop's
// break list, pushing null first so the loop expression's value stays
// well-typed when it exits via break (spec.md §4.D).
func (c *fcomp) compileBreak(s *ast.BreakStmt) {
	label := ""
	if s.Label != nil {
		label = s.Label.Name
	}
	lf := c.findLoop(label)
	if lf == nil {
		c.errorf(s.Break, "break outside of a loop")
		return
	}
	line := c.lineAt(s.Break)
	c.chunk.Emit(object.OpNull, line, 0)
	off := c.chunk.Emit(object.OpJump, line, 0)
	lf.Breaks = append(lf.Breaks, off)
}

// compileContinue emits a backward OpJump to the loop's condition-check
// start.
func (c *fcomp) compileContinue(s *ast.ContinueStmt) {
	label := ""
	if s.Label != nil {
		label = s.Label.Name
	}
	lf := c.findLoop(label)
	if lf == nil {
		c.errorf(s.Continue, "continue outside of a loop")
		return
	}
	line := c.lineAt(s.Continue)
	// the condition re-check offset is already known at emission time, so
	// unlike break's forward jump this needs no later patch.
	c.chunk.Emit(object.OpJump, line, lf.StartIP)
}
