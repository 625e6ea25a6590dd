package compiler

import (
	"github.com/binoyjayan/p2sh/internal/ast"
	"github.com/binoyjayan/p2sh/internal/object"
)

// matchExpr compiles `match SUBJECT { arm, ... }` (spec.md §4.D
// "Match"): the subject is evaluated once into a scratch local, each
// arm's pattern compiles to a boolean predicate against it, and the
// first matching arm's body is the match's value. `_` is unconditional;
// a non-exhaustive match with no `_` arm falls through to null.
func (c *fcomp) matchExpr(e *ast.MatchExpr) {
	c.expr(e.Subject)
	tmp := c.allocTemp()
	line := c.lineAt(e.Match)
	c.chunk.Emit(object.OpSetLocal, line, tmp)

	var endJumps []int
	for i, arm := range e.Arms {
		if _, isWild := ast.Unwrap(arm.Pattern).(*ast.WildcardExpr); isWild {
			if i != len(e.Arms)-1 {
				c.errorf(e.Match, "'_' match arm must be last")
			}
			c.expr(arm.Body)
			endJumps = append(endJumps, c.chunk.Emit(object.OpJump, line, 0))
			break
		}

		c.matchPredicate(arm.Pattern, tmp, line)
		skip := c.chunk.Emit(object.OpJumpIfFalse, line, 0)
		c.expr(arm.Body)
		endJumps = append(endJumps, c.chunk.Emit(object.OpJump, line, 0))
		c.chunk.PatchOperand(skip, len(c.chunk.Code))
	}

	c.chunk.Emit(object.OpNull, line, 0)
	end := len(c.chunk.Code)
	for _, j := range endJumps {
		c.chunk.PatchOperand(j, end)
	}
}

// matchPredicate compiles pattern into a boolean test of the value held
// in local slot tmp, recursing through alternation and leaving exactly
// one bool on the stack.
func (c *fcomp) matchPredicate(pattern ast.Expr, tmp, line int) {
	switch p := pattern.(type) {
	case *ast.AltExpr:
		var jumps []int
		for i, alt := range p.Alts {
			c.matchPredicate(alt, tmp, line)
			if i < len(p.Alts)-1 {
				jumps = append(jumps, c.chunk.Emit(object.OpJumpIfTrueNoPop, line, 0))
				c.chunk.Emit(object.OpPop, line, 0)
			}
		}
		end := len(c.chunk.Code)
		for _, j := range jumps {
			c.chunk.PatchOperand(j, end)
		}

	case *ast.RangeExpr:
		c.chunk.Emit(object.OpGetLocal, line, tmp)
		c.expr(p.Low)
		c.expr(p.High)
		if p.Inclusive {
			c.chunk.Emit(object.OpRangeInclusive, line, 0)
		} else {
			c.chunk.Emit(object.OpRange, line, 0)
		}

	default:
		// a literal, or a unary-minus-prefixed literal (parser's
		// parsePatternOperand).
		c.chunk.Emit(object.OpGetLocal, line, tmp)
		c.expr(pattern)
		c.chunk.Emit(object.OpEq, line, 0)
	}
}
