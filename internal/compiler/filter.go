package compiler

import (
	"github.com/binoyjayan/p2sh/internal/ast"
	"github.com/binoyjayan/p2sh/internal/object"
)

// compileFilterUnit compiles one `@ pattern? body?` statement into its
// own zero-argument Chunk (spec.md §4.D "Filter statements"):
//
//	pattern and body both present: `if PAT { BODY }`
//	body only:                     `BODY` (unconditional)
//	pattern only:                  the pattern's own truth value is the
//	                                result, which internal/filter uses to
//	                                decide whether to auto-emit the
//	                                current packet (the "synthesized
//	                                default" body of spec.md §4.D/§4.J).
//
// `@ end …` is recognized structurally: a pattern that is exactly the
// bare identifier `end` (predeclared as an implicit global the driver
// flips true only for the end-of-stream round, spec.md §4.J) marks the
// unit IsEnd, so the driver can run only end units on that round.
func (c *fcomp) compileFilterUnit(s *ast.FilterStmt) *FilterUnit {
	info := c.res.Funcs[s]
	if len(info.Upvalues) > 0 {
		c.errorf(s.At, "filter statement may not reference an enclosing function's locals")
	}

	chunk := object.NewChunk("filter")
	chunk.NumLocals = len(info.Locals)

	fc := &fcomp{res: c.res, builtins: c.builtins, errs: c.errs, chunk: chunk, parent: c, root: c.root}
	line := c.lineAt(s.At)

	hasPattern := s.Pattern != nil
	hasBody := s.Body != nil

	switch {
	case hasPattern && hasBody:
		fc.expr(s.Pattern)
		skip := fc.chunk.Emit(object.OpJumpIfFalse, line, 0)
		fc.block(s.Body)
		jmp := fc.chunk.Emit(object.OpJump, line, 0)
		fc.chunk.PatchOperand(skip, len(fc.chunk.Code))
		fc.chunk.Emit(object.OpNull, line, 0)
		fc.chunk.PatchOperand(jmp, len(fc.chunk.Code))

	case !hasPattern && hasBody:
		fc.block(s.Body)

	case hasPattern && !hasBody:
		fc.expr(s.Pattern)

	default:
		// the parser requires at least one of pattern/body; not reachable.
		fc.chunk.Emit(object.OpNull, line, 0)
	}
	fc.chunk.Emit(object.OpReturn, line, 0)

	return &FilterUnit{
		IsEnd:   hasPattern && isEndPattern(s.Pattern),
		HasBody: hasBody,
		Fn:      chunk,
	}
}

func isEndPattern(pat ast.Expr) bool {
	id, ok := ast.Unwrap(pat).(*ast.IdentExpr)
	return ok && id.Name == "end"
}
