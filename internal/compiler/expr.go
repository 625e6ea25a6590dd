package compiler

import (
	"fmt"

	"github.com/binoyjayan/p2sh/internal/ast"
	"github.com/binoyjayan/p2sh/internal/object"
	"github.com/binoyjayan/p2sh/internal/resolver"
	"github.com/binoyjayan/p2sh/internal/token"
)

// expr compiles e, leaving exactly one value on the stack.
func (c *fcomp) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.IdentExpr:
		c.loadIdent(e)

	case *ast.LiteralExpr:
		c.literal(e)

	case *ast.WildcardExpr:
		c.errorf(e.Start, "'_' is only valid in a match pattern")

	case *ast.BadExpr:
		// a parse error already reported this; emit a placeholder so
		// compilation of the rest of the chunk can still proceed.
		c.chunk.Emit(object.OpNull, c.lineAt(e.Start), 0)

	case *ast.ArrayExpr:
		for _, it := range e.Items {
			c.expr(it)
		}
		c.chunk.Emit(object.OpArray, c.lineAt(e.Lbrack), len(e.Items))

	case *ast.MapExpr:
		for _, kv := range e.Items {
			c.expr(kv.Key)
			c.expr(kv.Value)
		}
		c.chunk.Emit(object.OpMap, c.lineAt(e.Map), len(e.Items))

	case *ast.FuncExpr:
		c.emitClosureFor(e, e.Sig, e.Body, e.Fn)

	case *ast.CallExpr:
		c.expr(e.Fn)
		for _, a := range e.Args {
			c.expr(a)
		}
		c.chunk.Emit(object.OpCall, c.lineAt(e.Lparen), len(e.Args))

	case *ast.IndexExpr:
		c.expr(e.Prefix)
		c.expr(e.Index)
		c.chunk.Emit(object.OpGetIndex, c.lineAt(e.Lbrack), 0)

	case *ast.DotExpr:
		c.expr(e.Left)
		idx := c.chunk.AddConstant(object.String(e.Name.Name))
		c.chunk.Emit(object.OpGetProperty, c.lineAt(e.Dot), idx)

	case *ast.ParenExpr:
		c.expr(e.Expr)

	case *ast.UnaryOpExpr:
		c.unary(e)

	case *ast.BinOpExpr:
		c.binop(e)

	case *ast.AssignExpr:
		c.assign(e)

	case *ast.BlockExpr:
		c.block(e.Block)

	case *ast.IfExpr:
		c.ifExpr(e)

	case *ast.LoopExpr:
		c.loopExpr(e)

	case *ast.WhileExpr:
		c.whileExpr(e)

	case *ast.MatchExpr:
		c.matchExpr(e)

	case *ast.RangeExpr, *ast.AltExpr:
		panic(fmt.Sprintf("compiler: %T only valid inside a match pattern", e))

	default:
		panic(fmt.Sprintf("compiler: unexpected expr %T", e))
	}
}

func (c *fcomp) loadIdent(e *ast.IdentExpr) {
	b := c.binding(e)
	line := c.lineAt(e.Start)
	switch b.Scope {
	case resolver.Global:
		c.chunk.Emit(object.OpGetGlobal, line, b.Index)
	case resolver.Local:
		c.chunk.Emit(object.OpGetLocal, line, b.Index)
	case resolver.Free:
		c.chunk.Emit(object.OpGetUpvalue, line, b.Index)
	case resolver.Builtin:
		c.chunk.Emit(object.OpGetBuiltin, line, b.Index)
	default:
		panic(fmt.Sprintf("compiler: identifier %q resolved to unexpected scope %v", e.Name, b.Scope))
	}
}

func (c *fcomp) literal(e *ast.LiteralExpr) {
	line := c.lineAt(e.Start)
	switch e.Type {
	case token.NULL:
		c.chunk.Emit(object.OpNull, line, 0)
	case token.TRUE:
		c.chunk.Emit(object.OpTrue, line, 0)
	case token.FALSE:
		c.chunk.Emit(object.OpFalse, line, 0)
	default:
		v := literalValue(e)
		idx := c.chunk.AddConstant(v)
		c.chunk.Emit(object.OpConstant, line, idx)
	}
}

func literalValue(e *ast.LiteralExpr) object.Value {
	switch v := e.Value.(type) {
	case int64:
		return object.Int(v)
	case float64:
		return object.Float(v)
	case rune:
		return object.Char(v)
	case byte:
		return object.Byte(v)
	case string:
		return object.String(v)
	case bool:
		return object.Bool(v)
	case nil:
		return object.NullValue
	default:
		panic(fmt.Sprintf("compiler: literal with unexpected Go value type %T", e.Value))
	}
}

func (c *fcomp) unary(e *ast.UnaryOpExpr) {
	c.expr(e.Right)
	line := c.lineAt(e.Op)
	switch e.Type {
	case token.BANG:
		c.chunk.Emit(object.OpNot, line, 0)
	case token.MINUS:
		c.chunk.Emit(object.OpNeg, line, 0)
	case token.TILDE:
		c.chunk.Emit(object.OpBitNot, line, 0)
	default:
		panic(fmt.Sprintf("compiler: unexpected unary operator %v", e.Type))
	}
}

var binOpcodes = map[token.Token]object.Op{
	token.PLUS:       object.OpAdd,
	token.MINUS:      object.OpSub,
	token.STAR:       object.OpMul,
	token.SLASH:      object.OpDiv,
	token.PERCENT:    object.OpMod,
	token.AMPERSAND:  object.OpBitAnd,
	token.PIPE:       object.OpBitOr,
	token.CIRCUMFLEX: object.OpBitXor,
	token.LTLT:       object.OpShl,
	token.GTGT:       object.OpShr,
	token.EQEQ:       object.OpEq,
	token.BANGEQ:     object.OpNe,
	token.LT:         object.OpLt,
	token.GT:         object.OpGt,
	token.LE:         object.OpLe,
	token.GE:         object.OpGe,
}

// binop compiles a binary operator expression. && and || are
// short-circuit: the decisive operand is left on the stack unevaluated-
// for-truth (spec.md §4.D "values are NOT coerced to boolean").
func (c *fcomp) binop(e *ast.BinOpExpr) {
	switch e.Type {
	case token.ANDAND:
		c.shortCircuit(e, object.OpJumpIfFalseNoPop)
		return
	case token.OROR:
		c.shortCircuit(e, object.OpJumpIfTrueNoPop)
		return
	}

	c.expr(e.Left)
	c.expr(e.Right)
	op, ok := binOpcodes[e.Type]
	if !ok {
		panic(fmt.Sprintf("compiler: unexpected binary operator %v", e.Type))
	}
	c.chunk.Emit(op, c.lineAt(e.Op), 0)
}

func (c *fcomp) shortCircuit(e *ast.BinOpExpr, jumpOp object.Op) {
	c.expr(e.Left)
	line := c.lineAt(e.Op)
	jumpOff := c.chunk.Emit(jumpOp, line, 0)
	c.chunk.Emit(object.OpPop, line, 0)
	c.expr(e.Right)
	c.chunk.PatchOperand(jumpOff, len(c.chunk.Code))
}

// assign compiles `LHS = RHS`, leaving the assigned value on the stack
// (spec.md §4.D "An assignment expression evaluates to the assigned
// value").
func (c *fcomp) assign(e *ast.AssignExpr) {
	target := ast.Unwrap(e.Left)
	line := c.lineAt(e.Eq)

	switch target := target.(type) {
	case *ast.IdentExpr:
		c.expr(e.Right)
		c.chunk.Emit(object.OpDup, line, 0)
		b := c.binding(target)
		switch b.Scope {
		case resolver.Global:
			c.chunk.Emit(object.OpSetGlobal, line, b.Index)
		case resolver.Local:
			c.chunk.Emit(object.OpSetLocal, line, b.Index)
		case resolver.Free:
			c.chunk.Emit(object.OpSetUpvalue, line, b.Index)
		default:
			c.errorf(target.Start, "cannot assign to %q", target.Name)
		}

	case *ast.IndexExpr:
		c.expr(target.Prefix)
		c.expr(target.Index)
		c.expr(e.Right)
		c.chunk.Emit(object.OpSetIndex, line, 0)

	case *ast.DotExpr:
		c.expr(target.Left)
		c.expr(e.Right)
		idx := c.chunk.AddConstant(object.String(target.Name.Name))
		c.chunk.Emit(object.OpSetProperty, line, idx)

	default:
		panic(fmt.Sprintf("compiler: unexpected assignment target %T", target))
	}
}

func (c *fcomp) ifExpr(e *ast.IfExpr) {
	c.expr(e.Cond)
	line := c.lineAt(e.If)
	elseJump := c.chunk.Emit(object.OpJumpIfFalse, line, 0)
	c.block(e.Then)
	endJump := c.chunk.Emit(object.OpJump, line, 0)

	c.chunk.PatchOperand(elseJump, len(c.chunk.Code))
	if e.Else != nil {
		c.expr(e.Else)
	} else {
		c.chunk.Emit(object.OpNull, line, 0)
	}
	c.chunk.PatchOperand(endJump, len(c.chunk.Code))
}

func (c *fcomp) loopExpr(e *ast.LoopExpr) {
	label := ""
	if e.Label != nil {
		label = e.Label.Name
	}
	start := len(c.chunk.Code)
	lf := c.pushLoop(label, start)

	c.block(e.Body)
	c.chunk.Emit(object.OpPop, c.lastLine(e.Body), 0) // discard each iteration's block value
	c.chunk.Emit(object.OpJump, c.lastLine(e.Body), start)

	end := len(c.chunk.Code)
	c.patchJumpsTo(lf.Breaks, end)
	c.popLoop()
	// break already pushed the loop's null result; a loop that runs to
	// completion without a reachable break never falls through to here
	// (it only exits via break), so no additional push is needed.
}

func (c *fcomp) whileExpr(e *ast.WhileExpr) {
	label := ""
	if e.Label != nil {
		label = e.Label.Name
	}
	start := len(c.chunk.Code)
	lf := c.pushLoop(label, start)

	c.expr(e.Cond)
	line := c.lineAt(e.While)
	exitJump := c.chunk.Emit(object.OpJumpIfFalse, line, 0)

	c.block(e.Body)
	c.chunk.Emit(object.OpPop, c.lastLine(e.Body), 0)
	c.chunk.Emit(object.OpJump, c.lastLine(e.Body), start)

	c.chunk.PatchOperand(exitJump, len(c.chunk.Code))
	c.chunk.Emit(object.OpNull, line, 0) // the condition-false exit value
	end := len(c.chunk.Code)
	c.patchJumpsTo(lf.Breaks, end)
	c.popLoop()
}
