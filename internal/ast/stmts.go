package ast

import "github.com/binoyjayan/p2sh/internal/token"

type (
	// LetStmt is `let NAME = EXPR ;`.
	LetStmt struct {
		Let   token.Pos
		Name  *IdentExpr
		Eq    token.Pos
		Value Expr
		Semi  token.Pos
	}

	// FnStmt is `fn NAME(params) BLOCK`, sugar for `let NAME = fn(params)
	// BLOCK` except the name is bound before the body is resolved, so the
	// function can recurse (spec.md §4.C).
	FnStmt struct {
		Fn   token.Pos
		Name *IdentExpr
		Sig  *FuncSignature
		Body *Block
	}

	// ExprStmt is an expression used as a statement. Semi.IsValid() means a
	// trailing ';' was present, discarding the expression's value;
	// otherwise, if this is the last statement in a block, the block
	// evaluates to the expression's value (spec.md §4.B).
	ExprStmt struct {
		Expr Expr
		Semi token.Pos
	}

	// ReturnStmt is `return EXPR? ;`.
	ReturnStmt struct {
		Return token.Pos
		Value  Expr // nil if bare `return;`
		Semi   token.Pos
	}

	// BreakStmt is `break LABEL? ;`.
	BreakStmt struct {
		Break token.Pos
		Label *IdentExpr
		Semi  token.Pos
	}

	// ContinueStmt is `continue LABEL? ;`.
	ContinueStmt struct {
		Continue token.Pos
		Label    *IdentExpr
		Semi     token.Pos
	}

	// FilterStmt is `@ PATTERN? BLOCK?`, at least one of Pattern/Body
	// present (spec.md §4.B). A bare-expression body with no braces is
	// normalized by the parser into a one-statement Body block
	// (spec.md §9(iv)).
	FilterStmt struct {
		At      token.Pos
		Pattern Expr
		Body    *Block
	}
)

func (n *LetStmt) Span() (start, end token.Pos) { return n.Let, n.Semi }
func (n *LetStmt) Walk(v Visitor) {
	Walk(v, n.Name)
	Walk(v, n.Value)
}
func (n *LetStmt) BlockEnding() bool { return false }

func (n *FnStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.Fn, end
}
func (n *FnStmt) Walk(v Visitor) {
	Walk(v, n.Name)
	for _, p := range n.Sig.Params {
		Walk(v, p)
	}
	Walk(v, n.Body)
}
func (n *FnStmt) BlockEnding() bool { return false }

func (n *ExprStmt) Span() (start, end token.Pos) {
	start, end = n.Expr.Span()
	if n.Semi.IsValid() {
		end = n.Semi + 1
	}
	return start, end
}
func (n *ExprStmt) Walk(v Visitor)    { Walk(v, n.Expr) }
func (n *ExprStmt) BlockEnding() bool { return false }

func (n *ReturnStmt) Span() (start, end token.Pos) { return n.Return, n.Semi }
func (n *ReturnStmt) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (n *ReturnStmt) BlockEnding() bool { return true }

func (n *BreakStmt) Span() (start, end token.Pos) { return n.Break, n.Semi }
func (n *BreakStmt) Walk(v Visitor) {
	if n.Label != nil {
		Walk(v, n.Label)
	}
}
func (n *BreakStmt) BlockEnding() bool { return true }

func (n *ContinueStmt) Span() (start, end token.Pos) { return n.Continue, n.Semi }
func (n *ContinueStmt) Walk(v Visitor) {
	if n.Label != nil {
		Walk(v, n.Label)
	}
}
func (n *ContinueStmt) BlockEnding() bool { return true }

func (n *FilterStmt) Span() (start, end token.Pos) {
	end = n.At + 1
	if n.Body != nil {
		_, end = n.Body.Span()
	} else if n.Pattern != nil {
		_, end = n.Pattern.Span()
	}
	return n.At, end
}
func (n *FilterStmt) Walk(v Visitor) {
	if n.Pattern != nil {
		Walk(v, n.Pattern)
	}
	if n.Body != nil {
		Walk(v, n.Body)
	}
}
func (n *FilterStmt) BlockEnding() bool { return false }
