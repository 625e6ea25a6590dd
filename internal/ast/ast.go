// Package ast defines the abstract syntax tree produced by internal/parser
// and consumed by internal/resolver and internal/compiler. Node shapes and
// the Span()/Walk() conventions are grounded on github.com/mna/nenuphar's
// lang/ast package; pretty-printing (lang/ast/printer.go) is not carried
// over, since debug disassembly/AST formatting is explicitly out of scope
// per spec.md §1.
package ast

import "github.com/binoyjayan/p2sh/internal/token"

// Node is any node in the tree.
type Node interface {
	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)
	// Walk visits each child node, implementing the visitor pattern.
	Walk(v Visitor)
}

// Expr is an expression node. In p2sh, nearly everything is an expression:
// if/match/loop/while/assignment all produce a value.
type Expr interface {
	Node
	expr()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	// BlockEnding reports whether this statement may only appear last in a
	// block (return, break, continue).
	BlockEnding() bool
}

// Chunk is the root of a parsed program: a sequence of top-level
// statements plus the EOF position (useful for empty programs).
type Chunk struct {
	Block *Block
	EOF   token.Pos
}

func (n *Chunk) Span() (start, end token.Pos) {
	if n.Block != nil {
		return n.Block.Span()
	}
	return n.EOF, n.EOF
}
func (n *Chunk) Walk(v Visitor) {
	if n.Block != nil {
		Walk(v, n.Block)
	}
}

// Block is a brace-delimited sequence of statements. Per spec.md §4.B, a
// trailing expression statement without ';' becomes the block's value;
// otherwise the block evaluates to null.
type Block struct {
	Lbrace token.Pos // 0 for the implicit top-level chunk block
	Stmts  []Stmt
	Rbrace token.Pos
}

func (n *Block) Span() (start, end token.Pos) { return n.Lbrace, n.Rbrace }
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}

// LastExpr returns the trailing expression-without-semicolon of the block,
// i.e. the expression whose value the block evaluates to, or nil if the
// block has no such tail expression.
func (n *Block) LastExpr() Expr {
	if len(n.Stmts) == 0 {
		return nil
	}
	last, ok := n.Stmts[len(n.Stmts)-1].(*ExprStmt)
	if !ok || last.Semi.IsValid() {
		return nil
	}
	return last.Expr
}
