package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/binoyjayan/p2sh/internal/token"
)

func TestBlockLastExpr(t *testing.T) {
	tail := &ExprStmt{Expr: &IdentExpr{Name: "x"}}
	b := &Block{Stmts: []Stmt{tail}}
	assert.Equal(t, Expr(tail.Expr), b.LastExpr())

	tail.Semi = token.MakePos(1, 5)
	assert.Nil(t, b.LastExpr(), "a trailing semicolon discards the block's value")
}

func TestWalkVisitsChildren(t *testing.T) {
	call := &CallExpr{
		Fn:   &IdentExpr{Name: "f"},
		Args: []Expr{&IdentExpr{Name: "a"}, &IdentExpr{Name: "b"}},
	}
	var names []string
	Walk(VisitorFunc(func(n Node) bool {
		if id, ok := n.(*IdentExpr); ok {
			names = append(names, id.Name)
		}
		return true
	}), call)
	assert.Equal(t, []string{"f", "a", "b"}, names)
}

func TestIsAssignable(t *testing.T) {
	assert.True(t, IsAssignable(&IdentExpr{Name: "x"}))
	assert.True(t, IsAssignable(&IndexExpr{}))
	assert.True(t, IsAssignable(&DotExpr{}))
	assert.False(t, IsAssignable(&LiteralExpr{}))
	assert.True(t, IsAssignable(&ParenExpr{Expr: &IdentExpr{Name: "x"}}))
}
