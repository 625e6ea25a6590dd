package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binoyjayan/p2sh/internal/ast"
	"github.com/binoyjayan/p2sh/internal/diag"
)

func mustParse(t *testing.T, src string) *ast.Chunk {
	t.Helper()
	chunk, err := Parse([]byte(src))
	require.NoError(t, err)
	return chunk
}

func TestParsePrecedence(t *testing.T) {
	chunk := mustParse(t, `a * b + c;`)
	stmt := chunk.Block.Stmts[0].(*ast.ExprStmt)
	top := stmt.Expr.(*ast.BinOpExpr)
	require.Equal(t, "+", top.Type.String())
	left := top.Left.(*ast.BinOpExpr)
	assert.Equal(t, "*", left.Type.String())
}

func TestParseAssignmentIsRightAssocExpression(t *testing.T) {
	chunk := mustParse(t, `a = b = c;`)
	stmt := chunk.Block.Stmts[0].(*ast.ExprStmt)
	top := stmt.Expr.(*ast.AssignExpr)
	assert.Equal(t, "a", top.Left.(*ast.IdentExpr).Name)
	inner := top.Right.(*ast.AssignExpr)
	assert.Equal(t, "b", inner.Left.(*ast.IdentExpr).Name)
}

func TestParseLetAndFn(t *testing.T) {
	chunk := mustParse(t, `
		let add = fn(a, b) { a + b };
		fn mk(x) { fn() { x } }
	`)
	require.Len(t, chunk.Block.Stmts, 2)
	let := chunk.Block.Stmts[0].(*ast.LetStmt)
	assert.Equal(t, "add", let.Name.Name)
	_, ok := let.Value.(*ast.FuncExpr)
	assert.True(t, ok)

	fn := chunk.Block.Stmts[1].(*ast.FnStmt)
	assert.Equal(t, "mk", fn.Name.Name)
	assert.Equal(t, "x", fn.Sig.Params[0].Name)
}

func TestParseIfElseChain(t *testing.T) {
	chunk := mustParse(t, `if a { 1 } else if b { 2 } else { 3 };`)
	stmt := chunk.Block.Stmts[0].(*ast.ExprStmt)
	ifExpr := stmt.Expr.(*ast.IfExpr)
	elseIf, ok := ifExpr.Else.(*ast.IfExpr)
	require.True(t, ok)
	_, ok = elseIf.Else.(*ast.BlockExpr)
	assert.True(t, ok)
}

func TestParseWhileAssignmentCondition(t *testing.T) {
	// while p = read(...) { ... } relies on assignment being an expression
	// admissible as a while condition (spec.md §9(ii)).
	chunk := mustParse(t, `while p = read() { puts(p); }`)
	stmt := chunk.Block.Stmts[0].(*ast.ExprStmt)
	while := stmt.Expr.(*ast.WhileExpr)
	_, ok := while.Cond.(*ast.AssignExpr)
	assert.True(t, ok)
}

func TestParseAssignmentInIndexOperand(t *testing.T) {
	// a[i = i + 1] requires assignment to be admissible as an index operand
	// (spec.md §9(iii)).
	chunk := mustParse(t, `a[i = i + 1];`)
	stmt := chunk.Block.Stmts[0].(*ast.ExprStmt)
	idx := stmt.Expr.(*ast.IndexExpr)
	_, ok := idx.Index.(*ast.AssignExpr)
	assert.True(t, ok)
}

func TestParseLabeledLoopAndBreak(t *testing.T) {
	chunk := mustParse(t, `outer: loop { break outer; }`)
	stmt := chunk.Block.Stmts[0].(*ast.ExprStmt)
	loop := stmt.Expr.(*ast.LoopExpr)
	require.NotNil(t, loop.Label)
	assert.Equal(t, "outer", loop.Label.Name)

	brk := loop.Body.Stmts[0].(*ast.BreakStmt)
	require.NotNil(t, brk.Label)
	assert.Equal(t, "outer", brk.Label.Name)
}

func TestParseMatchWithRangesAndAlternation(t *testing.T) {
	chunk := mustParse(t, `
		let r = match 7 {
			1..=5 => "low",
			6..=10 | 11 => "mid",
			_ => "hi",
		};
	`)
	let := chunk.Block.Stmts[0].(*ast.LetStmt)
	m := let.Value.(*ast.MatchExpr)
	require.Len(t, m.Arms, 3)

	rng, ok := m.Arms[0].Pattern.(*ast.RangeExpr)
	require.True(t, ok)
	assert.True(t, rng.Inclusive)

	alt, ok := m.Arms[1].Pattern.(*ast.AltExpr)
	require.True(t, ok)
	assert.Len(t, alt.Alts, 2)

	_, ok = m.Arms[2].Pattern.(*ast.WildcardExpr)
	assert.True(t, ok)
}

func TestParseFilterStatementBareBody(t *testing.T) {
	chunk := mustParse(t, `@ PL <= 64 true`)
	filter := chunk.Block.Stmts[0].(*ast.FilterStmt)
	require.NotNil(t, filter.Pattern)
	require.NotNil(t, filter.Body)
	require.Len(t, filter.Body.Stmts, 1)
	exprStmt := filter.Body.Stmts[0].(*ast.ExprStmt)
	lit := exprStmt.Expr.(*ast.LiteralExpr)
	assert.Equal(t, true, lit.Value)
}

func TestParseFilterStatementBlockBodyOnly(t *testing.T) {
	chunk := mustParse(t, `@ { emit(); }`)
	filter := chunk.Block.Stmts[0].(*ast.FilterStmt)
	assert.Nil(t, filter.Pattern)
	require.NotNil(t, filter.Body)
}

func TestParseTrailingSemicolonDiscardsBlockValue(t *testing.T) {
	chunk := mustParse(t, `{ 1; 2; }`)
	blockExprStmt := chunk.Block.Stmts[0].(*ast.ExprStmt)
	block := blockExprStmt.Expr.(*ast.BlockExpr).Block
	assert.Nil(t, block.LastExpr())

	chunk2 := mustParse(t, `{ 1; 2 }`)
	blockExprStmt2 := chunk2.Block.Stmts[0].(*ast.ExprStmt)
	block2 := blockExprStmt2.Expr.(*ast.BlockExpr).Block
	assert.NotNil(t, block2.LastExpr())
}

func TestParseArrayAndMapLiterals(t *testing.T) {
	chunk := mustParse(t, `let a = [1, 2, 3]; let m = map { "a": 1, "b": 2 };`)
	letA := chunk.Block.Stmts[0].(*ast.LetStmt)
	arr := letA.Value.(*ast.ArrayExpr)
	assert.Len(t, arr.Items, 3)

	letM := chunk.Block.Stmts[1].(*ast.LetStmt)
	m := letM.Value.(*ast.MapExpr)
	assert.Len(t, m.Items, 2)
}

func TestParseErrorRecoverySurfacesMultipleDiagnostics(t *testing.T) {
	_, err := Parse([]byte(`let = ; let x = 1;`))
	require.Error(t, err)
	var diags diag.List
	require.ErrorAs(t, err, &diags)
	assert.Greater(t, len(diags), 1)
}

func TestParseExprEntryPoint(t *testing.T) {
	e, err := ParseExpr([]byte(`1 + 2 * 3`))
	require.NoError(t, err)
	top := e.(*ast.BinOpExpr)
	assert.Equal(t, "+", top.Type.String())
}
