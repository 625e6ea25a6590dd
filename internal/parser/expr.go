package parser

import (
	"github.com/binoyjayan/p2sh/internal/ast"
	"github.com/binoyjayan/p2sh/internal/token"
)

// parseExpr parses a full expression, including the right-associative `=`
// assignment, which binds loosest of all operators (spec.md §6).
func (p *parser) parseExpr() ast.Expr {
	return p.parseAssignExpr()
}

func (p *parser) parseAssignExpr() ast.Expr {
	left := p.parseBinExpr(1)
	if pos, ok := p.accept(token.EQ); ok {
		if !ast.IsAssignable(left) {
			p.errorf(pos, "invalid assignment target")
		}
		right := p.parseAssignExpr()
		return &ast.AssignExpr{Left: left, Eq: pos, Right: right}
	}
	return left
}

// parseBinExpr implements precedence-climbing over the left-associative
// binary operator table in internal/token.
func (p *parser) parseBinExpr(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		lp, rp, ok := token.BinopPriority(p.tok)
		if !ok || lp < minPrec {
			return left
		}
		opTok, opPos := p.tok, p.pos()
		p.next()
		right := p.parseBinExpr(rp + 1)
		left = &ast.BinOpExpr{Left: left, Type: opTok, Op: opPos, Right: right}
	}
}

func (p *parser) parseUnary() ast.Expr {
	if p.tok.IsUnop() {
		opTok, opPos := p.tok, p.pos()
		p.next()
		operand := p.parseUnary()
		return &ast.UnaryOpExpr{Type: opTok, Op: opPos, Right: operand}
	}
	return p.parsePostfix()
}

// parsePostfix chains call/index/property expressions onto a primary,
// e.g. `f(x).y[0]`, left to right (spec.md §6: `[] . ()` bind tightest).
func (p *parser) parsePostfix() ast.Expr {
	e := p.parsePrimary()
	for {
		switch p.tok {
		case token.LPAREN:
			e = p.parseCall(e)
		case token.LBRACK:
			e = p.parseIndexExpr(e)
		case token.DOT:
			e = p.parseDotExpr(e)
		default:
			return e
		}
	}
}

func (p *parser) parseCall(fn ast.Expr) ast.Expr {
	lparen := p.expect(token.LPAREN)
	call := &ast.CallExpr{Fn: fn, Lparen: lparen}
	for p.tok != token.RPAREN && p.tok != token.EOF {
		call.Args = append(call.Args, p.parseExpr())
		if pos, ok := p.accept(token.COMMA); ok {
			call.Commas = append(call.Commas, pos)
			continue
		}
		break
	}
	call.Rparen = p.expect(token.RPAREN)
	return call
}

// parseIndexExpr allows an assignment as the index operand, so
// `a[i = i + 1]` parses (spec.md §9(iii)).
func (p *parser) parseIndexExpr(prefix ast.Expr) ast.Expr {
	lbrack := p.expect(token.LBRACK)
	idx := p.parseExpr()
	rbrack := p.expect(token.RBRACK)
	return &ast.IndexExpr{Prefix: prefix, Lbrack: lbrack, Index: idx, Rbrack: rbrack}
}

func (p *parser) parseDotExpr(left ast.Expr) ast.Expr {
	dot := p.expect(token.DOT)
	name := p.parseIdent()
	return &ast.DotExpr{Left: left, Dot: dot, Name: name}
}

func (p *parser) parsePrimary() ast.Expr {
	switch p.tok {
	case token.INT, token.FLOAT, token.CHAR, token.BYTE, token.STRING,
		token.TRUE, token.FALSE, token.NULL:
		return p.parseLiteral(p.tok)

	case token.UNDERSCORE:
		pos := p.pos()
		p.next()
		return &ast.WildcardExpr{Start: pos}

	case token.IDENT:
		if p.peek() == token.COLON {
			return p.parseLabeledExpr()
		}
		return p.parseIdentPrimary()

	case token.STDIN, token.STDOUT, token.STDERR:
		return p.parseIdentPrimary()

	case token.LPAREN:
		return p.parseParenExpr()

	case token.LBRACK:
		return p.parseArrayExpr()

	case token.MAP:
		return p.parseMapExpr()

	case token.FN:
		return p.parseFuncExpr()

	case token.IF:
		return p.parseIfExpr()

	case token.MATCH:
		return p.parseMatchExpr()

	case token.LOOP:
		return p.parseLoopExpr(nil)

	case token.WHILE:
		return p.parseWhileExpr(nil)

	case token.LBRACE:
		return &ast.BlockExpr{Block: p.parseBlock()}

	default:
		pos := p.pos()
		p.errorf(pos, "unexpected %#v", p.tok)
		p.syncToStmtBoundary()
		return &ast.BadExpr{Start: pos, End: p.pos()}
	}
}

func (p *parser) parseLiteral(tok token.Token) ast.Expr {
	pos, v := p.pos(), p.val
	p.next()
	lit := &ast.LiteralExpr{Type: tok, Start: pos, Raw: v.Raw}
	switch tok {
	case token.INT:
		lit.Value = v.Int
	case token.FLOAT:
		lit.Value = v.Float
	case token.CHAR:
		lit.Value = v.Char
	case token.BYTE:
		lit.Value = v.Byte
	case token.STRING:
		lit.Value = v.Str
	case token.TRUE:
		lit.Value = true
	case token.FALSE:
		lit.Value = false
	case token.NULL:
		lit.Value = nil
	}
	return lit
}

// parseIdentPrimary handles both plain identifiers and the stdin/stdout/
// stderr keywords, which name preopened file values (spec.md §6) but are
// otherwise ordinary identifier references resolved by internal/resolver.
func (p *parser) parseIdentPrimary() ast.Expr {
	pos, name := p.pos(), p.val.Raw
	p.next()
	return &ast.IdentExpr{Start: pos, Name: name}
}

// parseLabeledExpr handles `LABEL: loop {...}` / `LABEL: while C {...}`.
func (p *parser) parseLabeledExpr() ast.Expr {
	label := p.parseIdent()
	p.expect(token.COLON)
	switch p.tok {
	case token.LOOP:
		return p.parseLoopExpr(label)
	case token.WHILE:
		return p.parseWhileExpr(label)
	default:
		pos := p.pos()
		p.errorf(pos, "expected 'loop' or 'while' after label, found %#v", p.tok)
		return &ast.BadExpr{Start: label.Start, End: pos}
	}
}

func (p *parser) parseParenExpr() ast.Expr {
	lparen := p.expect(token.LPAREN)
	e := p.parseExpr()
	rparen := p.expect(token.RPAREN)
	return &ast.ParenExpr{Lparen: lparen, Expr: e, Rparen: rparen}
}

func (p *parser) parseArrayExpr() ast.Expr {
	lbrack := p.expect(token.LBRACK)
	arr := &ast.ArrayExpr{Lbrack: lbrack}
	for p.tok != token.RBRACK && p.tok != token.EOF {
		arr.Items = append(arr.Items, p.parseExpr())
		if pos, ok := p.accept(token.COMMA); ok {
			arr.Commas = append(arr.Commas, pos)
			continue
		}
		break
	}
	arr.Rbrack = p.expect(token.RBRACK)
	return arr
}

func (p *parser) parseMapExpr() ast.Expr {
	mapPos := p.expect(token.MAP)
	lbrace := p.expect(token.LBRACE)
	m := &ast.MapExpr{Map: mapPos, Lbrace: lbrace}
	for p.tok != token.RBRACE && p.tok != token.EOF {
		key := p.parseExpr()
		colon := p.expect(token.COLON)
		val := p.parseExpr()
		m.Items = append(m.Items, &ast.KeyVal{Key: key, Colon: colon, Value: val})
		if pos, ok := p.accept(token.COMMA); ok {
			m.Commas = append(m.Commas, pos)
			continue
		}
		break
	}
	m.Rbrace = p.expect(token.RBRACE)
	return m
}

func (p *parser) parseFuncExpr() ast.Expr {
	fnPos := p.expect(token.FN)
	sig := p.parseFuncSignature()
	body := p.parseBlock()
	return &ast.FuncExpr{Fn: fnPos, Sig: sig, Body: body}
}

func (p *parser) parseIfExpr() ast.Expr {
	ifPos := p.expect(token.IF)
	cond := p.parseExpr()
	then := p.parseBlock()
	var elseExpr ast.Expr
	if _, ok := p.accept(token.ELSE); ok {
		if p.tok == token.IF {
			elseExpr = p.parseIfExpr()
		} else {
			elseExpr = &ast.BlockExpr{Block: p.parseBlock()}
		}
	}
	return &ast.IfExpr{If: ifPos, Cond: cond, Then: then, Else: elseExpr}
}

func (p *parser) parseLoopExpr(label *ast.IdentExpr) ast.Expr {
	loopPos := p.expect(token.LOOP)
	body := p.parseBlock()
	return &ast.LoopExpr{Label: label, Loop: loopPos, Body: body}
}

func (p *parser) parseWhileExpr(label *ast.IdentExpr) ast.Expr {
	whilePos := p.expect(token.WHILE)
	cond := p.parseExpr()
	body := p.parseBlock()
	return &ast.WhileExpr{Label: label, While: whilePos, Cond: cond, Body: body}
}

func (p *parser) parseMatchExpr() ast.Expr {
	matchPos := p.expect(token.MATCH)
	subject := p.parseExpr()
	lbrace := p.expect(token.LBRACE)
	m := &ast.MatchExpr{Match: matchPos, Subject: subject, Lbrace: lbrace}
	for p.tok != token.RBRACE && p.tok != token.EOF {
		pattern := p.parsePattern()
		arrow := p.expect(token.ARROW)
		body := p.parseExpr()
		m.Arms = append(m.Arms, &ast.MatchArm{Pattern: pattern, Arrow: arrow, Body: body})
		if _, ok := p.accept(token.COMMA); ok {
			continue
		}
		break
	}
	m.Rbrace = p.expect(token.RBRACE)
	return m
}

// parsePattern parses a match arm pattern: alternation of ranges of
// literals/wildcards, per spec.md §4.B and §6.
func (p *parser) parsePattern() ast.Expr {
	first := p.parsePatternRange()
	if p.tok != token.PIPE {
		return first
	}
	alts := []ast.Expr{first}
	for {
		if _, ok := p.accept(token.PIPE); !ok {
			break
		}
		alts = append(alts, p.parsePatternRange())
	}
	return &ast.AltExpr{Alts: alts}
}

func (p *parser) parsePatternRange() ast.Expr {
	low := p.parsePatternOperand()
	switch p.tok {
	case token.DOTDOT:
		opPos := p.pos()
		p.next()
		return &ast.RangeExpr{Low: low, Op: opPos, High: p.parsePatternOperand()}
	case token.DOTDOTEQ:
		opPos := p.pos()
		p.next()
		return &ast.RangeExpr{Low: low, Op: opPos, High: p.parsePatternOperand(), Inclusive: true}
	default:
		return low
	}
}

// parsePatternOperand parses a pattern's atomic operand: a wildcard, a
// literal, or a unary-minus'd numeric literal (for ranges like `-5..=5`).
func (p *parser) parsePatternOperand() ast.Expr {
	switch p.tok {
	case token.UNDERSCORE:
		pos := p.pos()
		p.next()
		return &ast.WildcardExpr{Start: pos}
	case token.MINUS:
		opPos := p.pos()
		p.next()
		return &ast.UnaryOpExpr{Type: token.MINUS, Op: opPos, Right: p.parsePatternOperand()}
	case token.INT, token.FLOAT, token.CHAR, token.BYTE, token.STRING,
		token.TRUE, token.FALSE, token.NULL:
		return p.parseLiteral(p.tok)
	default:
		pos := p.pos()
		p.errorf(pos, "invalid match pattern, found %#v", p.tok)
		p.next()
		return &ast.BadExpr{Start: pos, End: p.pos()}
	}
}
