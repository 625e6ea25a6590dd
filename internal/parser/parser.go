// Package parser implements a Pratt (precedence-climbing) parser that
// turns a token stream into an internal/ast tree. Grounded on
// github.com/mna/nenuphar's lang/parser package: a single parser struct
// holding one token of lookahead, an expect/advance pair, and statement
// dispatch by leading token (lang/parser/parser.go, stmt.go); precedence
// climbing for expressions (lang/parser/expr.go binopPriority table).
package parser

import (
	"fmt"

	"github.com/binoyjayan/p2sh/internal/ast"
	"github.com/binoyjayan/p2sh/internal/diag"
	"github.com/binoyjayan/p2sh/internal/scanner"
	"github.com/binoyjayan/p2sh/internal/token"
)

type parser struct {
	sc   scanner.Scanner
	tok  token.Token
	val  token.Value
	errs diag.List

	peeked  bool
	peekTok token.Token
	peekVal token.Value
}

// Parse parses a full p2sh source buffer into a Chunk. It always returns a
// (possibly partial) Chunk; err is non-nil if any lex or parse errors were
// collected, in which case the caller should not proceed to resolve or
// compile the result (spec.md §7: lex/parse/compile errors abort before
// execution).
func Parse(src []byte) (*ast.Chunk, error) {
	var p parser
	p.sc.Init(src, func(pos token.Pos, msg string) {
		p.errs.Add(diag.Lex, pos, msg)
	})
	p.next()

	block := p.parseBlockStmts(token.EOF)
	eof := p.val.Pos

	p.errs.Sort()
	return &ast.Chunk{Block: block, EOF: eof}, p.errs.Err()
}

// ParseExpr parses a single expression. The `-c EXPR` and REPL entry
// points do not use it; they parse whole programs with Parse.
func ParseExpr(src []byte) (ast.Expr, error) {
	var p parser
	p.sc.Init(src, func(pos token.Pos, msg string) {
		p.errs.Add(diag.Lex, pos, msg)
	})
	p.next()
	e := p.parseExpr()
	p.errs.Sort()
	return e, p.errs.Err()
}

func (p *parser) next() {
	if p.peeked {
		p.tok, p.val = p.peekTok, p.peekVal
		p.peeked = false
		return
	}
	p.tok = p.sc.Scan(&p.val)
}

// peek returns the token following the current one without consuming it,
// used only to disambiguate a leading loop/while label (IDENT ':') from an
// ordinary expression statement (spec.md §4.B).
func (p *parser) peek() token.Token {
	if !p.peeked {
		p.peekTok = p.sc.Scan(&p.peekVal)
		p.peeked = true
	}
	return p.peekTok
}

func (p *parser) pos() token.Pos { return p.val.Pos }

func (p *parser) errorf(pos token.Pos, format string, args ...any) {
	p.errs.Add(diag.Parse, pos, fmt.Sprintf(format, args...))
}

// expect consumes the current token if it matches tok, recording a
// diagnostic and leaving the cursor unmoved otherwise (so callers can
// recover and keep parsing, surfacing more than one error per run per
// spec.md §4.B).
func (p *parser) expect(tok token.Token) token.Pos {
	pos := p.pos()
	if p.tok != tok {
		p.errorf(pos, "expected %#v, found %#v", tok, p.tok)
		return pos
	}
	p.next()
	return pos
}

func (p *parser) accept(tok token.Token) (token.Pos, bool) {
	if p.tok == tok {
		pos := p.pos()
		p.next()
		return pos, true
	}
	return 0, false
}

// syncToStmtBoundary skips tokens until a plausible statement boundary
// (';', '}' or EOF) so a bad production doesn't cascade into spurious
// follow-on errors.
func (p *parser) syncToStmtBoundary() {
	for p.tok != token.SEMI && p.tok != token.RBRACE && p.tok != token.EOF {
		p.next()
	}
	if p.tok == token.SEMI {
		p.next()
	}
}
