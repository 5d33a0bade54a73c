// Package parser turns a token stream into the attest script AST.
//
// The grammar is expression-oriented: a script is a sequence of `let`
// bindings and expression statements. Call sites may carry labeled
// arguments and Swift-style trailing closures; both matter to the
// call-site expansion downstream.
package parser

import (
	"attest/internal/ast"
	"attest/internal/diag"
	"attest/internal/lexer"
	"attest/internal/source"
	"attest/internal/token"
)

// Parser consumes tokens from a lexer with a small lookahead buffer.
type Parser struct {
	lx       *lexer.Lexer
	reporter diag.Reporter
	buf      []token.Token
}

// New creates a parser over the given file.
func New(file *source.File, reporter diag.Reporter) *Parser {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Parser{
		lx:       lexer.New(file, reporter),
		reporter: reporter,
	}
}

// peekN returns the token n positions ahead without consuming it.
func (p *Parser) peekN(n int) token.Token {
	for len(p.buf) <= n {
		p.buf = append(p.buf, p.lx.Next())
	}
	return p.buf[n]
}

func (p *Parser) peek() token.Token {
	return p.peekN(0)
}

func (p *Parser) advance() token.Token {
	tok := p.peekN(0)
	p.buf = p.buf[1:]
	return tok
}

// expect consumes a token of the given kind or reports a diagnostic.
func (p *Parser) expect(kind token.Kind, code diag.Code, msg string) (token.Token, bool) {
	tok := p.peek()
	if tok.Kind != kind {
		p.err(code, tok.Span, msg)
		return tok, false
	}
	return p.advance(), true
}

func (p *Parser) err(code diag.Code, span source.Span, msg string) {
	p.reporter.Report(code, diag.SevError, span, msg, nil)
}

// ParseScript parses the whole file. It returns the script and whether
// parsing completed without a syntax error; on failure the script holds
// the statements parsed so far.
func (p *Parser) ParseScript() (*ast.Script, bool) {
	script := &ast.Script{File: p.peek().Span.File}
	for {
		tok := p.peek()
		if tok.Kind == token.EOF {
			return script, true
		}

		stmt, ok := p.parseStmt()
		if !ok {
			return script, false
		}
		script.Stmts = append(script.Stmts, stmt)
	}
}

func (p *Parser) parseStmt() (ast.Stmt, bool) {
	tok := p.peek()
	if tok.Kind == token.KwLet {
		return p.parseLet()
	}

	leading := tok.LeadingComments()
	expr, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	return &ast.ExprStmt{
		Sp:              expr.Span(),
		Expr:            expr,
		LeadingComments: leading,
	}, true
}

func (p *Parser) parseLet() (ast.Stmt, bool) {
	letTok := p.advance()

	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected name after let")
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Assign, diag.SynExpectAssign, "expected = after let name"); !ok {
		return nil, false
	}
	value, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	return &ast.LetStmt{
		Sp:    letTok.Span.Cover(value.Span()),
		Name:  nameTok.Text,
		Value: value,
	}, true
}
