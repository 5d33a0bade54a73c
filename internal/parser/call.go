package parser

import (
	"attest/internal/ast"
	"attest/internal/diag"
	"attest/internal/token"
)

// parseCallExpr parses `callee(args...)` plus any trailing closures.
func (p *Parser) parseCallExpr(callee ast.Expr) (ast.Expr, bool) {
	open := p.advance() // (

	call := &ast.Call{
		Sp:     callee.Span().Cover(open.Span),
		Callee: callee,
	}

	for {
		if p.peek().Kind == token.RParen {
			closing := p.advance()
			call.Sp = call.Sp.Cover(closing.Span)
			break
		}

		arg, ok := p.parseCallArg()
		if !ok {
			return nil, false
		}
		call.Args = append(call.Args, arg)

		switch p.peek().Kind {
		case token.Comma:
			p.advance()
		case token.RParen:
			// closes on the next iteration
		default:
			p.err(diag.SynUnclosedParen, p.peek().Span, "expected , or ) in argument list")
			return nil, false
		}
	}

	return p.attachTrailingClosures(call)
}

// parseCallArg parses one argument: `expr` or `label: expr`.
func (p *Parser) parseCallArg() (ast.Argument, bool) {
	if p.peek().Kind == token.Ident && p.peekN(1).Kind == token.Colon {
		label := p.advance()
		p.advance() // :
		value, ok := p.parseExpr()
		if !ok {
			return ast.Argument{}, false
		}
		return ast.Argument{Label: label.Text, Value: value}, true
	}

	value, ok := p.parseExpr()
	if !ok {
		return ast.Argument{}, false
	}
	return ast.Argument{Value: value}, true
}

// attachTrailingClosures parses the optional trailing-closure suffix:
// an unlabeled closure, then any number of `label: { ... }` closures.
// The parse is greedy, like the language this grammar borrows the
// feature from: a `{` right after a call always binds to that call.
func (p *Parser) attachTrailingClosures(call *ast.Call) (ast.Expr, bool) {
	if p.peek().Kind == token.LBrace {
		body, ok := p.parseClosureExpr()
		if !ok {
			return nil, false
		}
		closure := body.(*ast.Closure)
		call.Trailing = append(call.Trailing, ast.TrailingClosure{Body: closure})
		call.Sp = call.Sp.Cover(closure.Sp)
	}

	for p.peek().Kind == token.Ident &&
		p.peekN(1).Kind == token.Colon &&
		p.peekN(2).Kind == token.LBrace {
		label := p.advance()
		p.advance() // :
		body, ok := p.parseClosureExpr()
		if !ok {
			return nil, false
		}
		closure := body.(*ast.Closure)
		call.Trailing = append(call.Trailing, ast.TrailingClosure{Label: label.Text, Body: closure})
		call.Sp = call.Sp.Cover(closure.Sp)
	}

	return call, true
}
