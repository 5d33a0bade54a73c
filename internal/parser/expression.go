package parser

import (
	"attest/internal/ast"
	"attest/internal/diag"
	"attest/internal/source"
	"attest/internal/token"
)

// parseExpr is the entry point for expression parsing.
func (p *Parser) parseExpr() (ast.Expr, bool) {
	return p.parseBinaryExpr(0)
}

// parseBinaryExpr implements Pratt parsing for infix operators.
// minPrec is the minimum precedence accepted at this level.
func (p *Parser) parseBinaryExpr(minPrec int) (ast.Expr, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return nil, false
	}

	for {
		tok := p.peek()
		op, prec, isOp := binaryOperator(tok.Kind)
		if !isOp || prec < minPrec {
			break
		}

		p.advance()

		right, ok := p.parseBinaryExpr(prec + 1)
		if !ok {
			p.err(diag.SynExpectExpression, tok.Span, "expected expression after binary operator")
			return nil, false
		}

		left = &ast.Binary{
			Sp:    left.Span().Cover(right.Span()),
			Op:    op,
			Left:  left,
			Right: right,
		}
	}

	return left, true
}

func binaryOperator(kind token.Kind) (ast.BinaryOp, int, bool) {
	switch kind {
	case token.OrOr:
		return ast.BinOr, 1, true
	case token.AndAnd:
		return ast.BinAnd, 2, true
	case token.EqEq:
		return ast.BinEq, 3, true
	case token.BangEq:
		return ast.BinNotEq, 3, true
	case token.Lt:
		return ast.BinLt, 3, true
	case token.LtEq:
		return ast.BinLtEq, 3, true
	case token.Gt:
		return ast.BinGt, 3, true
	case token.GtEq:
		return ast.BinGtEq, 3, true
	case token.Plus:
		return ast.BinAdd, 4, true
	case token.Minus:
		return ast.BinSub, 4, true
	case token.Star:
		return ast.BinMul, 5, true
	case token.Slash:
		return ast.BinDiv, 5, true
	default:
		return 0, 0, false
	}
}

func (p *Parser) parseUnaryExpr() (ast.Expr, bool) {
	type prefixOp struct {
		op   ast.UnaryOp
		span source.Span
	}

	var prefixes []prefixOp
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.Bang:
			p.advance()
			prefixes = append(prefixes, prefixOp{op: ast.UnaryNot, span: tok.Span})
		case token.Minus:
			p.advance()
			prefixes = append(prefixes, prefixOp{op: ast.UnaryNeg, span: tok.Span})
		default:
			expr, ok := p.parsePostfixExpr()
			if !ok {
				return nil, false
			}
			// Apply prefixes right to left.
			for i := len(prefixes) - 1; i >= 0; i-- {
				expr = &ast.Unary{
					Sp:      prefixes[i].span.Cover(expr.Span()),
					Op:      prefixes[i].op,
					Operand: expr,
				}
			}
			return expr, true
		}
	}
}

func (p *Parser) parsePostfixExpr() (ast.Expr, bool) {
	expr, ok := p.parsePrimaryExpr()
	if !ok {
		return nil, false
	}

	for {
		switch p.peek().Kind {
		case token.LParen:
			newExpr, ok := p.parseCallExpr(expr)
			if !ok {
				return nil, false
			}
			expr = newExpr

		case token.Dot:
			p.advance()
			field, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected field name after .")
			if !ok {
				return nil, false
			}
			expr = &ast.Member{
				Sp:     expr.Span().Cover(field.Span),
				Target: expr,
				Field:  field.Text,
			}

		case token.LBrace:
			// A bare closure directly after a primary is the first
			// trailing closure of a call without parentheses:
			// `require { f() }` means `require() { f() }`.
			newExpr, ok := p.attachTrailingClosures(&ast.Call{
				Sp:     expr.Span(),
				Callee: expr,
			})
			if !ok {
				return nil, false
			}
			expr = newExpr

		default:
			return expr, true
		}
	}
}

func (p *Parser) parsePrimaryExpr() (ast.Expr, bool) {
	tok := p.peek()

	switch tok.Kind {
	case token.Ident:
		p.advance()
		return &ast.Ident{Sp: tok.Span, Name: tok.Text}, true

	case token.IntLit:
		p.advance()
		return &ast.Literal{Sp: tok.Span, Kind: ast.LitInt, Value: tok.Text}, true

	case token.FloatLit:
		p.advance()
		return &ast.Literal{Sp: tok.Span, Kind: ast.LitFloat, Value: tok.Text}, true

	case token.StringLit:
		p.advance()
		return &ast.Literal{Sp: tok.Span, Kind: ast.LitString, Value: tok.Text}, true

	case token.BoolLit:
		p.advance()
		return &ast.Literal{Sp: tok.Span, Kind: ast.LitBool, Value: tok.Text}, true

	case token.NilLit:
		p.advance()
		return &ast.Literal{Sp: tok.Span, Kind: ast.LitNil, Value: tok.Text}, true

	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		closing, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected )")
		if !ok {
			return nil, false
		}
		return &ast.Group{Sp: tok.Span.Cover(closing.Span), Inner: inner}, true

	case token.LBracket:
		return p.parseArrayExpr()

	case token.LBrace:
		return p.parseClosureExpr()

	default:
		p.err(diag.SynExpectExpression, tok.Span, "expected expression")
		return nil, false
	}
}

func (p *Parser) parseArrayExpr() (ast.Expr, bool) {
	open := p.advance()
	arr := &ast.Array{}

	for {
		if p.peek().Kind == token.RBracket {
			closing := p.advance()
			arr.Sp = open.Span.Cover(closing.Span)
			return arr, true
		}
		el, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		arr.Elements = append(arr.Elements, el)

		if p.peek().Kind == token.Comma {
			p.advance()
			continue
		}
		closing, ok := p.expect(token.RBracket, diag.SynUnexpectedToken, "expected , or ]")
		if !ok {
			return nil, false
		}
		arr.Sp = open.Span.Cover(closing.Span)
		return arr, true
	}
}

// parseClosureExpr parses `{ expr }` or `{ (a, b) in expr }`.
func (p *Parser) parseClosureExpr() (ast.Expr, bool) {
	open := p.advance()
	closure := &ast.Closure{}

	if params, ok := p.tryParseClosureParams(); ok {
		closure.Params = params
	}

	body, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	closure.Body = body

	closing, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected } to close closure")
	if !ok {
		return nil, false
	}
	closure.Sp = open.Span.Cover(closing.Span)
	return closure, true
}

// tryParseClosureParams consumes `(a, b) in` when, and only when, the
// lookahead matches that exact shape; otherwise it consumes nothing and
// the parenthesis parses as a grouped body.
func (p *Parser) tryParseClosureParams() ([]string, bool) {
	if p.peek().Kind != token.LParen {
		return nil, false
	}

	// Scan ahead: LParen (Ident (Comma Ident)*)? RParen KwIn.
	i := 1
	for {
		if p.peekN(i).Kind != token.Ident {
			break
		}
		i++
		if p.peekN(i).Kind != token.Comma {
			break
		}
		i++
	}
	if p.peekN(i).Kind != token.RParen || p.peekN(i+1).Kind != token.KwIn {
		return nil, false
	}

	p.advance() // (
	var params []string
	for p.peek().Kind == token.Ident {
		params = append(params, p.advance().Text)
		if p.peek().Kind == token.Comma {
			p.advance()
		}
	}
	p.advance() // )
	p.advance() // in
	return params, true
}
