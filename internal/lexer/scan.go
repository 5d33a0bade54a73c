package lexer

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"attest/internal/diag"
	"attest/internal/token"
)

// scanIdentOrKeyword scans an identifier or keyword. Non-ASCII
// identifiers are NFC-normalized so that visually identical spellings
// compare equal.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	sawUnicode := false
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isIdentContinueByte(b) {
			lx.cursor.Bump()
			continue
		}
		if b >= utf8RuneSelf {
			sawUnicode = true
			lx.cursor.Bump()
			continue
		}
		break
	}
	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	if sawUnicode {
		text = norm.NFC.String(text)
	}

	kind := token.LookupKeyword(text)
	switch kind {
	case token.KwTrue, token.KwFalse:
		return token.Token{Kind: token.BoolLit, Span: sp, Text: text}
	case token.KwNil:
		return token.Token{Kind: token.NilLit, Span: sp, Text: text}
	}
	return token.Token{Kind: kind, Span: sp, Text: text}
}

func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		kind = token.FloatLit
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])

	// A number immediately followed by an identifier byte is malformed.
	if isIdentStartByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp = lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "malformed numeric literal")
		return token.Token{Kind: token.Error, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	return token.Token{Kind: kind, Span: sp, Text: text}
}

func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote

	var sb strings.Builder
	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
			return token.Token{Kind: token.Error, Span: sp, Text: sb.String()}
		}
		b := lx.cursor.Bump()
		if b == '"' {
			break
		}
		if b == '\\' {
			esc := lx.cursor.Bump()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			default:
				sp := lx.cursor.SpanFrom(start)
				lx.errLex(diag.LexBadEscape, sp, "unknown escape sequence")
				sb.WriteByte(esc)
			}
			continue
		}
		sb.WriteByte(b)
	}

	sp := lx.cursor.SpanFrom(start)
	// Text carries the decoded value; the span still covers the quotes.
	return token.Token{Kind: token.StringLit, Span: sp, Text: sb.String()}
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()

	kind := token.Error
	switch b {
	case '+':
		kind = token.Plus
	case '-':
		kind = token.Minus
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case ',':
		kind = token.Comma
	case ':':
		kind = token.Colon
	case '.':
		kind = token.Dot
	case '!':
		kind = token.Bang
		if lx.cursor.Eat('=') {
			kind = token.BangEq
		}
	case '=':
		kind = token.Assign
		if lx.cursor.Eat('=') {
			kind = token.EqEq
		}
	case '<':
		kind = token.Lt
		if lx.cursor.Eat('=') {
			kind = token.LtEq
		}
	case '>':
		kind = token.Gt
		if lx.cursor.Eat('=') {
			kind = token.GtEq
		}
	case '&':
		if lx.cursor.Eat('&') {
			kind = token.AndAnd
		}
	case '|':
		if lx.cursor.Eat('|') {
			kind = token.OrOr
		}
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	if kind == token.Error {
		lx.errLex(diag.LexUnknownChar, sp, "unknown character")
	}
	return token.Token{Kind: kind, Span: sp, Text: text}
}
