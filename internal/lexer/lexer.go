package lexer

import (
	"attest/internal/diag"
	"attest/internal/source"
	"attest/internal/token"
)

const utf8RuneSelf = 0x80

// Lexer scans one script file into significant tokens with leading trivia.
type Lexer struct {
	file     *source.File
	cursor   Cursor
	reporter diag.Reporter
	look     *token.Token   // one-token lookahead buffer
	hold     []token.Trivia // accumulated leading trivia
}

func New(file *source.File, reporter diag.Reporter) *Lexer {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Lexer{
		file:     file,
		cursor:   NewCursor(file),
		reporter: reporter,
	}
}

// Next returns the next significant token with its Leading trivia already
// collected. After EOF it always returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.emptySpan(),
			Text: "",
		}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		tok = lx.scanIdentOrKeyword()

	case isDec(ch):
		tok = lx.scanNumber()

	case ch == '"':
		tok = lx.scanString()

	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Leading = lx.hold
	lx.hold = nil
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{
		File:  lx.file.ID,
		Start: lx.cursor.Off,
		End:   lx.cursor.Off,
	}
}

func (lx *Lexer) errLex(code diag.Code, span source.Span, msg string) {
	lx.reporter.Report(code, diag.SevError, span, msg, nil)
}

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func isDec(b byte) bool {
	return b >= '0' && b <= '9'
}
