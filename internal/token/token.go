package token

import (
	"attest/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, boolean, string, or
// nil literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, BoolLit, NilLit, KwTrue, KwFalse, KwNil:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// LeadingComments returns the text of the line comments immediately
// preceding the token, in source order, with comment markers stripped.
func (t Token) LeadingComments() []string {
	var out []string
	for _, tr := range t.Leading {
		if tr.Kind == TriviaLineComment {
			out = append(out, tr.CommentText())
		}
	}
	return out
}
