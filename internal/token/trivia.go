package token

import (
	"strings"

	"attest/internal/source"
)

// TriviaKind classifies non-semantic source text attached to a token.
type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
)

// Trivia is a run of whitespace or a comment preceding a token.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// CommentText returns the comment body without the leading marker and
// surrounding whitespace. Empty for non-comment trivia.
func (tr Trivia) CommentText() string {
	if tr.Kind != TriviaLineComment {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(tr.Text, "//"))
}
