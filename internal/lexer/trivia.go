package lexer

import (
	"attest/internal/token"
)

// collectLeadingTrivia gathers the run of trivia before the next
// significant token:
//   - spaces and tabs coalesce into one TriviaSpace
//   - consecutive newlines coalesce into one TriviaNewline
//   - //... up to \n becomes TriviaLineComment
//
// Line comments matter downstream: the call-site expansion folds them
// into the expanded call's comments argument.
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		if b == ' ' || b == '\t' || b == '\r' {
			for {
				b2 := lx.cursor.Peek()
				if b2 != ' ' && b2 != '\t' && b2 != '\r' {
					break
				}
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaSpace,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			})
			continue
		}

		if b == '\n' {
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaNewline,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			})
			continue
		}

		if b == '/' {
			if lx.scanLineCommentIntoHold() {
				continue
			}
		}

		break
	}
}

func (lx *Lexer) scanLineCommentIntoHold() bool {
	start := lx.cursor.Mark()
	if !lx.cursor.Eat('/') {
		return false
	}
	if lx.cursor.Peek() != '/' {
		// Not a comment; rewind and let it scan as the '/' operator.
		lx.cursor.Reset(start)
		return false
	}
	lx.cursor.Bump()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: token.TriviaLineComment,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
	return true
}
