package lexer

import (
	"testing"

	"attest/internal/diag"
	"attest/internal/source"
	"attest/internal/token"
)

func lexAll(t *testing.T, input string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.at", []byte(input))
	bag := diag.NewBag(16)
	lx := New(fs.Get(id), diag.BagReporter{Bag: bag})

	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out, bag
		}
		if len(out) > 100 {
			t.Fatal("lexer did not reach EOF")
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexer_Kinds(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []token.Kind
	}{
		{
			name:  "call with comparison",
			input: `check(x == 1)`,
			expected: []token.Kind{
				token.Ident, token.LParen, token.Ident, token.EqEq,
				token.IntLit, token.RParen, token.EOF,
			},
		},
		{
			name:  "labeled argument",
			input: `check(x, sourceLocation: loc)`,
			expected: []token.Kind{
				token.Ident, token.LParen, token.Ident, token.Comma,
				token.Ident, token.Colon, token.Ident, token.RParen, token.EOF,
			},
		},
		{
			name:  "trailing closure",
			input: `require { f() }`,
			expected: []token.Kind{
				token.Ident, token.LBrace, token.Ident, token.LParen,
				token.RParen, token.RBrace, token.EOF,
			},
		},
		{
			name:  "let with float and operators",
			input: `let y = 1.5 <= x && !done`,
			expected: []token.Kind{
				token.KwLet, token.Ident, token.Assign, token.FloatLit,
				token.LtEq, token.Ident, token.AndAnd, token.Bang,
				token.Ident, token.EOF,
			},
		},
		{
			name:  "literals",
			input: `true false nil "s" 42`,
			expected: []token.Kind{
				token.BoolLit, token.BoolLit, token.NilLit,
				token.StringLit, token.IntLit, token.EOF,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, bag := lexAll(t, tt.input)
			if bag.HasErrors() {
				t.Fatalf("unexpected diagnostics: %+v", bag.Items())
			}
			got := kinds(toks)
			if len(got) != len(tt.expected) {
				t.Fatalf("kinds = %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token[%d] = %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLexer_LeadingComments(t *testing.T) {
	input := "// expected to hold\n// even on Tuesdays\ncheck(x)\n"
	toks, bag := lexAll(t, input)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}

	comments := toks[0].LeadingComments()
	want := []string{"expected to hold", "even on Tuesdays"}
	if len(comments) != len(want) {
		t.Fatalf("LeadingComments() = %v, want %v", comments, want)
	}
	for i := range want {
		if comments[i] != want[i] {
			t.Errorf("comment[%d] = %q, want %q", i, comments[i], want[i])
		}
	}
}

func TestLexer_StringEscapes(t *testing.T) {
	toks, bag := lexAll(t, `"a\n\"b\""`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if toks[0].Kind != token.StringLit {
		t.Fatalf("kind = %v, want StringLit", toks[0].Kind)
	}
	if toks[0].Text != "a\n\"b\"" {
		t.Errorf("decoded text = %q", toks[0].Text)
	}
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode diag.Code
	}{
		{"unterminated string", `"abc`, diag.LexUnterminatedString},
		{"unknown char", `check(x) @`, diag.LexUnknownChar},
		{"malformed number", `12abc`, diag.LexBadNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bag := lexAll(t, tt.input)
			if !bag.HasErrors() {
				t.Fatal("expected a diagnostic")
			}
			found := false
			for _, d := range bag.Items() {
				if d.Code == tt.wantCode {
					found = true
				}
			}
			if !found {
				t.Errorf("diagnostics %+v missing code %v", bag.Items(), tt.wantCode)
			}
		})
	}
}

func TestLexer_PeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.at", []byte("check(x)"))
	lx := New(fs.Get(id), nil)

	p1 := lx.Peek()
	p2 := lx.Peek()
	if p1.Kind != p2.Kind || p1.Text != p2.Text {
		t.Errorf("Peek() not stable: %+v vs %+v", p1, p2)
	}
	n := lx.Next()
	if n.Text != "check" {
		t.Errorf("Next() after Peek() = %q, want check", n.Text)
	}
}

func TestLexer_UnicodeIdentNFC(t *testing.T) {
	// "é" written as 'e' + combining acute must normalize to the
	// precomposed form.
	decomposed := "café"
	composed := "café"

	toks, bag := lexAll(t, decomposed)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if toks[0].Kind != token.Ident {
		t.Fatalf("kind = %v, want Ident", toks[0].Kind)
	}
	if toks[0].Text != composed {
		t.Errorf("ident text = %q, want %q", toks[0].Text, composed)
	}
}
