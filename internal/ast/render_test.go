package ast

import (
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		expr     Expr
		expected string
	}{
		{
			name:     "identifier",
			expr:     &Ident{Name: "x"},
			expected: "x",
		},
		{
			name:     "string literal is quoted",
			expr:     NewString(`say "hi"`),
			expected: `"say \"hi\""`,
		},
		{
			name: "binary comparison",
			expr: &Binary{
				Op:    BinEq,
				Left:  &Ident{Name: "x"},
				Right: NewInt("1"),
			},
			expected: "x == 1",
		},
		{
			name: "unary and group",
			expr: &Unary{
				Op:      UnaryNot,
				Operand: &Group{Inner: &Binary{Op: BinOr, Left: &Ident{Name: "a"}, Right: &Ident{Name: "b"}}},
			},
			expected: "!(a || b)",
		},
		{
			name: "call with labeled args",
			expr: &Call{
				Callee: &Ident{Name: "check"},
				Args: []Argument{
					{Value: &Ident{Name: "cond"}},
					{Label: "sourceLocation", Value: &Ident{Name: "loc"}},
				},
			},
			expected: "check(cond, sourceLocation: loc)",
		},
		{
			name: "call with trailing closures",
			expr: &Call{
				Callee: &Ident{Name: "check"},
				Args:   []Argument{{Value: NewString("note")}},
				Trailing: []TrailingClosure{
					{Body: &Closure{Body: &Ident{Name: "work"}}},
					{Label: "onFailure", Body: &Closure{Body: &Ident{Name: "cleanup"}}},
				},
			},
			expected: `check("note") { work } onFailure: { cleanup }`,
		},
		{
			name: "closure with params",
			expr: &Closure{
				Params: []string{"a", "b"},
				Body:   &Binary{Op: BinLt, Left: &Ident{Name: "a"}, Right: &Ident{Name: "b"}},
			},
			expected: "{ (a, b) in a < b }",
		},
		{
			name: "member call with array argument",
			expr: &Call{
				Callee: &Member{Target: &Ident{Name: "result"}, Field: "__required"},
			},
			expected: "result.__required()",
		},
		{
			name:     "array of strings",
			expr:     &Array{Elements: []Expr{NewString("a"), NewString("b")}},
			expected: `["a", "b"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.expr); got != tt.expected {
				t.Errorf("Render() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRenderScript(t *testing.T) {
	s := &Script{
		Stmts: []Stmt{
			&LetStmt{Name: "x", Value: NewInt("1")},
			&ExprStmt{
				Expr:            &Call{Callee: &Ident{Name: "check"}, Args: []Argument{{Value: &Ident{Name: "x"}}}},
				LeadingComments: []string{"sanity"},
			},
		},
	}
	want := "let x = 1\n// sanity\ncheck(x)\n"
	if got := RenderScript(s); got != want {
		t.Errorf("RenderScript() = %q, want %q", got, want)
	}
}
