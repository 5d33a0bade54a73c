package ast

import (
	"strconv"
	"strings"
)

// Render converts an expression back into canonical source text. The
// expansion uses it both to capture the original condition text and to
// emit the expanded script.
func Render(e Expr) string {
	var sb strings.Builder
	renderExpr(&sb, e)
	return sb.String()
}

// RenderScript renders a whole script, one statement per line.
func RenderScript(s *Script) string {
	var sb strings.Builder
	for _, stmt := range s.Stmts {
		switch st := stmt.(type) {
		case *LetStmt:
			sb.WriteString("let ")
			sb.WriteString(st.Name)
			sb.WriteString(" = ")
			renderExpr(&sb, st.Value)
		case *ExprStmt:
			for _, c := range st.LeadingComments {
				sb.WriteString("// ")
				sb.WriteString(c)
				sb.WriteString("\n")
			}
			renderExpr(&sb, st.Expr)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderExpr(sb *strings.Builder, e Expr) {
	switch n := e.(type) {
	case *Ident:
		sb.WriteString(n.Name)

	case *Literal:
		if n.Kind == LitString {
			sb.WriteString(strconv.Quote(n.Value))
		} else {
			sb.WriteString(n.Value)
		}

	case *Unary:
		sb.WriteString(unaryOpText(n.Op))
		renderExpr(sb, n.Operand)

	case *Binary:
		renderExpr(sb, n.Left)
		sb.WriteString(" ")
		sb.WriteString(BinaryOpText(n.Op))
		sb.WriteString(" ")
		renderExpr(sb, n.Right)

	case *Group:
		sb.WriteString("(")
		renderExpr(sb, n.Inner)
		sb.WriteString(")")

	case *Member:
		renderExpr(sb, n.Target)
		sb.WriteString(".")
		sb.WriteString(n.Field)

	case *Call:
		renderExpr(sb, n.Callee)
		if len(n.Args) > 0 || len(n.Trailing) == 0 {
			sb.WriteString("(")
			for i, arg := range n.Args {
				if i > 0 {
					sb.WriteString(", ")
				}
				if arg.Label != "" {
					sb.WriteString(arg.Label)
					sb.WriteString(": ")
				}
				renderExpr(sb, arg.Value)
			}
			sb.WriteString(")")
		}
		for i, tc := range n.Trailing {
			sb.WriteString(" ")
			if i > 0 || tc.Label != "" {
				sb.WriteString(tc.Label)
				sb.WriteString(": ")
			}
			renderExpr(sb, tc.Body)
		}

	case *Closure:
		sb.WriteString("{ ")
		if len(n.Params) > 0 {
			sb.WriteString("(")
			sb.WriteString(strings.Join(n.Params, ", "))
			sb.WriteString(") in ")
		}
		renderExpr(sb, n.Body)
		sb.WriteString(" }")

	case *Array:
		sb.WriteString("[")
		for i, el := range n.Elements {
			if i > 0 {
				sb.WriteString(", ")
			}
			renderExpr(sb, el)
		}
		sb.WriteString("]")
	}
}

func unaryOpText(op UnaryOp) string {
	switch op {
	case UnaryNot:
		return "!"
	case UnaryNeg:
		return "-"
	}
	return "?"
}

// BinaryOpText returns the source spelling of an infix operator.
func BinaryOpText(op BinaryOp) string {
	switch op {
	case BinEq:
		return "=="
	case BinNotEq:
		return "!="
	case BinLt:
		return "<"
	case BinLtEq:
		return "<="
	case BinGt:
		return ">"
	case BinGtEq:
		return ">="
	case BinAdd:
		return "+"
	case BinSub:
		return "-"
	case BinMul:
		return "*"
	case BinDiv:
		return "/"
	case BinAnd:
		return "&&"
	case BinOr:
		return "||"
	}
	return "?"
}
