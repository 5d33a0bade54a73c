package ast

import (
	"attest/internal/source"
)

// Stmt is a top-level script statement.
type Stmt interface {
	StmtSpan() source.Span
	isStmt()
}

// LetStmt binds a name for the rest of the script.
type LetStmt struct {
	Sp    source.Span
	Name  string
	Value Expr
}

// ExprStmt is an expression evaluated for effect, typically a check or
// require call. LeadingComments carries the line comments written
// directly above the statement.
type ExprStmt struct {
	Sp              source.Span
	Expr            Expr
	LeadingComments []string
}

func (s *LetStmt) StmtSpan() source.Span  { return s.Sp }
func (s *ExprStmt) StmtSpan() source.Span { return s.Sp }

func (*LetStmt) isStmt()  {}
func (*ExprStmt) isStmt() {}

// Script is one parsed file.
type Script struct {
	File  source.FileID
	Stmts []Stmt
}
