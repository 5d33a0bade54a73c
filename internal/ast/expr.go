// Package ast defines the expression tree for attest scripts.
//
// Nodes are immutable values: the call-site expansion builds new trees
// instead of mutating parsed ones, so a parsed script can be expanded
// any number of times and shared across goroutines freely.
package ast

import (
	"attest/internal/source"
)

// Expr is any expression node.
type Expr interface {
	Span() source.Span
	isExpr()
}

// LitKind classifies literal expressions.
type LitKind uint8

const (
	LitBool LitKind = iota
	LitInt
	LitFloat
	LitString
	LitNil
)

// Ident is a name reference.
type Ident struct {
	Sp   source.Span
	Name string
}

// Literal is a constant. Value holds the decoded text for strings and
// the source spelling for numbers and booleans.
type Literal struct {
	Sp    source.Span
	Kind  LitKind
	Value string
}

// UnaryOp is a prefix operator.
type UnaryOp uint8

const (
	UnaryNot UnaryOp = iota
	UnaryNeg
)

// Unary applies a prefix operator.
type Unary struct {
	Sp      source.Span
	Op      UnaryOp
	Operand Expr
}

// BinaryOp is an infix operator.
type BinaryOp uint8

const (
	BinEq BinaryOp = iota
	BinNotEq
	BinLt
	BinLtEq
	BinGt
	BinGtEq
	BinAdd
	BinSub
	BinMul
	BinDiv
	BinAnd
	BinOr
)

// Binary applies an infix operator.
type Binary struct {
	Sp    source.Span
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// Group is a parenthesized expression.
type Group struct {
	Sp    source.Span
	Inner Expr
}

// Member is a field or method access: Target.Field.
type Member struct {
	Sp     source.Span
	Target Expr
	Field  string
}

// Argument is one call argument. An empty Label means the argument is
// unlabeled; label equality is by identifier text.
type Argument struct {
	Label string
	Value Expr
}

// TrailingClosure is a closure written after the parenthesized argument
// list. The first one at a call site carries no written label.
type TrailingClosure struct {
	Label string
	Body  *Closure
}

// Call is a call site: declared arguments in source order plus any
// trailing closures.
type Call struct {
	Sp       source.Span
	Callee   Expr
	Args     []Argument
	Trailing []TrailingClosure
}

// Closure is an anonymous function: `{ expr }` or `{ (a, b) in expr }`.
type Closure struct {
	Sp     source.Span
	Params []string
	Body   Expr
}

// Array is an ordered literal sequence, used by the expansion to carry
// aggregated comments.
type Array struct {
	Sp       source.Span
	Elements []Expr
}

func (e *Ident) Span() source.Span   { return e.Sp }
func (e *Literal) Span() source.Span { return e.Sp }
func (e *Unary) Span() source.Span   { return e.Sp }
func (e *Binary) Span() source.Span  { return e.Sp }
func (e *Group) Span() source.Span   { return e.Sp }
func (e *Member) Span() source.Span  { return e.Sp }
func (e *Call) Span() source.Span    { return e.Sp }
func (e *Closure) Span() source.Span { return e.Sp }
func (e *Array) Span() source.Span   { return e.Sp }

func (*Ident) isExpr()   {}
func (*Literal) isExpr() {}
func (*Unary) isExpr()   {}
func (*Binary) isExpr()  {}
func (*Group) isExpr()   {}
func (*Member) isExpr()  {}
func (*Call) isExpr()    {}
func (*Closure) isExpr() {}
func (*Array) isExpr()   {}

// IsComparison reports whether the operator yields a boolean from two
// ordered or equatable operands.
func (op BinaryOp) IsComparison() bool {
	switch op {
	case BinEq, BinNotEq, BinLt, BinLtEq, BinGt, BinGtEq:
		return true
	default:
		return false
	}
}

// NewString builds a synthetic string literal.
func NewString(value string) *Literal {
	return &Literal{Kind: LitString, Value: value}
}

// NewBool builds a synthetic boolean literal.
func NewBool(value bool) *Literal {
	if value {
		return &Literal{Kind: LitBool, Value: "true"}
	}
	return &Literal{Kind: LitBool, Value: "false"}
}

// NewInt builds a synthetic integer literal from its source spelling.
func NewInt(spelling string) *Literal {
	return &Literal{Kind: LitInt, Value: spelling}
}
