package token

// Kind identifies the lexical class of a token.
type Kind uint8

const (
	EOF Kind = iota
	Error

	// Identifiers and literals
	Ident
	IntLit
	FloatLit
	StringLit
	BoolLit
	NilLit

	// Operators
	Plus
	Minus
	Star
	Slash
	Bang
	Assign
	EqEq
	BangEq
	Lt
	LtEq
	Gt
	GtEq
	AndAnd
	OrOr

	// Punctuation
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Colon
	Dot

	// Keywords
	KwLet
	KwTrue
	KwFalse
	KwNil
	KwIn
)

var kindNames = map[Kind]string{
	EOF:       "EOF",
	Error:     "Error",
	Ident:     "Ident",
	IntLit:    "IntLit",
	FloatLit:  "FloatLit",
	StringLit: "StringLit",
	BoolLit:   "BoolLit",
	NilLit:    "NilLit",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Bang:      "!",
	Assign:    "=",
	EqEq:      "==",
	BangEq:    "!=",
	Lt:        "<",
	LtEq:      "<=",
	Gt:        ">",
	GtEq:      ">=",
	AndAnd:    "&&",
	OrOr:      "||",
	LParen:    "(",
	RParen:    ")",
	LBrace:    "{",
	RBrace:    "}",
	LBracket:  "[",
	RBracket:  "]",
	Comma:     ",",
	Colon:     ":",
	Dot:       ".",
	KwLet:     "let",
	KwTrue:    "true",
	KwFalse:   "false",
	KwNil:     "nil",
	KwIn:      "in",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}
