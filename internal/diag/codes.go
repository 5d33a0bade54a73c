package diag

import "fmt"

// Code identifies a diagnostic category.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexBadEscape          Code = 1004

	// Syntactic
	SynUnexpectedToken   Code = 2001
	SynExpectExpression  Code = 2002
	SynUnclosedParen     Code = 2003
	SynUnclosedBrace     Code = 2004
	SynExpectIdentifier  Code = 2005
	SynExpectColon       Code = 2006
	SynDuplicateLabel    Code = 2007
	SynExpectAssign      Code = 2008
	SynTrailingGarbage   Code = 2009
	SynClosureBadParams  Code = 2010
	SynLabelAfterClosure Code = 2011

	// Call-site expansion
	ExpAmbiguousCondition   Code = 3001
	ExpUnresolvedCallSite   Code = 3002
	ExpNotACheckCall        Code = 3003
	ExpConditionUnsupported Code = 3004
)

func (c Code) String() string {
	return fmt.Sprintf("ATT%04d", uint16(c))
}
