package expand

import (
	"errors"

	"attest/internal/ast"
	"attest/internal/source"
)

// CallSiteContext describes the call site being expanded.
type CallSiteContext struct {
	FileSet *source.FileSet
	Span    source.Span
	// LeadingComments are the line comments written directly above the
	// call site, already extracted by the parser.
	LeadingComments []string
}

// Location resolves the call site's own position.
func (c CallSiteContext) Location() source.Location {
	return c.FileSet.Locate(c.Span)
}

// CapturedCondition is the condition parser's output: the
// sub-expressions the expanded call needs, a literal capturing the
// original source text, and the runtime entry point to target.
type CapturedCondition struct {
	Arguments  []ast.Argument
	SourceCode ast.Expr
	EntryPoint string
}

// ConditionParserFunc turns the condition (or trailing closure) of a
// call site into a CapturedCondition.
type ConditionParserFunc func(expr ast.Expr, site CallSiteContext) (CapturedCondition, error)

// ErrAmbiguousCondition reports a call site whose first argument and
// trailing closure cannot be told apart.
var ErrAmbiguousCondition = errors.New("cannot disambiguate condition from trailing closure")

// ParseCondition is the default condition parser. Different condition
// shapes request different specialized entry points so the runtime can
// produce richer diagnostics:
//
//   - a comparison `a OP b` splits into both operands plus the operator
//     and targets the binary entry point;
//   - a closure targets the closure-call entry point;
//   - anything else is captured whole and targets the value entry point.
func ParseCondition(expr ast.Expr, site CallSiteContext) (CapturedCondition, error) {
	captured := CapturedCondition{
		SourceCode: ast.NewString(ast.Render(expr)),
	}

	switch n := expr.(type) {
	case *ast.Binary:
		if n.Op.IsComparison() {
			captured.Arguments = []ast.Argument{
				{Value: n.Left},
				{Value: n.Right},
				{Label: "op", Value: ast.NewString(ast.BinaryOpText(n.Op))},
			}
			captured.EntryPoint = EntryCheckBinary
			return captured, nil
		}

	case *ast.Closure:
		captured.EntryPoint = EntryCheckClosure
		return captured, nil

	case *ast.Call:
		// A condition that is itself a call carrying trailing closures
		// cannot be told apart from the call site's own closure syntax.
		if len(n.Trailing) > 0 {
			return CapturedCondition{}, ErrAmbiguousCondition
		}
	}

	captured.Arguments = []ast.Argument{{Value: expr}}
	captured.EntryPoint = EntryCheckValue
	return captured, nil
}
