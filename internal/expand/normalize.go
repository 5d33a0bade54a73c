// Package expand implements the call-site expansion: it rewrites
// check/require calls in a parsed script into calls to the generic
// runtime entry points, carrying the original sub-expressions, the
// captured source text, aggregated comments, the throwing-mode flag,
// and a source location.
//
// Everything here runs at build time, over immutable expression values;
// nothing in this package touches the runtime recording pipeline.
package expand

import (
	"attest/internal/ast"
)

// Reserved labels and entry-point names understood by the expansion and
// the runtime evaluator.
const (
	// TrailingClosureLabel is the synthetic label given to the first
	// trailing closure of a normalized call.
	TrailingClosureLabel = "performing"
	// SourceLocationLabel marks an explicit source-location argument.
	SourceLocationLabel = "sourceLocation"

	// Appended-argument labels on the expanded call.
	sourceCodeLabel = "sourceCode"
	commentsLabel   = "comments"
	isRequiredLabel = "isRequired"

	// LocationFunc is the synthesized location literal constructor.
	LocationFunc = "__loc"

	// Runtime entry points.
	EntryCheckValue   = "__checkValue"
	EntryCheckBinary  = "__checkBinary"
	EntryCheckClosure = "__checkClosure"

	// Result adaptors appended to the expanded call.
	AdaptorRequired = "__required"
	AdaptorExpected = "__expected"
)

// NormalizeArguments flattens a call site into one ordered argument
// list: declared arguments first, in source order and unchanged, then
// the trailing closures. The first trailing closure is assigned the
// synthetic `performing` label; any further trailing closures keep the
// labels they were written with. Nothing is dropped or reordered, and
// normalization cannot fail.
func NormalizeArguments(call *ast.Call) []ast.Argument {
	out := make([]ast.Argument, 0, len(call.Args)+len(call.Trailing))
	out = append(out, call.Args...)
	for i, tc := range call.Trailing {
		label := tc.Label
		if i == 0 {
			label = TrailingClosureLabel
		}
		out = append(out, ast.Argument{Label: label, Value: tc.Body})
	}
	return out
}
