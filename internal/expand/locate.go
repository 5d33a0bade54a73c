package expand

import (
	"attest/internal/ast"
)

// ArgumentIndices are the positions of the special arguments inside a
// normalized argument list. -1 means absent.
type ArgumentIndices struct {
	Comment         int
	SourceLocation  int
	TrailingClosure int
}

// LocateArguments finds the implicit comment argument and the optional
// explicit source-location argument by position and label.
//
// The script language has no comment keyword, so position is the only
// signal. The heuristic, in order:
//
//  1. The trailing closure is the argument carrying the synthetic
//     `performing` label, if any.
//  2. With a trailing closure, the comment is the last unlabeled
//     argument before it.
//  3. Without one, and with more than one argument, the comment is the
//     last unlabeled argument strictly after index 0; the first
//     argument is always the condition and is never the comment.
//  4. The source-location argument is whichever argument carries the
//     `sourceLocation` label, wherever it appears.
//
// A call with exactly one unlabeled argument and a trailing closure is
// inherently ambiguous: that argument is indistinguishable from "no
// comment, the closure is the subject". The heuristic resolves it as a
// comment. This is a deliberate, documented trade-off, not a defect.
func LocateArguments(args []ast.Argument) ArgumentIndices {
	idx := ArgumentIndices{Comment: -1, SourceLocation: -1, TrailingClosure: -1}

	for i, arg := range args {
		if arg.Label == TrailingClosureLabel {
			idx.TrailingClosure = i
			break
		}
	}

	if idx.TrailingClosure >= 0 {
		for i := idx.TrailingClosure - 1; i >= 0; i-- {
			if args[i].Label == "" {
				idx.Comment = i
				break
			}
		}
	} else if len(args) > 1 {
		for i := len(args) - 1; i > 0; i-- {
			if args[i].Label == "" {
				idx.Comment = i
				break
			}
		}
	}

	for i, arg := range args {
		if arg.Label == SourceLocationLabel {
			idx.SourceLocation = i
			break
		}
	}

	return idx
}
