package expand

import (
	"errors"
	"strconv"

	"attest/internal/ast"
	"attest/internal/diag"
	"attest/internal/source"
)

// ErrUnresolvedCallSite reports a call site whose file position cannot
// be determined and that carries no explicit sourceLocation argument.
var ErrUnresolvedCallSite = errors.New("call site location cannot be resolved")

// ErrMissingCondition reports a check call with nothing to check.
var ErrMissingCondition = errors.New("call has neither a condition nor a trailing closure")

// Expand rewrites one check/require call site into a call to a runtime
// entry point, wrapped in the mode's result adaptor. throwing selects
// the require variant: its adaptor unwraps the result or aborts the
// script, while the check variant extracts a boolean and continues.
//
// Expansion failures are build-time errors: no expanded code is
// produced for the call, and nothing about it exists at run time.
func Expand(call *ast.Call, site CallSiteContext, throwing bool, parse ConditionParserFunc) (ast.Expr, error) {
	if parse == nil {
		parse = ParseCondition
	}

	normalized := NormalizeArguments(call)
	idx := LocateArguments(normalized)

	var captured CapturedCondition
	var args []ast.Argument
	var err error

	if idx.TrailingClosure >= 0 {
		// With both a leftover unlabeled argument and a trailing
		// closure the call supplies two candidate subjects; the
		// condition parser cannot disambiguate them.
		for i := 0; i < idx.TrailingClosure; i++ {
			if normalized[i].Label == "" && i != idx.Comment {
				return nil, ErrAmbiguousCondition
			}
		}

		captured, err = parse(normalized[idx.TrailingClosure].Value, site)
		if err != nil {
			return nil, err
		}
		// Everything except the comment and source-location arguments
		// passes through unchanged, the closure included.
		args = filterArguments(normalized, idx, -1)
	} else {
		if len(normalized) == 0 {
			return nil, ErrMissingCondition
		}

		captured, err = parse(normalized[0].Value, site)
		if err != nil {
			return nil, err
		}
		// The condition's own sub-arguments come first, then the
		// remaining declared arguments.
		args = append(args, captured.Arguments...)
		args = append(args, filterArguments(normalized, idx, 0)...)
	}

	locationExpr, err := resolveLocation(normalized, idx, site)
	if err != nil {
		return nil, err
	}

	args = append(args, ast.Argument{Label: sourceCodeLabel, Value: captured.SourceCode})
	args = append(args, ast.Argument{Label: commentsLabel, Value: buildComments(normalized, idx, site)})
	args = append(args, ast.Argument{Label: isRequiredLabel, Value: ast.NewBool(throwing)})
	args = append(args, ast.Argument{Label: SourceLocationLabel, Value: locationExpr})

	inner := &ast.Call{
		Sp:     call.Sp,
		Callee: &ast.Ident{Name: captured.EntryPoint},
		Args:   args,
	}

	adaptor := AdaptorExpected
	if throwing {
		adaptor = AdaptorRequired
	}
	return &ast.Call{
		Sp:     call.Sp,
		Callee: &ast.Member{Target: inner, Field: adaptor},
	}, nil
}

// filterArguments copies the normalized list minus the comment and
// source-location indices, and minus skipIdx (the condition position,
// or -1 to keep everything else).
func filterArguments(args []ast.Argument, idx ArgumentIndices, skipIdx int) []ast.Argument {
	var out []ast.Argument
	for i, arg := range args {
		if i == skipIdx || i == idx.Comment || i == idx.SourceLocation {
			continue
		}
		out = append(out, arg)
	}
	return out
}

// buildComments assembles the ordered comments argument: the comments
// adjoining the call site in source, then the explicit comment
// argument's expression, if one was located.
func buildComments(args []ast.Argument, idx ArgumentIndices, site CallSiteContext) ast.Expr {
	arr := &ast.Array{}
	for _, c := range site.LeadingComments {
		arr.Elements = append(arr.Elements, ast.NewString(c))
	}
	if idx.Comment >= 0 {
		arr.Elements = append(arr.Elements, args[idx.Comment].Value)
	}
	return arr
}

// resolveLocation picks the explicit sourceLocation argument when
// present, otherwise synthesizes a `__loc(path, line, column)` literal
// from the call site.
func resolveLocation(args []ast.Argument, idx ArgumentIndices, site CallSiteContext) (ast.Expr, error) {
	if idx.SourceLocation >= 0 {
		return args[idx.SourceLocation].Value, nil
	}

	loc := site.Location()
	if !loc.IsResolved() {
		return nil, ErrUnresolvedCallSite
	}
	return &ast.Call{
		Callee: &ast.Ident{Name: LocationFunc},
		Args: []ast.Argument{
			{Value: ast.NewString(loc.Path)},
			{Value: ast.NewInt(strconv.FormatUint(uint64(loc.Line), 10))},
			{Value: ast.NewInt(strconv.FormatUint(uint64(loc.Column), 10))},
		},
	}, nil
}

// ExpandScript expands every top-level check/require call in a script.
// `check` calls expand in the continuing (non-throwing) mode, `require`
// calls in the throwing mode; everything else is left untouched.
//
// Each failed call site gets a diagnostic at its span and is dropped
// from the output; other call sites still expand. Returns the expanded
// script and whether all call sites expanded cleanly.
func ExpandScript(script *ast.Script, fs *source.FileSet, reporter diag.Reporter) (*ast.Script, bool) {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}

	out := &ast.Script{File: script.File}
	ok := true

	for _, stmt := range script.Stmts {
		es, isExpr := stmt.(*ast.ExprStmt)
		if !isExpr {
			out.Stmts = append(out.Stmts, stmt)
			continue
		}
		call, throwing, isCheck := checkCall(es.Expr)
		if !isCheck {
			out.Stmts = append(out.Stmts, stmt)
			continue
		}

		site := CallSiteContext{
			FileSet:         fs,
			Span:            call.Sp,
			LeadingComments: es.LeadingComments,
		}
		expanded, err := Expand(call, site, throwing, nil)
		if err != nil {
			reporter.Report(codeFor(err), diag.SevError, call.Sp, err.Error(), nil)
			ok = false
			continue
		}
		out.Stmts = append(out.Stmts, &ast.ExprStmt{Sp: es.Sp, Expr: expanded})
	}

	return out, ok
}

// checkCall recognizes a top-level check/require call site.
func checkCall(e ast.Expr) (call *ast.Call, throwing, ok bool) {
	c, isCall := e.(*ast.Call)
	if !isCall {
		return nil, false, false
	}
	ident, isIdent := c.Callee.(*ast.Ident)
	if !isIdent {
		return nil, false, false
	}
	switch ident.Name {
	case "check":
		return c, false, true
	case "require":
		return c, true, true
	default:
		return nil, false, false
	}
}

func codeFor(err error) diag.Code {
	switch {
	case errors.Is(err, ErrAmbiguousCondition):
		return diag.ExpAmbiguousCondition
	case errors.Is(err, ErrUnresolvedCallSite):
		return diag.ExpUnresolvedCallSite
	case errors.Is(err, ErrMissingCondition):
		return diag.ExpConditionUnsupported
	default:
		return diag.UnknownCode
	}
}
