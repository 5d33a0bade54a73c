package eval

import (
	"context"
	"fmt"

	"attest/internal/ast"
	"attest/internal/check"
	"attest/internal/expand"
	"attest/internal/source"
)

func (ev *Evaluator) evalCall(ctx context.Context, env *Env, call *ast.Call) (Value, error) {
	if member, ok := call.Callee.(*ast.Member); ok {
		switch member.Field {
		case expand.AdaptorExpected, expand.AdaptorRequired:
			return ev.evalAdaptor(ctx, env, member, call)
		}
		return nil, fmt.Errorf("unknown method %q", member.Field)
	}

	ident, ok := call.Callee.(*ast.Ident)
	if !ok {
		return nil, fmt.Errorf("expression of type %T is not callable", call.Callee)
	}

	switch ident.Name {
	case expand.LocationFunc:
		return ev.evalLoc(ctx, env, call)
	case expand.EntryCheckValue, expand.EntryCheckBinary, expand.EntryCheckClosure:
		return ev.evalEntry(ctx, env, ident.Name, call)
	}

	fn, found := env.Lookup(ident.Name)
	if !found {
		return nil, fmt.Errorf("undefined name %q", ident.Name)
	}
	closure, isClosure := fn.(*Closure)
	if !isClosure {
		return nil, fmt.Errorf("%q is not callable", ident.Name)
	}

	args := make([]Value, 0, len(call.Args)+len(call.Trailing))
	for _, arg := range expand.NormalizeArguments(call) {
		v, err := ev.eval(ctx, env, arg.Value)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return ev.callClosure(ctx, closure, args)
}

// evalAdaptor applies __expected or __required to a check result.
func (ev *Evaluator) evalAdaptor(ctx context.Context, env *Env, member *ast.Member, call *ast.Call) (Value, error) {
	if len(call.Args) != 0 || len(call.Trailing) != 0 {
		return nil, fmt.Errorf("%s takes no arguments", member.Field)
	}
	target, err := ev.eval(ctx, env, member.Target)
	if err != nil {
		return nil, err
	}
	res, isResult := target.(*CheckResult)
	if !isResult {
		return nil, fmt.Errorf("%s applied to %s, not a check result",
			member.Field, target.Display())
	}

	if member.Field == expand.AdaptorExpected {
		return Bool(res.OK), nil
	}

	if !res.OK {
		var issue check.Issue
		if res.Issue != nil {
			issue = *res.Issue
		}
		return nil, &RequireFailed{Issue: issue}
	}
	if res.Val == nil {
		return Nil{}, nil
	}
	return res.Val, nil
}

// evalLoc builds a location value from a __loc(path, line, col) literal.
func (ev *Evaluator) evalLoc(ctx context.Context, env *Env, call *ast.Call) (Value, error) {
	if len(call.Args) != 3 {
		return nil, fmt.Errorf("%s takes 3 arguments, got %d", expand.LocationFunc, len(call.Args))
	}
	vals := make([]Value, 3)
	for i, arg := range call.Args {
		v, err := ev.eval(ctx, env, arg.Value)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	path, ok := vals[0].(String)
	if !ok {
		return nil, fmt.Errorf("%s path must be a string", expand.LocationFunc)
	}
	line, ok := vals[1].(Int)
	if !ok {
		return nil, fmt.Errorf("%s line must be an integer", expand.LocationFunc)
	}
	col, ok := vals[2].(Int)
	if !ok {
		return nil, fmt.Errorf("%s column must be an integer", expand.LocationFunc)
	}
	return Location(source.Location{
		Path:   string(path),
		Line:   uint32(line),
		Column: uint32(col),
	}), nil
}

// entryArgs are the decoded arguments of an expanded entry-point call:
// the reserved labels the expansion appends, plus the condition's own
// subject values in order.
type entryArgs struct {
	subjects   []Value
	op         string
	closure    *Closure
	sourceCode string
	comments   []string
	location   source.Location
}

func (ev *Evaluator) decodeEntryArgs(ctx context.Context, env *Env, call *ast.Call) (entryArgs, error) {
	var dec entryArgs
	for _, arg := range call.Args {
		v, err := ev.eval(ctx, env, arg.Value)
		if err != nil {
			return entryArgs{}, err
		}
		switch arg.Label {
		case "sourceCode":
			s, ok := v.(String)
			if !ok {
				return entryArgs{}, fmt.Errorf("sourceCode must be a string, got %s", v.Display())
			}
			dec.sourceCode = string(s)
		case "comments":
			arr, ok := v.(Array)
			if !ok {
				return entryArgs{}, fmt.Errorf("comments must be an array, got %s", v.Display())
			}
			for _, el := range arr {
				s, ok := el.(String)
				if !ok {
					return entryArgs{}, fmt.Errorf("comment must be a string, got %s", el.Display())
				}
				dec.comments = append(dec.comments, string(s))
			}
		case "isRequired":
			if _, ok := v.(Bool); !ok {
				return entryArgs{}, fmt.Errorf("isRequired must be a boolean, got %s", v.Display())
			}
		case expand.SourceLocationLabel:
			loc, ok := v.(Location)
			if !ok {
				return entryArgs{}, fmt.Errorf("sourceLocation must be a location, got %s", v.Display())
			}
			dec.location = source.Location(loc)
		case expand.TrailingClosureLabel:
			fn, ok := v.(*Closure)
			if !ok {
				return entryArgs{}, fmt.Errorf("performing must be a closure, got %s", v.Display())
			}
			dec.closure = fn
		case "op":
			s, ok := v.(String)
			if !ok {
				return entryArgs{}, fmt.Errorf("op must be a string, got %s", v.Display())
			}
			dec.op = string(s)
		default:
			dec.subjects = append(dec.subjects, v)
		}
	}
	return dec, nil
}

// evalEntry runs one __check* entry point: evaluate the condition,
// record a conditionFailed issue when it does not hold, and return the
// CheckResult the trailing adaptor consumes.
func (ev *Evaluator) evalEntry(ctx context.Context, env *Env, name string, call *ast.Call) (Value, error) {
	dec, err := ev.decodeEntryArgs(ctx, env, call)
	if err != nil {
		return nil, err
	}

	var ok bool
	var subject Value

	switch name {
	case expand.EntryCheckValue:
		if len(dec.subjects) == 0 {
			return nil, fmt.Errorf("%s: missing condition value", name)
		}
		subject = dec.subjects[0]
		b, isBool := subject.(Bool)
		if !isBool {
			return nil, fmt.Errorf("condition evaluated to %s, not a boolean", subject.Display())
		}
		ok = bool(b)

	case expand.EntryCheckBinary:
		if len(dec.subjects) < 2 || dec.op == "" {
			return nil, fmt.Errorf("%s: missing operands or operator", name)
		}
		ok, err = compare(dec.op, dec.subjects[0], dec.subjects[1])
		if err != nil {
			return nil, err
		}
		subject = Bool(ok)

	case expand.EntryCheckClosure:
		if dec.closure == nil {
			return nil, fmt.Errorf("%s: missing performing closure", name)
		}
		subject, err = ev.callClosure(ctx, dec.closure, nil)
		if err != nil {
			return nil, err
		}
		b, isBool := subject.(Bool)
		if !isBool {
			return nil, fmt.Errorf("closure evaluated to %s, not a boolean", subject.Display())
		}
		ok = bool(b)

	default:
		return nil, fmt.Errorf("unknown entry point %q", name)
	}

	result := &CheckResult{OK: ok, Val: subject}
	if !ok {
		issue := check.Issue{
			Kind:       check.KindConditionFailed,
			Comments:   dec.comments,
			SourceCode: dec.sourceCode,
			SourceContext: check.SourceContext{
				Backtrace:      check.CaptureBacktrace(0),
				SourceLocation: dec.location,
			},
		}
		recorded := issue.Record(ctx, ev.cfg)
		result.Issue = &recorded
	}
	return result, nil
}
