// Package eval is the runtime half of attest: a tree-walking evaluator
// over expanded scripts. The expansion's entry points (__checkValue,
// __checkBinary, __checkClosure) and adaptors (__expected, __required)
// live here; a failing check constructs an Issue and hands it to the
// recording pipeline in internal/check.
package eval

import (
	"fmt"
	"strconv"
	"strings"

	"attest/internal/ast"
	"attest/internal/check"
	"attest/internal/source"
)

// Value is a runtime value produced by the evaluator.
type Value interface {
	// Display renders the value for diagnostics and recorder output.
	Display() string
	isValue()
}

type (
	// Bool is a boolean value.
	Bool bool
	// Int is a 64-bit integer value.
	Int int64
	// Float is a 64-bit floating point value.
	Float float64
	// String is a string value.
	String string
	// Nil is the absent value.
	Nil struct{}
	// Array is an ordered sequence of values.
	Array []Value
	// Location is a resolved source position, produced by __loc.
	Location source.Location
)

// Closure is a user closure with its captured environment.
type Closure struct {
	Params []string
	Body   ast.Expr
	Env    *Env
}

// CheckResult is what a runtime entry point returns: whether the
// condition held, the subject's value, and the recorded issue when it
// did not.
type CheckResult struct {
	OK    bool
	Val   Value
	Issue *check.Issue
}

func (Bool) isValue()         {}
func (Int) isValue()          {}
func (Float) isValue()        {}
func (String) isValue()       {}
func (Nil) isValue()          {}
func (Array) isValue()        {}
func (Location) isValue()     {}
func (*Closure) isValue()     {}
func (*CheckResult) isValue() {}

func (v Bool) Display() string {
	return strconv.FormatBool(bool(v))
}

func (v Int) Display() string {
	return strconv.FormatInt(int64(v), 10)
}

func (v Float) Display() string {
	return strconv.FormatFloat(float64(v), 'g', -1, 64)
}

func (v String) Display() string {
	return strconv.Quote(string(v))
}

func (Nil) Display() string {
	return "nil"
}

func (v Array) Display() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, el := range v {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(el.Display())
	}
	sb.WriteString("]")
	return sb.String()
}

func (v Location) Display() string {
	return source.Location(v).String()
}

func (v *Closure) Display() string {
	if len(v.Params) == 0 {
		return "{ ... }"
	}
	return fmt.Sprintf("{ (%s) in ... }", strings.Join(v.Params, ", "))
}

func (v *CheckResult) Display() string {
	if v.OK {
		return "passed"
	}
	return "failed"
}

// equalValues compares two values for equality. Int and Float compare
// numerically across kinds; everything else requires matching kinds.
func equalValues(a, b Value) (bool, error) {
	if la, ok := numeric(a); ok {
		if lb, ok := numeric(b); ok {
			return la == lb, nil
		}
	}
	switch av := a.(type) {
	case Bool:
		if bv, ok := b.(Bool); ok {
			return av == bv, nil
		}
	case String:
		if bv, ok := b.(String); ok {
			return av == bv, nil
		}
	case Nil:
		_, isNil := b.(Nil)
		return isNil, nil
	}
	if _, isNil := b.(Nil); isNil {
		return false, nil
	}
	return false, fmt.Errorf("cannot compare %s and %s", a.Display(), b.Display())
}

// orderValues returns -1, 0, or 1 for ordered kinds (numbers, strings).
func orderValues(a, b Value) (int, error) {
	if la, ok := numeric(a); ok {
		if lb, ok := numeric(b); ok {
			switch {
			case la < lb:
				return -1, nil
			case la > lb:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}
	if sa, ok := a.(String); ok {
		if sb, ok := b.(String); ok {
			return strings.Compare(string(sa), string(sb)), nil
		}
	}
	return 0, fmt.Errorf("cannot order %s and %s", a.Display(), b.Display())
}

func numeric(v Value) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true
	case Float:
		return float64(n), true
	default:
		return 0, false
	}
}
