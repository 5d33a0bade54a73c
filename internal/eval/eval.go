package eval

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"attest/internal/ast"
	"attest/internal/check"
)

// RequireFailed aborts the enclosing script when a require condition
// does not hold. It propagates as a normal error; the runner treats it
// as "this script is over", not as a runner failure.
type RequireFailed struct {
	Issue check.Issue
}

func (e *RequireFailed) Error() string {
	if e.Issue.SourceCode != "" {
		return fmt.Sprintf("requirement failed: %s", e.Issue.SourceCode)
	}
	return "requirement failed"
}

// Evaluator walks expanded scripts. It is stateless across scripts; all
// per-script state lives in the environment created by RunScript.
type Evaluator struct {
	cfg     *check.Configuration
	globals *Env
}

// New creates an evaluator publishing through cfg. globals seeds the
// outermost scope shared by every script this evaluator runs.
func New(cfg *check.Configuration, globals map[string]Value) *Evaluator {
	root := NewEnv(nil)
	for name, v := range globals {
		root.Define(name, v)
	}
	return &Evaluator{cfg: cfg, globals: root}
}

// RunScript evaluates every statement of an expanded script in order.
//
// A RequireFailed error stops the script; its issue has already been
// recorded by the entry point. Any other evaluation error is recorded
// as an errorCaught issue before the script stops. Either way the error
// is returned so the caller can tell an aborted script from a clean one.
func (ev *Evaluator) RunScript(ctx context.Context, script *ast.Script) error {
	env := NewEnv(ev.globals)

	for _, stmt := range script.Stmts {
		if err := ev.evalStmt(ctx, env, stmt); err != nil {
			var rf *RequireFailed
			if !errors.As(err, &rf) {
				issue := check.Issue{
					Kind: check.KindErrorCaught,
					Err:  err,
					SourceContext: check.SourceContext{
						Backtrace: check.CaptureBacktrace(0),
					},
				}
				issue.Record(ctx, ev.cfg)
			}
			return err
		}
	}
	return nil
}

func (ev *Evaluator) evalStmt(ctx context.Context, env *Env, stmt ast.Stmt) error {
	switch st := stmt.(type) {
	case *ast.LetStmt:
		v, err := ev.eval(ctx, env, st.Value)
		if err != nil {
			return err
		}
		env.Define(st.Name, v)
		return nil
	case *ast.ExprStmt:
		_, err := ev.eval(ctx, env, st.Expr)
		return err
	default:
		return fmt.Errorf("unsupported statement %T", stmt)
	}
}

func (ev *Evaluator) eval(ctx context.Context, env *Env, expr ast.Expr) (Value, error) {
	switch n := expr.(type) {
	case *ast.Literal:
		return evalLiteral(n)

	case *ast.Ident:
		if v, ok := env.Lookup(n.Name); ok {
			return v, nil
		}
		return nil, fmt.Errorf("undefined name %q", n.Name)

	case *ast.Group:
		return ev.eval(ctx, env, n.Inner)

	case *ast.Unary:
		return ev.evalUnary(ctx, env, n)

	case *ast.Binary:
		return ev.evalBinary(ctx, env, n)

	case *ast.Closure:
		return &Closure{Params: n.Params, Body: n.Body, Env: env}, nil

	case *ast.Array:
		out := make(Array, 0, len(n.Elements))
		for _, el := range n.Elements {
			v, err := ev.eval(ctx, env, el)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case *ast.Call:
		return ev.evalCall(ctx, env, n)

	case *ast.Member:
		return nil, fmt.Errorf("member access %q outside a call", n.Field)

	default:
		return nil, fmt.Errorf("unsupported expression %T", expr)
	}
}

func evalLiteral(lit *ast.Literal) (Value, error) {
	switch lit.Kind {
	case ast.LitBool:
		return Bool(lit.Value == "true"), nil
	case ast.LitInt:
		n, err := strconv.ParseInt(lit.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad integer literal %q: %w", lit.Value, err)
		}
		return Int(n), nil
	case ast.LitFloat:
		f, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("bad float literal %q: %w", lit.Value, err)
		}
		return Float(f), nil
	case ast.LitString:
		return String(lit.Value), nil
	case ast.LitNil:
		return Nil{}, nil
	default:
		return nil, fmt.Errorf("unknown literal kind %d", lit.Kind)
	}
}

func (ev *Evaluator) evalUnary(ctx context.Context, env *Env, n *ast.Unary) (Value, error) {
	operand, err := ev.eval(ctx, env, n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.UnaryNot:
		b, ok := operand.(Bool)
		if !ok {
			return nil, fmt.Errorf("! applied to %s", operand.Display())
		}
		return !b, nil
	case ast.UnaryNeg:
		switch v := operand.(type) {
		case Int:
			return -v, nil
		case Float:
			return -v, nil
		}
		return nil, fmt.Errorf("- applied to %s", operand.Display())
	default:
		return nil, fmt.Errorf("unknown unary operator %d", n.Op)
	}
}

func (ev *Evaluator) evalBinary(ctx context.Context, env *Env, n *ast.Binary) (Value, error) {
	// && and || short-circuit; both sides must be booleans.
	if n.Op == ast.BinAnd || n.Op == ast.BinOr {
		left, err := ev.eval(ctx, env, n.Left)
		if err != nil {
			return nil, err
		}
		lb, ok := left.(Bool)
		if !ok {
			return nil, fmt.Errorf("%s applied to %s", ast.BinaryOpText(n.Op), left.Display())
		}
		if (n.Op == ast.BinAnd && !bool(lb)) || (n.Op == ast.BinOr && bool(lb)) {
			return lb, nil
		}
		right, err := ev.eval(ctx, env, n.Right)
		if err != nil {
			return nil, err
		}
		rb, ok := right.(Bool)
		if !ok {
			return nil, fmt.Errorf("%s applied to %s", ast.BinaryOpText(n.Op), right.Display())
		}
		return rb, nil
	}

	left, err := ev.eval(ctx, env, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := ev.eval(ctx, env, n.Right)
	if err != nil {
		return nil, err
	}

	if n.Op.IsComparison() {
		ok, err := compare(ast.BinaryOpText(n.Op), left, right)
		if err != nil {
			return nil, err
		}
		return Bool(ok), nil
	}
	return arithmetic(n.Op, left, right)
}

// compare applies a comparison operator by its source spelling. The
// expansion passes operators as strings, so the entry points and the
// evaluator share this one table.
func compare(op string, left, right Value) (bool, error) {
	switch op {
	case "==", "!=":
		eq, err := equalValues(left, right)
		if err != nil {
			return false, err
		}
		if op == "!=" {
			return !eq, nil
		}
		return eq, nil
	case "<", "<=", ">", ">=":
		ord, err := orderValues(left, right)
		if err != nil {
			return false, err
		}
		switch op {
		case "<":
			return ord < 0, nil
		case "<=":
			return ord <= 0, nil
		case ">":
			return ord > 0, nil
		default:
			return ord >= 0, nil
		}
	default:
		return false, fmt.Errorf("unknown comparison operator %q", op)
	}
}

func arithmetic(op ast.BinaryOp, left, right Value) (Value, error) {
	if li, ok := left.(Int); ok {
		if ri, ok := right.(Int); ok {
			switch op {
			case ast.BinAdd:
				return li + ri, nil
			case ast.BinSub:
				return li - ri, nil
			case ast.BinMul:
				return li * ri, nil
			case ast.BinDiv:
				if ri == 0 {
					return nil, errors.New("division by zero")
				}
				return li / ri, nil
			}
		}
	}
	if ls, ok := left.(String); ok {
		if rs, ok := right.(String); ok && op == ast.BinAdd {
			return ls + rs, nil
		}
	}
	lf, lok := numeric(left)
	rf, rok := numeric(right)
	if lok && rok {
		switch op {
		case ast.BinAdd:
			return Float(lf + rf), nil
		case ast.BinSub:
			return Float(lf - rf), nil
		case ast.BinMul:
			return Float(lf * rf), nil
		case ast.BinDiv:
			if rf == 0 {
				return nil, errors.New("division by zero")
			}
			return Float(lf / rf), nil
		}
	}
	return nil, fmt.Errorf("cannot apply %s to %s and %s",
		ast.BinaryOpText(op), left.Display(), right.Display())
}

// callClosure applies a closure to already-evaluated arguments.
func (ev *Evaluator) callClosure(ctx context.Context, fn *Closure, args []Value) (Value, error) {
	if len(args) != len(fn.Params) {
		return nil, fmt.Errorf("closure takes %d parameters, got %d arguments",
			len(fn.Params), len(args))
	}
	inner := NewEnv(fn.Env)
	for i, name := range fn.Params {
		inner.Define(name, args[i])
	}
	return ev.eval(ctx, inner, fn.Body)
}
