package eval

import (
	"context"
	"errors"
	"sync"
	"testing"

	"attest/internal/ast"
	"attest/internal/check"
	"attest/internal/diag"
	"attest/internal/expand"
	"attest/internal/parser"
	"attest/internal/source"
)

type collector struct {
	mu     sync.Mutex
	issues []check.Issue
}

func (c *collector) config() *check.Configuration {
	return &check.Configuration{
		EventHandler: func(ev check.Event, _ check.EventContext) {
			c.mu.Lock()
			defer c.mu.Unlock()
			if ev.Issue != nil {
				c.issues = append(c.issues, *ev.Issue)
			}
		},
	}
}

func (c *collector) recorded() []check.Issue {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]check.Issue, len(c.issues))
	copy(out, c.issues)
	return out
}

// run parses, expands, and evaluates a script in one pass.
func run(t *testing.T, ctx context.Context, src string, globals map[string]Value) ([]check.Issue, error) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("suite.at", []byte(src))

	bag := diag.NewBag(16)
	p := parser.New(fs.Get(id), diag.BagReporter{Bag: bag})
	script, ok := p.ParseScript()
	if !ok || bag.HasErrors() {
		t.Fatalf("parse failed: %+v", bag.Items())
	}

	expanded, ok := expand.ExpandScript(script, fs, diag.BagReporter{Bag: bag})
	if !ok || bag.HasErrors() {
		t.Fatalf("expansion failed: %+v", bag.Items())
	}

	col := &collector{}
	ev := New(col.config(), globals)
	err := ev.RunScript(ctx, expanded)
	return col.recorded(), err
}

func TestRunScript_PassingChecks(t *testing.T) {
	src := `check(1 < 2)
check("a" == "a")
require(true)
check(!false)`

	issues, err := run(t, context.Background(), src, nil)
	if err != nil {
		t.Fatalf("RunScript() error = %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("recorded %d issues for passing checks: %+v", len(issues), issues)
	}
}

func TestRunScript_FailingCheckRecordsAndContinues(t *testing.T) {
	src := `check(x > 10)
check(x == 3)`

	issues, err := run(t, context.Background(), src, map[string]Value{"x": Int(3)})
	if err != nil {
		t.Fatalf("RunScript() error = %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("recorded %d issues, want 1", len(issues))
	}
	got := issues[0]
	if got.Kind != check.KindConditionFailed {
		t.Errorf("Kind = %v, want KindConditionFailed", got.Kind)
	}
	if got.SourceCode != "x > 10" {
		t.Errorf("SourceCode = %q, want %q", got.SourceCode, "x > 10")
	}
	loc := got.SourceContext.SourceLocation
	if loc.Path != "suite.at" || loc.Line != 1 {
		t.Errorf("SourceLocation = %v, want suite.at line 1", loc)
	}
	if len(got.SourceContext.Backtrace) == 0 {
		t.Error("failing check carried no backtrace")
	}
}

func TestRunScript_CommentsReachTheIssue(t *testing.T) {
	src := `// flaky on slow machines
check(false, "see tracker")`

	issues, err := run(t, context.Background(), src, nil)
	if err != nil {
		t.Fatalf("RunScript() error = %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("recorded %d issues, want 1", len(issues))
	}
	got := issues[0].Comments
	if len(got) != 2 || got[0] != "flaky on slow machines" || got[1] != "see tracker" {
		t.Errorf("Comments = %q, want leading then explicit", got)
	}
}

func TestRunScript_RequireAbortsScript(t *testing.T) {
	src := `require(false)
check(false)`

	issues, err := run(t, context.Background(), src, nil)
	var rf *RequireFailed
	if !errors.As(err, &rf) {
		t.Fatalf("error = %v, want *RequireFailed", err)
	}
	if rf.Issue.Kind != check.KindConditionFailed {
		t.Errorf("aborting issue Kind = %v, want KindConditionFailed", rf.Issue.Kind)
	}
	// Only the require's own issue: the following check never ran.
	if len(issues) != 1 {
		t.Errorf("recorded %d issues, want 1", len(issues))
	}
}

func TestRunScript_LetBindings(t *testing.T) {
	src := `let limit = 2 + 3
let name = "at" + "test"
check(limit == 5)
check(name == "attest")
check(limit * 2 > 9)`

	issues, err := run(t, context.Background(), src, nil)
	if err != nil {
		t.Fatalf("RunScript() error = %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("recorded %d issues: %+v", len(issues), issues)
	}
}

func TestRunScript_TrailingClosureCondition(t *testing.T) {
	pass := `check { x == 1 }`
	issues, err := run(t, context.Background(), pass, map[string]Value{"x": Int(1)})
	if err != nil || len(issues) != 0 {
		t.Fatalf("passing closure: err = %v, issues = %+v", err, issues)
	}

	fail := `check { x == 2 }`
	issues, err = run(t, context.Background(), fail, map[string]Value{"x": Int(1)})
	if err != nil {
		t.Fatalf("RunScript() error = %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("recorded %d issues, want 1", len(issues))
	}
	if issues[0].SourceCode != "{ x == 2 }" {
		t.Errorf("SourceCode = %q", issues[0].SourceCode)
	}
}

func TestRunScript_UserClosures(t *testing.T) {
	src := `let double = { (n) in n * 2 }
check(double(4) == 8)
check(double(5) == 11)`

	issues, err := run(t, context.Background(), src, nil)
	if err != nil {
		t.Fatalf("RunScript() error = %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("recorded %d issues, want 1", len(issues))
	}
	if issues[0].SourceCode != "double(5) == 11" {
		t.Errorf("SourceCode = %q", issues[0].SourceCode)
	}
}

func TestRunScript_KnownIssueMatcherReclassifies(t *testing.T) {
	ctx := check.WithKnownIssueMatcher(context.Background(), func(issue check.Issue) bool {
		return issue.Kind == check.KindConditionFailed
	})

	issues, err := run(t, ctx, `check(false)`, nil)
	if err != nil {
		t.Fatalf("RunScript() error = %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("recorded %d issues, want 1", len(issues))
	}
	if !issues[0].IsKnown {
		t.Error("matched issue not reclassified as known")
	}
}

func TestRunScript_EvaluationErrorBecomesErrorCaught(t *testing.T) {
	issues, err := run(t, context.Background(), `check(missing > 1)`, nil)
	if err == nil {
		t.Fatal("RunScript() error = nil for an undefined name")
	}
	if len(issues) != 1 {
		t.Fatalf("recorded %d issues, want 1", len(issues))
	}
	got := issues[0]
	if got.Kind != check.KindErrorCaught {
		t.Errorf("Kind = %v, want KindErrorCaught", got.Kind)
	}
	if got.Err == nil {
		t.Error("errorCaught issue carries no error")
	}
	if len(got.SourceContext.Backtrace) == 0 {
		t.Error("errorCaught issue carries no backtrace")
	}
}

func TestRunScript_NonBooleanConditionIsAnError(t *testing.T) {
	issues, err := run(t, context.Background(), `check(42)`, nil)
	if err == nil {
		t.Fatal("RunScript() error = nil for a non-boolean condition")
	}
	if len(issues) != 1 || issues[0].Kind != check.KindErrorCaught {
		t.Errorf("issues = %+v, want one errorCaught", issues)
	}
}

func TestRunScript_ExplicitSourceLocationFlowsThrough(t *testing.T) {
	src := `check(false, sourceLocation: __loc("gen.at", 7, 3))`

	issues, err := run(t, context.Background(), src, nil)
	if err != nil {
		t.Fatalf("RunScript() error = %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("recorded %d issues, want 1", len(issues))
	}
	loc := issues[0].SourceContext.SourceLocation
	want := source.Location{Path: "gen.at", Line: 7, Column: 3}
	if loc != want {
		t.Errorf("SourceLocation = %v, want %v", loc, want)
	}
}

func TestEvalBinaryOperators(t *testing.T) {
	tests := []struct {
		src  string
		want Value
	}{
		{`1 + 2`, Int(3)},
		{`7 - 3`, Int(4)},
		{`6 * 7`, Int(42)},
		{`9 / 2`, Int(4)},
		{`1.5 + 1.5`, Float(3)},
		{`"a" + "b"`, String("ab")},
		{`1 < 1.5`, Bool(true)},
		{`"abc" <= "abd"`, Bool(true)},
		{`nil == nil`, Bool(true)},
		{`1 != nil`, Bool(true)},
		{`true && false`, Bool(false)},
		{`false || true`, Bool(true)},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			fs := source.NewFileSet()
			id := fs.AddVirtual("expr.at", []byte(tt.src))
			p := parser.New(fs.Get(id), nil)
			script, ok := p.ParseScript()
			if !ok || len(script.Stmts) != 1 {
				t.Fatal("parse failed")
			}
			es := script.Stmts[0].(*ast.ExprStmt)

			ev := New(&check.Configuration{}, nil)
			got, err := ev.eval(context.Background(), NewEnv(ev.globals), es.Expr)
			if err != nil {
				t.Fatalf("eval(%q) error = %v", tt.src, err)
			}
			if got != tt.want {
				t.Errorf("eval(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestEvalShortCircuit(t *testing.T) {
	// The right side would be an undefined-name error if evaluated.
	for _, src := range []string{`false && boom`, `true || boom`} {
		t.Run(src, func(t *testing.T) {
			fs := source.NewFileSet()
			id := fs.AddVirtual("expr.at", []byte(src))
			p := parser.New(fs.Get(id), nil)
			script, ok := p.ParseScript()
			if !ok {
				t.Fatal("parse failed")
			}
			es := script.Stmts[0].(*ast.ExprStmt)

			ev := New(&check.Configuration{}, nil)
			if _, err := ev.eval(context.Background(), NewEnv(ev.globals), es.Expr); err != nil {
				t.Errorf("short circuit still evaluated the right side: %v", err)
			}
		})
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	issues, err := run(t, context.Background(), `check(1 / 0 == 1)`, nil)
	if err == nil {
		t.Fatal("RunScript() error = nil for division by zero")
	}
	if len(issues) != 1 || issues[0].Kind != check.KindErrorCaught {
		t.Errorf("issues = %+v, want one errorCaught", issues)
	}
}
