// Package runner executes attest scripts end to end: load, parse,
// expand, evaluate. Scripts run in parallel under a worker cap; their
// results aggregate into one Summary that maps to the process exit code.
package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"attest/internal/check"
	"attest/internal/diag"
	"attest/internal/eval"
	"attest/internal/expand"
	"attest/internal/locked"
	"attest/internal/parser"
	"attest/internal/source"
)

const maxDiagnostics = 100

// Summary aggregates one run.
type Summary struct {
	Scripts     int
	Passed      int // scripts that finished with no unknown issue
	Failed      int // scripts with at least one unknown issue
	BuildFailed int // scripts that did not survive parse/expansion

	UnknownIssues int
	KnownIssues   int
}

// ExitCode maps the summary to the process exit code: zero iff every
// script built and no unknown issue was recorded.
func (s Summary) ExitCode() int {
	if s.UnknownIssues > 0 || s.BuildFailed > 0 {
		return 1
	}
	return 0
}

// Options configures a run.
type Options struct {
	// Workers caps concurrently running scripts. 0 means one per CPU.
	Workers int
	// Handler receives every event of the run.
	Handler check.EventHandler
	// Globals seeds the evaluator's outermost scope.
	Globals map[string]eval.Value
	// KnownIssueMatchers installs a per-script matcher, keyed by script
	// path. Each matcher lives on that script's own context, so it is
	// never visible to sibling scripts.
	KnownIssueMatchers map[string]check.KnownIssueMatcher
	// BuildReporter, when set, receives build-time diagnostics. It is
	// handed the run's FileSet so spans can be resolved for display.
	BuildReporter func(*source.FileSet) diag.Reporter
}

// scriptOutcome is one script's result, written by exactly one worker.
type scriptOutcome struct {
	path    string
	built   bool
	unknown int
	known   int
}

// Run executes the given script files and returns the aggregated
// summary. Build-time diagnostics go through the options' BuildReporter
// (per script, before evaluation).
func Run(ctx context.Context, opts Options, paths []string) (Summary, error) {
	if len(paths) == 0 {
		return Summary{}, errors.New("no scripts to run")
	}

	// Load everything up front: FileSet mutation is not concurrent-safe,
	// and load failures should surface before any script runs.
	fileSet := source.NewFileSet()
	fileIDs := make(map[string]source.FileID, len(paths))
	for _, path := range paths {
		id, err := fileSet.Load(path)
		if err != nil {
			return Summary{}, fmt.Errorf("failed to load %s: %w", path, err)
		}
		fileIDs[path] = id
	}

	var buildReporter diag.Reporter = diag.NopReporter{}
	if opts.BuildReporter != nil {
		buildReporter = opts.BuildReporter(fileSet)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	post := func(cfg *check.Configuration, kind check.EventKind) {
		check.Post(cfg, check.Event{Kind: kind})
	}
	runCfg := &check.Configuration{EventHandler: opts.Handler}
	post(runCfg, check.EventRunStarted)
	// Balanced even when the run is torn down early: stream consumers
	// pair every runStarted with a runEnded.
	defer post(runCfg, check.EventRunEnded)

	outcomes := make([]scriptOutcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(workers, len(paths)))

	for i, path := range paths {
		g.Go(func(i int, path string) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				outcomes[i] = runScript(gctx, opts, fileSet, fileIDs[path], path, buildReporter)
				return nil
			}
		}(i, path))
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	summary := locked.New(Summary{})
	summary.WithLock(func(s *Summary) {
		for _, out := range outcomes {
			s.Scripts++
			s.UnknownIssues += out.unknown
			s.KnownIssues += out.known
			switch {
			case !out.built:
				s.BuildFailed++
			case out.unknown > 0:
				s.Failed++
			default:
				s.Passed++
			}
		}
	})

	return summary.Get(), nil
}

// runScript builds and evaluates one script. Issue counting piggybacks
// on the event stream: the per-script handler tallies before forwarding.
func runScript(ctx context.Context, opts Options, fileSet *source.FileSet, id source.FileID, path string, buildReporter diag.Reporter) scriptOutcome {
	out := scriptOutcome{path: path}

	counters := locked.New([2]int{}) // unknown, known
	cfg := &check.Configuration{
		Context: check.EventContext{Script: path},
		EventHandler: func(ev check.Event, ec check.EventContext) {
			if ev.Kind == check.EventIssueRecorded && ev.Issue != nil {
				counters.WithLock(func(n *[2]int) {
					if ev.Issue.IsKnown {
						n[1]++
					} else {
						n[0]++
					}
				})
			}
			if opts.Handler != nil {
				opts.Handler(ev, ec)
			}
		},
	}

	check.Post(cfg, check.Event{Kind: check.EventScriptStarted})
	defer check.Post(cfg, check.Event{Kind: check.EventScriptEnded})

	bag := diag.NewBag(maxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}

	p := parser.New(fileSet.Get(id), reporter)
	script, parsed := p.ParseScript()
	var expanded = script
	if parsed {
		expanded, _ = expand.ExpandScript(script, fileSet, reporter)
	}
	if !parsed || bag.HasErrors() {
		bag.Sort()
		for _, d := range bag.Items() {
			buildReporter.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
		}
		return out
	}
	out.built = true

	// Each script gets its own child context: a matcher installed here
	// is invisible to every sibling script.
	sctx := ctx
	if matcher := opts.KnownIssueMatchers[path]; matcher != nil {
		sctx = check.WithKnownIssueMatcher(ctx, matcher)
	}

	ev := eval.New(cfg, opts.Globals)
	// A require failure has already recorded its issue; any other error
	// was recorded as errorCaught by the evaluator. Either way the
	// counters hold everything the summary needs.
	_ = ev.RunScript(sctx, expanded)

	n := counters.Get()
	out.unknown, out.known = n[0], n[1]
	return out
}
