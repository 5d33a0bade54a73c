package check

import (
	"context"
	"sync"
	"testing"

	"attest/internal/locked"
	"attest/internal/source"
)

// collector gathers published issues through a Configuration.
type collector struct {
	mu     sync.Mutex
	events []Event
	issues []Issue
}

func (c *collector) config() *Configuration {
	return &Configuration{
		EventHandler: func(ev Event, _ EventContext) {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.events = append(c.events, ev)
			if ev.Issue != nil {
				c.issues = append(c.issues, *ev.Issue)
			}
		},
	}
}

func (c *collector) recorded() []Issue {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Issue, len(c.issues))
	copy(out, c.issues)
	return out
}

func TestRecord_NoMatcherPublishesUnknown(t *testing.T) {
	col := &collector{}
	ctx := context.Background()

	got := Record(ctx, col.config(), KindConditionFailed, []string{"should hold"}, SourceContext{
		SourceLocation: source.Location{Path: "t.at", Line: 3, Column: 1},
	})

	issues := col.recorded()
	if len(issues) != 1 {
		t.Fatalf("published %d issues, want exactly 1", len(issues))
	}
	if issues[0].IsKnown {
		t.Error("published issue IsKnown = true, want false")
	}
	if got.IsKnown {
		t.Error("returned issue IsKnown = true, want false")
	}
	if issues[0].Kind != KindConditionFailed {
		t.Errorf("Kind = %v, want KindConditionFailed", issues[0].Kind)
	}
}

func TestRecord_MatchingMatcherPublishesKnownCopyOnce(t *testing.T) {
	col := &collector{}
	ctx := WithKnownIssueMatcher(context.Background(), func(issue Issue) bool {
		return issue.Kind == KindConditionFailed
	})

	got := Record(ctx, col.config(), KindConditionFailed, nil, SourceContext{})

	issues := col.recorded()
	if len(issues) != 1 {
		t.Fatalf("published %d issues, want exactly 1", len(issues))
	}
	if !issues[0].IsKnown {
		t.Error("published issue IsKnown = false, want true")
	}
	if !got.IsKnown {
		t.Error("returned issue IsKnown = false, want true")
	}
	// The original unknown instance must never have been published.
	for _, issue := range issues {
		if !issue.IsKnown {
			t.Error("an unknown instance leaked to the handler")
		}
	}
}

func TestRecord_NonMatchingMatcherStaysUnknown(t *testing.T) {
	col := &collector{}
	ctx := WithKnownIssueMatcher(context.Background(), func(issue Issue) bool {
		return issue.Kind == KindTimeLimitExceeded
	})

	Record(ctx, col.config(), KindConditionFailed, nil, SourceContext{})

	issues := col.recorded()
	if len(issues) != 1 {
		t.Fatalf("published %d issues, want 1", len(issues))
	}
	if issues[0].IsKnown {
		t.Error("IsKnown = true for a non-matching issue")
	}
}

func TestRecord_AlreadyKnownIsNotRematched(t *testing.T) {
	col := &collector{}
	calls := locked.New(0)
	ctx := WithKnownIssueMatcher(context.Background(), func(Issue) bool {
		calls.WithLock(func(n *int) { *n++ })
		return true
	})

	issue := Issue{Kind: KindConditionFailed, IsKnown: true}
	issue.Record(ctx, col.config())

	if got := calls.Get(); got != 0 {
		t.Errorf("matcher consulted %d times for an already-known issue, want 0", got)
	}
	if len(col.recorded()) != 1 {
		t.Fatalf("published %d issues, want 1", len(col.recorded()))
	}
}

func TestKnownIssueMatcher_InnermostWins(t *testing.T) {
	outer := WithKnownIssueMatcher(context.Background(), func(Issue) bool { return false })
	inner := WithKnownIssueMatcher(outer, func(Issue) bool { return true })

	if m := CurrentKnownIssueMatcher(inner); m == nil || !m(Issue{}) {
		t.Error("innermost matcher not visible")
	}
	if m := CurrentKnownIssueMatcher(outer); m == nil || m(Issue{}) {
		t.Error("outer context does not see its own matcher")
	}
	if m := CurrentKnownIssueMatcher(context.Background()); m != nil {
		t.Error("fresh context has a matcher")
	}
}

func TestKnownIssueMatcher_FollowsTaskNotSiblings(t *testing.T) {
	parent := context.Background()
	region := WithKnownIssueMatcher(parent, func(Issue) bool { return true })

	// The matcher survives a suspension: work that hops goroutines but
	// carries the region context still sees it.
	seen := make(chan bool, 1)
	wait := make(chan struct{})
	go func(ctx context.Context) {
		<-wait // simulated suspension; resumes on this other goroutine
		seen <- CurrentKnownIssueMatcher(ctx) != nil
	}(region)
	close(wait)
	if !<-seen {
		t.Error("matcher lost across suspension")
	}

	// A sibling started from the parent context never sees it.
	sibling := make(chan bool, 1)
	go func(ctx context.Context) {
		sibling <- CurrentKnownIssueMatcher(ctx) != nil
	}(parent)
	if <-sibling {
		t.Error("matcher leaked into a sibling task")
	}
}

func TestWithKnownIssue_SuppressesAndRestores(t *testing.T) {
	col := &collector{}
	cfg := col.config()
	ctx := context.Background()

	err := WithKnownIssue(ctx, cfg, func(issue Issue) bool {
		return issue.Kind == KindConditionFailed
	}, func(ctx context.Context) error {
		Record(ctx, cfg, KindConditionFailed, nil, SourceContext{})
		return nil
	})
	if err != nil {
		t.Fatalf("WithKnownIssue() error = %v", err)
	}

	issues := col.recorded()
	if len(issues) != 1 {
		t.Fatalf("published %d issues, want 1", len(issues))
	}
	if !issues[0].IsKnown {
		t.Error("issue inside region not reclassified as known")
	}

	// The region is over: the same failure is unknown again.
	Record(ctx, cfg, KindConditionFailed, nil, SourceContext{})
	issues = col.recorded()
	if len(issues) != 2 || issues[1].IsKnown {
		t.Errorf("matcher still active after region: %+v", issues)
	}
}

func TestWithKnownIssue_ReportsUnusedRegion(t *testing.T) {
	col := &collector{}
	cfg := col.config()

	_ = WithKnownIssue(context.Background(), cfg, func(Issue) bool { return true }, func(ctx context.Context) error {
		return nil // no issue recorded
	})

	issues := col.recorded()
	if len(issues) != 1 {
		t.Fatalf("published %d issues, want 1", len(issues))
	}
	if issues[0].Kind != KindKnownIssueNotRecorded {
		t.Errorf("Kind = %v, want KindKnownIssueNotRecorded", issues[0].Kind)
	}
}

func TestPost_NilHandlerDoesNotPanic(t *testing.T) {
	Post(nil, Event{Kind: EventRunStarted})
	Post(&Configuration{}, Event{Kind: EventRunStarted})
}

func TestCaptureBacktrace(t *testing.T) {
	pcs := CaptureBacktrace(0)
	if len(pcs) == 0 {
		t.Error("CaptureBacktrace() returned no frames")
	}
}
