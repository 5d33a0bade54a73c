package check

import (
	"context"

	"attest/internal/locked"
)

// KnownIssueMatcher decides whether an issue is an already-known defect.
type KnownIssueMatcher func(Issue) bool

type knownIssueKey struct{}

// WithKnownIssueMatcher returns a child context carrying the matcher.
// The matcher follows the context through goroutine hops and waits, not
// the OS thread, and is never visible to sibling contexts. Nested
// matchers shadow outer ones: only the innermost is consulted.
func WithKnownIssueMatcher(ctx context.Context, matcher KnownIssueMatcher) context.Context {
	return context.WithValue(ctx, knownIssueKey{}, matcher)
}

// CurrentKnownIssueMatcher returns the innermost matcher installed on
// the context, or nil.
func CurrentKnownIssueMatcher(ctx context.Context) KnownIssueMatcher {
	if ctx == nil {
		return nil
	}
	matcher, _ := ctx.Value(knownIssueKey{}).(KnownIssueMatcher)
	return matcher
}

// WithKnownIssue runs body with the matcher installed for its dynamic
// extent. Leaving body restores the previous matcher on every exit path,
// because the child context simply goes out of scope.
//
// If body completes without recording any issue the matcher accepted,
// a KindKnownIssueNotRecorded issue is recorded: a suppression that no
// longer suppresses anything is itself a defect worth surfacing.
func WithKnownIssue(ctx context.Context, cfg *Configuration, matcher KnownIssueMatcher, body func(context.Context) error) error {
	if matcher == nil {
		Record(ctx, cfg, KindAPIMisused, []string{"WithKnownIssue requires a matcher"}, SourceContext{})
		return body(ctx)
	}

	matched := locked.New(0)
	counting := func(issue Issue) bool {
		if matcher(issue) {
			matched.WithLock(func(n *int) { *n++ })
			return true
		}
		return false
	}

	err := body(WithKnownIssueMatcher(ctx, counting))

	if matched.Get() == 0 {
		issue := Issue{
			Kind:     KindKnownIssueNotRecorded,
			Comments: []string{"known-issue region completed without a matching issue"},
		}
		issue.Record(ctx, cfg)
	}
	return err
}
