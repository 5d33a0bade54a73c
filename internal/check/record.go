package check

import (
	"context"
)

// Record constructs an issue with IsKnown=false and records it. The
// returned issue is the one that was published, which may be a known
// copy of the constructed one.
func Record(ctx context.Context, cfg *Configuration, kind IssueKind, comments []string, sc SourceContext) Issue {
	issue := Issue{
		Kind:          kind,
		Comments:      comments,
		SourceContext: sc,
	}
	return issue.Record(ctx, cfg)
}

// Record classifies and publishes the issue:
//
//  1. If the issue is not already known and the context's matcher
//     accepts it, a copy with IsKnown=true is recorded instead; the
//     original is discarded and never published.
//  2. Exactly one issueRecorded event is posted per terminal call.
//  3. If the issue is still unknown after step 1, the debugger trap
//     fires strictly after publication, so observer output describing
//     the failure is already visible when a debugger pauses here.
//
// No issue constructed by the runtime is ever silently dropped: every
// path out of this method has published exactly once.
func (issue Issue) Record(ctx context.Context, cfg *Configuration) Issue {
	if !issue.IsKnown {
		if matcher := CurrentKnownIssueMatcher(ctx); matcher != nil && matcher(issue) {
			known := issue
			known.IsKnown = true
			return known.Record(ctx, cfg)
		}
	}

	Post(cfg, Event{Kind: EventIssueRecorded, Issue: &issue})

	if !issue.IsKnown {
		AttestFailureBreakpoint()
	}
	return issue
}
