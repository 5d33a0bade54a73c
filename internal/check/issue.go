// Package check is the runtime half of attest: it models recorded
// failures as issues, reclassifies them against the active known-issue
// matcher, and publishes them as events through the configured handler.
package check

import (
	"runtime"
	"time"

	"attest/internal/source"
)

// IssueKind classifies a recorded issue. The set is closed today but may
// grow; consumers should match with a default arm.
type IssueKind uint8

const (
	// KindUnconditional is a failure not tied to any condition, e.g. an
	// explicit fail call.
	KindUnconditional IssueKind = iota
	// KindConditionFailed is a check or require whose condition
	// evaluated to false.
	KindConditionFailed
	// KindErrorCaught is an unexpected error caught while running a
	// script.
	KindErrorCaught
	// KindAPIMisused is a framework API used outside its contract.
	KindAPIMisused
	// KindTimeLimitExceeded is a script that ran past its time limit.
	KindTimeLimitExceeded
	// KindKnownIssueNotRecorded is a known-issue region that completed
	// without any matching issue.
	KindKnownIssueNotRecorded
)

func (k IssueKind) String() string {
	switch k {
	case KindUnconditional:
		return "unconditional failure"
	case KindConditionFailed:
		return "condition failed"
	case KindErrorCaught:
		return "error caught"
	case KindAPIMisused:
		return "API misused"
	case KindTimeLimitExceeded:
		return "time limit exceeded"
	case KindKnownIssueNotRecorded:
		return "known issue not recorded"
	default:
		return "unknown issue kind"
	}
}

// SourceContext ties an issue to where it happened. Backtrace capture is
// best-effort and may legitimately be absent.
type SourceContext struct {
	Backtrace      []uintptr
	SourceLocation source.Location
}

// CaptureBacktrace returns the calling goroutine's program counters,
// skipping the given number of frames on top of the capture machinery
// itself.
func CaptureBacktrace(skip int) []uintptr {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}
	return pcs[:n]
}

// Issue is one detected failure or caught error.
//
// IsKnown starts false and is flipped exactly once, on a copy, when the
// issue matches the active known-issue matcher; the original unmatched
// instance is discarded without ever being published.
type Issue struct {
	Kind          IssueKind
	Comments      []string
	SourceContext SourceContext

	// SourceCode is the captured text of the failed condition, when the
	// issue came from an expanded check.
	SourceCode string
	// Err is the caught error for KindErrorCaught issues.
	Err error
	// TimeLimit is the exceeded limit for KindTimeLimitExceeded issues.
	TimeLimit time.Duration

	IsKnown bool
}
