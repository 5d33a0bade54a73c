package check

// AttestFailureBreakpoint is called after an unknown issue has been
// recorded and published. It does nothing.
//
// The function's symbol name is a stable contract: external tooling sets
// a breakpoint on attest/internal/check.AttestFailureBreakpoint to pause
// execution the moment a fresh failure is recorded, with the failure
// already described on the observers' output.
//
//go:noinline
func AttestFailureBreakpoint() {}
