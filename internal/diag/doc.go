// Package diag carries build-time diagnostics for script files: lexical
// and syntactic problems, and failures reported by the call-site
// expansion. Runtime failures do not go through this package; they flow
// through the issue recording pipeline in internal/check.
package diag
