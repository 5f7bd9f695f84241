// Copyright © 2018 The ELPS authors

package lispet

// Profiler observes function applications.
type Profiler interface {
	// IsEnabled reports whether Start should be called.
	IsEnabled() bool
	// Enable attaches the profiler to its runtime.
	Enable() error
	// Complete ends the profiling session and flushes any buffered output.
	Complete() error
	// Start marks the application of fun.  The returned function marks its
	// end and must be called exactly once.
	Start(fun *LVal) func()
}
