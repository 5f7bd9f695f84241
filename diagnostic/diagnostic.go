// Copyright © 2024 The ELPS authors

// Package diagnostic renders lispet failures for terminal output.  It does not
// import the interpreter so any command can use it.
package diagnostic

// Severity indicates the severity level of a diagnostic.
type Severity int

// Severity constants.
const (
	SeverityError Severity = iota
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span locates a diagnostic in a named source.  Line and Col are 1-based and
// a zero Line means only the source name is known.
type Span struct {
	Source string
	Line   int
	Col    int
	Label  string
}

// Diagnostic is a single failure with an optional code, like the kind of a
// lispet error, a source location and trailing notes.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Span     *Span
	Notes    []string
}
