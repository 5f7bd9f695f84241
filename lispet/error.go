// Copyright © 2018 The ELPS authors

package lispet

import "fmt"

// ErrorKind classifies an LErr value.
type ErrorKind uint

// ErrorKind constants.  ErrNone is the kind of every non-error value.
const (
	ErrNone ErrorKind = iota
	ErrInvalidNumber
	ErrUnboundSymbol
	ErrNotAFunction
	ErrWrongArgumentCount
	ErrWrongArgumentType
	ErrDivisionByZero
	ErrTooManyArguments
	ErrEmptyListAccess
	// ErrResourceExhausted is returned when evaluation nests deeper than the
	// runtime's CallStack allows.
	ErrResourceExhausted
	// ErrInternal reports a recovered Go panic.
	ErrInternal
)

var errorKindStrings = []string{
	ErrNone:               "none",
	ErrInvalidNumber:      "invalid-number",
	ErrUnboundSymbol:      "unbound-symbol",
	ErrNotAFunction:       "not-a-function",
	ErrWrongArgumentCount: "wrong-argument-count",
	ErrWrongArgumentType:  "wrong-argument-type",
	ErrDivisionByZero:     "division-by-zero",
	ErrTooManyArguments:   "too-many-arguments",
	ErrEmptyListAccess:    "empty-list-access",
	ErrResourceExhausted:  "resource-exhausted",
	ErrInternal:           "internal-error",
}

func (k ErrorKind) String() string {
	if int(k) >= len(errorKindStrings) {
		return "invalid-error-kind"
	}
	return errorKindStrings[k]
}

// Errorf returns an LErr of the given kind with a formatted message.
func Errorf(kind ErrorKind, format string, v ...interface{}) *LVal {
	return &LVal{
		Type: LErr,
		Kind: kind,
		Str:  fmt.Sprintf(format, v...),
	}
}

// ErrorVal implements the error interface so that errors can be first class
// lisp objects and still cross into Go code.
type ErrorVal LVal

// Error implements the error interface.
func (e *ErrorVal) Error() string {
	return e.Str
}

// ErrorKind returns the classification of the error.
func (e *ErrorVal) ErrorKind() ErrorKind {
	return e.LVal().Kind
}

// LVal returns e as a lisp value.
func (e *ErrorVal) LVal() *LVal {
	return (*LVal)(e)
}

// GoError returns an error that represents v.  If v is not an LErr then nil
// is returned.
func GoError(v *LVal) error {
	if v == nil || v.Type != LErr {
		return nil
	}
	return (*ErrorVal)(v)
}

func errArgCount(name string, got, want int) *LVal {
	return Errorf(ErrWrongArgumentCount,
		"Function '%s' passed incorrect number of arguments. Got %d, Expected %d.",
		name, got, want)
}

func errArgCountMin(name string, got, min int) *LVal {
	return Errorf(ErrWrongArgumentCount,
		"Function '%s' passed incorrect number of arguments. Got %d, Expected at least %d.",
		name, got, min)
}

func errArgType(name string, i int, got, want LType) *LVal {
	return Errorf(ErrWrongArgumentType,
		"Function '%s' passed incorrect type for argument %d. Got %v, Expected %v.",
		name, i, got, want)
}

func errEmptyList(name string, i int) *LVal {
	return Errorf(ErrEmptyListAccess,
		"Function '%s' passed {} for argument %d.", name, i)
}
