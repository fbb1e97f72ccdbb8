package internal

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the reason an evaluation failed.
type ErrorKind int

// Error kinds. Every kind except ExplicitQuit indicates a fatal error in the
// program being evaluated.
const (
	// NoError is the zero ErrorKind. It never appears in a returned error.
	NoError ErrorKind = iota
	// ParseError indicates an unterminated string, an unknown token, a missing
	// function argument, or an out-of-range literal.
	ParseError
	// UnassignedVariable indicates a read of a variable that has never been
	// assigned.
	UnassignedVariable
	// TypeError indicates an operation applied to a value of the wrong kind.
	TypeError
	// DivisionByZero is raised by / with a zero divisor.
	DivisionByZero
	// ModuloByZero is raised by % with a zero base.
	ModuloByZero
	// IndexError indicates a string index or count out of range.
	IndexError
	// ExternalFailure indicates that the line reader, shell runner, or output
	// writer failed.
	ExternalFailure
	// ExplicitQuit is the QUIT builtin's request to end the program.
	ExplicitQuit
	// DepthExceeded indicates that parsing or evaluation nested deeper than
	// the VM's MaxDepth.
	DepthExceeded
	// OverflowError indicates integer overflow in checked arithmetic.
	OverflowError
)

var kindNames = [...]string{
	"no error",
	"parse error",
	"unassigned variable",
	"type error",
	"division by zero",
	"modulo by zero",
	"index error",
	"external failure",
	"quit",
	"depth exceeded",
	"overflow",
}

// String returns a string representation of the ErrorKind.
func (k ErrorKind) String() string {
	if k < NoError || int(k) >= len(kindNames) {
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
	return kindNames[k]
}

// Error returns the kind's name. ErrorKind implements error so that callers
// may write errors.Is(err, DivisionByZero).
func (k ErrorKind) Error() string {
	return k.String()
}

// Error is the error type returned by parsing and evaluation.
type Error struct {
	// Kind is the classification of the error.
	Kind ErrorKind
	// Msg is a human-readable description.
	Msg string
	// Label is the name of the source in which a parse error occurred.
	Label string
	// Line and Col are the one-based position of a parse error. They are zero
	// for errors raised during evaluation.
	Line, Col int
	// Code is the exit status requested by QUIT.
	Code int
	// Err is the underlying cause, if any.
	Err error
}

// Error formats the error message.
func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Label, e.Line, e.Col, msg)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is e's ErrorKind.
func (e *Error) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

// errorf creates an evaluation error of the given kind.
func errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// wrapf creates an evaluation error of the given kind wrapping err.
func wrapf(kind ErrorKind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the ErrorKind of err, or NoError if err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return NoError
}

// QuitCode returns the exit status requested by QUIT if err is an
// ExplicitQuit error.
func QuitCode(err error) (int, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == ExplicitQuit {
		return e.Code, true
	}
	return 0, false
}
