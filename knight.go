package knight

import (
	"io"
	"log/slog"

	"github.com/zephyrtronium/knight/internal"
)

// A VM evaluates Knight programs.
type VM = internal.VM

// Value is a Knight value: null, a boolean, a number, a string, a variable
// reference, or an unevaluated function application.
//
// Values holding strings and expressions share them by reference counting.
// Every Value returned by the VM is owned by the caller, who must Release it
// exactly once.
type Value = internal.Value

// Kind identifies the variant of a Value.
type Kind = internal.Kind

// A String is an immutable, reference-counted byte string.
type String = internal.String

// A Variable is the storage for one global name.
type Variable = internal.Variable

// Env maps names to variables.
type Env = internal.Env

// An Expr is an application of a builtin to unevaluated arguments.
type Expr = internal.Expr

// A Function describes a builtin.
type Function = internal.Function

// An Fn is the native implementation of a builtin.
type Fn = internal.Fn

// An Option configures a VM.
type Option = internal.Option

// A LineReader supplies lines of input to PROMPT.
type LineReader = internal.LineReader

// A ShellRunner executes commands for the ` builtin.
type ShellRunner = internal.ShellRunner

// SystemShell runs commands with a POSIX shell.
type SystemShell = internal.SystemShell

// Error is the error type returned by parsing and evaluation.
type Error = internal.Error

// ErrorKind classifies the reason an evaluation failed.
type ErrorKind = internal.ErrorKind

// Footprint summarizes the payloads reachable from a VM's environment.
type Footprint = internal.Footprint

// Value kinds.
const (
	NullKind     = internal.NullKind
	BooleanKind  = internal.BooleanKind
	NumberKind   = internal.NumberKind
	StringKind   = internal.StringKind
	VariableKind = internal.VariableKind
	ExprKind     = internal.ExprKind
)

// Error kinds.
const (
	NoError            = internal.NoError
	ParseError         = internal.ParseError
	UnassignedVariable = internal.UnassignedVariable
	TypeError          = internal.TypeError
	DivisionByZero     = internal.DivisionByZero
	ModuloByZero       = internal.ModuloByZero
	IndexError         = internal.IndexError
	ExternalFailure    = internal.ExternalFailure
	ExplicitQuit       = internal.ExplicitQuit
	DepthExceeded      = internal.DepthExceeded
	OverflowError      = internal.OverflowError
)

// DefaultMaxDepth is the default limit on expression nesting.
const DefaultMaxDepth = internal.DefaultMaxDepth

// NewVM creates and initializes a VM.
func NewVM(opts ...Option) *VM {
	return internal.NewVM(opts...)
}

// WithStdin sets the VM's line reader.
func WithStdin(r LineReader) Option {
	return internal.WithStdin(r)
}

// WithStdout sets the VM's output writer.
func WithStdout(w io.Writer) Option {
	return internal.WithStdout(w)
}

// WithShell sets the VM's shell runner.
func WithShell(s ShellRunner) Option {
	return internal.WithShell(s)
}

// WithSeed seeds RANDOM deterministically.
func WithSeed(seed int64) Option {
	return internal.WithSeed(seed)
}

// WithMaxDepth sets the nesting limit for parsing and evaluation.
func WithMaxDepth(n int) Option {
	return internal.WithMaxDepth(n)
}

// WithChecked makes arithmetic overflow an error instead of wrapping.
func WithChecked(checked bool) Option {
	return internal.WithChecked(checked)
}

// WithLogger sets the VM's logger and whether it traces every function
// application.
func WithLogger(l *slog.Logger, trace bool) Option {
	return internal.WithLogger(l, trace)
}

// NewLineReader returns a LineReader reading lines from r.
func NewLineReader(r io.Reader) LineReader {
	return internal.NewLineReader(r)
}

// Null returns the null value.
func Null() Value {
	return internal.Null()
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return internal.Bool(b)
}

// Number returns a numeric value.
func Number(n int64) Value {
	return internal.Number(n)
}

// NewString returns an owned string value holding a copy of s.
func NewString(s string) Value {
	return internal.StringValue(internal.Intern([]byte(s)))
}

// Equal reports whether two evaluated values are equal as ? defines it.
func Equal(a, b Value) bool {
	return internal.Equal(a, b)
}

// IsIdentifier returns whether name is a valid variable name.
func IsIdentifier(name string) bool {
	return internal.IsIdentifier([]byte(name))
}

// KindOf returns the ErrorKind of err, or NoError if err did not come from
// evaluation.
func KindOf(err error) ErrorKind {
	return internal.KindOf(err)
}

// QuitCode returns the exit status requested by QUIT if err is an
// ExplicitQuit error.
func QuitCode(err error) (int, bool) {
	return internal.QuitCode(err)
}

// PlatformVersion returns a description of the operating system.
func PlatformVersion() string {
	return internal.PlatformVersion()
}
