package internal

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/zephyrtronium/contains"
)

// Version is the interpreter version reported by the CLI.
const Version = "1"

// DefaultMaxDepth is the default limit on expression nesting.
const DefaultMaxDepth = 10000

// A LineReader supplies lines of input to PROMPT.
type LineReader interface {
	// ReadLine returns the next line of input, with or without its line
	// terminator. At the end of input, it returns io.EOF.
	ReadLine() ([]byte, error)
}

// A ShellRunner executes commands for the shell builtin.
type ShellRunner interface {
	// RunShell runs cmd and returns its standard output. It returns an error
	// only if the command could not be run or its output could not be read.
	RunShell(cmd string) ([]byte, error)
}

// VM is an interpreter for Knight programs. A VM is not safe for concurrent
// use, but separate VMs are fully independent.
type VM struct {
	// Env holds the program's variables.
	Env *Env

	// Stdin supplies lines to PROMPT.
	Stdin LineReader
	// Stdout receives the output of OUTPUT and DUMP. If it has a Flush method,
	// the VM flushes it after every write and before reading from Stdin.
	Stdout io.Writer
	// Shell runs commands for the ` builtin.
	Shell ShellRunner
	// Logger receives diagnostics. Builtin applications are logged at debug
	// level when Trace is set.
	Logger *slog.Logger
	// Trace enables logging of every function application.
	Trace bool

	// MaxDepth limits the nesting of parsed expressions and of function
	// applications during evaluation.
	MaxDepth int
	// Checked makes integer overflow in arithmetic an OverflowError instead of
	// wrapping.
	Checked bool

	// funcs is the builtin table, indexed by function name.
	funcs [256]*Function
	// rand is the source for RANDOM.
	rand *rand.Rand
	seed int64
	// depth is the current nesting of function applications.
	depth int
	// footSet is the visited set for Footprint.
	footSet contains.Set
	// StartTime is the time at which the VM was initialized.
	StartTime time.Time

	initialized bool
}

// An Option configures a VM.
type Option func(*VM)

// WithStdin sets the VM's line reader.
func WithStdin(r LineReader) Option {
	return func(vm *VM) { vm.Stdin = r }
}

// WithStdout sets the VM's output writer.
func WithStdout(w io.Writer) Option {
	return func(vm *VM) { vm.Stdout = w }
}

// WithShell sets the VM's shell runner.
func WithShell(s ShellRunner) Option {
	return func(vm *VM) { vm.Shell = s }
}

// WithSeed seeds RANDOM deterministically.
func WithSeed(seed int64) Option {
	return func(vm *VM) { vm.seed = seed }
}

// WithMaxDepth sets the nesting limit. Values less than 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(vm *VM) {
		if n > 0 {
			vm.MaxDepth = n
		}
	}
}

// WithChecked selects checked or wrapping arithmetic.
func WithChecked(checked bool) Option {
	return func(vm *VM) { vm.Checked = checked }
}

// WithLogger sets the VM's logger and whether it traces applications.
func WithLogger(l *slog.Logger, trace bool) Option {
	return func(vm *VM) { vm.Logger, vm.Trace = l, trace }
}

// NewVM creates and initializes a VM. By default, PROMPT reads os.Stdin,
// output goes to os.Stdout, and shell commands run through sh -c.
func NewVM(opts ...Option) *VM {
	haveVM = true
	vm := VM{
		Env:      NewEnv(),
		MaxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&vm)
	}
	vm.Init()
	return &vm
}

// Init prepares the VM for use: it seeds the random source, fills the builtin
// table, and supplies defaults for unset collaborators. NewVM calls Init, and
// calling it again has no effect.
func (vm *VM) Init() {
	if vm.initialized {
		return
	}
	vm.initialized = true
	vm.StartTime = time.Now()
	if vm.seed == 0 {
		vm.seed = vm.StartTime.UnixNano()
	}
	vm.rand = rand.New(rand.NewSource(vm.seed))
	if vm.Env == nil {
		vm.Env = NewEnv()
	}
	if vm.MaxDepth <= 0 {
		vm.MaxDepth = DefaultMaxDepth
	}
	if vm.Stdin == nil {
		vm.Stdin = NewLineReader(os.Stdin)
	}
	if vm.Stdout == nil {
		vm.Stdout = os.Stdout
	}
	if vm.Shell == nil {
		vm.Shell = SystemShell{}
	}
	if vm.Logger == nil {
		vm.Logger = slog.New(discardHandler{})
	}
	vm.initBuiltins()
	for _, ext := range coreExt {
		ext(vm)
	}
}

// Close releases every variable in the VM's environment. No value produced by
// the VM may be used after Close.
func (vm *VM) Close() {
	vm.Env.Reset()
}

// Define adds fn to the builtin table, replacing any function with the same
// name. Functions defined after parsing are visible only to later parses.
// T, F, and N always parse as literals, so they cannot name functions.
func (vm *VM) Define(fn *Function) {
	if fn.Arity < 0 || fn.Arity > MaxArity {
		panic(fmt.Sprintf("knight: arity %d of %s out of range", fn.Arity, fn.Long))
	}
	if isLower(fn.Name) || isDigit(fn.Name) || isSeparator(fn.Name) || strings.IndexByte("_#\"'TFN", fn.Name) >= 0 {
		panic(fmt.Sprintf("knight: %q cannot name a function", fn.Name))
	}
	if fn.Long == "" {
		fn.Long = string(fn.Name)
	}
	vm.funcs[fn.Name] = fn
}

// Function returns the builtin named c, or nil if there is none.
func (vm *VM) Function(c byte) *Function {
	return vm.funcs[c]
}

// Evaluate parses one expression from src and evaluates it. Input following
// the expression is ignored. The result is owned by the caller.
func (vm *VM) Evaluate(src io.Reader, label string) (Value, error) {
	v, err := vm.Parse(src, label)
	if err != nil {
		if err == io.EOF {
			err = &Error{Kind: ParseError, Msg: "no expression to evaluate", Label: label, Err: io.EOF}
		}
		return Value{}, err
	}
	defer v.Release()
	return vm.Run(v)
}

// EvaluateString evaluates a program given as a string.
func (vm *VM) EvaluateString(src, label string) (Value, error) {
	return vm.Evaluate(strings.NewReader(src), label)
}

// MustEvaluateString evaluates a program and panics on any error.
func (vm *VM) MustEvaluateString(src string) Value {
	r, err := vm.EvaluateString(src, "MustEvaluateString")
	if err != nil {
		panic(err)
	}
	return r
}

// Seed returns the seed of the VM's random source.
func (vm *VM) Seed() int64 {
	return vm.seed
}

// flush flushes Stdout if it supports flushing.
func (vm *VM) flush() error {
	if f, ok := vm.Stdout.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// traceApply logs a function application when tracing.
func (vm *VM) traceApply(e *Expr) {
	if vm.Trace {
		vm.Logger.LogAttrs(context.Background(), slog.LevelDebug, "apply",
			slog.String("fn", e.fn.Long),
			slog.Int("depth", vm.depth),
		)
	}
}

// discardHandler is a slog.Handler that drops every record.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }

// lineReader adapts a bufio.Reader to LineReader.
type lineReader struct {
	r *bufio.Reader
}

// NewLineReader returns a LineReader reading lines from r.
func NewLineReader(r io.Reader) LineReader {
	return lineReader{r: bufio.NewReader(r)}
}

func (l lineReader) ReadLine() ([]byte, error) {
	line, err := l.r.ReadBytes('\n')
	if err == io.EOF && len(line) > 0 {
		return line, nil
	}
	return line, err
}

// SystemShell runs commands with a POSIX shell's -c option.
type SystemShell struct {
	// Path is the shell to run. If it is empty, sh is used.
	Path string
}

// RunShell runs cmd with the shell and returns its standard output. A non-zero
// exit status is not an error.
func (s SystemShell) RunShell(cmd string) ([]byte, error) {
	sh := s.Path
	if sh == "" {
		sh = "sh"
	}
	var out bytes.Buffer
	c := exec.Command(sh, "-c", cmd)
	c.Stdout = &out
	c.Stderr = os.Stderr
	err := c.Run()
	var exit *exec.ExitError
	if errors.As(err, &exit) {
		err = nil
	}
	return out.Bytes(), err
}

// Register registers an extension to run on every new VM after the default
// builtins are installed. Extensions run in the order they are registered.
// Register should be called from within init funcs. Panics if NewVM has been
// called.
func Register(f func(*VM)) {
	if haveVM {
		panic("knight/internal: Register must be called before any VM is created")
	}
	coreExt = append(coreExt, f)
}

// coreExt is a list of extensions that have been registered.
var coreExt = make([]func(*VM), 0, 4)

// haveVM becomes true once NewVM has been called.
var haveVM = false
