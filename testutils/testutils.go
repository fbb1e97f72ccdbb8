// Package testutils provides utilities for testing Knight code in Go.
package testutils

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/zephyrtronium/knight/internal"
)

// testVM is the VM used for all tests.
var testVM *internal.VM

// testOut collects the output of testVM.
var testOut bytes.Buffer

var testVMInit sync.Once

// TestingVM returns a VM for testing Knight. The VM is shared by all tests
// that use this package. Its output is collected for Output, PROMPT always
// sees the end of input, and shell commands echo themselves.
func TestingVM() *internal.VM {
	testVMInit.Do(ResetTestingVM)
	return testVM
}

// ResetTestingVM reinitializes the VM returned by TestingVM. It is not safe to
// call this in parallel tests.
func ResetTestingVM() {
	if testVM != nil {
		testVM.Close()
	}
	testOut.Reset()
	testVM = internal.NewVM(
		internal.WithStdout(&testOut),
		internal.WithStdin(Lines()),
		internal.WithShell(EchoShell{}),
		internal.WithSeed(1),
	)
}

// Output returns and clears the output the testing VM has written.
func Output() string {
	s := testOut.String()
	testOut.Reset()
	return s
}

// Lines returns a LineReader that supplies each of lines in turn, then io.EOF.
func Lines(lines ...string) internal.LineReader {
	return &lineFeed{lines: lines}
}

type lineFeed struct {
	lines []string
}

func (l *lineFeed) ReadLine() ([]byte, error) {
	if len(l.lines) == 0 {
		return nil, io.EOF
	}
	r := l.lines[0]
	l.lines = l.lines[1:]
	return []byte(r), nil
}

// EchoShell is a ShellRunner whose output is the command itself.
type EchoShell struct{}

// RunShell returns cmd.
func (EchoShell) RunShell(cmd string) ([]byte, error) {
	return []byte(cmd), nil
}

// ShellFunc adapts a function to the ShellRunner interface.
type ShellFunc func(cmd string) ([]byte, error)

// RunShell calls f(cmd).
func (f ShellFunc) RunShell(cmd string) ([]byte, error) {
	return f(cmd)
}

// A SourceTestCase is a test case containing Knight source code and a
// predicate to check the result.
type SourceTestCase struct {
	// Source is the Knight source code to execute.
	Source string
	// Pass is a predicate taking the result of executing Source. If Pass
	// returns false, then the test fails. The result is released after Pass
	// returns.
	Pass func(result internal.Value, err error) bool
}

// TestFunc returns a test function for the test case. This uses TestingVM to
// parse and execute the code.
func (c SourceTestCase) TestFunc(name string) func(*testing.T) {
	return func(t *testing.T) {
		vm := TestingVM()
		r, err := vm.Evaluate(strings.NewReader(c.Source), name)
		defer r.Release()
		if !c.Pass(r, err) {
			if err != nil {
				t.Errorf("%q produced wrong result; an error occurred: %v", c.Source, err)
			} else {
				t.Errorf("%q produced wrong result; got %s", c.Source, spew.Sdump(r))
			}
		}
	}
}

// PassEqual returns a Pass function for a SourceTestCase that predicates on
// equality with want as ? defines it. If there is an error, the predicate
// returns false.
func PassEqual(want internal.Value) func(internal.Value, error) bool {
	return func(result internal.Value, err error) bool {
		return err == nil && internal.Equal(want, result)
	}
}

// PassNumber returns a Pass function that predicates on a Number result.
func PassNumber(want int64) func(internal.Value, error) bool {
	return PassEqual(internal.Number(want))
}

// PassString returns a Pass function that predicates on a String result.
func PassString(want string) func(internal.Value, error) bool {
	return PassEqual(internal.StringValue(internal.NewString([]byte(want))))
}

// PassBool returns a Pass function that predicates on a Boolean result.
func PassBool(want bool) func(internal.Value, error) bool {
	return PassEqual(internal.Bool(want))
}

// PassNull returns a Pass function that predicates on a null result.
func PassNull() func(internal.Value, error) bool {
	return PassEqual(internal.Null())
}

// PassKind returns a Pass function that predicates on the kind of the result.
// If there is an error, the predicate returns false.
func PassKind(want internal.Kind) func(internal.Value, error) bool {
	return func(result internal.Value, err error) bool {
		return err == nil && result.Kind() == want
	}
}

// PassFailure returns a Pass function that returns true iff evaluation failed
// with an error of the given kind.
func PassFailure(kind internal.ErrorKind) func(internal.Value, error) bool {
	return func(result internal.Value, err error) bool {
		return internal.KindOf(err) == kind
	}
}

// PassQuit returns a Pass function that returns true iff the program called
// QUIT with the given status.
func PassQuit(code int) func(internal.Value, error) bool {
	return func(result internal.Value, err error) bool {
		n, ok := internal.QuitCode(err)
		return ok && n == code
	}
}

// PassSuccess returns a Pass function that returns true iff evaluation
// succeeded.
func PassSuccess() func(internal.Value, error) bool {
	return func(result internal.Value, err error) bool {
		return err == nil
	}
}
