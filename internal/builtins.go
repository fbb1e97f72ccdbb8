package internal

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
)

// defaultFuncs is the builtin table installed on every VM.
var defaultFuncs = [...]Function{
	{Name: 'P', Long: "PROMPT", Arity: 0, Fn: FnPrompt},
	{Name: 'R', Long: "RANDOM", Arity: 0, Fn: FnRandom},

	{Name: 'E', Long: "EVAL", Arity: 1, Fn: FnEval},
	{Name: 'B', Long: "BLOCK", Arity: 1, Fn: FnBlock},
	{Name: 'C', Long: "CALL", Arity: 1, Fn: FnCall},
	{Name: '`', Long: "`", Arity: 1, Fn: FnShell},
	{Name: 'Q', Long: "QUIT", Arity: 1, Fn: FnQuit},
	{Name: '!', Long: "!", Arity: 1, Fn: FnNot},
	{Name: 'L', Long: "LENGTH", Arity: 1, Fn: FnLength},
	{Name: 'D', Long: "DUMP", Arity: 1, Fn: FnDump},
	{Name: 'O', Long: "OUTPUT", Arity: 1, Fn: FnOutput},

	{Name: '+', Long: "+", Arity: 2, Fn: FnAdd},
	{Name: '-', Long: "-", Arity: 2, Fn: FnSub},
	{Name: '*', Long: "*", Arity: 2, Fn: FnMul},
	{Name: '/', Long: "/", Arity: 2, Fn: FnDiv},
	{Name: '%', Long: "%", Arity: 2, Fn: FnMod},
	{Name: '^', Long: "^", Arity: 2, Fn: FnPow},
	{Name: '?', Long: "?", Arity: 2, Fn: FnEql},
	{Name: '<', Long: "<", Arity: 2, Fn: FnLth},
	{Name: '>', Long: ">", Arity: 2, Fn: FnGth},
	{Name: '&', Long: "&", Arity: 2, Fn: FnAnd},
	{Name: '|', Long: "|", Arity: 2, Fn: FnOr},
	{Name: ';', Long: ";", Arity: 2, Fn: FnThen},
	{Name: '=', Long: "=", Arity: 2, Fn: FnAssign},
	{Name: 'W', Long: "WHILE", Arity: 2, Fn: FnWhile},

	{Name: 'I', Long: "IF", Arity: 3, Fn: FnIf},
	{Name: 'G', Long: "GET", Arity: 3, Fn: FnGet},

	{Name: 'S', Long: "SET", Arity: 4, Fn: FnSet},
}

// initBuiltins installs the default builtins.
func (vm *VM) initBuiltins() {
	for i := range defaultFuncs {
		fn := defaultFuncs[i]
		vm.Define(&fn)
	}
}

// FnPrompt is the PROMPT builtin.
//
// PROMPT reads a line from standard input, without its line terminator. At
// the end of input, it returns null.
func FnPrompt(vm *VM, args []Value) (Value, error) {
	if err := vm.flush(); err != nil {
		return Value{}, wrapf(ExternalFailure, err, "flushing output")
	}
	line, err := vm.Stdin.ReadLine()
	if err != nil {
		if err == io.EOF {
			return Null(), nil
		}
		return Value{}, wrapf(ExternalFailure, err, "reading line")
	}
	line = bytes.TrimSuffix(line, []byte{'\n'})
	line = bytes.TrimRight(line, "\r")
	return StringValue(Intern(line)), nil
}

// FnRandom is the RANDOM builtin.
//
// RANDOM returns a non-negative pseudo-random number.
func FnRandom(vm *VM, args []Value) (Value, error) {
	return Number(int64(vm.rand.Int31())), nil
}

// FnEval is the EVAL builtin.
//
// EVAL parses its argument's string value as a program and evaluates it.
func FnEval(vm *VM, args []Value) (Value, error) {
	s, err := vm.ToString(args[0])
	if err != nil {
		return Value{}, err
	}
	defer s.Release()
	return vm.Evaluate(bytes.NewReader(s.Bytes()), "EVAL")
}

// FnBlock is the BLOCK builtin.
//
// BLOCK returns its argument without evaluating it.
func FnBlock(vm *VM, args []Value) (Value, error) {
	return args[0].Clone(), nil
}

// FnCall is the CALL builtin.
//
// CALL evaluates its argument, then evaluates the result if it is a block.
func FnCall(vm *VM, args []Value) (Value, error) {
	r, err := vm.Run(args[0])
	if err != nil {
		return Value{}, err
	}
	if r.IsLiteral() {
		return r, nil
	}
	defer r.Release()
	return vm.Run(r)
}

// FnShell is the ` builtin.
//
// ` runs its argument as a shell command and returns the command's standard
// output.
func FnShell(vm *VM, args []Value) (Value, error) {
	cmd, err := vm.ToString(args[0])
	if err != nil {
		return Value{}, err
	}
	defer cmd.Release()
	out, err := vm.Shell.RunShell(cmd.String())
	if err != nil {
		return Value{}, wrapf(ExternalFailure, err, "running %q", cmd.String())
	}
	return StringValue(Intern(out)), nil
}

// FnQuit is the QUIT builtin.
//
// QUIT ends the program with its argument as the exit status.
func FnQuit(vm *VM, args []Value) (Value, error) {
	n, err := vm.ToNumber(args[0])
	if err != nil {
		return Value{}, err
	}
	vm.Logger.Info("quit", slog.Int64("status", n))
	return Value{}, &Error{Kind: ExplicitQuit, Msg: fmt.Sprintf("quit with status %d", n), Code: int(n)}
}

// FnNot is the ! builtin.
func FnNot(vm *VM, args []Value) (Value, error) {
	b, err := vm.ToBoolean(args[0])
	if err != nil {
		return Value{}, err
	}
	return Bool(!b), nil
}

// FnLength is the LENGTH builtin.
//
// LENGTH returns the number of bytes in its argument's string value.
func FnLength(vm *VM, args []Value) (Value, error) {
	s, err := vm.ToString(args[0])
	if err != nil {
		return Value{}, err
	}
	n := s.Len()
	s.Release()
	return Number(int64(n)), nil
}

// FnDump is the DUMP builtin.
//
// DUMP evaluates its argument, writes its diagnostic representation on a line,
// and returns it.
func FnDump(vm *VM, args []Value) (Value, error) {
	r, err := vm.Run(args[0])
	if err != nil {
		return Value{}, err
	}
	var b strings.Builder
	Dump(&b, r)
	b.WriteByte('\n')
	if err := vm.write([]byte(b.String())); err != nil {
		r.Release()
		return Value{}, err
	}
	return r, nil
}

// FnOutput is the OUTPUT builtin.
//
// OUTPUT writes its argument's string value followed by a newline. If the
// string ends with a backslash, the backslash and newline are omitted.
func FnOutput(vm *VM, args []Value) (Value, error) {
	s, err := vm.ToString(args[0])
	if err != nil {
		return Value{}, err
	}
	defer s.Release()
	b := s.Bytes()
	if len(b) > 0 && b[len(b)-1] == '\\' {
		err = vm.write(b[:len(b)-1])
	} else {
		line := make([]byte, len(b)+1)
		copy(line, b)
		line[len(b)] = '\n'
		err = vm.write(line)
	}
	if err != nil {
		return Value{}, err
	}
	return Null(), nil
}

// write writes b to Stdout and flushes it.
func (vm *VM) write(b []byte) error {
	if _, err := vm.Stdout.Write(b); err != nil {
		return wrapf(ExternalFailure, err, "writing output")
	}
	if err := vm.flush(); err != nil {
		return wrapf(ExternalFailure, err, "flushing output")
	}
	return nil
}

// numbers converts both arguments to numbers, in order.
func (vm *VM) numbers(args []Value) (int64, int64, error) {
	a, err := vm.ToNumber(args[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := vm.ToNumber(args[1])
	return a, b, err
}

// FnAdd is the + builtin.
//
// + concatenates if its first argument evaluates to a string and adds
// otherwise.
func FnAdd(vm *VM, args []Value) (Value, error) {
	l, err := vm.Run(args[0])
	if err != nil {
		return Value{}, err
	}
	defer l.Release()
	if l.kind == StringKind {
		r, err := vm.ToString(args[1])
		if err != nil {
			return Value{}, err
		}
		defer r.Release()
		s, err := Concat(l.p.(*String), r)
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	}
	a, err := vm.ToNumber(l)
	if err != nil {
		return Value{}, err
	}
	b, err := vm.ToNumber(args[1])
	if err != nil {
		return Value{}, err
	}
	n, err := vm.add(a, b)
	return Number(n), err
}

// FnSub is the - builtin.
func FnSub(vm *VM, args []Value) (Value, error) {
	a, b, err := vm.numbers(args)
	if err != nil {
		return Value{}, err
	}
	n, err := vm.sub(a, b)
	return Number(n), err
}

// FnMul is the * builtin.
//
// * repeats if its first argument evaluates to a string and multiplies
// otherwise.
func FnMul(vm *VM, args []Value) (Value, error) {
	l, err := vm.Run(args[0])
	if err != nil {
		return Value{}, err
	}
	defer l.Release()
	if l.kind == StringKind {
		n, err := vm.ToNumber(args[1])
		if err != nil {
			return Value{}, err
		}
		s, err := Repeat(l.p.(*String), n)
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	}
	a, err := vm.ToNumber(l)
	if err != nil {
		return Value{}, err
	}
	b, err := vm.ToNumber(args[1])
	if err != nil {
		return Value{}, err
	}
	n, err := vm.mul(a, b)
	return Number(n), err
}

// FnDiv is the / builtin. The quotient is truncated toward zero.
func FnDiv(vm *VM, args []Value) (Value, error) {
	a, b, err := vm.numbers(args)
	if err != nil {
		return Value{}, err
	}
	if b == 0 {
		return Value{}, errorf(DivisionByZero, "attempted to divide %d by zero", a)
	}
	if vm.Checked && a == math.MinInt64 && b == -1 {
		return Value{}, errorf(OverflowError, "%d / %d overflows", a, b)
	}
	return Number(a / b), nil
}

// FnMod is the % builtin. The result has the sign of the dividend.
func FnMod(vm *VM, args []Value) (Value, error) {
	a, b, err := vm.numbers(args)
	if err != nil {
		return Value{}, err
	}
	if b == 0 {
		return Value{}, errorf(ModuloByZero, "attempted to modulo %d by zero", a)
	}
	return Number(a % b), nil
}

// FnPow is the ^ builtin.
//
// ^ raises an integer to an integer power. Negative exponents produce zero
// except for bases of 1 and -1.
func FnPow(vm *VM, args []Value) (Value, error) {
	a, b, err := vm.numbers(args)
	if err != nil {
		return Value{}, err
	}
	n, err := vm.pow(a, b)
	return Number(n), err
}

// FnEql is the ? builtin.
//
// ? compares its arguments for equality without conversion.
func FnEql(vm *VM, args []Value) (Value, error) {
	l, err := vm.Run(args[0])
	if err != nil {
		return Value{}, err
	}
	defer l.Release()
	r, err := vm.Run(args[1])
	if err != nil {
		return Value{}, err
	}
	defer r.Release()
	return Bool(Equal(l, r)), nil
}

// FnLth is the < builtin.
func FnLth(vm *VM, args []Value) (Value, error) {
	c, err := vm.Compare(args[0], args[1])
	if err != nil {
		return Value{}, err
	}
	return Bool(c < 0), nil
}

// FnGth is the > builtin.
func FnGth(vm *VM, args []Value) (Value, error) {
	c, err := vm.Compare(args[0], args[1])
	if err != nil {
		return Value{}, err
	}
	return Bool(c > 0), nil
}

// FnAnd is the & builtin.
//
// & returns its first argument if it is falsey and its second otherwise. The
// second argument is evaluated only if it is returned.
func FnAnd(vm *VM, args []Value) (Value, error) {
	return vm.shortCircuit(args, false)
}

// FnOr is the | builtin.
//
// | returns its first argument if it is truthy and its second otherwise. The
// second argument is evaluated only if it is returned.
func FnOr(vm *VM, args []Value) (Value, error) {
	return vm.shortCircuit(args, true)
}

// shortCircuit returns the first argument if its truthiness is stop, or else
// the value of the second argument.
func (vm *VM) shortCircuit(args []Value, stop bool) (Value, error) {
	l, err := vm.Run(args[0])
	if err != nil {
		return Value{}, err
	}
	b, err := vm.ToBoolean(l)
	if err != nil {
		l.Release()
		return Value{}, err
	}
	if b == stop {
		return l, nil
	}
	l.Release()
	return vm.Run(args[1])
}

// FnThen is the ; builtin.
//
// ; evaluates its first argument, discards it, and returns its second.
func FnThen(vm *VM, args []Value) (Value, error) {
	l, err := vm.Run(args[0])
	if err != nil {
		return Value{}, err
	}
	l.Release()
	return vm.Run(args[1])
}

// FnAssign is the = builtin.
//
// = assigns the value of its second argument to the variable named by its
// first, which is either an identifier or an expression whose string value is
// a valid identifier. The assigned value is returned.
func FnAssign(vm *VM, args []Value) (Value, error) {
	var v *Variable
	if args[0].kind == VariableKind {
		v = args[0].p.(*Variable)
	} else {
		name, err := vm.ToString(args[0])
		if err != nil {
			return Value{}, err
		}
		if !IsIdentifier(name.Bytes()) {
			err := errorf(TypeError, "cannot assign to %q", name.Bytes())
			name.Release()
			return Value{}, err
		}
		v = vm.Env.FetchBytes(name.Bytes())
		name.Release()
	}
	r, err := vm.Run(args[1])
	if err != nil {
		return Value{}, err
	}
	v.Assign(r.Clone())
	return r, nil
}

// FnWhile is the WHILE builtin.
//
// WHILE evaluates its second argument for as long as its first is truthy. It
// returns null.
func FnWhile(vm *VM, args []Value) (Value, error) {
	for {
		c, err := vm.ToBoolean(args[0])
		if err != nil {
			return Value{}, err
		}
		if !c {
			return Null(), nil
		}
		r, err := vm.Run(args[1])
		if err != nil {
			return Value{}, err
		}
		r.Release()
	}
}

// FnIf is the IF builtin.
//
// IF evaluates and returns its second argument if its first is truthy, and
// its third otherwise.
func FnIf(vm *VM, args []Value) (Value, error) {
	c, err := vm.ToBoolean(args[0])
	if err != nil {
		return Value{}, err
	}
	if c {
		return vm.Run(args[1])
	}
	return vm.Run(args[2])
}

// FnGet is the GET builtin.
//
// GET returns the substring of its first argument beginning at the index
// given by its second with the length given by its third.
func FnGet(vm *VM, args []Value) (Value, error) {
	s, err := vm.ToString(args[0])
	if err != nil {
		return Value{}, err
	}
	defer s.Release()
	start, length, err := vm.numbers(args[1:])
	if err != nil {
		return Value{}, err
	}
	r, err := Substring(s, start, length)
	if err != nil {
		return Value{}, err
	}
	return StringValue(r), nil
}

// FnSet is the SET builtin.
//
// SET returns its first argument with the substring at the index given by its
// second and length given by its third replaced by its fourth.
func FnSet(vm *VM, args []Value) (Value, error) {
	s, err := vm.ToString(args[0])
	if err != nil {
		return Value{}, err
	}
	defer s.Release()
	start, length, err := vm.numbers(args[1:])
	if err != nil {
		return Value{}, err
	}
	repl, err := vm.ToString(args[3])
	if err != nil {
		return Value{}, err
	}
	defer repl.Release()
	r, err := Splice(s, start, length, repl)
	if err != nil {
		return Value{}, err
	}
	return StringValue(r), nil
}

func (vm *VM) overflow(op string, a, b int64) error {
	return errorf(OverflowError, "%d %s %d overflows", a, op, b)
}

func (vm *VM) add(a, b int64) (int64, error) {
	r := a + b
	if vm.Checked && (a^r)&(b^r) < 0 {
		return 0, vm.overflow("+", a, b)
	}
	return r, nil
}

func (vm *VM) sub(a, b int64) (int64, error) {
	r := a - b
	if vm.Checked && (a^b)&(a^r) < 0 {
		return 0, vm.overflow("-", a, b)
	}
	return r, nil
}

func (vm *VM) mul(a, b int64) (int64, error) {
	r := a * b
	if vm.Checked && a != 0 && (r/a != b || a == -1 && b == math.MinInt64) {
		return 0, vm.overflow("*", a, b)
	}
	return r, nil
}

func (vm *VM) pow(base, exp int64) (int64, error) {
	switch {
	case base == 1:
		return 1, nil
	case base == -1:
		if exp&1 != 0 {
			return -1, nil
		}
		return 1, nil
	case exp == 0:
		return 1, nil
	case exp < 0:
		return 0, nil
	}
	r := int64(1)
	b, e := base, exp
	var err error
	for e > 0 {
		if e&1 != 0 {
			if r, err = vm.mul(r, b); err != nil {
				return 0, vm.overflow("^", base, exp)
			}
		}
		e >>= 1
		if e > 0 {
			if b, err = vm.mul(b, b); err != nil {
				return 0, vm.overflow("^", base, exp)
			}
		}
	}
	return r, nil
}
