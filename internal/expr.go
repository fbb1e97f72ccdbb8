package internal

// MaxArity is the largest number of arguments a builtin may take.
const MaxArity = 4

// An Fn is the native implementation of a builtin. It receives the
// application's unevaluated arguments, which it borrows, and returns an owned
// result.
type Fn func(vm *VM, args []Value) (Value, error)

// A Function describes a builtin.
type Function struct {
	// Name is the character that invokes the function.
	Name byte
	// Long is the function's full name, e.g. BLOCK for B. Symbol functions
	// use their symbol.
	Long string
	// Arity is the number of arguments the function takes.
	Arity int
	// Fn is the native implementation.
	Fn Fn
}

// An Expr is an application of a builtin to unevaluated arguments.
type Expr struct {
	fn   *Function
	args [MaxArity]Value
	refs int32
}

// NewExpr creates an expression applying fn to args, taking ownership of
// each argument. It panics if len(args) differs from the function's arity.
func NewExpr(fn *Function, args ...Value) *Expr {
	if len(args) != fn.Arity {
		panic("knight: wrong number of arguments to " + fn.Long)
	}
	e := &Expr{fn: fn, refs: 1}
	copy(e.args[:], args)
	return e
}

// Func returns the function the expression applies.
func (e *Expr) Func() *Function {
	return e.fn
}

// Args returns the expression's arguments. The result must not be modified.
func (e *Expr) Args() []Value {
	return e.args[:e.fn.Arity]
}

// Refs returns the expression's reference count.
func (e *Expr) Refs() int {
	return int(e.refs)
}

// Clone adds a reference to the expression and returns it.
func (e *Expr) Clone() *Expr {
	if e.refs <= 0 {
		panic("knight: clone of freed expression")
	}
	e.refs++
	return e
}

// Release removes a reference to the expression. When none remain, the
// expression releases its arguments.
func (e *Expr) Release() {
	switch {
	case e.refs <= 0:
		panic("knight: release of freed expression")
	case e.refs > 1:
		e.refs--
		return
	}
	e.refs = 0
	for i, arg := range e.Args() {
		arg.Release()
		e.args[i] = Value{}
	}
}
