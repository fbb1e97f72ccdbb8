package internal

// Run evaluates v. Literals evaluate to new references to themselves,
// variables to their current values, and expressions to the result of their
// functions. v is borrowed; the result is owned by the caller.
func (vm *VM) Run(v Value) (Value, error) {
	switch v.kind {
	case VariableKind:
		return v.p.(*Variable).Read()
	case ExprKind:
		return vm.apply(v.p.(*Expr))
	default:
		return v.Clone(), nil
	}
}

// apply calls an expression's function on its arguments.
func (vm *VM) apply(e *Expr) (Value, error) {
	if vm.depth >= vm.MaxDepth {
		return Value{}, errorf(DepthExceeded, "evaluation nested deeper than %d", vm.MaxDepth)
	}
	vm.depth++
	vm.traceApply(e)
	r, err := e.fn.Fn(vm, e.Args())
	vm.depth--
	return r, err
}

// Depth returns the current nesting depth of function applications.
func (vm *VM) Depth() int {
	return vm.depth
}

// literal evaluates v until the result is a literal. Each step counts
// against MaxDepth, so a variable holding a reference to itself fails with
// DepthExceeded. The result is owned by the caller.
func (vm *VM) literal(v Value) (Value, error) {
	r := v.Clone()
	for n := vm.depth; !r.IsLiteral(); n++ {
		if n >= vm.MaxDepth {
			r.Release()
			return Value{}, errorf(DepthExceeded, "evaluation nested deeper than %d", vm.MaxDepth)
		}
		x, err := vm.Run(r)
		r.Release()
		if err != nil {
			return Value{}, err
		}
		r = x
	}
	return r, nil
}

// ToBoolean evaluates v and converts the result to a boolean.
func (vm *VM) ToBoolean(v Value) (bool, error) {
	if v.IsLiteral() {
		return v.literalBoolean(), nil
	}
	r, err := vm.literal(v)
	if err != nil {
		return false, err
	}
	defer r.Release()
	return r.literalBoolean(), nil
}

// ToNumber evaluates v and converts the result to a number.
func (vm *VM) ToNumber(v Value) (int64, error) {
	if v.IsLiteral() {
		return v.literalNumber(), nil
	}
	r, err := vm.literal(v)
	if err != nil {
		return 0, err
	}
	defer r.Release()
	return r.literalNumber(), nil
}

// ToString evaluates v and converts the result to a string. The result is a
// new reference owned by the caller.
func (vm *VM) ToString(v Value) (*String, error) {
	if v.IsLiteral() {
		return v.literalString(), nil
	}
	r, err := vm.literal(v)
	if err != nil {
		return nil, err
	}
	defer r.Release()
	return r.literalString(), nil
}

// Compare evaluates lhs, then compares it against rhs converted to the kind
// of lhs. The result is negative, zero, or positive as lhs is less than, equal
// to, or greater than rhs. lhs must evaluate to a string, number, or boolean.
func (vm *VM) Compare(lhs, rhs Value) (int, error) {
	l, err := vm.Run(lhs)
	if err != nil {
		return 0, err
	}
	defer l.Release()
	switch l.kind {
	case StringKind:
		r, err := vm.ToString(rhs)
		if err != nil {
			return 0, err
		}
		defer r.Release()
		return l.p.(*String).Compare(r), nil
	case NumberKind:
		r, err := vm.ToNumber(rhs)
		if err != nil {
			return 0, err
		}
		switch {
		case l.n < r:
			return -1, nil
		case l.n > r:
			return 1, nil
		}
		return 0, nil
	case BooleanKind:
		r, err := vm.ToBoolean(rhs)
		if err != nil {
			return 0, err
		}
		return int(l.n) - b2i(r), nil
	default:
		return 0, errorf(TypeError, "cannot compare %v", l.kind)
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
