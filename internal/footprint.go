package internal

// Footprint summarizes the payloads reachable from a VM's environment.
type Footprint struct {
	// Variables is the number of variables in the environment, and Assigned
	// the number of those that hold a value.
	Variables, Assigned int
	// Strings is the number of distinct owned strings reachable, and Bytes
	// their total length. Static strings are not counted.
	Strings, Bytes int
	// Exprs is the number of distinct expressions reachable.
	Exprs int
	// MaxRefs is the largest reference count among reachable payloads.
	MaxRefs int
}

// Footprint walks every assigned variable and the expressions reachable from
// it, counting each shared payload once.
func (vm *VM) Footprint() Footprint {
	var f Footprint
	vm.footSet.Reset()
	stack := make([]Value, 0, 16)
	vm.Env.Each(func(v *Variable) bool {
		f.Variables++
		if val, ok := v.Peek(); ok {
			f.Assigned++
			stack = append(stack, val)
		}
		return true
	})
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch v.kind {
		case StringKind:
			s := v.p.(*String)
			if s.IsStatic() || !vm.footSet.Add(s.UniqueID()) {
				continue
			}
			f.Strings++
			f.Bytes += s.Len()
			f.maxRefs(s.Refs())
		case ExprKind:
			e := v.p.(*Expr)
			if !vm.footSet.Add(e.UniqueID()) {
				continue
			}
			f.Exprs++
			f.maxRefs(e.Refs())
			stack = append(stack, e.Args()...)
		}
	}
	return f
}

func (f *Footprint) maxRefs(n int) {
	if n > f.MaxRefs {
		f.MaxRefs = n
	}
}
