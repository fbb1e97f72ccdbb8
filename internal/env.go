package internal

import "sort"

// A Variable is the storage cell for one name in an Env.
type Variable struct {
	name     string
	value    Value
	assigned bool
}

// Name returns the variable's name.
func (v *Variable) Name() string {
	return v.name
}

// IsAssigned returns whether the variable has been given a value.
func (v *Variable) IsAssigned() bool {
	return v.assigned
}

// Assign sets the variable's value, taking ownership of val and releasing the
// previous value.
func (v *Variable) Assign(val Value) {
	old, had := v.value, v.assigned
	v.value, v.assigned = val, true
	if had {
		old.Release()
	}
}

// Read returns a new reference to the variable's value. It is an
// UnassignedVariable error if the variable has never been assigned.
func (v *Variable) Read() (Value, error) {
	if !v.assigned {
		return Value{}, errorf(UnassignedVariable, "unassigned variable %s", v.name)
	}
	return v.value.Clone(), nil
}

// Peek returns the variable's value without adding a reference.
func (v *Variable) Peek() (Value, bool) {
	return v.value, v.assigned
}

// Env maps names to variables. Variables are created on first lookup and
// live until the Env is reset, so a *Variable remains valid however the table
// grows.
type Env struct {
	vars map[string]*Variable
}

// NewEnv creates an empty environment.
func NewEnv() *Env {
	return &Env{vars: make(map[string]*Variable, 64)}
}

// Fetch returns the variable with the given name, creating it unassigned if
// it does not yet exist.
func (e *Env) Fetch(name string) *Variable {
	if v, ok := e.vars[name]; ok {
		return v
	}
	v := &Variable{name: name}
	e.vars[name] = v
	return v
}

// FetchBytes is like Fetch, but copies name only when creating a variable.
func (e *Env) FetchBytes(name []byte) *Variable {
	if v, ok := e.vars[string(name)]; ok {
		return v
	}
	return e.Fetch(string(name))
}

// Lookup returns the variable with the given name without creating it.
func (e *Env) Lookup(name string) (*Variable, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Len returns the number of variables in the environment.
func (e *Env) Len() int {
	return len(e.vars)
}

// Each calls f for every variable in name order until f returns false.
func (e *Env) Each(f func(*Variable) bool) {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !f(e.vars[name]) {
			return
		}
	}
}

// Reset releases the values of all variables and removes them from the
// environment. It is only valid to call Reset when no live value refers to
// any variable in it.
func (e *Env) Reset() {
	for name, v := range e.vars {
		if v.assigned {
			v.value.Release()
		}
		v.value, v.assigned = Value{}, false
		delete(e.vars, name)
	}
}
