// Package value adds the VALUE builtin, which reads a variable by a computed
// name.
package value

import (
	"fmt"

	"github.com/zephyrtronium/knight/internal"
)

// Value is the VALUE builtin.
var Value = internal.Function{Name: 'V', Long: "VALUE", Arity: 1, Fn: value}

func init() {
	internal.Register(initValue)
}

func initValue(vm *internal.VM) {
	fn := Value
	vm.Define(&fn)
}

// value converts its argument to a string and returns the value of the
// variable with that name.
func value(vm *internal.VM, args []internal.Value) (internal.Value, error) {
	name, err := vm.ToString(args[0])
	if err != nil {
		return internal.Value{}, err
	}
	defer name.Release()
	if !internal.IsIdentifier(name.Bytes()) {
		return internal.Value{}, &internal.Error{Kind: internal.TypeError, Msg: fmt.Sprintf("VALUE of invalid identifier %q", name.Bytes())}
	}
	return vm.Env.FetchBytes(name.Bytes()).Read()
}
