// Package negate adds the ~ builtin, which negates a number.
package negate

import (
	"fmt"
	"math"

	"github.com/zephyrtronium/knight/internal"
)

// Negate is the ~ builtin.
var Negate = internal.Function{Name: '~', Long: "NEGATE", Arity: 1, Fn: negate}

func init() {
	internal.Register(initNegate)
}

func initNegate(vm *internal.VM) {
	fn := Negate
	vm.Define(&fn)
}

func negate(vm *internal.VM, args []internal.Value) (internal.Value, error) {
	n, err := vm.ToNumber(args[0])
	if err != nil {
		return internal.Value{}, err
	}
	if vm.Checked && n == math.MinInt64 {
		return internal.Value{}, &internal.Error{Kind: internal.OverflowError, Msg: fmt.Sprintf("~ %d overflows", n)}
	}
	return internal.Number(-n), nil
}
