package knight_test

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/knight"
)

func ExampleVM_EvaluateString() {
	vm := knight.NewVM(knight.WithStdout(os.Stdout))
	defer vm.Close()
	r, err := vm.EvaluateString(`; = greeting "hello" OUTPUT + greeting ", world"`, "example")
	if err != nil {
		panic(err)
	}
	r.Release()
	// Output: hello, world
}

func ExampleQuitCode() {
	vm := knight.NewVM()
	_, err := vm.EvaluateString(`QUIT 3`, "example")
	code, ok := knight.QuitCode(err)
	fmt.Println(code, ok)
	// Output: 3 true
}

func TestPersistentVariables(t *testing.T) {
	vm := knight.NewVM(knight.WithStdout(&strings.Builder{}))
	defer vm.Close()
	vm.MustEvaluateString(`= counter 0`)
	for i := 0; i < 3; i++ {
		vm.MustEvaluateString(`= counter + counter 1`)
	}
	r := vm.MustEvaluateString(`counter`)
	assert.True(t, knight.Equal(knight.Number(3), r))
}

func TestErrorKinds(t *testing.T) {
	vm := knight.NewVM(knight.WithStdout(&strings.Builder{}))
	defer vm.Close()
	cases := map[string]struct {
		src  string
		kind knight.ErrorKind
	}{
		"Parse":      {`"open`, knight.ParseError},
		"Unassigned": {`nobody`, knight.UnassignedVariable},
		"Type":       {`< NULL 1`, knight.TypeError},
		"Divide":     {`/ 1 0`, knight.DivisionByZero},
		"Modulo":     {`% 1 0`, knight.ModuloByZero},
		"Index":      {`GET "a" (- 0 1) 1`, knight.IndexError},
		"Quit":       {`QUIT 1`, knight.ExplicitQuit},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := vm.EvaluateString(c.src, name)
			require.Error(t, err)
			assert.True(t, errors.Is(err, c.kind))
			assert.Equal(t, c.kind, knight.KindOf(err))
		})
	}
}

func TestValues(t *testing.T) {
	s := knight.NewString("abc")
	defer s.Release()
	assert.Equal(t, knight.StringKind, s.Kind())
	assert.Equal(t, "String(abc)", s.String())
	assert.True(t, knight.Null().IsNull())
	assert.Equal(t, knight.BooleanKind, knight.Bool(true).Kind())
	assert.True(t, knight.IsIdentifier("snake_case9"))
	assert.False(t, knight.IsIdentifier("CamelCase"))
}
