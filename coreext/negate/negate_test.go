package negate_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	_ "github.com/zephyrtronium/knight/coreext/negate" // side effects
	"github.com/zephyrtronium/knight/internal"
	"github.com/zephyrtronium/knight/testutils"
)

func TestRegister(t *testing.T) {
	fn := testutils.TestingVM().Function('~')
	if assert.NotNil(t, fn) {
		assert.Equal(t, "NEGATE", fn.Long)
	}
}

func TestNegate(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"Positive": {Source: `~ 5`, Pass: testutils.PassNumber(-5)},
		"Negative": {Source: `~ ~ 5`, Pass: testutils.PassNumber(5)},
		"String":   {Source: `~ "12"`, Pass: testutils.PassNumber(-12)},
		"Null":     {Source: `~ NULL`, Pass: testutils.PassNumber(0)},
		"Wraps":    {Source: `~ - ~ 9223372036854775807 1`, Pass: testutils.PassNumber(-9223372036854775808)},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc(name))
	}
}

func TestNegateChecked(t *testing.T) {
	vm := internal.NewVM(internal.WithChecked(true), internal.WithStdout(io.Discard))
	defer vm.Close()
	_, err := vm.EvaluateString(`~ - ~ 9223372036854775807 1`, "TestNegateChecked")
	assert.ErrorIs(t, err, internal.OverflowError)
}
