package internal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/zephyrtronium/knight/internal"
)

// TestFetchIdempotent tests that fetching a name twice yields the same cell.
func TestFetchIdempotent(t *testing.T) {
	env := NewEnv()
	a := env.Fetch("a")
	assert.Same(t, a, env.Fetch("a"))
	assert.Same(t, a, env.FetchBytes([]byte("a")))
	assert.NotSame(t, a, env.Fetch("b"))
	assert.Equal(t, 2, env.Len())
	assert.Equal(t, "a", a.Name())
}

// TestFetchSurvivesGrowth tests that cells keep their identity as the table
// grows.
func TestFetchSurvivesGrowth(t *testing.T) {
	env := NewEnv()
	first := env.Fetch("first")
	first.Assign(Number(1))
	for i := 0; i < 1000; i++ {
		env.Fetch(string(rune('a'+i%26)) + string(rune('a'+i/26)))
	}
	assert.Same(t, first, env.Fetch("first"))
	v, err := first.Read()
	require.NoError(t, err)
	assert.True(t, Equal(Number(1), v))
}

// TestReadUnassigned tests that reading a fresh cell fails.
func TestReadUnassigned(t *testing.T) {
	env := NewEnv()
	v := env.Fetch("fresh")
	assert.False(t, v.IsAssigned())
	_, err := v.Read()
	assert.ErrorIs(t, err, UnassignedVariable)
	assert.Contains(t, err.Error(), "fresh")
	_, ok := v.Peek()
	assert.False(t, ok)
}

// TestAssignReleases tests that assignment releases the previous value.
func TestAssignReleases(t *testing.T) {
	env := NewEnv()
	v := env.Fetch("s")
	s := NewString([]byte("owned string"))
	v.Assign(StringValue(s))
	r, err := v.Read()
	require.NoError(t, err)
	assert.Equal(t, 2, s.Refs())
	r.Release()
	v.Assign(Null())
	assert.Panics(t, func() { s.Release() })
}

// TestLookup tests that Lookup does not create cells.
func TestLookup(t *testing.T) {
	env := NewEnv()
	_, ok := env.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, 0, env.Len())
	env.Fetch("present")
	v, ok := env.Lookup("present")
	assert.True(t, ok)
	assert.Equal(t, "present", v.Name())
}

// TestEachOrder tests that Each visits variables in name order and stops
// early.
func TestEachOrder(t *testing.T) {
	env := NewEnv()
	for _, name := range []string{"c", "a", "b", "d"} {
		env.Fetch(name)
	}
	var names []string
	env.Each(func(v *Variable) bool {
		names = append(names, v.Name())
		return v.Name() != "c"
	})
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

// TestReset tests that Reset empties the environment and releases values.
func TestReset(t *testing.T) {
	env := NewEnv()
	s := NewString([]byte("to be released"))
	env.Fetch("x").Assign(StringValue(s))
	env.Reset()
	assert.Equal(t, 0, env.Len())
	assert.Panics(t, func() { s.Clone() })
	assert.False(t, env.Fetch("x").IsAssigned())
}
