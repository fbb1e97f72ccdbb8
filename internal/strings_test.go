package internal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIntern tests that Intern returns static strings for static contents and
// owned strings otherwise.
func TestIntern(t *testing.T) {
	cases := map[string]struct {
		in     string
		static bool
	}{
		"Empty":  {"", true},
		"True":   {"true", true},
		"False":  {"false", true},
		"Null":   {"null", true},
		"Zero":   {"0", true},
		"One":    {"1", true},
		"Two":    {"2", false},
		"Abc":    {"abc", false},
		"Long":   {strings.Repeat("x", 100), false},
		"Prefix": {"tru", false},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			s := Intern([]byte(c.in))
			defer s.Release()
			assert.Equal(t, c.static, s.IsStatic())
			assert.Equal(t, c.in, s.String())
			assert.Equal(t, len(c.in), s.Len())
		})
	}
}

// TestNewStringInline tests that short strings are stored inline and long
// strings are not.
func TestNewStringInline(t *testing.T) {
	short := NewString([]byte(strings.Repeat("a", inlineCap)))
	defer short.Release()
	assert.Nil(t, short.heap)
	long := NewString([]byte(strings.Repeat("a", inlineCap+1)))
	defer long.Release()
	assert.NotNil(t, long.heap)
	assert.Equal(t, inlineCap+1, long.Len())
}

// TestStringRefs tests reference counting of owned and static strings.
func TestStringRefs(t *testing.T) {
	s := NewString([]byte("hello"))
	require.Equal(t, 1, s.Refs())
	assert.Same(t, s, s.Clone())
	assert.Equal(t, 2, s.Refs())
	s.Release()
	assert.Equal(t, 1, s.Refs())
	s.Release()
	assert.Panics(t, func() { s.Release() }, "double release")
	assert.Panics(t, func() { s.Clone() }, "clone after free")

	for _, st := range statics {
		st.Clone()
		st.Release()
		st.Release()
		assert.Equal(t, -1, st.Refs())
	}
}

// TestNumberString tests decimal formatting of numbers.
func TestNumberString(t *testing.T) {
	cases := map[string]struct {
		n    int64
		want string
	}{
		"Zero":     {0, "0"},
		"One":      {1, "1"},
		"Negative": {-12, "-12"},
		"Large":    {1234567890123, "1234567890123"},
		"Min":      {-9223372036854775808, "-9223372036854775808"},
		"Max":      {9223372036854775807, "9223372036854775807"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			s := NumberString(c.n)
			defer s.Release()
			assert.Equal(t, c.want, s.String())
			assert.Equal(t, c.n, ParseNumber(s.Bytes()))
		})
	}
	assert.Same(t, zeroString, NumberString(0))
	assert.Same(t, oneString, NumberString(1))
}

// TestParseNumber tests string to number conversion.
func TestParseNumber(t *testing.T) {
	cases := map[string]struct {
		in   string
		want int64
	}{
		"Empty":      {"", 0},
		"Digits":     {"123", 123},
		"Leading":    {"  \t\n42", 42},
		"Negative":   {"-17", -17},
		"Plus":       {"+5", 5},
		"Trailing":   {"12abc", 12},
		"Letters":    {"abc", 0},
		"SignOnly":   {"-", 0},
		"SpaceSign":  {"- 3", 0},
		"InnerSpace": {"1 2", 1},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, c.want, ParseNumber([]byte(c.in)))
		})
	}
}

// TestConcat tests string concatenation.
func TestConcat(t *testing.T) {
	ab := NewString([]byte("ab"))
	cd := NewString([]byte("cd"))
	defer ab.Release()
	defer cd.Release()
	r, err := Concat(ab, cd)
	require.NoError(t, err)
	assert.Equal(t, "abcd", r.String())
	assert.Equal(t, 1, r.Refs())
	r.Release()
	assert.Equal(t, 1, ab.Refs())

	r, err = Concat(ab, EmptyString())
	require.NoError(t, err)
	assert.Same(t, ab, r)
	assert.Equal(t, 2, ab.Refs())
	r.Release()

	r, err = Concat(EmptyString(), cd)
	require.NoError(t, err)
	assert.Same(t, cd, r)
	r.Release()

	long := NewString([]byte(strings.Repeat("z", 20)))
	defer long.Release()
	r, err = Concat(long, long)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("z", 40), r.String())
	r.Release()
}

// TestRepeat tests string repetition.
func TestRepeat(t *testing.T) {
	x := NewString([]byte("xy"))
	defer x.Release()
	cases := map[string]struct {
		n    int64
		want string
		kind ErrorKind
	}{
		"Zero":     {0, "", NoError},
		"One":      {1, "xy", NoError},
		"Three":    {3, "xyxyxy", NoError},
		"Many":     {20, strings.Repeat("xy", 20), NoError},
		"Negative": {-1, "", IndexError},
		"Huge":     {MaxStringLen, "", IndexError},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			r, err := Repeat(x, c.n)
			if c.kind != NoError {
				assert.Equal(t, c.kind, KindOf(err))
				return
			}
			require.NoError(t, err)
			defer r.Release()
			assert.Equal(t, c.want, r.String())
		})
	}
	assert.Equal(t, 1, x.Refs())
}

// TestSubstring tests GET semantics on strings.
func TestSubstring(t *testing.T) {
	s := NewString([]byte("abcdef"))
	defer s.Release()
	cases := map[string]struct {
		start, length int64
		want          string
		kind          ErrorKind
	}{
		"Whole":         {0, 6, "abcdef", NoError},
		"Prefix":        {0, 3, "abc", NoError},
		"Middle":        {2, 2, "cd", NoError},
		"Suffix":        {4, 2, "ef", NoError},
		"Truncated":     {4, 10, "ef", NoError},
		"AtEnd":         {6, 1, "", NoError},
		"PastEnd":       {10, 1, "", NoError},
		"Empty":         {3, 0, "", NoError},
		"NegativeStart": {-1, 2, "", IndexError},
		"NegativeLen":   {1, -2, "", IndexError},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			r, err := Substring(s, c.start, c.length)
			if c.kind != NoError {
				assert.Equal(t, c.kind, KindOf(err))
				return
			}
			require.NoError(t, err)
			defer r.Release()
			assert.Equal(t, c.want, r.String())
		})
	}
	assert.Equal(t, 1, s.Refs())
}

// TestSplice tests SET semantics on strings.
func TestSplice(t *testing.T) {
	s := NewString([]byte("abcdef"))
	defer s.Release()
	cases := map[string]struct {
		start, length int64
		repl          string
		want          string
		kind          ErrorKind
	}{
		"Replace":       {1, 2, "XY", "aXYdef", NoError},
		"Insert":        {3, 0, "--", "abc--def", NoError},
		"Delete":        {0, 3, "", "def", NoError},
		"Append":        {6, 0, "gh", "abcdefgh", NoError},
		"Truncated":     {4, 10, "!", "abcd!", NoError},
		"Everything":    {0, 6, "z", "z", NoError},
		"ToEmpty":       {0, 6, "", "", NoError},
		"Identity":      {2, 0, "", "abcdef", NoError},
		"PastEnd":       {7, 0, "x", "", IndexError},
		"NegativeStart": {-1, 0, "x", "", IndexError},
		"NegativeLen":   {0, -1, "x", "", IndexError},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			repl := NewString([]byte(c.repl))
			defer repl.Release()
			r, err := Splice(s, c.start, c.length, repl)
			if c.kind != NoError {
				assert.Equal(t, c.kind, KindOf(err))
				return
			}
			require.NoError(t, err)
			defer r.Release()
			assert.Equal(t, c.want, r.String())
		})
	}
	assert.Equal(t, "abcdef", s.String())
	assert.Equal(t, 1, s.Refs())
}
