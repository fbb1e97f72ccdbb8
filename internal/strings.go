package internal

import (
	"bytes"
	"strconv"
)

// inlineCap is the longest string whose bytes are stored inside the String
// itself rather than in a separate allocation.
const inlineCap = 23

// MaxStringLen is the longest string the store will construct.
const MaxStringLen = 1 << 30

// A String is an immutable, reference-counted byte string.
//
// Owned strings begin with one reference and are freed when the last
// reference is released. Static strings are never freed, and reference
// counting operations on them do nothing.
type String struct {
	// refs is the reference count. It is staticRefs for static strings and
	// freedRefs once an owned string has been freed.
	refs int32
	// n is the length in bytes.
	n int
	// inline holds the bytes of strings no longer than inlineCap.
	inline [inlineCap]byte
	// heap holds the bytes of longer strings.
	heap []byte
}

const (
	staticRefs int32 = -1
	freedRefs  int32 = -2
)

// Static strings.
var (
	emptyString = newStatic("")
	trueString  = newStatic("true")
	falseString = newStatic("false")
	nullString  = newStatic("null")
	zeroString  = newStatic("0")
	oneString   = newStatic("1")
)

var statics = [...]*String{emptyString, trueString, falseString, nullString, zeroString, oneString}

func newStatic(s string) *String {
	str := alloc(len(s))
	copy(str.buf(), s)
	str.refs = staticRefs
	return str
}

// alloc creates an owned string of length n with uninitialized contents.
func alloc(n int) *String {
	s := &String{refs: 1, n: n}
	if n > inlineCap {
		s.heap = make([]byte, n)
	}
	return s
}

// buf returns the writable backing storage of a newly allocated string.
func (s *String) buf() []byte {
	if s.heap != nil {
		return s.heap
	}
	return s.inline[:s.n]
}

// EmptyString returns the static empty string.
func EmptyString() *String {
	return emptyString
}

// NewString creates a new owned string holding a copy of b.
func NewString(b []byte) *String {
	s := alloc(len(b))
	copy(s.buf(), b)
	return s
}

// Intern returns a string holding b. If b matches one of the static strings,
// that string is returned; otherwise the result is a new owned string.
func Intern(b []byte) *String {
	if len(b) <= 5 {
		for _, s := range statics {
			if bytes.Equal(s.Bytes(), b) {
				return s
			}
		}
	}
	return NewString(b)
}

// NumberString formats n in decimal. Zero and one share static strings.
func NumberString(n int64) *String {
	switch n {
	case 0:
		return zeroString
	case 1:
		return oneString
	}
	var b [20]byte
	return NewString(strconv.AppendInt(b[:0], n, 10))
}

// BoolString returns the static string for a boolean.
func BoolString(b bool) *String {
	if b {
		return trueString
	}
	return falseString
}

// Bytes returns the contents of the string. The result must not be modified.
func (s *String) Bytes() []byte {
	if s.heap != nil {
		return s.heap
	}
	return s.inline[:s.n]
}

// String returns the contents of the string as a Go string.
func (s *String) String() string {
	return string(s.Bytes())
}

// Len returns the length of the string in bytes.
func (s *String) Len() int {
	return s.n
}

// IsStatic returns whether the string is exempt from reference counting.
func (s *String) IsStatic() bool {
	return s.refs == staticRefs
}

// Refs returns the current reference count, or -1 for static strings.
func (s *String) Refs() int {
	if s.refs == staticRefs {
		return -1
	}
	return int(s.refs)
}

// Clone adds a reference to the string and returns it.
func (s *String) Clone() *String {
	switch s.refs {
	case staticRefs:
	case freedRefs:
		panic("knight: clone of freed string")
	default:
		s.refs++
	}
	return s
}

// Release removes a reference to the string, freeing it when none remain.
func (s *String) Release() {
	switch s.refs {
	case staticRefs:
	case freedRefs:
		panic("knight: release of freed string")
	case 1:
		s.refs = freedRefs
		s.heap = nil
		s.n = 0
	default:
		s.refs--
	}
}

// Equal reports whether two strings have the same contents.
func (s *String) Equal(t *String) bool {
	return s == t || bytes.Equal(s.Bytes(), t.Bytes())
}

// Compare compares two strings bytewise.
func (s *String) Compare(t *String) int {
	return bytes.Compare(s.Bytes(), t.Bytes())
}

// Concat returns a new reference to the concatenation of s and t. Neither
// argument is released.
func Concat(s, t *String) (*String, error) {
	switch {
	case s.n == 0:
		return t.Clone(), nil
	case t.n == 0:
		return s.Clone(), nil
	case s.n+t.n > MaxStringLen:
		return nil, errorf(IndexError, "string of length %d exceeds limit", s.n+t.n)
	}
	r := alloc(s.n + t.n)
	b := r.buf()
	copy(b, s.Bytes())
	copy(b[s.n:], t.Bytes())
	return r, nil
}

// Repeat returns a new reference to s repeated n times.
func Repeat(s *String, n int64) (*String, error) {
	switch {
	case n < 0:
		return nil, errorf(IndexError, "negative repetition count %d", n)
	case n == 0 || s.n == 0:
		return emptyString, nil
	case n == 1:
		return s.Clone(), nil
	case n > int64(MaxStringLen/s.n):
		return nil, errorf(IndexError, "repetition of length %d by %d exceeds limit", s.n, n)
	}
	r := alloc(s.n * int(n))
	b := r.buf()
	src := s.Bytes()
	for i := 0; i < len(b); i += len(src) {
		copy(b[i:], src)
	}
	return r, nil
}

// Substring returns a new reference to the length bytes of s beginning at
// start. A start at or past the end of s yields the empty string; a length
// running past the end is truncated.
func Substring(s *String, start, length int64) (*String, error) {
	if start < 0 || length < 0 {
		return nil, errorf(IndexError, "negative substring bounds (%d, %d)", start, length)
	}
	n := int64(s.n)
	if start >= n || length == 0 {
		return emptyString, nil
	}
	if length > n-start {
		length = n - start
	}
	if start == 0 && length == n {
		return s.Clone(), nil
	}
	return Intern(s.Bytes()[start : start+length]), nil
}

// Splice returns a new reference to s with the length bytes beginning at start
// replaced by repl. A start equal to the length of s appends; a start past the
// end is an IndexError. A length running past the end is truncated.
func Splice(s *String, start, length int64, repl *String) (*String, error) {
	if start < 0 || length < 0 {
		return nil, errorf(IndexError, "negative substitution bounds (%d, %d)", start, length)
	}
	n := int64(s.n)
	if start > n {
		return nil, errorf(IndexError, "index %d out of bounds (length %d)", start, n)
	}
	if length > n-start {
		length = n - start
	}
	total := n - length + int64(repl.n)
	switch {
	case total == 0:
		return emptyString, nil
	case total > MaxStringLen:
		return nil, errorf(IndexError, "string of length %d exceeds limit", total)
	case length == n:
		return repl.Clone(), nil
	case length == 0 && repl.n == 0:
		return s.Clone(), nil
	}
	r := alloc(int(total))
	b := r.buf()
	src := s.Bytes()
	k := copy(b, src[:start])
	k += copy(b[k:], repl.Bytes())
	copy(b[k:], src[start+length:])
	return r, nil
}

// ParseNumber interprets the leading portion of b as a decimal integer: ASCII
// whitespace is skipped, an optional sign is accepted, and digits are read
// until the first non-digit. If there are no digits, the result is 0.
// Magnitudes beyond the range of int64 wrap.
func ParseNumber(b []byte) int64 {
	i := 0
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	neg := false
	if i < len(b) && (b[i] == '-' || b[i] == '+') {
		neg = b[i] == '-'
		i++
	}
	var n int64
	for ; i < len(b) && isDigit(b[i]); i++ {
		n = n*10 + int64(b[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}
