package internal

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the variant of a Value.
type Kind uint8

// Value kinds.
const (
	NullKind Kind = iota
	BooleanKind
	NumberKind
	StringKind
	VariableKind
	ExprKind
)

var valueKindNames = [...]string{"Null", "Boolean", "Number", "String", "Variable", "Expr"}

// String returns the name of the kind.
func (k Kind) String() string {
	if int(k) >= len(valueKindNames) {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return valueKindNames[k]
}

// Value is a Knight value: a literal, a reference to a variable, or an
// unevaluated function application. The zero Value is null.
//
// Values that hold strings or expressions share those payloads by reference
// counting. Clone adds a reference and Release removes one; each Value a
// function receives as a result is owned by that function and must be
// released exactly once or handed on to another owner.
type Value struct {
	kind Kind
	// n holds the payload of numbers and booleans.
	n int64
	// p holds a *String, *Variable, or *Expr according to kind.
	p interface{}
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	if b {
		return Value{kind: BooleanKind, n: 1}
	}
	return Value{kind: BooleanKind}
}

// Number returns a numeric value.
func Number(n int64) Value {
	return Value{kind: NumberKind, n: n}
}

// StringValue returns a value holding s. The value takes ownership of the
// caller's reference to s.
func StringValue(s *String) Value {
	return Value{kind: StringKind, p: s}
}

// VariableValue returns a reference to a variable.
func VariableValue(v *Variable) Value {
	return Value{kind: VariableKind, p: v}
}

// ExprValue returns a value holding an unevaluated expression. The value takes
// ownership of the caller's reference to e.
func ExprValue(e *Expr) Value {
	return Value{kind: ExprKind, p: e}
}

// Kind returns the variant of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull returns whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == NullKind
}

// IsLiteral returns whether the value needs no evaluation.
func (v Value) IsLiteral() bool {
	return v.kind <= StringKind
}

func (v Value) mismatch(want Kind) error {
	return errorf(TypeError, "expected %v, not %v", want, v.kind)
}

// AsBoolean returns the payload of a Boolean value.
func (v Value) AsBoolean() (bool, error) {
	if v.kind != BooleanKind {
		return false, v.mismatch(BooleanKind)
	}
	return v.n != 0, nil
}

// AsNumber returns the payload of a Number value.
func (v Value) AsNumber() (int64, error) {
	if v.kind != NumberKind {
		return 0, v.mismatch(NumberKind)
	}
	return v.n, nil
}

// AsString returns the payload of a String value. The result is borrowed from
// v; use Clone to retain it.
func (v Value) AsString() (*String, error) {
	if v.kind != StringKind {
		return nil, v.mismatch(StringKind)
	}
	return v.p.(*String), nil
}

// AsVariable returns the payload of a Variable value.
func (v Value) AsVariable() (*Variable, error) {
	if v.kind != VariableKind {
		return nil, v.mismatch(VariableKind)
	}
	return v.p.(*Variable), nil
}

// AsExpr returns the payload of an Expr value. The result is borrowed from v.
func (v Value) AsExpr() (*Expr, error) {
	if v.kind != ExprKind {
		return nil, v.mismatch(ExprKind)
	}
	return v.p.(*Expr), nil
}

// Clone adds a reference to the value's payload, if it has one, and returns
// the value.
func (v Value) Clone() Value {
	switch v.kind {
	case StringKind:
		v.p.(*String).Clone()
	case ExprKind:
		v.p.(*Expr).Clone()
	}
	return v
}

// Release removes a reference to the value's payload, if it has one.
func (v Value) Release() {
	switch v.kind {
	case StringKind:
		v.p.(*String).Release()
	case ExprKind:
		v.p.(*Expr).Release()
	}
}

// literalBoolean converts a literal to a boolean.
func (v Value) literalBoolean() bool {
	switch v.kind {
	case BooleanKind, NumberKind:
		return v.n != 0
	case StringKind:
		return v.p.(*String).Len() != 0
	}
	return false
}

// literalNumber converts a literal to a number.
func (v Value) literalNumber() int64 {
	switch v.kind {
	case BooleanKind, NumberKind:
		return v.n
	case StringKind:
		return ParseNumber(v.p.(*String).Bytes())
	}
	return 0
}

// literalString converts a literal to a new reference to a string.
func (v Value) literalString() *String {
	switch v.kind {
	case BooleanKind:
		return BoolString(v.n != 0)
	case NumberKind:
		return NumberString(v.n)
	case StringKind:
		return v.p.(*String).Clone()
	}
	return nullString
}

// Equal reports whether two evaluated values are equal: they must be of the
// same kind, and strings compare by content, numbers and booleans by value,
// and variables and expressions by identity.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case NullKind:
		return true
	case BooleanKind, NumberKind:
		return a.n == b.n
	case StringKind:
		return a.p.(*String).Equal(b.p.(*String))
	default:
		return a.p == b.p
	}
}

// Dump writes the diagnostic representation of v used by DUMP.
func Dump(b *strings.Builder, v Value) {
	switch v.kind {
	case NullKind:
		b.WriteString("Null()")
	case BooleanKind:
		b.WriteString("Boolean(")
		b.WriteString(strconv.FormatBool(v.n != 0))
		b.WriteByte(')')
	case NumberKind:
		b.WriteString("Number(")
		b.WriteString(strconv.FormatInt(v.n, 10))
		b.WriteByte(')')
	case StringKind:
		b.WriteString("String(")
		b.Write(v.p.(*String).Bytes())
		b.WriteByte(')')
	case VariableKind:
		b.WriteString("Identifier(")
		b.WriteString(v.p.(*Variable).Name())
		b.WriteByte(')')
	case ExprKind:
		e := v.p.(*Expr)
		b.WriteString("Function(")
		b.WriteByte(e.fn.Name)
		for _, arg := range e.Args() {
			b.WriteString(", ")
			Dump(b, arg)
		}
		b.WriteByte(')')
	}
}

// String returns the diagnostic representation of the value.
func (v Value) String() string {
	var b strings.Builder
	Dump(&b, v)
	return b.String()
}
