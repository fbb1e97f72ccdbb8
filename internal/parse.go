package internal

import (
	"bufio"
	"io"
	"math"
	"strings"
)

// parser holds the state of parsing one expression.
type parser struct {
	vm    *VM
	src   *bufio.Reader
	label string
	// line and col are the one-based position of the next byte.
	line, col int
	depth     int
	// buf is scratch space for literals and identifiers.
	buf []byte
}

// Parse parses one expression from src. Input following the expression is
// left unread in src only if src is a *bufio.Reader. If src holds nothing but
// whitespace and comments, the result is io.EOF.
//
// The result is owned by the caller, who must release it.
func (vm *VM) Parse(src io.Reader, label string) (Value, error) {
	br, ok := src.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(src)
	}
	p := parser{vm: vm, src: br, label: label, line: 1, col: 1}
	return p.parse()
}

// ParseString parses one expression from a string.
func (vm *VM) ParseString(src, label string) (Value, error) {
	return vm.Parse(strings.NewReader(src), label)
}

func isSpace(c byte) bool {
	return c == ' ' || '\t' <= c && c <= '\r'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isLower(c byte) bool {
	return 'a' <= c && c <= 'z'
}

func isUpper(c byte) bool {
	return 'A' <= c && c <= 'Z'
}

// isSeparator returns whether c is a character with no meaning other than to
// separate tokens.
func isSeparator(c byte) bool {
	return isSpace(c) || strings.IndexByte("()[]{}:", c) >= 0
}

func isIdent(c byte) bool {
	return isLower(c) || isDigit(c) || c == '_'
}

// IsIdentifier returns whether name is a valid variable name.
func IsIdentifier(name []byte) bool {
	if len(name) == 0 || !(isLower(name[0]) || name[0] == '_') {
		return false
	}
	for _, c := range name[1:] {
		if !isIdent(c) {
			return false
		}
	}
	return true
}

// peek returns the next byte without consuming it.
func (p *parser) peek() (byte, error) {
	b, err := p.src.Peek(1)
	if len(b) == 0 {
		return 0, err
	}
	return b[0], nil
}

// advance consumes the next byte.
func (p *parser) advance() {
	c, err := p.src.ReadByte()
	if err != nil {
		return
	}
	if c == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

// accept appends the run of bytes satisfying pred to p.buf.
func (p *parser) accept(pred func(byte) bool) error {
	for {
		c, err := p.peek()
		if err != nil {
			return err
		}
		if !pred(c) {
			return nil
		}
		p.buf = append(p.buf, c)
		p.advance()
	}
}

// errorf creates a parse error at the given position.
func (p *parser) errorf(line, col int, err error, format string, args ...interface{}) *Error {
	e := wrapf(ParseError, err, format, args...)
	e.Label, e.Line, e.Col = p.label, line, col
	return e
}

// readErr converts an error from the source to a parse result.
func (p *parser) readErr(err error) error {
	if err == io.EOF {
		return io.EOF
	}
	return wrapf(ExternalFailure, err, "reading %s", p.label)
}

// skip consumes separators and comments, returning the first significant
// byte without consuming it.
func (p *parser) skip() (byte, error) {
	for {
		c, err := p.peek()
		if err != nil {
			return 0, p.readErr(err)
		}
		switch {
		case isSeparator(c):
			p.advance()
		case c == '#':
			for c != '\n' {
				p.advance()
				if c, err = p.peek(); err != nil {
					return 0, p.readErr(err)
				}
			}
		default:
			return c, nil
		}
	}
}

// parse parses one expression.
func (p *parser) parse() (Value, error) {
	c, err := p.skip()
	if err != nil {
		return Value{}, err
	}
	switch {
	case isDigit(c):
		return p.number()
	case isLower(c) || c == '_':
		return p.ident()
	case c == '"' || c == '\'':
		return p.str(c)
	case isUpper(c):
		return p.word(c)
	default:
		return p.function(c, p.line, p.col)
	}
}

// number parses an integer literal.
func (p *parser) number() (Value, error) {
	line, col := p.line, p.col
	var n int64
	for {
		c, err := p.peek()
		if err != nil && err != io.EOF {
			return Value{}, p.readErr(err)
		}
		if err == io.EOF || !isDigit(c) {
			return Number(n), nil
		}
		d := int64(c - '0')
		if n > (math.MaxInt64-d)/10 {
			return Value{}, p.errorf(line, col, nil, "integer literal out of range")
		}
		n = n*10 + d
		p.advance()
	}
}

// ident parses a variable name.
func (p *parser) ident() (Value, error) {
	p.buf = p.buf[:0]
	if err := p.accept(isIdent); err != nil && err != io.EOF {
		return Value{}, p.readErr(err)
	}
	return VariableValue(p.vm.Env.FetchBytes(p.buf)), nil
}

// str parses a string literal delimited by quote.
func (p *parser) str(quote byte) (Value, error) {
	line, col := p.line, p.col
	p.advance()
	p.buf = p.buf[:0]
	err := p.accept(func(c byte) bool { return c != quote })
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return Value{}, p.errorf(line, col, err, "unterminated string")
	}
	p.advance()
	return StringValue(Intern(p.buf)), nil
}

// word parses a literal or function named by an uppercase letter, ignoring
// the uppercase and underscore characters that may follow it.
func (p *parser) word(c byte) (Value, error) {
	line, col := p.line, p.col
	p.advance()
	p.buf = p.buf[:0]
	if err := p.accept(func(c byte) bool { return isUpper(c) || c == '_' }); err != nil && err != io.EOF {
		return Value{}, p.readErr(err)
	}
	switch c {
	case 'T':
		return Bool(true), nil
	case 'F':
		return Bool(false), nil
	case 'N':
		return Null(), nil
	}
	return p.application(c, line, col)
}

// function parses a function named by a single symbol character.
func (p *parser) function(c byte, line, col int) (Value, error) {
	if p.vm.funcs[c] == nil {
		return Value{}, p.errorf(line, col, nil, "unknown token %q", c)
	}
	p.advance()
	return p.application(c, line, col)
}

// application parses the arguments of the function named c.
func (p *parser) application(c byte, line, col int) (Value, error) {
	fn := p.vm.funcs[c]
	if fn == nil {
		return Value{}, p.errorf(line, col, nil, "unknown function %q", c)
	}
	if p.depth >= p.vm.MaxDepth {
		e := p.errorf(line, col, nil, "expression nested deeper than %d", p.vm.MaxDepth)
		e.Kind = DepthExceeded
		return Value{}, e
	}
	p.depth++
	defer func() { p.depth-- }()
	var args [MaxArity]Value
	for i := 0; i < fn.Arity; i++ {
		arg, err := p.parse()
		if err != nil {
			for _, a := range args[:i] {
				a.Release()
			}
			if err == io.EOF {
				err = p.errorf(line, col, io.ErrUnexpectedEOF, "missing argument %d to %s", i+1, fn.Long)
			}
			return Value{}, err
		}
		args[i] = arg
	}
	return ExprValue(NewExpr(fn, args[:fn.Arity]...)), nil
}
