package vart

import "fmt"

// Accessor template tokens.
const (
	tokNil    = 'n'
	tokInt    = 'i'
	tokUint   = 'u'
	tokFloat  = 'f'
	tokString = 's'
	tokArray  = 'a'
	tokList   = 'l'
	tokDict   = 'd'
	tokValue  = 'v'
	tokSkip   = '_'
)

// tokenTag maps the tag-checking tokens to the tag they require.
func tokenTag(tok byte) (Tag, bool) {
	switch tok {
	case tokNil:
		return TagNil, true
	case tokInt:
		return TagInt, true
	case tokUint:
		return TagUint, true
	case tokFloat:
		return TagFloat, true
	case tokString:
		return TagString, true
	case tokArray:
		return TagArray, true
	case tokList:
		return TagList, true
	case tokDict:
		return TagDict, true
	}
	return 0, false
}

// closerOf returns the closing bracket for an opening one.
func closerOf(open byte) byte {
	if open == '(' {
		return ')'
	}
	return ']'
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// cursor walks an accessor template one token per visited value and hands
// out positional arguments in step. Every non-structural token except '_'
// takes exactly one argument.
type cursor struct {
	op   string
	src  string
	pos  int
	args []interface{}
	next int
}

func newCursor(op, template string, args []interface{}) *cursor {
	return &cursor{op: op, src: template, args: args}
}

func (c *cursor) skipSpace() {
	for c.pos < len(c.src) && isSpace(c.src[c.pos]) {
		c.pos++
	}
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.src)
}

// peek skips whitespace and returns the next token without consuming it.
func (c *cursor) peek() (byte, bool) {
	c.skipSpace()
	if c.eof() {
		return 0, false
	}
	return c.src[c.pos], true
}

func (c *cursor) errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: c.op, Off: c.pos, Msg: fmt.Sprintf(format, args...)}
}

// arg returns the next positional argument.
func (c *cursor) arg(tok byte) (interface{}, error) {
	if c.next >= len(c.args) {
		return nil, c.errorf(KindArgs, "token %q needs argument %d, only %d given", tok, c.next+1, len(c.args))
	}
	a := c.args[c.next]
	c.next++
	return a, nil
}

// start positions the cursor on the root token.
func (c *cursor) start() error {
	if _, ok := c.peek(); !ok {
		return c.errorf(KindSyntax, "empty template")
	}
	return nil
}

// finish rejects anything after the root value.
func (c *cursor) finish() error {
	if tok, ok := c.peek(); ok {
		return c.errorf(KindSyntax, "unexpected %q after value", tok)
	}
	return nil
}

// skipTo skips tokens up to and including the closer that matches an
// already-consumed opener. Skipped tokens take no arguments. Reaching the
// end of the template first is not an error.
func (c *cursor) skipTo(close byte) error {
	stack := []byte{close}
	for {
		tok, ok := c.peek()
		if !ok {
			return nil
		}
		switch tok {
		case '(', '[':
			stack = append(stack, closerOf(tok))
		case ')', ']':
			if tok != stack[len(stack)-1] {
				return c.errorf(KindSyntax, "unexpected %q, want %q", tok, stack[len(stack)-1])
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				c.pos++
				return nil
			}
		default:
			if _, ok := tokenTag(tok); !ok && tok != tokValue && tok != tokSkip {
				return c.errorf(KindSyntax, "unknown token %q", tok)
			}
		}
		c.pos++
	}
}

// countElements scans ahead, without moving, to the closer matching an
// already-consumed opener and returns the number of elements between them.
// Both bracket kinds are balanced; a missing or mismatched closer is an
// error.
func (c *cursor) countElements(close byte) (int, error) {
	stack := []byte{close}
	n := 0
	for i := c.pos; i < len(c.src); i++ {
		tok := c.src[i]
		if isSpace(tok) {
			continue
		}
		switch tok {
		case '(', '[':
			if len(stack) == 1 {
				n++
			}
			stack = append(stack, closerOf(tok))
		case ')', ']':
			if tok != stack[len(stack)-1] {
				return 0, &Error{Kind: KindSyntax, Op: c.op, Off: i,
					Msg: fmt.Sprintf("unexpected %q, want %q", tok, stack[len(stack)-1])}
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return n, nil
			}
		default:
			if len(stack) == 1 {
				n++
			}
		}
	}
	return 0, c.errorf(KindSyntax, "missing %q", stack[len(stack)-1])
}
