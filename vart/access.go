package vart

// Get reads v through an accessor template, copying data into dst in
// template order.
//
//	n  any (ignored)       i  *int64      u  *uint64     f  *float64
//	s  *[]byte or *string  a l d v  **Value (borrowed handle)
//	_  skip, no destination
//	(...)  descend into array elements   [...]  descend into list elements
//
// Scalar and handle tokens must match the value's tag exactly. A bracket
// group stops at its closer, at the end of the template, or at the last
// element, whichever comes first; tokens beyond the last element are
// skipped without consuming destinations.
func (v *Value) Get(template string, dst ...interface{}) error {
	if err := v.check("Get"); err != nil {
		return err
	}
	c := newCursor("Get", template, dst)
	if err := c.start(); err != nil {
		return err
	}
	if err := getValue(c, v); err != nil {
		return err
	}
	return c.finish()
}

// Set writes into v through an accessor template, taking sources from src
// in template order.
//
//	n  any (ignored); turns the value into nil, freeing its children
//	i  int64 or int    u  uint64 or uint    f  float64
//	s  []byte or string
//	a l d v  *Value donor, moved in without copying
//
// A donor's payload is moved into the target and the donor is left as nil.
// For 'v' a nil target accepts any donor; otherwise tags must match.
// Dictionary keys can be neither targets nor donors.
func (v *Value) Set(template string, src ...interface{}) error {
	if err := v.check("Set"); err != nil {
		return err
	}
	c := newCursor("Set", template, src)
	if err := c.start(); err != nil {
		return err
	}
	if err := setValue(c, v); err != nil {
		return err
	}
	return c.finish()
}

type visitFunc func(c *cursor, v *Value) error

// walk visits the elements of an array or list after its opener.
func walk(c *cursor, v *Value, close byte, visit visitFunc) error {
	var n int
	var node *listNode
	if v.tag == TagArray {
		n = len(v.arr.elems)
	} else {
		n, node = v.list.n, v.list.head
	}
	for i := 0; ; i++ {
		tok, ok := c.peek()
		if !ok {
			return nil
		}
		if tok == close {
			c.pos++
			return nil
		}
		if i >= n {
			return c.skipTo(close)
		}
		var elem *Value
		if node == nil {
			elem = v.arr.elems[i]
		} else {
			if i > 0 && i%ListChunk == 0 {
				node = node.next
			}
			elem = node.vars[i%ListChunk]
		}
		if err := visit(c, elem); err != nil {
			return err
		}
	}
}

// enter handles the tokens shared by Get and Set: skip, brackets, and
// stray closers. It reports whether tok was handled.
func enter(c *cursor, v *Value, tok byte, visit visitFunc) (bool, error) {
	switch tok {
	case tokSkip:
		c.pos++
		return true, nil
	case '(', '[':
		want := TagArray
		if tok == '[' {
			want = TagList
		}
		if v.tag != want {
			return true, c.errorf(KindType, "token %q expects %s, got %s", tok, want, v.tag)
		}
		c.pos++
		return true, walk(c, v, closerOf(tok), visit)
	case ')', ']':
		return true, c.errorf(KindSyntax, "unexpected %q", tok)
	}
	return false, nil
}

// matchTag checks that tok may visit v.
func matchTag(c *cursor, v *Value, tok byte) error {
	if v.freed {
		return c.errorf(KindFreed, "value was deleted")
	}
	if v.tag > TagDict {
		return &Error{Kind: KindCorrupt, Op: c.op, Off: c.pos, Msg: corrupt(c.op, v.tag).Msg}
	}
	want, ok := tokenTag(tok)
	if !ok {
		if tok == tokValue {
			return nil
		}
		return c.errorf(KindSyntax, "unknown token %q", tok)
	}
	if tok == tokNil && c.op == "Set" {
		return nil
	}
	if v.tag != want {
		return c.errorf(KindType, "token %q expects %s, got %s", tok, want, v.tag)
	}
	return nil
}

func argType(c *cursor, tok byte, want string, got interface{}) *Error {
	return c.errorf(KindType, "token %q wants %s, got %T", tok, want, got)
}

// ============================================================
// Get
// ============================================================

func getValue(c *cursor, v *Value) error {
	tok, _ := c.peek()
	if handled, err := enter(c, v, tok, getValue); handled {
		return err
	}
	if err := matchTag(c, v, tok); err != nil {
		return err
	}
	a, err := c.arg(tok)
	if err != nil {
		return err
	}
	switch tok {
	case tokNil:
	case tokInt:
		p, ok := a.(*int64)
		if !ok || p == nil {
			return argType(c, tok, "*int64", a)
		}
		*p = v.intVal
	case tokUint:
		p, ok := a.(*uint64)
		if !ok || p == nil {
			return argType(c, tok, "*uint64", a)
		}
		*p = v.uintVal
	case tokFloat:
		p, ok := a.(*float64)
		if !ok || p == nil {
			return argType(c, tok, "*float64", a)
		}
		*p = v.floatVal
	case tokString:
		switch p := a.(type) {
		case *[]byte:
			if p == nil {
				return argType(c, tok, "*[]byte or *string", a)
			}
			*p = append([]byte(nil), v.str...)
		case *string:
			if p == nil {
				return argType(c, tok, "*[]byte or *string", a)
			}
			*p = string(v.str)
		default:
			return argType(c, tok, "*[]byte or *string", a)
		}
	default:
		p, ok := a.(**Value)
		if !ok || p == nil {
			return argType(c, tok, "**Value", a)
		}
		*p = v
	}
	c.pos++
	return nil
}

// ============================================================
// Set
// ============================================================

func setValue(c *cursor, v *Value) error {
	tok, _ := c.peek()
	if handled, err := enter(c, v, tok, setValue); handled {
		return err
	}
	if err := matchTag(c, v, tok); err != nil {
		return err
	}
	if v.frozen {
		return c.errorf(KindOwnership, "value is a dictionary key")
	}
	a, err := c.arg(tok)
	if err != nil {
		return err
	}
	switch tok {
	case tokNil:
		v.release(nil)
	case tokInt:
		switch x := a.(type) {
		case int64:
			v.intVal = x
		case int:
			v.intVal = int64(x)
		default:
			return argType(c, tok, "int64", a)
		}
	case tokUint:
		switch x := a.(type) {
		case uint64:
			v.uintVal = x
		case uint:
			v.uintVal = uint64(x)
		default:
			return argType(c, tok, "uint64", a)
		}
	case tokFloat:
		x, ok := a.(float64)
		if !ok {
			return argType(c, tok, "float64", a)
		}
		v.floatVal = x
	case tokString:
		var b []byte
		switch x := a.(type) {
		case []byte:
			b = x
		case string:
			b = []byte(x)
		default:
			return argType(c, tok, "[]byte or string", a)
		}
		if err := v.replaceBytes(c.op, b); err != nil {
			return err
		}
	default:
		donor, ok := a.(*Value)
		if !ok || donor == nil {
			return argType(c, tok, "*Value", a)
		}
		if err := adopt(c, v, donor, tok); err != nil {
			return err
		}
	}
	c.pos++
	return nil
}

// adopt moves donor's payload into target.
func adopt(c *cursor, target, donor *Value, tok byte) error {
	if donor.freed {
		return c.errorf(KindFreed, "donor was deleted")
	}
	if donor == target {
		return nil
	}
	if donor.frozen {
		return c.errorf(KindOwnership, "donor is a dictionary key")
	}
	if tok == tokValue {
		if target.tag != TagNil && donor.tag != target.tag {
			return c.errorf(KindType, "donor is %s, target is %s", donor.tag, target.tag)
		}
	} else if want, _ := tokenTag(tok); donor.tag != want {
		return c.errorf(KindType, "token %q expects %s donor, got %s", tok, want, donor.tag)
	}
	if donor.heap != target.heap {
		return c.errorf(KindOwnership, "donor belongs to a different heap")
	}
	if donor.isAncestorOf(target) {
		return c.errorf(KindOwnership, "donor contains the target")
	}
	target.moveFrom(donor)
	return nil
}
