package vart

// Build constructs a new value tree from an accessor template, taking
// payloads from args in template order.
//
//	n  nil (argument consumed, ignored)   _  nil (no argument)
//	i  int64 or int    u  uint64 or uint    f  float64
//	s  []byte or string (raw content)
//	a l d v  *Value handle, adopted by move; it must be an unowned root
//	(...)  new array   [...]  new list
//
// Bracket groups are pre-scanned to size the new container before its
// children are built. Adopted handles become part of the result and must
// not be deleted separately. On error nothing built by this call survives
// and adopted handles are returned to the caller unowned.
func (h *Heap) Build(template string, args ...interface{}) (*Value, error) {
	c := newCursor("Build", template, args)
	if err := c.start(); err != nil {
		return nil, err
	}
	b := &builder{h: h, c: c}
	v, err := b.value()
	if err == nil {
		err = c.finish()
	}
	if err == nil && c.next < len(args) {
		err = c.errorf(KindArgs, "%d arguments left over", len(args)-c.next)
	}
	if err != nil {
		if v != nil {
			v.destroy(b.adopted)
		}
		return nil, err
	}
	return v, nil
}

// Build constructs a value tree on the default heap.
func Build(template string, args ...interface{}) (*Value, error) {
	return std.Build(template, args...)
}

type builder struct {
	h       *Heap
	c       *cursor
	adopted map[*Value]bool
}

func (b *builder) discard(vals []*Value) {
	for _, v := range vals {
		v.destroy(b.adopted)
	}
}

func (b *builder) value() (*Value, error) {
	c := b.c
	tok, _ := c.peek()
	switch tok {
	case tokSkip:
		v, err := b.h.Nil()
		if err != nil {
			return nil, err
		}
		c.pos++
		return v, nil
	case '(', '[':
		return b.container(tok)
	case ')', ']':
		return nil, c.errorf(KindSyntax, "unexpected %q", tok)
	}
	if _, ok := tokenTag(tok); !ok && tok != tokValue {
		return nil, c.errorf(KindSyntax, "unknown token %q", tok)
	}
	a, err := c.arg(tok)
	if err != nil {
		return nil, err
	}
	var v *Value
	switch tok {
	case tokNil:
		v, err = b.h.Nil()
	case tokInt:
		switch x := a.(type) {
		case int64:
			v, err = b.h.Int(x)
		case int:
			v, err = b.h.Int(int64(x))
		default:
			return nil, argType(c, tok, "int64", a)
		}
	case tokUint:
		switch x := a.(type) {
		case uint64:
			v, err = b.h.Uint(x)
		case uint:
			v, err = b.h.Uint(uint64(x))
		default:
			return nil, argType(c, tok, "uint64", a)
		}
	case tokFloat:
		x, ok := a.(float64)
		if !ok {
			return nil, argType(c, tok, "float64", a)
		}
		v, err = b.h.Float(x)
	case tokString:
		switch x := a.(type) {
		case []byte:
			v, err = b.h.Bytes(x)
		case string:
			v, err = b.h.Bytes([]byte(x))
		default:
			return nil, argType(c, tok, "[]byte or string", a)
		}
	default:
		v, err = b.take(tok, a)
	}
	if err != nil {
		return nil, err
	}
	c.pos++
	return v, nil
}

// take adopts a caller-supplied handle.
func (b *builder) take(tok byte, a interface{}) (*Value, error) {
	c := b.c
	donor, ok := a.(*Value)
	if !ok || donor == nil {
		return nil, argType(c, tok, "*Value", a)
	}
	if donor.freed {
		return nil, c.errorf(KindFreed, "handle was deleted")
	}
	if want, ok := tokenTag(tok); ok && donor.tag != want {
		return nil, c.errorf(KindType, "token %q expects %s handle, got %s", tok, want, donor.tag)
	}
	if donor.owner != nil {
		return nil, c.errorf(KindOwnership, "handle is owned by a %s", donor.owner.tag)
	}
	if b.adopted[donor] {
		return nil, c.errorf(KindOwnership, "handle given twice")
	}
	if donor.heap != b.h {
		return nil, c.errorf(KindOwnership, "handle belongs to a different heap")
	}
	if b.adopted == nil {
		b.adopted = make(map[*Value]bool)
	}
	b.adopted[donor] = true
	return donor, nil
}

// container builds an array or list from a bracket group.
func (b *builder) container(open byte) (*Value, error) {
	c := b.c
	c.pos++
	n, err := c.countElements(closerOf(open))
	if err != nil {
		return nil, err
	}
	children := make([]*Value, 0, n)
	for i := 0; i < n; i++ {
		child, err := b.value()
		if err != nil {
			b.discard(children)
			return nil, err
		}
		children = append(children, child)
	}
	c.peek()
	c.pos++
	var v *Value
	if open == '(' {
		v, err = b.h.Array(children...)
	} else {
		v, err = b.h.List(children...)
	}
	if err != nil {
		b.discard(children)
		return nil, err
	}
	return v, nil
}
