package vart

// arrayData is the fixed array payload: one owned child per slot.
type arrayData struct {
	elems []*Value
}

// checkChildren verifies that every child can be adopted by a new parent.
func checkChildren(op string, children []*Value) error {
	var seen map[*Value]struct{}
	if len(children) > 1 {
		seen = make(map[*Value]struct{}, len(children))
	}
	for i, c := range children {
		if err := c.check(op); err != nil {
			return errorf(err.(*Error).Kind, op, "child %d: %s", i, err.(*Error).Msg)
		}
		if c.owner != nil {
			return errorf(KindOwnership, op, "child %d is already owned by a %s", i, c.owner.tag)
		}
		if seen != nil {
			if _, dup := seen[c]; dup {
				return errorf(KindOwnership, op, "child %d appears twice", i)
			}
			seen[c] = struct{}{}
		}
	}
	return nil
}

// Array creates a fixed array owning children. The length is the number of
// children and never changes.
func (h *Heap) Array(children ...*Value) (*Value, error) {
	if err := checkChildren("Array", children); err != nil {
		return nil, err
	}
	v, err := h.newValue("Array", TagArray)
	if err != nil {
		return nil, err
	}
	if err := h.alloc("Array", ResTable, len(children)*slotSize); err != nil {
		h.free(ResHeader, headerSize)
		return nil, err
	}
	elems := make([]*Value, len(children))
	for i, c := range children {
		c.owner = v
		elems[i] = c
	}
	v.arr = &arrayData{elems: elems}
	return v, nil
}

// MakeArray creates an array of n slots, each holding a fresh nil value.
func (h *Heap) MakeArray(n int) (*Value, error) {
	if n < 0 {
		return nil, errorf(KindRange, "MakeArray", "negative length %d", n)
	}
	children := make([]*Value, 0, n)
	for i := 0; i < n; i++ {
		c, err := h.Nil()
		if err != nil {
			for _, done := range children {
				done.destroy(nil)
			}
			return nil, err
		}
		children = append(children, c)
	}
	v, err := h.Array(children...)
	if err != nil {
		for _, done := range children {
			done.destroy(nil)
		}
		return nil, err
	}
	return v, nil
}

// Array creates a fixed array on the default heap.
func Array(children ...*Value) (*Value, error) {
	return std.Array(children...)
}

// MakeArray creates a nil-filled array on the default heap.
func MakeArray(n int) (*Value, error) {
	return std.MakeArray(n)
}

// Index returns the i-th element of an array or list. The element stays
// owned by v.
func (v *Value) Index(i int) (*Value, error) {
	if err := v.check("Index"); err != nil {
		return nil, err
	}
	switch v.tag {
	case TagArray:
		if i < 0 || i >= len(v.arr.elems) {
			return nil, errorf(KindRange, "Index", "index %d out of bounds (len=%d)", i, len(v.arr.elems))
		}
		return v.arr.elems[i], nil
	case TagList:
		if i < 0 || i >= v.list.n {
			return nil, errorf(KindRange, "Index", "index %d out of bounds (len=%d)", i, v.list.n)
		}
		return v.list.at(i), nil
	default:
		return nil, errorf(KindType, "Index", "expected array or list, got %s", v.tag)
	}
}

// Put stores child at slot i of an array or list, deleting the previous
// occupant. Ownership of child transfers to v.
func (v *Value) Put(i int, child *Value) error {
	if err := v.check("Put"); err != nil {
		return err
	}
	if err := v.mutable("Put"); err != nil {
		return err
	}
	if err := checkChildren("Put", []*Value{child}); err != nil {
		return err
	}
	if child == v || child.isAncestorOf(v) {
		return errorf(KindOwnership, "Put", "value cannot contain itself")
	}
	var slot **Value
	switch v.tag {
	case TagArray:
		if i < 0 || i >= len(v.arr.elems) {
			return errorf(KindRange, "Put", "index %d out of bounds (len=%d)", i, len(v.arr.elems))
		}
		slot = &v.arr.elems[i]
	case TagList:
		if i < 0 || i >= v.list.n {
			return errorf(KindRange, "Put", "index %d out of bounds (len=%d)", i, v.list.n)
		}
		node, k := v.list.locate(i)
		slot = &node.vars[k]
	default:
		return errorf(KindType, "Put", "expected array or list, got %s", v.tag)
	}
	(*slot).destroy(nil)
	child.owner = v
	*slot = child
	return nil
}
