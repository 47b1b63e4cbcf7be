package vart

// ============================================================
// Release
// ============================================================

// release frees the payload of v: children first, then the backing
// storage. v is left as a nil value with its header still allocated.
// Children found in keep are detached instead of freed.
func (v *Value) release(keep map[*Value]bool) {
	h := v.heap
	switch v.tag {
	case TagString:
		h.free(ResString, len(v.str))
	case TagArray:
		for _, c := range v.arr.elems {
			c.destroy(keep)
		}
		h.free(ResTable, len(v.arr.elems)*slotSize)
	case TagList:
		i := 0
		for node := v.list.head; node != nil; {
			for k := 0; k < ListChunk && i < v.list.n; k++ {
				node.vars[k].destroy(keep)
				i++
			}
			next := node.next
			h.free(ResNode, nodeSize)
			node = next
		}
	case TagDict:
		v.dict.each(func(e *element) bool {
			e.key.destroy(keep)
			e.val.destroy(keep)
			h.free(ResElement, elementSize)
			return true
		})
		h.free(ResBuckets, int(v.dict.mod)*bucketSize)
	}
	v.clear()
}

func (v *Value) clear() {
	v.tag = TagNil
	v.intVal, v.uintVal, v.floatVal = 0, 0, 0
	v.str = nil
	v.arr, v.list, v.dict = nil, nil, nil
}

// retire frees the header of a value whose payload is already released.
func (v *Value) retire() {
	v.heap.free(ResHeader, headerSize)
	v.clear()
	v.owner = nil
	v.freed = true
}

// destroy recursively frees v and everything it owns.
func (v *Value) destroy(keep map[*Value]bool) {
	if v == nil || v.freed {
		return
	}
	if keep[v] {
		v.owner = nil
		return
	}
	v.release(keep)
	v.retire()
}

func destroyAll(vals []*Value) {
	for _, v := range vals {
		v.destroy(nil)
	}
}

// Delete frees v and every value it owns, each exactly once. Only roots
// can be deleted; a child is freed together with its owner. Deleting a
// value twice reports KindFreed.
func (v *Value) Delete() error {
	if err := v.check("Delete"); err != nil {
		return err
	}
	if v.owner != nil {
		return errorf(KindOwnership, "Delete", "value is owned by a %s; delete its root", v.owner.tag)
	}
	v.destroy(nil)
	return nil
}

// ============================================================
// Length, ownership, copying
// ============================================================

// Len returns the byte length of a string, the element count of an array
// or list, or the pair count of a dict. Scalars have no length.
func (v *Value) Len() (int, error) {
	if err := v.check("Len"); err != nil {
		return 0, err
	}
	switch v.tag {
	case TagNil, TagInt, TagUint, TagFloat:
		return 0, errorf(KindType, "Len", "%s has no length", v.tag)
	case TagString:
		return len(v.str), nil
	case TagArray:
		return len(v.arr.elems), nil
	case TagList:
		return v.list.n, nil
	case TagDict:
		return v.dict.n, nil
	default:
		return 0, corrupt("Len", v.tag)
	}
}

// isAncestorOf reports whether v owns x, directly or transitively.
func (v *Value) isAncestorOf(x *Value) bool {
	for p := x.owner; p != nil; p = p.owner {
		if p == v {
			return true
		}
	}
	return false
}

// freeze marks v and its elements read-only. Only hashable values become
// keys, so arrays are the only composites to descend into.
func (v *Value) freeze() {
	v.frozen = true
	if v.tag == TagArray {
		for _, c := range v.arr.elems {
			c.freeze()
		}
	}
}

// reparent points every direct child of v back at v.
func (v *Value) reparent() {
	switch v.tag {
	case TagArray:
		for _, c := range v.arr.elems {
			c.owner = v
		}
	case TagList:
		v.list.each(func(_ int, c *Value) bool {
			c.owner = v
			return true
		})
	case TagDict:
		v.dict.each(func(e *element) bool {
			e.key.owner, e.val.owner = v, v
			return true
		})
	}
}

// moveFrom releases v's payload and takes donor's without copying it. The
// donor is left as a nil value; if v owned the donor, the donor is freed
// along with v's old payload.
func (v *Value) moveFrom(donor *Value) {
	moved := *donor
	donor.clear()
	v.release(nil)
	v.tag = moved.tag
	v.intVal, v.uintVal, v.floatVal = moved.intVal, moved.uintVal, moved.floatVal
	v.str = moved.str
	v.arr, v.list, v.dict = moved.arr, moved.list, moved.dict
	v.reparent()
}

// Clone returns a deep copy of v with fresh ownership, built on v's heap.
func (v *Value) Clone() (*Value, error) {
	if err := v.check("Clone"); err != nil {
		return nil, err
	}
	return v.heap.clone(v)
}

func (h *Heap) cloneAll(src []*Value) ([]*Value, error) {
	out := make([]*Value, 0, len(src))
	for _, s := range src {
		c, err := h.clone(s)
		if err != nil {
			destroyAll(out)
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (h *Heap) clone(v *Value) (*Value, error) {
	switch v.tag {
	case TagNil:
		return h.Nil()
	case TagInt:
		return h.Int(v.intVal)
	case TagUint:
		return h.Uint(v.uintVal)
	case TagFloat:
		return h.Float(v.floatVal)
	case TagString:
		return h.Bytes(v.str)
	case TagArray:
		children, err := h.cloneAll(v.arr.elems)
		if err != nil {
			return nil, err
		}
		out, err := h.Array(children...)
		if err != nil {
			destroyAll(children)
		}
		return out, err
	case TagList:
		src := make([]*Value, 0, v.list.n)
		v.list.each(func(_ int, c *Value) bool {
			src = append(src, c)
			return true
		})
		children, err := h.cloneAll(src)
		if err != nil {
			return nil, err
		}
		out, err := h.List(children...)
		if err != nil {
			destroyAll(children)
		}
		return out, err
	case TagDict:
		var ks, vs []*Value
		v.dict.each(func(e *element) bool {
			ks = append(ks, e.key)
			vs = append(vs, e.val)
			return true
		})
		return h.cloneDict(ks, vs)
	default:
		return nil, corrupt("Clone", v.tag)
	}
}

func (h *Heap) cloneDict(ks, vs []*Value) (*Value, error) {
	keys, err := h.cloneAll(ks)
	if err != nil {
		return nil, err
	}
	vals, err := h.cloneAll(vs)
	if err != nil {
		destroyAll(keys)
		return nil, err
	}
	ka, err := h.Array(keys...)
	if err != nil {
		destroyAll(keys)
		destroyAll(vals)
		return nil, err
	}
	va, err := h.Array(vals...)
	if err != nil {
		ka.destroy(nil)
		destroyAll(vals)
		return nil, err
	}
	out, err := h.Dict(ka, va)
	if err != nil {
		ka.destroy(nil)
		va.destroy(nil)
		return nil, err
	}
	return out, nil
}
