package vart

// DictBuckets is the bucket count of a freshly built dictionary.
const DictBuckets = 16

// element is one key/value pair. The key's digest is computed once and kept
// across reshapes.
type element struct {
	hash uint64
	key  *Value
	val  *Value
	prev *element
	next *element
}

// bucket is a doubly linked chain of elements.
type bucket struct {
	size int
	head *element
	tail *element
}

func (b *bucket) push(e *element) {
	e.prev, e.next = b.tail, nil
	if b.tail == nil {
		b.head = e
	} else {
		b.tail.next = e
	}
	b.tail = e
	b.size++
}

func (b *bucket) unlink(e *element) {
	if e.prev == nil {
		b.head = e.next
	} else {
		e.prev.next = e.next
	}
	if e.next == nil {
		b.tail = e.prev
	} else {
		e.next.prev = e.prev
	}
	e.prev, e.next = nil, nil
	b.size--
}

// dictData is the separate-chaining hash table payload.
// Every element e lives in buckets[e.hash % mod].
type dictData struct {
	mod     uint64
	buckets []bucket
	n       int
}

func (d *dictData) find(hash uint64, key *Value) *element {
	for e := d.buckets[hash%d.mod].head; e != nil; e = e.next {
		if e.hash == hash && Equal(e.key, key) {
			return e
		}
	}
	return nil
}

func (d *dictData) each(fn func(e *element) bool) {
	for i := range d.buckets {
		for e := d.buckets[i].head; e != nil; {
			next := e.next
			if !fn(e) {
				return
			}
			e = next
		}
	}
}

func (d *dictData) maxBucket() int {
	max := 0
	for i := range d.buckets {
		if d.buckets[i].size > max {
			max = d.buckets[i].size
		}
	}
	return max
}

// reshape grows the table when the longest chain exceeds the bucket count:
// new_mod = mod * (max / mod) * 2. Elements keep their stored digest and
// are relinked in walk order.
func (h *Heap) reshape(op string, d *dictData) error {
	max := uint64(d.maxBucket())
	if max <= d.mod {
		return nil
	}
	newMod := d.mod * (max / d.mod) * 2
	if err := h.alloc(op, ResBuckets, int(newMod)*bucketSize); err != nil {
		return err
	}
	fresh := make([]bucket, newMod)
	for i := range d.buckets {
		for e := d.buckets[i].head; e != nil; {
			next := e.next
			fresh[e.hash%newMod].push(e)
			e = next
		}
	}
	h.free(ResBuckets, int(d.mod)*bucketSize)
	d.mod, d.buckets = newMod, fresh
	return nil
}

// Dict builds a dictionary from two arrays of equal length, pairing
// keys[i] with vals[i]. Both arrays are consumed: their children move into
// the dictionary and the arrays themselves are deleted. A repeated key keeps
// the value of its last occurrence. On error neither array is touched.
func (h *Heap) Dict(keys, vals *Value) (*Value, error) {
	const op = "Dict"
	for _, a := range []*Value{keys, vals} {
		if err := a.check(op); err != nil {
			return nil, err
		}
		if a.tag != TagArray {
			return nil, errorf(KindType, op, "expected array, got %s", a.tag)
		}
		if a.owner != nil {
			return nil, errorf(KindOwnership, op, "array is owned by a %s", a.owner.tag)
		}
	}
	if keys == vals {
		return nil, errorf(KindOwnership, op, "keys and values are the same array")
	}
	n := len(keys.arr.elems)
	if n != len(vals.arr.elems) {
		return nil, errorf(KindType, op, "%d keys but %d values", n, len(vals.arr.elems))
	}
	hashes := make([]uint64, n)
	for i, k := range keys.arr.elems {
		sum, ok := k.Hash()
		if !ok {
			return nil, errorf(KindUnhashable, op, "key %d is a %s", i, describeUnhashable(k))
		}
		hashes[i] = sum
	}

	v, err := h.newValue(op, TagDict)
	if err != nil {
		return nil, err
	}
	if err := h.alloc(op, ResBuckets, DictBuckets*bucketSize); err != nil {
		h.free(ResHeader, headerSize)
		return nil, err
	}
	for i := 0; i < n; i++ {
		if err := h.alloc(op, ResElement, elementSize); err != nil {
			for done := 0; done < i; done++ {
				h.free(ResElement, elementSize)
			}
			h.free(ResBuckets, DictBuckets*bucketSize)
			h.free(ResHeader, headerSize)
			return nil, err
		}
	}

	d := &dictData{mod: DictBuckets, buckets: make([]bucket, DictBuckets)}
	v.dict = d
	for i := 0; i < n; i++ {
		key, val := keys.arr.elems[i], vals.arr.elems[i]
		key.owner, val.owner = v, v
		key.freeze()
		if old := d.find(hashes[i], key); old != nil {
			old.val.destroy(nil)
			old.val = val
			key.destroy(nil)
			h.free(ResElement, elementSize)
			continue
		}
		d.buckets[hashes[i]%d.mod].push(&element{hash: hashes[i], key: key, val: val})
		d.n++
	}
	for _, a := range []*Value{keys, vals} {
		a.heap.free(ResTable, len(a.arr.elems)*slotSize)
		a.retire()
	}

	// The reshape check runs once, after the bulk insert. A refused bucket
	// table leaves the dictionary valid at the initial size.
	_ = h.reshape(op, d)
	return v, nil
}

// Dict builds a dictionary on the default heap.
func Dict(keys, vals *Value) (*Value, error) {
	return std.Dict(keys, vals)
}

func describeUnhashable(v *Value) string {
	if v.tag == TagArray {
		return "array holding an unhashable element"
	}
	return v.tag.String()
}

// ============================================================
// Dictionary operations
// ============================================================

// Lookup returns the value stored under key. The key is only borrowed.
func (v *Value) Lookup(key *Value) (*Value, bool, error) {
	if err := v.expect("Lookup", TagDict); err != nil {
		return nil, false, err
	}
	if err := key.check("Lookup"); err != nil {
		return nil, false, err
	}
	sum, ok := key.Hash()
	if !ok {
		return nil, false, errorf(KindUnhashable, "Lookup", "key is a %s", describeUnhashable(key))
	}
	if e := v.dict.find(sum, key); e != nil {
		return e.val, true, nil
	}
	return nil, false, nil
}

// Insert stores val under key, taking ownership of both. An existing equal
// key keeps its slot: the old value and the new key are deleted. The
// reshape check runs after every insert.
func (v *Value) Insert(key, val *Value) error {
	const op = "Insert"
	if err := v.expect(op, TagDict); err != nil {
		return err
	}
	if err := checkChildren(op, []*Value{key, val}); err != nil {
		return err
	}
	if val == v || val.isAncestorOf(v) || key.isAncestorOf(v) {
		return errorf(KindOwnership, op, "value cannot contain itself")
	}
	sum, ok := key.Hash()
	if !ok {
		return errorf(KindUnhashable, op, "key is a %s", describeUnhashable(key))
	}
	d := v.dict
	if e := d.find(sum, key); e != nil {
		e.val.destroy(nil)
		val.owner = v
		e.val = val
		key.destroy(nil)
		return nil
	}
	if err := v.heap.alloc(op, ResElement, elementSize); err != nil {
		return err
	}
	key.owner, val.owner = v, v
	key.freeze()
	d.buckets[sum%d.mod].push(&element{hash: sum, key: key, val: val})
	d.n++
	// A refused bucket table leaves the dictionary valid at its current size.
	_ = v.heap.reshape(op, d)
	return nil
}

// Remove deletes the pair stored under key and reports whether it existed.
// The key is only borrowed.
func (v *Value) Remove(key *Value) (bool, error) {
	if err := v.expect("Remove", TagDict); err != nil {
		return false, err
	}
	if err := key.check("Remove"); err != nil {
		return false, err
	}
	sum, ok := key.Hash()
	if !ok {
		return false, errorf(KindUnhashable, "Remove", "key is a %s", describeUnhashable(key))
	}
	d := v.dict
	e := d.find(sum, key)
	if e == nil {
		return false, nil
	}
	d.buckets[sum%d.mod].unlink(e)
	d.n--
	e.key.destroy(nil)
	e.val.destroy(nil)
	v.heap.free(ResElement, elementSize)
	return true, nil
}

// Each calls fn for every pair in bucket order until fn returns false.
// Keys and values stay owned by the dictionary. Keys are read-only: Set,
// Put, SetBytes and SetString on a key, or moving a key out, report
// KindOwnership.
func (v *Value) Each(fn func(key, val *Value) bool) error {
	if err := v.expect("Each", TagDict); err != nil {
		return err
	}
	v.dict.each(func(e *element) bool { return fn(e.key, e.val) })
	return nil
}

// Mod returns the current bucket count.
func (v *Value) Mod() (uint64, error) {
	if err := v.expect("Mod", TagDict); err != nil {
		return 0, err
	}
	return v.dict.mod, nil
}

// BucketSizes returns the chain length of every bucket.
func (v *Value) BucketSizes() ([]int, error) {
	if err := v.expect("BucketSizes", TagDict); err != nil {
		return nil, err
	}
	sizes := make([]int, len(v.dict.buckets))
	for i := range v.dict.buckets {
		sizes[i] = v.dict.buckets[i].size
	}
	return sizes, nil
}
