package vart

// ListChunk is the number of elements held by one list node.
const ListChunk = 16

// listNode is one fixed-capacity chunk of a list.
type listNode struct {
	vars [ListChunk]*Value
	next *listNode
}

// listData is the chunked list payload. Node k holds elements
// [k*ListChunk, k*ListChunk+ListChunk); only the last node may be partial.
type listData struct {
	n    int
	head *listNode
}

// nodesFor returns the number of chunks needed for n elements.
func nodesFor(n int) int {
	return (n + ListChunk - 1) / ListChunk
}

// locate walks i/ListChunk links and returns the node and slot of element i.
func (l *listData) locate(i int) (*listNode, int) {
	node := l.head
	for k := i / ListChunk; k > 0; k-- {
		node = node.next
	}
	return node, i % ListChunk
}

func (l *listData) at(i int) *Value {
	node, k := l.locate(i)
	return node.vars[k]
}

// each visits elements in order, crossing chunk boundaries.
func (l *listData) each(fn func(i int, v *Value) bool) {
	i := 0
	for node := l.head; node != nil && i < l.n; node = node.next {
		for k := 0; k < ListChunk && i < l.n; k++ {
			if !fn(i, node.vars[k]) {
				return
			}
			i++
		}
	}
}

// List creates a chunked list owning children. The node count is computed
// up front, the chain is allocated, then children are distributed in order.
func (h *Heap) List(children ...*Value) (*Value, error) {
	if err := checkChildren("List", children); err != nil {
		return nil, err
	}
	v, err := h.newValue("List", TagList)
	if err != nil {
		return nil, err
	}
	l := &listData{n: len(children)}
	var tail *listNode
	for k := 0; k < nodesFor(len(children)); k++ {
		if err := h.alloc("List", ResNode, nodeSize); err != nil {
			for done := 0; done < k; done++ {
				h.free(ResNode, nodeSize)
			}
			h.free(ResHeader, headerSize)
			return nil, err
		}
		node := &listNode{}
		if tail == nil {
			l.head = node
		} else {
			tail.next = node
		}
		tail = node
	}
	node := l.head
	for i, c := range children {
		if i > 0 && i%ListChunk == 0 {
			node = node.next
		}
		c.owner = v
		node.vars[i%ListChunk] = c
	}
	v.list = l
	return v, nil
}

// List creates a chunked list on the default heap.
func List(children ...*Value) (*Value, error) {
	return std.List(children...)
}

// Locate reports which chunk and slot hold element i of a list.
func (v *Value) Locate(i int) (node, slot int, err error) {
	if err := v.expect("Locate", TagList); err != nil {
		return 0, 0, err
	}
	if i < 0 || i >= v.list.n {
		return 0, 0, errorf(KindRange, "Locate", "index %d out of bounds (len=%d)", i, v.list.n)
	}
	return i / ListChunk, i % ListChunk, nil
}

// Nodes returns the number of chunks backing a list.
func (v *Value) Nodes() (int, error) {
	if err := v.expect("Nodes", TagList); err != nil {
		return 0, err
	}
	n := 0
	for node := v.list.head; node != nil; node = node.next {
		n++
	}
	return n, nil
}
