package vart

import (
	"fmt"
	"sync/atomic"
)

// Resource identifies one kind of backing storage.
type Resource uint8

const (
	ResHeader  Resource = iota // a Value header
	ResString                  // string byte buffer
	ResTable                   // array slot table
	ResNode                    // list chunk
	ResBuckets                 // dict bucket table
	ResElement                 // dict element
	numResources
)

// String returns the resource name.
func (r Resource) String() string {
	switch r {
	case ResHeader:
		return "header"
	case ResString:
		return "string"
	case ResTable:
		return "table"
	case ResNode:
		return "node"
	case ResBuckets:
		return "buckets"
	case ResElement:
		return "element"
	default:
		return "unknown"
	}
}

// Accounted sizes, in bytes, of the fixed-size resources.
const (
	headerSize  = 64
	slotSize    = 8
	nodeSize    = ListChunk*slotSize + slotSize
	bucketSize  = 24
	elementSize = 40
)

// Tracker observes every allocation and release made on behalf of a Heap.
// Alloc may refuse a request; the engine then reports KindAlloc and leaves
// the tree it was working on unchanged.
type Tracker interface {
	Alloc(r Resource, size int) error
	Free(r Resource, size int)
}

type nopTracker struct{}

func (nopTracker) Alloc(Resource, int) error { return nil }
func (nopTracker) Free(Resource, int)        {}

// Heap is the construction context for Values. Every Value remembers the
// Heap it was built on and releases its storage through it.
type Heap struct {
	tr Tracker
}

// NewHeap returns a Heap reporting to tr. A nil tr never refuses.
func NewHeap(tr Tracker) *Heap {
	if tr == nil {
		tr = nopTracker{}
	}
	return &Heap{tr: tr}
}

// std backs the package-level constructors.
var std = NewHeap(nil)

func (h *Heap) alloc(op string, r Resource, size int) error {
	if err := h.tr.Alloc(r, size); err != nil {
		return errorf(KindAlloc, op, "%s of %d bytes: %v", r, size, err)
	}
	return nil
}

func (h *Heap) free(r Resource, size int) {
	h.tr.Free(r, size)
}

// ============================================================
// Counter
// ============================================================

// Counter is a Tracker that counts allocations and releases per resource
// and optionally enforces a byte limit. It is safe for concurrent use.
type Counter struct {
	// Limit caps live bytes; 0 means unlimited.
	Limit int64

	bytes  atomic.Int64
	allocs [numResources]atomic.Int64
	frees  [numResources]atomic.Int64
}

// Alloc records an allocation, or refuses it when Limit would be exceeded.
func (c *Counter) Alloc(r Resource, size int) error {
	if c.Limit <= 0 {
		c.bytes.Add(int64(size))
		c.allocs[r].Add(1)
		return nil
	}
	for {
		cur := c.bytes.Load()
		if cur+int64(size) > c.Limit {
			return fmt.Errorf("limit of %d bytes exceeded", c.Limit)
		}
		if c.bytes.CompareAndSwap(cur, cur+int64(size)) {
			c.allocs[r].Add(1)
			return nil
		}
	}
}

// Free records a release.
func (c *Counter) Free(r Resource, size int) {
	c.bytes.Add(-int64(size))
	c.frees[r].Add(1)
}

// Allocs returns the number of allocations of r.
func (c *Counter) Allocs(r Resource) int64 { return c.allocs[r].Load() }

// Frees returns the number of releases of r.
func (c *Counter) Frees(r Resource) int64 { return c.frees[r].Load() }

// Bytes returns the live byte count.
func (c *Counter) Bytes() int64 { return c.bytes.Load() }

// Live returns the number of allocations not yet released.
func (c *Counter) Live() int64 {
	var n int64
	for r := Resource(0); r < numResources; r++ {
		n += c.allocs[r].Load() - c.frees[r].Load()
	}
	return n
}

// String summarizes live counts per resource.
func (c *Counter) String() string {
	s := fmt.Sprintf("live=%d bytes=%d", c.Live(), c.Bytes())
	for r := Resource(0); r < numResources; r++ {
		if n := c.allocs[r].Load(); n > 0 {
			s += fmt.Sprintf(" %s=%d/%d", r, c.frees[r].Load(), n)
		}
	}
	return s
}
