package vart

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

// assertBalanced checks that every allocation was released exactly once.
func assertBalanced(t *testing.T, c *Counter) {
	t.Helper()
	for r := Resource(0); r < numResources; r++ {
		if a, f := c.Allocs(r), c.Frees(r); a != f {
			t.Errorf("%s: %d allocs, %d frees", r, a, f)
		}
	}
	if c.Bytes() != 0 {
		t.Errorf("live bytes = %d, want 0", c.Bytes())
	}
}

func TestDelete_ArrayOfStrings(t *testing.T) {
	c := &Counter{}
	h := NewHeap(c)

	s1, err := h.String("hello %s", "world")
	if err != nil {
		t.Fatalf("String failed: %v", err)
	}
	s2, err := h.Bytes([]byte("bye"))
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	arr, err := h.Array(s1, s2)
	if err != nil {
		t.Fatalf("Array failed: %v", err)
	}
	if got := c.Allocs(ResString); got != 2 {
		t.Errorf("string allocs = %d, want 2", got)
	}

	if err := arr.Delete(); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := c.Frees(ResString); got != 2 {
		t.Errorf("string frees = %d, want 2", got)
	}
	if got := c.Frees(ResTable); got != 1 {
		t.Errorf("table frees = %d, want 1", got)
	}
	if got := c.Frees(ResHeader); got != 3 {
		t.Errorf("header frees = %d, want 3", got)
	}
	assertBalanced(t, c)

	// A second delete is refused rather than freeing again.
	if err := arr.Delete(); !errors.Is(err, ErrFreed) {
		t.Errorf("second Delete: err = %v, want ErrFreed", err)
	}
	if got := c.Frees(ResString); got != 2 {
		t.Errorf("string frees after second delete = %d, want 2", got)
	}
	if !s1.Freed() || !s2.Freed() {
		t.Error("children should be marked deleted")
	}
}

func TestDelete_ChildRefused(t *testing.T) {
	child := Int(1)
	arr, _ := Array(child)
	if err := child.Delete(); !errors.Is(err, ErrOwnership) {
		t.Errorf("Delete(child): err = %v, want ErrOwnership", err)
	}
	if child.Owner() != arr {
		t.Error("child owner changed after refused delete")
	}
}

func TestDelete_EmptyContainers(t *testing.T) {
	c := &Counter{}
	h := NewHeap(c)

	arr, err := h.Array()
	if err != nil {
		t.Fatalf("Array() failed: %v", err)
	}
	list, err := h.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	for _, v := range []*Value{arr, list} {
		n, err := v.Len()
		if err != nil || n != 0 {
			t.Errorf("%s Len() = %d, %v; want 0", v.Tag(), n, err)
		}
	}
	if nodes, _ := list.Nodes(); nodes != 0 {
		t.Errorf("empty list nodes = %d, want 0", nodes)
	}
	arr.Delete()
	list.Delete()
	if got := c.Frees(ResHeader); got != 2 {
		t.Errorf("header frees = %d, want 2 (no child recursion)", got)
	}
	assertBalanced(t, c)
}

func TestCounter_Limit(t *testing.T) {
	c := &Counter{Limit: headerSize*3 + 8}
	h := NewHeap(c)

	a, err := h.Int(1)
	if err != nil {
		t.Fatalf("Int failed: %v", err)
	}
	b, err := h.Int(2)
	if err != nil {
		t.Fatalf("Int failed: %v", err)
	}
	// Header fits, table of two slots does not.
	if _, err := h.Array(a, b); !errors.Is(err, ErrAlloc) {
		t.Fatalf("Array over limit: err = %v, want ErrAlloc", err)
	}
	if a.Owner() != nil || b.Owner() != nil {
		t.Error("refused Array must not adopt children")
	}
	a.Delete()
	b.Delete()
	assertBalanced(t, c)
}

func TestCounter_LimitDuringDict(t *testing.T) {
	c := &Counter{}
	h := NewHeap(c)
	keys, _ := h.Build("(iii)", 1, 2, 3)
	vals, _ := h.Build("(sss)", "a", "b", "c")

	c.Limit = c.Bytes() + headerSize + DictBuckets*bucketSize + elementSize
	if _, err := h.Dict(keys, vals); !errors.Is(err, ErrAlloc) {
		t.Fatalf("Dict over limit: err = %v, want ErrAlloc", err)
	}
	if keys.Freed() || vals.Freed() {
		t.Fatal("refused Dict must leave its inputs alive")
	}
	c.Limit = 0
	keys.Delete()
	vals.Delete()
	assertBalanced(t, c)
}

func TestClone_Independent(t *testing.T) {
	c := &Counter{}
	h := NewHeap(c)
	src, err := h.Build("(i s [u f] (s))", 1, "x", uint64(2), 3.5, "y")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	dup, err := src.Clone()
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	if !Equal(src, dup) {
		t.Fatalf("clone differs: %s vs %s", src, dup)
	}
	src.Delete()
	if dup.Freed() {
		t.Fatal("clone deleted with source")
	}
	var s string
	if err := dup.Get("(_ s)", &s); err != nil || s != "x" {
		t.Errorf("clone Get = %q, %v; want x", s, err)
	}
	dup.Delete()
	assertBalanced(t, c)
}

func TestClone_Dict(t *testing.T) {
	d := buildDict(t, []string{"a", "b"}, []int64{1, 2})
	dup, err := d.Clone()
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	if !Equal(d, dup) {
		t.Errorf("dict clone differs: %s vs %s", d, dup)
	}
}

func TestCounter_LimitConcurrent(t *testing.T) {
	const limit = 64 * 10
	c := &Counter{Limit: limit}
	var wg sync.WaitGroup
	var granted atomic.Int64
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if c.Alloc(ResHeader, 64) == nil {
					granted.Add(1)
				}
			}
		}()
	}
	wg.Wait()
	if granted.Load() != 10 {
		t.Errorf("granted %d allocations, want 10", granted.Load())
	}
	if c.Bytes() != limit {
		t.Errorf("bytes = %d, want %d", c.Bytes(), limit)
	}
}
