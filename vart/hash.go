package vart

import (
	"bytes"
	"math"
)

// FNV-1a parameters and the golden-ratio constant used to combine digests.
const (
	fnvOffset   uint64 = 0xcbf29ce484222325
	fnvPrime    uint64 = 0x100000001b3
	goldenRatio uint64 = 0x9e3779b97f4a7c15
)

func fnvByte(h uint64, b byte) uint64 {
	return (h ^ uint64(b)) * fnvPrime
}

func fnvWord(h uint64, w uint64) uint64 {
	for i := 0; i < 8; i++ {
		h = fnvByte(h, byte(w>>(8*i)))
	}
	return h
}

// Hash returns the digest of v and whether v is hashable. Int, Uint, Float,
// String and Arrays whose elements are all hashable can be hashed; Nil,
// List, Dict and any Array containing one cannot. The tag takes part in the
// digest, so Int(1) and Uint(1) differ.
func (v *Value) Hash() (uint64, bool) {
	if v == nil || v.freed {
		return 0, false
	}
	h := fnvByte(fnvOffset, byte(v.tag))
	switch v.tag {
	case TagInt:
		return fnvWord(h, uint64(v.intVal)), true
	case TagUint:
		return fnvWord(h, v.uintVal), true
	case TagFloat:
		return fnvWord(h, math.Float64bits(v.floatVal)), true
	case TagString:
		for _, b := range v.str {
			h = fnvByte(h, b)
		}
		return h, true
	case TagArray:
		h = fnvWord(h, uint64(len(v.arr.elems)))
		for _, c := range v.arr.elems {
			ch, ok := c.Hash()
			if !ok {
				return 0, false
			}
			h ^= ch + goldenRatio + (h << 6) + (h >> 2)
		}
		return h, true
	default:
		return 0, false
	}
}

// Equal reports whether a and b have the same tag and recursively equal
// content. Floats compare by bit pattern, matching Hash.
func Equal(a, b *Value) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.freed || b.freed || a.tag != b.tag {
		return false
	}
	switch a.tag {
	case TagNil:
		return true
	case TagInt:
		return a.intVal == b.intVal
	case TagUint:
		return a.uintVal == b.uintVal
	case TagFloat:
		return math.Float64bits(a.floatVal) == math.Float64bits(b.floatVal)
	case TagString:
		return bytes.Equal(a.str, b.str)
	case TagArray:
		if len(a.arr.elems) != len(b.arr.elems) {
			return false
		}
		for i := range a.arr.elems {
			if !Equal(a.arr.elems[i], b.arr.elems[i]) {
				return false
			}
		}
		return true
	case TagList:
		if a.list.n != b.list.n {
			return false
		}
		eq := true
		a.list.each(func(i int, x *Value) bool {
			eq = Equal(x, b.list.at(i))
			return eq
		})
		return eq
	case TagDict:
		if a.dict.n != b.dict.n {
			return false
		}
		eq := true
		a.dict.each(func(e *element) bool {
			other := b.dict.find(e.hash, e.key)
			eq = other != nil && Equal(e.val, other.val)
			return eq
		})
		return eq
	default:
		return false
	}
}
