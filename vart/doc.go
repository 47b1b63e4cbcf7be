// Package vart implements a dynamically tagged value container: a run-time
// variant able to hold nil, signed and unsigned integers, floats, byte
// strings, fixed arrays, chunked lists, and hash dictionaries.
//
// # Data Model
//
// Scalars: nil, int (int64), uint (uint64), float (float64), string (bytes)
// Containers: array (fixed length), list (16-element chunks), dict (hashed)
//
// Values form an ownership tree. A composite owns its children outright;
// handing a child to a constructor transfers it, and a value that already
// has an owner cannot be handed to another. Delete frees a root and all it
// owns exactly once. A Tracker attached to a Heap observes every allocation
// and release and may refuse allocations.
//
// # Accessor Templates
//
// One small grammar drives reading (Get), writing (Set), and construction
// (Build). The cursor moves one token per visited value and binds one
// positional argument per token, except for '_' and brackets:
//
//	n nil   i int   u uint   f float   s string
//	a array handle   l list handle   d dict handle   v any value handle
//	_ skip   ( ... ) array elements   [ ... ] list elements
//
// Whitespace between tokens is ignored.
//
// # Example
//
//	v, _ := vart.Build("(i i i)", 1, 2, 3)
//	var a, b int64
//	_ = v.Get("(ii_)", &a, &b) // a=1 b=2, third element skipped
//	_ = v.Delete()
//
// # Errors
//
// Every failure is returned as *Error carrying a Kind. Hosts that want the
// fail-stop behavior of a process-level engine call Fatal, which prints a
// single "[ERRO]: ..." line and exits with status 1.
package vart
