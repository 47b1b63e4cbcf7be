package vart

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Kind classifies engine failures.
type Kind uint8

const (
	KindAlloc      Kind = iota + 1 // a Tracker refused an allocation
	KindType                       // tag mismatch, wrong argument type, bad dict inputs
	KindUnhashable                 // List, Dict, Nil or an Array containing one used as a key
	KindFormat                     // malformed string template
	KindCorrupt                    // unknown tag
	KindSyntax                     // malformed accessor template
	KindArgs                       // too few or too many positional arguments
	KindRange                      // index out of bounds
	KindOwnership                  // value already owned, or would become its own ancestor
	KindFreed                      // value used after Delete
)

// String returns the category name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindAlloc:
		return "out of memory"
	case KindType:
		return "type mismatch"
	case KindUnhashable:
		return "unhashable key"
	case KindFormat:
		return "bad format"
	case KindCorrupt:
		return "corrupted tag"
	case KindSyntax:
		return "bad template"
	case KindArgs:
		return "bad arguments"
	case KindRange:
		return "out of range"
	case KindOwnership:
		return "ownership"
	case KindFreed:
		return "use after delete"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every engine operation.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "Get" or "Dict"
	Off  int    // template offset for accessor errors, -1 otherwise
	Msg  string
}

func (e *Error) Error() string {
	if e.Op == "" {
		return "vart: " + e.Kind.String()
	}
	if e.Off >= 0 {
		return fmt.Sprintf("vart: %s: %s at offset %d", e.Op, e.Msg, e.Off)
	}
	return fmt.Sprintf("vart: %s: %s", e.Op, e.Msg)
}

// Is reports whether target is the sentinel for e's Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Op != "" {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrAlloc      = &Error{Kind: KindAlloc, Off: -1}
	ErrType       = &Error{Kind: KindType, Off: -1}
	ErrUnhashable = &Error{Kind: KindUnhashable, Off: -1}
	ErrFormat     = &Error{Kind: KindFormat, Off: -1}
	ErrCorrupt    = &Error{Kind: KindCorrupt, Off: -1}
	ErrSyntax     = &Error{Kind: KindSyntax, Off: -1}
	ErrArgs       = &Error{Kind: KindArgs, Off: -1}
	ErrRange      = &Error{Kind: KindRange, Off: -1}
	ErrOwnership  = &Error{Kind: KindOwnership, Off: -1}
	ErrFreed      = &Error{Kind: KindFreed, Off: -1}
)

func errorf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Off: -1, Msg: fmt.Sprintf(format, args...)}
}

func corrupt(op string, t Tag) *Error {
	return errorf(KindCorrupt, op, "unknown tag %d", uint8(t))
}

// ============================================================
// Diagnostics
// ============================================================

// Report writes the one-line diagnostic for err:
//
//	[ERRO]: type mismatch: vart: Get: expected int, got string at offset 1
func Report(w io.Writer, err error) {
	category := "error"
	var e *Error
	if errors.As(err, &e) {
		category = e.Kind.String()
	}
	fmt.Fprintf(w, "[ERRO]: %s: %v\n", category, err)
}

var exit = os.Exit

// Fatal reports err on stderr and terminates the process with status 1.
// Hosts that want fail-stop behavior call this on any returned error.
func Fatal(err error) {
	Report(os.Stderr, err)
	exit(1)
}
