package vart

import (
	"errors"
	"testing"
)

func TestCheckFormat(t *testing.T) {
	tests := []struct {
		format string
		nargs  int
		ok     bool
	}{
		{"plain", 0, true},
		{"100%%", 0, true},
		{"%d-%s", 2, true},
		{"%-8.3f|%+x", 2, true},
		{"%*d", 2, true},
		{"%.*s", 2, true},
		{"%d", 0, false},
		{"%d", 2, false},
		{"%", 0, false},
		{"%5", 1, false},
		{"%[1]d", 1, false},
		{"%y", 1, false},
	}
	for _, tt := range tests {
		err := checkFormat("String", tt.format, tt.nargs)
		if tt.ok && err != nil {
			t.Errorf("checkFormat(%q, %d) = %v, want nil", tt.format, tt.nargs, err)
		}
		if !tt.ok && !errors.Is(err, ErrFormat) {
			t.Errorf("checkFormat(%q, %d) = %v, want ErrFormat", tt.format, tt.nargs, err)
		}
	}
}

func TestString_Template(t *testing.T) {
	c := &Counter{}
	h := NewHeap(c)
	v, err := h.String("%s=%03d", "id", 7)
	if err != nil {
		t.Fatalf("String failed: %v", err)
	}
	if s, _ := v.AsString(); s != "id=007" {
		t.Errorf("String = %q, want id=007", s)
	}
	if got := c.Bytes(); got != headerSize+6 {
		t.Errorf("bytes = %d, want %d", got, headerSize+6)
	}
	if cap(v.str) != 6 {
		t.Errorf("buffer capacity = %d, want exactly 6", cap(v.str))
	}
	v.Delete()
	assertBalanced(t, c)

	bad := []struct {
		format string
		args   []interface{}
	}{
		{"%d %d", []interface{}{1}},
		{"%d", nil},
		{"%q", []interface{}{"x", "y"}},
	}
	for _, tt := range bad {
		if _, err := h.String(tt.format, tt.args...); !errors.Is(err, ErrFormat) {
			t.Errorf("String(%q) with %d args: err = %v, want ErrFormat", tt.format, len(tt.args), err)
		}
	}
	assertBalanced(t, c)
}

func TestSetString(t *testing.T) {
	c := &Counter{}
	h := NewHeap(c)
	v, _ := h.Bytes([]byte("short"))
	if err := v.SetString("a much %s value", "longer"); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}
	if s, _ := v.AsString(); s != "a much longer value" {
		t.Errorf("content = %q", s)
	}
	if err := v.SetBytes([]byte{0, 1}); err != nil {
		t.Fatalf("SetBytes failed: %v", err)
	}
	if n, _ := v.Len(); n != 2 {
		t.Errorf("Len() = %d, want 2", n)
	}
	for _, args := range [][]interface{}{nil, {1, 2}} {
		format := "%d"
		if err := v.SetString(format, args...); !errors.Is(err, ErrFormat) {
			t.Errorf("SetString(%q) with %d args: err = %v, want ErrFormat", format, len(args), err)
		}
	}
	if s, _ := v.AsString(); s != "\x00\x01" {
		t.Errorf("refused SetString changed content to %q", s)
	}
	if err := Int(1).SetString("x"); !errors.Is(err, ErrType) {
		t.Errorf("SetString on int: err = %v, want ErrType", err)
	}
	v.Delete()
	assertBalanced(t, c)
}
