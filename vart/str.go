package vart

import (
	"fmt"
	"strings"
)

// verbs lists the formatting verbs accepted in string templates.
const verbs = "vTtbcdoOqxXUeEfFgGsp"

// checkFormat validates a printf-style template and the number of
// arguments it consumes. Explicit argument indexes are not accepted.
func checkFormat(op, format string, nargs int) error {
	need := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		i++
		if i >= len(format) {
			return errorf(KindFormat, op, "dangling %% at end of %q", format)
		}
		if format[i] == '%' {
			continue
		}
		for i < len(format) && strings.IndexByte("+-# 0", format[i]) >= 0 {
			i++
		}
		i, need = scanWidth(format, i, need)
		if i < len(format) && format[i] == '.' {
			i, need = scanWidth(format, i+1, need)
		}
		if i >= len(format) {
			return errorf(KindFormat, op, "incomplete directive at end of %q", format)
		}
		if format[i] == '[' {
			return errorf(KindFormat, op, "argument index in %q not supported", format)
		}
		if strings.IndexByte(verbs, format[i]) < 0 {
			return errorf(KindFormat, op, "unknown verb %q in %q", format[i], format)
		}
		need++
	}
	if need != nargs {
		return errorf(KindFormat, op, "template %q wants %d arguments, got %d", format, need, nargs)
	}
	return nil
}

// scanWidth skips a width or precision field starting at i.
func scanWidth(format string, i, need int) (int, int) {
	if i < len(format) && format[i] == '*' {
		return i + 1, need + 1
	}
	for i < len(format) && format[i] >= '0' && format[i] <= '9' {
		i++
	}
	return i, need
}

// String creates a string value from a printf-style template. The formatted
// length is measured first and the buffer is sized exactly once.
func (h *Heap) String(format string, args ...interface{}) (*Value, error) {
	if err := checkFormat("String", format, len(args)); err != nil {
		return nil, err
	}
	n := len(fmt.Sprintf(format, args...))
	v, err := h.newValue("String", TagString)
	if err != nil {
		return nil, err
	}
	if err := h.alloc("String", ResString, n); err != nil {
		h.free(ResHeader, headerSize)
		return nil, err
	}
	v.str = fmt.Appendf(make([]byte, 0, n), format, args...)
	return v, nil
}

// Bytes creates a string value holding a copy of b. Embedded zero bytes
// are kept; the length alone defines the content.
func (h *Heap) Bytes(b []byte) (*Value, error) {
	v, err := h.newValue("Bytes", TagString)
	if err != nil {
		return nil, err
	}
	if err := h.alloc("Bytes", ResString, len(b)); err != nil {
		h.free(ResHeader, headerSize)
		return nil, err
	}
	v.str = append(make([]byte, 0, len(b)), b...)
	return v, nil
}

// String creates a string value on the default heap.
func String(format string, args ...interface{}) (*Value, error) {
	return std.String(format, args...)
}

// Bytes creates a string value on the default heap.
func Bytes(b []byte) *Value {
	v, _ := std.Bytes(b)
	return v
}

// Str creates a string value holding s on the default heap.
func Str(s string) *Value {
	return Bytes([]byte(s))
}

// replaceBytes swaps the string buffer, keeping length and accounting in step.
func (v *Value) replaceBytes(op string, b []byte) error {
	if err := v.heap.alloc(op, ResString, len(b)); err != nil {
		return err
	}
	v.heap.free(ResString, len(v.str))
	v.str = append(make([]byte, 0, len(b)), b...)
	return nil
}

// SetBytes replaces the content of a string value.
func (v *Value) SetBytes(b []byte) error {
	if err := v.expect("SetBytes", TagString); err != nil {
		return err
	}
	if err := v.mutable("SetBytes"); err != nil {
		return err
	}
	return v.replaceBytes("SetBytes", b)
}

// SetString replaces the content of a string value from a template.
func (v *Value) SetString(format string, args ...interface{}) error {
	if err := v.expect("SetString", TagString); err != nil {
		return err
	}
	if err := v.mutable("SetString"); err != nil {
		return err
	}
	if err := checkFormat("SetString", format, len(args)); err != nil {
		return err
	}
	return v.replaceBytes("SetString", fmt.Appendf(nil, format, args...))
}
