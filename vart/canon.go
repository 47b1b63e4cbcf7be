package vart

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ============================================================
// Canonical Scalar Encoding
// ============================================================

func canonNil() string {
	return "∅"
}

func canonInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

// canonUint appends a 'u' so unsigned values stay distinct from ints.
func canonUint(n uint64) string {
	return strconv.FormatUint(n, 10) + "u"
}

// canonFloat uses the shortest round-trip form and always carries a
// decimal point, exponent, or special name so floats never read as ints.
func canonFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	s = strings.ReplaceAll(s, "E", "e")
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// quoteBytes returns a quoted string with minimal escapes. Bytes that are
// not valid UTF-8 are written as \xHH.
func quoteBytes(s []byte) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRune(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			b.WriteString(`\x`)
			writeHex(&b, s[i])
		case r == '\\':
			b.WriteString(`\\`)
		case r == '"':
			b.WriteString(`\"`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			b.WriteString(`\x`)
			writeHex(&b, byte(r))
		default:
			b.WriteRune(r)
		}
		i += size
	}

	b.WriteByte('"')
	return b.String()
}

func writeHex(b *strings.Builder, c byte) {
	const hextable = "0123456789abcdef"
	b.WriteByte(hextable[c>>4])
	b.WriteByte(hextable[c&0x0f])
}

// ============================================================
// Canonical Value Encoding
// ============================================================

// Emit renders v as text: arrays as (a b), lists as [a b], dicts as
// {k:v k:v} in bucket order. Deleted handles render as <deleted>.
func Emit(v *Value) string {
	var b strings.Builder
	emitValue(&b, v)
	return b.String()
}

func emitValue(b *strings.Builder, v *Value) {
	if v == nil {
		b.WriteString(canonNil())
		return
	}
	if v.freed {
		b.WriteString("<deleted>")
		return
	}
	switch v.tag {
	case TagNil:
		b.WriteString(canonNil())
	case TagInt:
		b.WriteString(canonInt(v.intVal))
	case TagUint:
		b.WriteString(canonUint(v.uintVal))
	case TagFloat:
		b.WriteString(canonFloat(v.floatVal))
	case TagString:
		b.WriteString(quoteBytes(v.str))
	case TagArray:
		b.WriteByte('(')
		for i, c := range v.arr.elems {
			if i > 0 {
				b.WriteByte(' ')
			}
			emitValue(b, c)
		}
		b.WriteByte(')')
	case TagList:
		b.WriteByte('[')
		v.list.each(func(i int, c *Value) bool {
			if i > 0 {
				b.WriteByte(' ')
			}
			emitValue(b, c)
			return true
		})
		b.WriteByte(']')
	case TagDict:
		b.WriteByte('{')
		first := true
		v.dict.each(func(e *element) bool {
			if !first {
				b.WriteByte(' ')
			}
			first = false
			emitValue(b, e.key)
			b.WriteByte(':')
			emitValue(b, e.val)
			return true
		})
		b.WriteByte('}')
	default:
		b.WriteString("<corrupt>")
	}
}
