package vart

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

func TestError_Format(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{ErrRange, "vart: out of range"},
		{errorf(KindType, "Dict", "keys must be an array"), "vart: Dict: keys must be an array"},
		{&Error{Kind: KindSyntax, Op: "Get", Off: 3, Msg: "unknown token 'x'"}, "vart: Get: unknown token 'x' at offset 3"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("loading: %w", errorf(KindUnhashable, "Dict", "key 0"))
	if !errors.Is(err, ErrUnhashable) {
		t.Error("wrapped error should match its sentinel")
	}
	if errors.Is(err, ErrType) {
		t.Error("error matched the wrong sentinel")
	}
	var e *Error
	if !errors.As(err, &e) || e.Op != "Dict" {
		t.Errorf("errors.As = %v", e)
	}
}

func TestKind_String(t *testing.T) {
	for k := KindAlloc; k <= KindFreed; k++ {
		if k.String() == "unknown" {
			t.Errorf("Kind(%d) has no name", k)
		}
	}
	if Kind(0).String() != "unknown" {
		t.Error("zero Kind should be unknown")
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, errorf(KindRange, "Index", "index 5 out of bounds (len=2)"))
	want := "[ERRO]: out of range: vart: Index: index 5 out of bounds (len=2)\n"
	if buf.String() != want {
		t.Errorf("Report = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	Report(&buf, errors.New("plain"))
	if buf.String() != "[ERRO]: error: plain\n" {
		t.Errorf("Report(plain) = %q", buf.String())
	}
}

func TestFatal(t *testing.T) {
	saved := exit
	defer func() { exit = saved }()
	code := -1
	exit = func(c int) { code = c }

	Fatal(ErrAlloc)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}
