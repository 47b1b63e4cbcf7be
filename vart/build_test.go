package vart

import (
	"errors"
	"testing"
)

func TestBuild_Shapes(t *testing.T) {
	tests := []struct {
		name     string
		template string
		args     []interface{}
		want     string
	}{
		{"int", "i", []interface{}{7}, "7"},
		{"uint", "u", []interface{}{uint(7)}, "7u"},
		{"float", "f", []interface{}{2.0}, "2.0"},
		{"string", "s", []interface{}{"hi"}, `"hi"`},
		{"nil_consumes", "(n i)", []interface{}{"ignored", 5}, "(∅ 5)"},
		{"skip_is_nil", "(_ _)", nil, "(∅ ∅)"},
		{"empty_array", "()", nil, "()"},
		{"empty_list", "[]", nil, "[]"},
		{"nested", "(i [s (f)] _)", []interface{}{1, "x", 0.5}, `(1 ["x" (0.5)] ∅)`},
		{"spaced", " [ ( i ) ( i ) ] ", []interface{}{1, 2}, "[(1) (2)]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Build(tt.template, tt.args...)
			if err != nil {
				t.Fatalf("Build(%q) failed: %v", tt.template, err)
			}
			if got := Emit(v); got != tt.want {
				t.Errorf("Build(%q) = %s, want %s", tt.template, got, tt.want)
			}
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name     string
		template string
		args     []interface{}
		want     error
	}{
		{"empty", "", nil, ErrSyntax},
		{"unknown_token", "(i q)", []interface{}{1}, ErrSyntax},
		{"missing_closer", "(i", []interface{}{1}, ErrSyntax},
		{"mismatched", "(i]", []interface{}{1}, ErrSyntax},
		{"mismatched_nested", "([i)]", []interface{}{1}, ErrSyntax},
		{"stray_closer", ")", nil, ErrSyntax},
		{"trailing", "i i", []interface{}{1, 2}, ErrSyntax},
		{"too_few", "(i i)", []interface{}{1}, ErrArgs},
		{"too_many", "(i)", []interface{}{1, 2}, ErrArgs},
		{"wrong_type", "(f)", []interface{}{1}, ErrType},
		{"string_from_int", "s", []interface{}{1}, ErrType},
		{"handle_not_value", "v", []interface{}{"x"}, ErrType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Counter{}
			v, err := NewHeap(c).Build(tt.template, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("Build(%q) err = %v, want %v", tt.template, err, tt.want)
			}
			if v != nil {
				t.Errorf("Build(%q) returned a value on error", tt.template)
			}
			assertBalanced(t, c)
		})
	}
}

func TestBuild_Adoption(t *testing.T) {
	c := &Counter{}
	h := NewHeap(c)
	inner, _ := h.Build("[i i]", 1, 2)
	dict, _ := h.Dict(mustArray(t, h), mustArray(t, h))
	if _, err := h.Build("(l v d)", inner, Int(0), dict); err == nil {
		t.Fatal("handle from another heap should be refused")
	}
	if inner.Owner() != nil || dict.Owner() != nil {
		t.Fatal("refused Build left handles owned")
	}

	num, _ := h.Int(3)
	v, err := h.Build("(l v d)", inner, num, dict)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for i, want := range []*Value{inner, num, dict} {
		got, _ := v.Index(i)
		if got != want {
			t.Errorf("element %d was copied instead of adopted", i)
		}
		if want.Owner() != v {
			t.Errorf("element %d not owned by the result", i)
		}
	}
	if err := inner.Delete(); !errors.Is(err, ErrOwnership) {
		t.Errorf("Delete(adopted): err = %v, want ErrOwnership", err)
	}
	v.Delete()
	assertBalanced(t, c)
}

func mustArray(t *testing.T, h *Heap) *Value {
	t.Helper()
	a, err := h.Array()
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestBuild_AdoptionErrors(t *testing.T) {
	owned := Int(1)
	Array(owned)
	freed := Int(2)
	freed.Delete()
	twice := Int(3)

	tests := []struct {
		name     string
		template string
		args     []interface{}
		want     error
	}{
		{"owned", "v", []interface{}{owned}, ErrOwnership},
		{"freed", "v", []interface{}{freed}, ErrFreed},
		{"given_twice", "(v v)", []interface{}{twice, twice}, ErrOwnership},
		{"tag_mismatch", "l", []interface{}{Int(4)}, ErrType},
		{"nil_handle", "a", []interface{}{(*Value)(nil)}, ErrType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(tt.template, tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("Build(%q) err = %v, want %v", tt.template, err, tt.want)
			}
		})
	}
	if twice.Owner() != nil || twice.Freed() {
		t.Error("handle given twice should come back unowned and alive")
	}
}

func TestBuild_ErrorDetachesAdopted(t *testing.T) {
	c := &Counter{}
	h := NewHeap(c)
	handle, _ := h.Build("(s s)", "a", "b")
	live, bytes := c.Live(), c.Bytes()

	// The inner array adopts the handle before the bad float fails.
	if _, err := h.Build("((v) f)", handle, "not a float"); !errors.Is(err, ErrType) {
		t.Fatalf("err = %v, want ErrType", err)
	}
	if handle.Owner() != nil || handle.Freed() {
		t.Fatal("adopted handle should be detached, not freed")
	}
	if c.Live() != live || c.Bytes() != bytes {
		t.Errorf("failed Build leaked: %s", c)
	}
	if got := Emit(handle); got != `("a" "b")` {
		t.Errorf("handle content = %s", got)
	}
	handle.Delete()
	assertBalanced(t, c)
}

func TestBuild_LimitRollsBack(t *testing.T) {
	c := &Counter{Limit: headerSize * 4}
	h := NewHeap(c)
	// Four headers fit, the array table does not.
	if _, err := h.Build("(i i i)", 1, 2, 3); !errors.Is(err, ErrAlloc) {
		t.Fatalf("err = %v, want ErrAlloc", err)
	}
	assertBalanced(t, c)
}

func TestBuild_ListChunks(t *testing.T) {
	args := make([]interface{}, 40)
	template := "["
	for i := range args {
		args[i] = i
		template += "i "
	}
	template += "]"
	v, err := Build(template, args...)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if nodes, _ := v.Nodes(); nodes != 3 {
		t.Errorf("nodes = %d, want 3", nodes)
	}
	last, _ := v.Index(39)
	if n, _ := last.AsInt(); n != 39 {
		t.Errorf("Index(39) = %d", n)
	}
}
