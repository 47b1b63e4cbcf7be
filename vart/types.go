package vart

// Tag is the discriminant of a Value.
type Tag uint8

const (
	TagNil Tag = iota
	TagInt
	TagUint
	TagFloat
	TagString
	TagArray
	TagList
	TagDict
)

// String returns the tag name.
func (t Tag) String() string {
	switch t {
	case TagNil:
		return "nil"
	case TagInt:
		return "int"
	case TagUint:
		return "uint"
	case TagFloat:
		return "float"
	case TagString:
		return "string"
	case TagArray:
		return "array"
	case TagList:
		return "list"
	case TagDict:
		return "dict"
	default:
		return "unknown"
	}
}

// Value is a dynamically tagged container. Exactly one payload is active,
// selected by the tag. Composite Values own their children exclusively; a
// child records its owner and cannot be handed to a second parent.
type Value struct {
	tag Tag

	// Scalar payloads (only one valid based on tag)
	intVal   int64
	uintVal  uint64
	floatVal float64
	str      []byte

	// Composite payloads
	arr  *arrayData
	list *listData
	dict *dictData

	heap  *Heap
	owner *Value
	freed bool

	// frozen marks a dictionary key and everything inside it. The key's
	// digest is stored with its element, so its content must not change.
	frozen bool
}

// ============================================================
// Constructors
// ============================================================

func (h *Heap) newValue(op string, tag Tag) (*Value, error) {
	if err := h.alloc(op, ResHeader, headerSize); err != nil {
		return nil, err
	}
	return &Value{tag: tag, heap: h}, nil
}

// Nil creates a nil value.
func (h *Heap) Nil() (*Value, error) {
	return h.newValue("Nil", TagNil)
}

// Int creates a signed integer value.
func (h *Heap) Int(n int64) (*Value, error) {
	v, err := h.newValue("Int", TagInt)
	if err != nil {
		return nil, err
	}
	v.intVal = n
	return v, nil
}

// Uint creates an unsigned integer value.
func (h *Heap) Uint(n uint64) (*Value, error) {
	v, err := h.newValue("Uint", TagUint)
	if err != nil {
		return nil, err
	}
	v.uintVal = n
	return v, nil
}

// Float creates a float value.
func (h *Heap) Float(f float64) (*Value, error) {
	v, err := h.newValue("Float", TagFloat)
	if err != nil {
		return nil, err
	}
	v.floatVal = f
	return v, nil
}

// Nil creates a nil value on the default heap.
func Nil() *Value {
	v, _ := std.Nil()
	return v
}

// Int creates a signed integer value on the default heap.
func Int(n int64) *Value {
	v, _ := std.Int(n)
	return v
}

// Uint creates an unsigned integer value on the default heap.
func Uint(n uint64) *Value {
	v, _ := std.Uint(n)
	return v
}

// Float creates a float value on the default heap.
func Float(f float64) *Value {
	v, _ := std.Float(f)
	return v
}

// ============================================================
// Accessors
// ============================================================

// Tag returns the value's tag. A nil or deleted handle reports TagNil.
func (v *Value) Tag() Tag {
	if v == nil || v.freed {
		return TagNil
	}
	return v.tag
}

// IsNil returns true for nil values.
func (v *Value) IsNil() bool {
	return v.Tag() == TagNil
}

// Freed returns true once the value has been deleted.
func (v *Value) Freed() bool {
	return v != nil && v.freed
}

// Owner returns the composite value holding v, or nil for a root.
func (v *Value) Owner() *Value {
	if v == nil {
		return nil
	}
	return v.owner
}

// Heap returns the heap the value was built on.
func (v *Value) Heap() *Heap {
	if v == nil {
		return nil
	}
	return v.heap
}

// check validates the handle itself.
func (v *Value) check(op string) error {
	if v == nil {
		return errorf(KindType, op, "nil handle")
	}
	if v.freed {
		return errorf(KindFreed, op, "value was deleted")
	}
	return nil
}

// mutable rejects writes to a dictionary key.
func (v *Value) mutable(op string) error {
	if v.frozen {
		return errorf(KindOwnership, op, "value is a dictionary key")
	}
	return nil
}

func (v *Value) expect(op string, tag Tag) error {
	if err := v.check(op); err != nil {
		return err
	}
	if v.tag != tag {
		return errorf(KindType, op, "expected %s, got %s", tag, v.tag)
	}
	return nil
}

// AsInt returns the integer payload.
func (v *Value) AsInt() (int64, error) {
	if err := v.expect("AsInt", TagInt); err != nil {
		return 0, err
	}
	return v.intVal, nil
}

// AsUint returns the unsigned integer payload.
func (v *Value) AsUint() (uint64, error) {
	if err := v.expect("AsUint", TagUint); err != nil {
		return 0, err
	}
	return v.uintVal, nil
}

// AsFloat returns the float payload.
func (v *Value) AsFloat() (float64, error) {
	if err := v.expect("AsFloat", TagFloat); err != nil {
		return 0, err
	}
	return v.floatVal, nil
}

// AsBytes returns a copy of the string payload.
func (v *Value) AsBytes() ([]byte, error) {
	if err := v.expect("AsBytes", TagString); err != nil {
		return nil, err
	}
	return append([]byte(nil), v.str...), nil
}

// AsString returns the string payload as a Go string.
func (v *Value) AsString() (string, error) {
	if err := v.expect("AsString", TagString); err != nil {
		return "", err
	}
	return string(v.str), nil
}

// String returns the canonical rendering of v.
func (v *Value) String() string {
	return Emit(v)
}
