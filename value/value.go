package value

import "fmt"

// Value is a borrowed reference to a dict or list node owned by the backend.
// It is valid only during the pass it was borrowed in and must not be kept
// past it; use Pass.Extend for that.
type Value struct {
	b    Backend
	h    Handle
	kind Kind
	pass *Pass
}

// Borrow wraps the existing dict or list h for use during pass p. It is how
// a provider seeds a pass with an already constructed node.
func Borrow(b Backend, h Handle, k Kind, p *Pass) Value {
	if k != KindDict && k != KindList {
		Violate("borrow", fmt.Errorf("%w: %s", ErrWrongKind, k))
	}
	p.check("borrow")
	return Value{b: b, h: h, kind: k, pass: p}
}

// Kind returns KindDict or KindList.
func (v Value) Kind() Kind { return v.kind }

// Handle returns the marshaled reference of the value.
func (v Value) Handle() Handle { return v.h }

// IsDict reports whether v is a dict.
func (v Value) IsDict() bool { return v.kind == KindDict }

// IsList reports whether v is a list.
func (v Value) IsList() bool { return v.kind == KindList }

func (v Value) check(op string) {
	if v.b == nil {
		Violate(op, fmt.Errorf("%w: zero value", ErrInvalid))
	}
	v.pass.check(op)
}

func (v Value) dict(op string) {
	v.check(op)
	if v.kind != KindDict {
		Violate(op, fmt.Errorf("%w: key operation on %s", ErrWrongKind, v.kind))
	}
}

func (v Value) list(op string, pos int) {
	v.check(op)
	if v.kind != KindList {
		Violate(op, fmt.Errorf("%w: position operation on %s", ErrWrongKind, v.kind))
	}
	if pos < 0 {
		Violate(op, fmt.Errorf("%w: position %d", ErrRange, pos))
	}
}

func (v Value) child(h Handle, k Kind) Value {
	return Value{b: v.b, h: h, kind: k, pass: v.pass}
}

// SetNull sets key to Null.
func (v Value) SetNull(key string) {
	v.dict("set-null")
	v.b.SetNullKey(v.h, key)
}

// SetBool sets key to a Bool.
func (v Value) SetBool(key string, b bool) {
	v.dict("set-bool")
	v.b.SetBoolKey(v.h, key, b)
}

// SetInteger sets key to an Integer.
func (v Value) SetInteger(key string, i int32) {
	v.dict("set-integer")
	v.b.SetIntegerKey(v.h, key, i)
}

// SetDouble sets key to a Double.
func (v Value) SetDouble(key string, f float64) {
	v.dict("set-double")
	v.b.SetDoubleKey(v.h, key, f)
}

// SetString sets key to a String. s must be valid UTF-8.
func (v Value) SetString(key string, s string) {
	v.dict("set-string")
	v.b.SetStringKey(v.h, key, s)
}

// SetDict sets key to an empty Dict and returns it.
func (v Value) SetDict(key string) Value {
	v.dict("set-dict")
	return v.child(v.b.SetDictKey(v.h, key), KindDict)
}

// SetList sets key to an empty List and returns it.
func (v Value) SetList(key string) Value {
	v.dict("set-list")
	return v.child(v.b.SetListKey(v.h, key), KindList)
}

// SetNullAt sets position pos to Null.
func (v Value) SetNullAt(pos int) {
	v.list("set-null", pos)
	v.b.SetNullElement(v.h, pos)
}

// SetBoolAt sets position pos to a Bool.
func (v Value) SetBoolAt(pos int, b bool) {
	v.list("set-bool", pos)
	v.b.SetBoolElement(v.h, pos, b)
}

// SetIntegerAt sets position pos to an Integer.
func (v Value) SetIntegerAt(pos int, i int32) {
	v.list("set-integer", pos)
	v.b.SetIntegerElement(v.h, pos, i)
}

// SetDoubleAt sets position pos to a Double.
func (v Value) SetDoubleAt(pos int, f float64) {
	v.list("set-double", pos)
	v.b.SetDoubleElement(v.h, pos, f)
}

// SetStringAt sets position pos to a String. s must be valid UTF-8.
func (v Value) SetStringAt(pos int, s string) {
	v.list("set-string", pos)
	v.b.SetStringElement(v.h, pos, s)
}

// SetDictAt sets position pos to an empty Dict and returns it.
func (v Value) SetDictAt(pos int) Value {
	v.list("set-dict", pos)
	return v.child(v.b.SetDictElement(v.h, pos), KindDict)
}

// SetListAt sets position pos to an empty List and returns it.
func (v Value) SetListAt(pos int) Value {
	v.list("set-list", pos)
	return v.child(v.b.SetListElement(v.h, pos), KindList)
}

// Reserve hints that n children are coming. Contents do not change.
func (v Value) Reserve(n int) {
	v.check("reserve")
	if n < 0 {
		Violate("reserve", fmt.Errorf("%w: count %d", ErrRange, n))
	}
	v.b.ReserveSize(v.h, n)
}
