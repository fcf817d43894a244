package value

import "fmt"

// Slot is an allocated, not yet constructed node. Exactly one Construct
// call may succeed per slot; copies of a Slot share that state.
type Slot struct {
	b     Backend
	h     Handle
	pass  *Pass
	state *slotState
}

type slotState struct {
	constructed bool
}

// NewSlot wraps the empty node h, owned by b, for use during pass p. It is
// called by providers, not by code populating a tree.
func NewSlot(b Backend, h Handle, p *Pass) Slot {
	return Slot{b: b, h: h, pass: p, state: &slotState{}}
}

// Handle returns the marshaled reference of the slot.
func (s Slot) Handle() Handle { return s.h }

// Constructed reports whether a Construct call has been made.
func (s Slot) Constructed() bool { return s.state != nil && s.state.constructed }

// begin checks that the slot can still be constructed and marks it
// constructed. The mark is set before the backend call so a failing call
// cannot be retried.
func (s Slot) begin(op string) {
	if s.b == nil || s.state == nil {
		Violate(op, fmt.Errorf("%w: zero slot", ErrInvalid))
	}
	s.pass.check(op)
	if s.state.constructed {
		Violate(op, ErrInitialized)
	}
	s.state.constructed = true
}

// ConstructNull makes the slot Null.
func (s Slot) ConstructNull() {
	s.begin("construct-null")
	s.b.ConstructNull(s.h)
}

// ConstructBool makes the slot a Bool.
func (s Slot) ConstructBool(b bool) {
	s.begin("construct-bool")
	s.b.ConstructBool(s.h, b)
}

// ConstructInteger makes the slot an Integer.
func (s Slot) ConstructInteger(i int32) {
	s.begin("construct-integer")
	s.b.ConstructInteger(s.h, i)
}

// ConstructDouble makes the slot a Double. NaN and infinities are stored as
// given.
func (s Slot) ConstructDouble(f float64) {
	s.begin("construct-double")
	s.b.ConstructDouble(s.h, f)
}

// ConstructString makes the slot a String. str must be valid UTF-8.
func (s Slot) ConstructString(str string) {
	s.begin("construct-string")
	s.b.ConstructString(s.h, str)
}

// ConstructDict makes the slot an empty Dict and returns the reference to
// populate it through.
func (s Slot) ConstructDict() Value {
	s.begin("construct-dict")
	return Value{b: s.b, h: s.b.ConstructDict(s.h), kind: KindDict, pass: s.pass}
}

// ConstructList makes the slot an empty List and returns the reference to
// populate it through.
func (s Slot) ConstructList() Value {
	s.begin("construct-list")
	return Value{b: s.b, h: s.b.ConstructList(s.h), kind: KindList, pass: s.pass}
}
