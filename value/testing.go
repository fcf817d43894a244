package value

import "fmt"

// NewTestSlot allocates a standalone empty slot from b for verifying a
// backend in isolation. b must implement Inspector.
func NewTestSlot(b Backend, p *Pass) Slot {
	in, ok := b.(Inspector)
	if !ok {
		Violate("new-test-slot", fmt.Errorf("%w: %T", ErrNoInspector, b))
	}
	p.check("new-test-slot")
	return NewSlot(b, in.NewSlot(), p)
}

// Dump renders the current contents of s. b must implement Inspector.
func Dump(s Slot) string {
	return dump(s.b, s.h)
}

// DumpValue renders the current contents of v.
func DumpValue(v Value) string {
	return dump(v.b, v.h)
}

func dump(b Backend, h Handle) string {
	in, ok := b.(Inspector)
	if !ok {
		Violate("dump", fmt.Errorf("%w: %T", ErrNoInspector, b))
	}
	return in.DumpSlot(h)
}
