package value

import (
	"fmt"
	"sync/atomic"
)

var passSeq atomic.Uint64

// Pass is one synchronous construction pass. References borrowed in a pass
// are valid until End.
type Pass struct {
	id    uint64
	ended bool
}

// NewPass starts a pass.
func NewPass() *Pass {
	return &Pass{id: passSeq.Add(1)}
}

// ID returns a process-unique pass number, for logs.
func (p *Pass) ID() uint64 { return p.id }

// End ends the pass. Every Slot and Value borrowed in it becomes unusable.
// Ending twice is a no-op.
func (p *Pass) End() { p.ended = true }

// Alive reports whether the pass has not ended.
func (p *Pass) Alive() bool { return p != nil && !p.ended }

func (p *Pass) check(op string) {
	if p == nil {
		Violate(op, fmt.Errorf("%w: no pass", ErrInvalid))
	}
	if p.ended {
		Violate(op, fmt.Errorf("%w: pass %d", ErrPassEnded, p.id))
	}
}

// Extend grants v a lifetime beyond this pass. The lease can be borrowed in
// any later pass for as long as the node exists.
func (p *Pass) Extend(v Value) Lease {
	p.check("extend")
	v.check("extend")
	if v.pass != p {
		Violate("extend", fmt.Errorf("%w: value belongs to pass %d", ErrInvalid, v.pass.id))
	}
	return Lease{b: v.b, h: v.h, kind: v.kind}
}

// Lease is a lifetime-extended reference to a dict or list. Unlike Value it
// may be stored; it can only be used by borrowing it into a live pass.
type Lease struct {
	b    Backend
	h    Handle
	kind Kind
}

// Kind returns the kind of the leased node.
func (l Lease) Kind() Kind { return l.kind }

// Valid reports whether the lease was issued by Extend.
func (l Lease) Valid() bool { return l.b != nil }

// IssuedBy reports whether the lease refers to a node of backend b.
func (l Lease) IssuedBy(b Backend) bool { return l.b != nil && l.b == b }

// Borrow returns a Value for the leased node, valid for pass p.
func (l Lease) Borrow(p *Pass) Value {
	if l.b == nil {
		Violate("borrow", fmt.Errorf("%w: zero lease", ErrInvalid))
	}
	p.check("borrow")
	return Value{b: l.b, h: l.h, kind: l.kind, pass: p}
}
