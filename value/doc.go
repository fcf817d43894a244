// Package value is the safe side of the construction protocol.
//
// A caller never owns tree storage. It receives a Slot, an empty node that
// some provider has already allocated, and turns it into exactly one node by
// calling one Construct method. Constructing a dict or list returns a Value:
// a borrowed, pinned reference through which children are set key by key or
// position by position. Setting a dict or list child returns a nested Value
// for recursive descent.
//
//	err := container.Build(func(root value.Slot) {
//	    doc := root.ConstructDict()
//	    doc.SetInteger("count", 3)
//	    items := doc.SetList("items")
//	    items.SetStringAt(0, "a")
//	    items.SetStringAt(1, "b")
//	})
//
// # Passes and Leases
//
// Every Slot and Value belongs to a Pass, one synchronous population run.
// When the pass ends, all of its references become unusable. A reference
// survives a pass only through a Lease, obtained from Pass.Extend and
// borrowed again in a later pass.
//
// # Failure
//
// Misuse is a bug, not an error: constructing a slot twice, calling a key
// operation on a list, or using a reference after its pass ended panics with
// a *Violation. Running out of storage panics with an *Exhaustion, which the
// provider recovers with RecoverExhaustion to abort the whole pass.
//
// # Backends
//
// The operations themselves are carried out by a Backend, the thin adapter
// over the runtime that owns storage (see package bridge). Checks that can be
// made without crossing the boundary, such as receiver kind and pass
// liveness, are made here first.
package value
