package value

import (
	"errors"
	"fmt"
)

var (
	// ErrWrongKind indicates a key operation on a list, a position operation
	// on a dict, or a construct of the wrong kind.
	ErrWrongKind = errors.New("value: wrong kind")

	// ErrInitialized indicates a second construct on the same slot.
	ErrInitialized = errors.New("value: slot already initialized")

	// ErrPassEnded indicates use of a reference after its pass ended.
	ErrPassEnded = errors.New("value: pass ended")

	// ErrRange indicates a negative position or reserve count.
	ErrRange = errors.New("value: out of range")

	// ErrInvalid indicates a zero Slot or Value, or bad arguments the
	// backend rejected.
	ErrInvalid = errors.New("value: invalid reference")

	// ErrNoInspector indicates that the backend does not provide the
	// testing surface.
	ErrNoInspector = errors.New("value: backend has no inspection surface")

	// ErrExhausted is wrapped by every *Exhaustion.
	ErrExhausted = errors.New("value: resource exhausted")
)

// Violation is the panic value for a broken precondition. It is a bug in the
// caller and is never recovered by this package.
type Violation struct {
	Op  string
	Err error
}

func (v *Violation) Error() string {
	return fmt.Sprintf("value: contract violation in %s: %v", v.Op, v.Err)
}

func (v *Violation) Unwrap() error { return v.Err }

// Exhaustion is the panic value for storage exhaustion. It aborts the whole
// pass; the provider discards the partial tree.
type Exhaustion struct {
	Op  string
	Err error
}

func (e *Exhaustion) Error() string {
	return fmt.Sprintf("value: %s: resource exhausted: %v", e.Op, e.Err)
}

func (e *Exhaustion) Unwrap() []error { return []error{ErrExhausted, e.Err} }

// Violate panics with a *Violation.
func Violate(op string, err error) {
	panic(&Violation{Op: op, Err: err})
}

// Exhaust panics with an *Exhaustion.
func Exhaust(op string, err error) {
	panic(&Exhaustion{Op: op, Err: err})
}

// RecoverExhaustion stores a recovered *Exhaustion in *errp. Any other panic,
// violations included, keeps unwinding. It must be deferred directly:
//
//	defer value.RecoverExhaustion(&err)
func RecoverExhaustion(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(*Exhaustion); ok {
		*errp = e
		return
	}
	panic(r)
}
