package bridge

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/joshuapare/valuekit/heap"
	"github.com/joshuapare/valuekit/heap/alloc"
	"github.com/joshuapare/valuekit/printer"
	"github.com/joshuapare/valuekit/tree"
	"github.com/joshuapare/valuekit/value"
)

// Adapter implements value.Backend and value.Inspector over a tree.Store.
type Adapter struct {
	st        *tree.Store
	checkUTF8 bool
	dump      printer.Options
}

// NewAdapter creates an adapter for st. With checkUTF8 set, keys and strings
// are validated before they reach storage.
func NewAdapter(st *tree.Store, checkUTF8 bool) *Adapter {
	return &Adapter{st: st, checkUTF8: checkUTF8, dump: printer.DefaultOptions()}
}

// Store returns the store behind the adapter.
func (a *Adapter) Store() *tree.Store { return a.st }

// SetDumpOptions changes how DumpSlot renders trees.
func (a *Adapter) SetDumpOptions(opts printer.Options) { a.dump = opts }

// IsExhaustion reports whether err means storage ran out.
func IsExhaustion(err error) bool {
	return errors.Is(err, alloc.ErrNoSpace) ||
		errors.Is(err, alloc.ErrGrowFail) ||
		errors.Is(err, heap.ErrLimit)
}

func toRef(h value.Handle) tree.Ref { return tree.Ref{Cell: h.Ref, Gen: h.Gen} }

func toHandle(r tree.Ref) value.Handle { return value.Handle{Ref: r.Cell, Gen: r.Gen} }

// fail panics with the protocol failure matching err.
func fail(op string, err error) {
	if IsExhaustion(err) {
		value.Exhaust(op, err)
	}
	value.Violate(op, err)
}

func (a *Adapter) text(op, s string) {
	if a.checkUTF8 && !utf8.ValidString(s) {
		value.Violate(op, fmt.Errorf("%w: %q", ErrBadUTF8, s))
	}
}

func (a *Adapter) setKey(op string, v value.Handle, key string, s tree.Scalar) {
	a.text(op, key)
	if err := a.st.SetKey(toRef(v), key, s); err != nil {
		fail(op, err)
	}
}

func (a *Adapter) setKeyComposite(op string, v value.Handle, key string, k tree.Kind) value.Handle {
	a.text(op, key)
	r, err := a.st.SetKeyComposite(toRef(v), key, k)
	if err != nil {
		fail(op, err)
	}
	return toHandle(r)
}

func (a *Adapter) setElem(op string, v value.Handle, pos int, s tree.Scalar) {
	if err := a.st.SetElem(toRef(v), pos, s); err != nil {
		fail(op, err)
	}
}

func (a *Adapter) setElemComposite(op string, v value.Handle, pos int, k tree.Kind) value.Handle {
	r, err := a.st.SetElemComposite(toRef(v), pos, k)
	if err != nil {
		fail(op, err)
	}
	return toHandle(r)
}

func (a *Adapter) construct(op string, s value.Handle, v tree.Scalar) {
	if err := a.st.Construct(toRef(s), v); err != nil {
		fail(op, err)
	}
}

func (a *Adapter) constructComposite(op string, s value.Handle, k tree.Kind) value.Handle {
	r, err := a.st.ConstructComposite(toRef(s), k)
	if err != nil {
		fail(op, err)
	}
	return toHandle(r)
}

func (a *Adapter) SetNullKey(v value.Handle, key string) {
	a.setKey("set-null", v, key, tree.NullValue())
}

func (a *Adapter) SetBoolKey(v value.Handle, key string, b bool) {
	a.setKey("set-bool", v, key, tree.BoolValue(b))
}

func (a *Adapter) SetIntegerKey(v value.Handle, key string, i int32) {
	a.setKey("set-integer", v, key, tree.IntValue(i))
}

func (a *Adapter) SetDoubleKey(v value.Handle, key string, f float64) {
	a.setKey("set-double", v, key, tree.DoubleValue(f))
}

func (a *Adapter) SetStringKey(v value.Handle, key string, s string) {
	a.text("set-string", s)
	a.setKey("set-string", v, key, tree.StringValue(s))
}

func (a *Adapter) SetDictKey(v value.Handle, key string) value.Handle {
	return a.setKeyComposite("set-dict", v, key, tree.KindDict)
}

func (a *Adapter) SetListKey(v value.Handle, key string) value.Handle {
	return a.setKeyComposite("set-list", v, key, tree.KindList)
}

func (a *Adapter) SetNullElement(v value.Handle, pos int) {
	a.setElem("set-null", v, pos, tree.NullValue())
}

func (a *Adapter) SetBoolElement(v value.Handle, pos int, b bool) {
	a.setElem("set-bool", v, pos, tree.BoolValue(b))
}

func (a *Adapter) SetIntegerElement(v value.Handle, pos int, i int32) {
	a.setElem("set-integer", v, pos, tree.IntValue(i))
}

func (a *Adapter) SetDoubleElement(v value.Handle, pos int, f float64) {
	a.setElem("set-double", v, pos, tree.DoubleValue(f))
}

func (a *Adapter) SetStringElement(v value.Handle, pos int, s string) {
	a.text("set-string", s)
	a.setElem("set-string", v, pos, tree.StringValue(s))
}

func (a *Adapter) SetDictElement(v value.Handle, pos int) value.Handle {
	return a.setElemComposite("set-dict", v, pos, tree.KindDict)
}

func (a *Adapter) SetListElement(v value.Handle, pos int) value.Handle {
	return a.setElemComposite("set-list", v, pos, tree.KindList)
}

func (a *Adapter) ReserveSize(v value.Handle, n int) {
	if err := a.st.Reserve(toRef(v), n); err != nil {
		fail("reserve", err)
	}
}

func (a *Adapter) ConstructNull(s value.Handle) {
	a.construct("construct-null", s, tree.NullValue())
}

func (a *Adapter) ConstructBool(s value.Handle, b bool) {
	a.construct("construct-bool", s, tree.BoolValue(b))
}

func (a *Adapter) ConstructInteger(s value.Handle, i int32) {
	a.construct("construct-integer", s, tree.IntValue(i))
}

func (a *Adapter) ConstructDouble(s value.Handle, f float64) {
	a.construct("construct-double", s, tree.DoubleValue(f))
}

func (a *Adapter) ConstructString(s value.Handle, str string) {
	a.text("construct-string", str)
	a.construct("construct-string", s, tree.StringValue(str))
}

func (a *Adapter) ConstructDict(s value.Handle) value.Handle {
	return a.constructComposite("construct-dict", s, tree.KindDict)
}

func (a *Adapter) ConstructList(s value.Handle) value.Handle {
	return a.constructComposite("construct-list", s, tree.KindList)
}

// NewSlot allocates a standalone empty slot.
func (a *Adapter) NewSlot() value.Handle {
	r, err := a.st.NewSlot()
	if err != nil {
		fail("new-slot", err)
	}
	return toHandle(r)
}

// DumpSlot renders the node at s with the adapter's dump options.
func (a *Adapter) DumpSlot(s value.Handle) string {
	if !a.st.Live(toRef(s)) {
		value.Violate("dump", fmt.Errorf("%w: 0x%X gen %d", tree.ErrStale, s.Ref, s.Gen))
	}
	out, err := printer.Sprint(a.st, s.Ref, a.dump)
	if err != nil {
		value.Violate("dump", err)
	}
	return out
}

var (
	_ value.Backend   = (*Adapter)(nil)
	_ value.Inspector = (*Adapter)(nil)
)
