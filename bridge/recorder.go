package bridge

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joshuapare/valuekit/internal/logger"
	"github.com/joshuapare/valuekit/value"
)

// Call is one recorded boundary call.
type Call struct {
	Op     string
	Target value.Handle
	Key    string // key-addressed calls
	Pos    int    // position-addressed calls and reserve; -1 otherwise
	Arg    any    // scalar argument, nil for null and composites
	Result value.Handle
}

// String renders the call as op(target[, key|pos][, arg]).
func (c Call) String() string {
	var sb strings.Builder
	sb.WriteString(c.Op)
	sb.WriteString("(0x")
	sb.WriteString(strconv.FormatUint(uint64(c.Target.Ref), 16))
	switch {
	case c.Key != "" || strings.HasSuffix(c.Op, "-key"):
		sb.WriteString(", ")
		sb.WriteString(strconv.Quote(c.Key))
	case c.Pos >= 0:
		sb.WriteString(", ")
		sb.WriteString(strconv.Itoa(c.Pos))
	}
	if c.Arg != nil {
		sb.WriteString(", ")
		if s, ok := c.Arg.(string); ok {
			sb.WriteString(strconv.Quote(s))
		} else {
			fmt.Fprint(&sb, c.Arg)
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

// Recorder is a value.Backend that records every call before forwarding it.
// Calls are recorded in issue order, including the call that panicked.
type Recorder struct {
	next  value.Backend
	calls []Call
}

// NewRecorder wraps next.
func NewRecorder(next value.Backend) *Recorder {
	return &Recorder{next: next}
}

// Calls returns the recorded calls in issue order.
func (r *Recorder) Calls() []Call { return r.calls }

// Ops returns the recorded operation names in issue order.
func (r *Recorder) Ops() []string {
	ops := make([]string, len(r.calls))
	for i, c := range r.calls {
		ops[i] = c.Op
	}
	return ops
}

// Reset forgets every recorded call.
func (r *Recorder) Reset() { r.calls = nil }

func (r *Recorder) record(c Call) int {
	r.calls = append(r.calls, c)
	logger.Debug("bridge: call", "n", len(r.calls), "call", c.String())
	return len(r.calls) - 1
}

func (r *Recorder) keyed(op string, v value.Handle, key string, arg any) int {
	return r.record(Call{Op: op, Target: v, Key: key, Pos: -1, Arg: arg})
}

func (r *Recorder) positioned(op string, v value.Handle, pos int, arg any) int {
	return r.record(Call{Op: op, Target: v, Pos: pos, Arg: arg})
}

func (r *Recorder) SetNullKey(v value.Handle, key string) {
	r.keyed("set-null-key", v, key, nil)
	r.next.SetNullKey(v, key)
}

func (r *Recorder) SetBoolKey(v value.Handle, key string, b bool) {
	r.keyed("set-bool-key", v, key, b)
	r.next.SetBoolKey(v, key, b)
}

func (r *Recorder) SetIntegerKey(v value.Handle, key string, i int32) {
	r.keyed("set-integer-key", v, key, i)
	r.next.SetIntegerKey(v, key, i)
}

func (r *Recorder) SetDoubleKey(v value.Handle, key string, f float64) {
	r.keyed("set-double-key", v, key, f)
	r.next.SetDoubleKey(v, key, f)
}

func (r *Recorder) SetStringKey(v value.Handle, key string, s string) {
	r.keyed("set-string-key", v, key, s)
	r.next.SetStringKey(v, key, s)
}

func (r *Recorder) SetDictKey(v value.Handle, key string) value.Handle {
	i := r.keyed("set-dict-key", v, key, nil)
	h := r.next.SetDictKey(v, key)
	r.calls[i].Result = h
	return h
}

func (r *Recorder) SetListKey(v value.Handle, key string) value.Handle {
	i := r.keyed("set-list-key", v, key, nil)
	h := r.next.SetListKey(v, key)
	r.calls[i].Result = h
	return h
}

func (r *Recorder) SetNullElement(v value.Handle, pos int) {
	r.positioned("set-null-element", v, pos, nil)
	r.next.SetNullElement(v, pos)
}

func (r *Recorder) SetBoolElement(v value.Handle, pos int, b bool) {
	r.positioned("set-bool-element", v, pos, b)
	r.next.SetBoolElement(v, pos, b)
}

func (r *Recorder) SetIntegerElement(v value.Handle, pos int, i int32) {
	r.positioned("set-integer-element", v, pos, i)
	r.next.SetIntegerElement(v, pos, i)
}

func (r *Recorder) SetDoubleElement(v value.Handle, pos int, f float64) {
	r.positioned("set-double-element", v, pos, f)
	r.next.SetDoubleElement(v, pos, f)
}

func (r *Recorder) SetStringElement(v value.Handle, pos int, s string) {
	r.positioned("set-string-element", v, pos, s)
	r.next.SetStringElement(v, pos, s)
}

func (r *Recorder) SetDictElement(v value.Handle, pos int) value.Handle {
	i := r.positioned("set-dict-element", v, pos, nil)
	h := r.next.SetDictElement(v, pos)
	r.calls[i].Result = h
	return h
}

func (r *Recorder) SetListElement(v value.Handle, pos int) value.Handle {
	i := r.positioned("set-list-element", v, pos, nil)
	h := r.next.SetListElement(v, pos)
	r.calls[i].Result = h
	return h
}

func (r *Recorder) ReserveSize(v value.Handle, n int) {
	r.positioned("reserve", v, n, nil)
	r.next.ReserveSize(v, n)
}

func (r *Recorder) ConstructNull(s value.Handle) {
	r.positioned("construct-null", s, -1, nil)
	r.next.ConstructNull(s)
}

func (r *Recorder) ConstructBool(s value.Handle, b bool) {
	r.positioned("construct-bool", s, -1, b)
	r.next.ConstructBool(s, b)
}

func (r *Recorder) ConstructInteger(s value.Handle, i int32) {
	r.positioned("construct-integer", s, -1, i)
	r.next.ConstructInteger(s, i)
}

func (r *Recorder) ConstructDouble(s value.Handle, f float64) {
	r.positioned("construct-double", s, -1, f)
	r.next.ConstructDouble(s, f)
}

func (r *Recorder) ConstructString(s value.Handle, str string) {
	r.positioned("construct-string", s, -1, str)
	r.next.ConstructString(s, str)
}

func (r *Recorder) ConstructDict(s value.Handle) value.Handle {
	i := r.positioned("construct-dict", s, -1, nil)
	h := r.next.ConstructDict(s)
	r.calls[i].Result = h
	return h
}

func (r *Recorder) ConstructList(s value.Handle) value.Handle {
	i := r.positioned("construct-list", s, -1, nil)
	h := r.next.ConstructList(s)
	r.calls[i].Result = h
	return h
}

// NewSlot forwards to the wrapped backend's Inspector.
func (r *Recorder) NewSlot() value.Handle {
	in := r.inspector("new-slot")
	r.positioned("new-slot", value.Handle{}, -1, nil)
	return in.NewSlot()
}

// DumpSlot forwards to the wrapped backend's Inspector. Dumps are not
// recorded.
func (r *Recorder) DumpSlot(s value.Handle) string {
	return r.inspector("dump").DumpSlot(s)
}

func (r *Recorder) inspector(op string) value.Inspector {
	in, ok := r.next.(value.Inspector)
	if !ok {
		value.Violate(op, fmt.Errorf("%w: %T", value.ErrNoInspector, r.next))
	}
	return in
}

var (
	_ value.Backend   = (*Recorder)(nil)
	_ value.Inspector = (*Recorder)(nil)
)
