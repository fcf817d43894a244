package value_test

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/valuekit/bridge"
	"github.com/joshuapare/valuekit/heap"
	"github.com/joshuapare/valuekit/printer"
	"github.com/joshuapare/valuekit/tree"
	"github.com/joshuapare/valuekit/value"
)

// newBackend returns a recording backend over a fresh store. Dumps are
// rendered on one line.
func newBackend(t *testing.T) *bridge.Recorder {
	t.Helper()
	h, err := heap.New(heap.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	st, err := tree.New(h, tree.DefaultOptions())
	require.NoError(t, err)
	a := bridge.NewAdapter(st, true)
	opts := printer.DefaultOptions()
	opts.Compact = true
	a.SetDumpOptions(opts)
	return bridge.NewRecorder(a)
}

func newPass(t *testing.T) *value.Pass {
	p := value.NewPass()
	t.Cleanup(p.End)
	return p
}

// requireViolation runs fn and asserts that it panics with a *value.Violation
// wrapping target.
func requireViolation(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		v, ok := r.(*value.Violation)
		require.True(t, ok, "want *value.Violation, got %T: %v", r, r)
		assert.ErrorIs(t, v, target)
	}()
	fn()
}

func TestConstructScalars(t *testing.T) {
	tests := []struct {
		name      string
		construct func(value.Slot)
		want      string
	}{
		{"null", func(s value.Slot) { s.ConstructNull() }, "null"},
		{"true", func(s value.Slot) { s.ConstructBool(true) }, "true"},
		{"false", func(s value.Slot) { s.ConstructBool(false) }, "false"},
		{"zero", func(s value.Slot) { s.ConstructInteger(0) }, "0"},
		{"min int", func(s value.Slot) { s.ConstructInteger(math.MinInt32) }, "-2147483648"},
		{"max int", func(s value.Slot) { s.ConstructInteger(math.MaxInt32) }, "2147483647"},
		{"double", func(s value.Slot) { s.ConstructDouble(1.5) }, "1.5"},
		{"whole double", func(s value.Slot) { s.ConstructDouble(2) }, "2.0"},
		{"nan", func(s value.Slot) { s.ConstructDouble(math.NaN()) }, "NaN"},
		{"inf", func(s value.Slot) { s.ConstructDouble(math.Inf(-1)) }, "-Infinity"},
		{"empty string", func(s value.Slot) { s.ConstructString("") }, `""`},
		{"string", func(s value.Slot) { s.ConstructString("héllo wörld") }, `"héllo wörld"`},
		{"cjk", func(s value.Slot) { s.ConstructString("日本") }, `"日本"`},
		{"empty dict", func(s value.Slot) { s.ConstructDict() }, "{}"},
		{"empty list", func(s value.Slot) { s.ConstructList() }, "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend(t)
			s := value.NewTestSlot(b, newPass(t))
			assert.Equal(t, "<empty>", value.Dump(s))
			tt.construct(s)
			assert.True(t, s.Constructed())
			assert.Equal(t, tt.want, value.Dump(s))
		})
	}
}

func TestConstructTwice(t *testing.T) {
	constructs := map[string]func(value.Slot){
		"null":    func(s value.Slot) { s.ConstructNull() },
		"bool":    func(s value.Slot) { s.ConstructBool(true) },
		"integer": func(s value.Slot) { s.ConstructInteger(1) },
		"double":  func(s value.Slot) { s.ConstructDouble(1) },
		"string":  func(s value.Slot) { s.ConstructString("x") },
		"dict":    func(s value.Slot) { s.ConstructDict() },
		"list":    func(s value.Slot) { s.ConstructList() },
	}
	for first, c1 := range constructs {
		for second, c2 := range constructs {
			t.Run(first+"/"+second, func(t *testing.T) {
				b := newBackend(t)
				s := value.NewTestSlot(b, newPass(t))
				c1(s)
				before := value.Dump(s)

				requireViolation(t, value.ErrInitialized, func() { c2(s) })
				assert.Equal(t, before, value.Dump(s))
				assert.Len(t, b.Calls(), 2, "second construct must not reach the backend")
			})
		}
	}
}

func TestConstructTwiceThroughCopy(t *testing.T) {
	b := newBackend(t)
	s := value.NewTestSlot(b, newPass(t))
	cp := s
	s.ConstructInteger(1)
	requireViolation(t, value.ErrInitialized, func() { cp.ConstructInteger(2) })
	assert.Equal(t, "1", value.Dump(s))
}

func TestScenarioCountItems(t *testing.T) {
	b := newBackend(t)
	s := value.NewTestSlot(b, newPass(t))

	d := s.ConstructDict()
	d.SetInteger("count", 3)
	items := d.SetList("items")
	items.SetStringAt(0, "a")
	items.SetStringAt(1, "b")

	assert.Equal(t, `{"count": 3, "items": ["a", "b"]}`, value.Dump(s))
}

func TestScenarioReserveThenGap(t *testing.T) {
	b := newBackend(t)
	s := value.NewTestSlot(b, newPass(t))

	l := s.ConstructList()
	l.Reserve(5)
	l.SetBoolAt(2, true)

	assert.Equal(t, `[null, null, true]`, value.Dump(s))
}

func TestDictLastWriteWins(t *testing.T) {
	keys := []string{"a", "b", "c", "d", "e"}
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 20; round++ {
		t.Run(fmt.Sprintf("round %d", round), func(t *testing.T) {
			b := newBackend(t)
			s := value.NewTestSlot(b, newPass(t))
			d := s.ConstructDict()

			last := map[string]string{}
			var order []string
			for i := 0; i < 40; i++ {
				k := keys[rng.Intn(len(keys))]
				if _, seen := last[k]; !seen {
					order = append(order, k)
				}
				switch rng.Intn(6) {
				case 0:
					d.SetNull(k)
					last[k] = "null"
				case 1:
					d.SetBool(k, i%2 == 0)
					last[k] = fmt.Sprint(i%2 == 0)
				case 2:
					d.SetInteger(k, int32(i))
					last[k] = fmt.Sprint(i)
				case 3:
					d.SetString(k, fmt.Sprintf("s%d", i))
					last[k] = fmt.Sprintf(`"s%d"`, i)
				case 4:
					d.SetDict(k).SetInteger("n", int32(i))
					last[k] = fmt.Sprintf(`{"n": %d}`, i)
				case 5:
					d.SetList(k).SetIntegerAt(0, int32(i))
					last[k] = fmt.Sprintf(`[%d]`, i)
				}
			}

			parts := make([]string, len(order))
			for i, k := range order {
				parts[i] = fmt.Sprintf("%q: %s", k, last[k])
			}
			assert.Equal(t, "{"+strings.Join(parts, ", ")+"}", value.Dump(s))
		})
	}
}

func TestListGapFill(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for round := 0; round < 20; round++ {
		t.Run(fmt.Sprintf("round %d", round), func(t *testing.T) {
			b := newBackend(t)
			s := value.NewTestSlot(b, newPass(t))
			l := s.ConstructList()

			set := map[int]int32{}
			highest := -1
			n := 1 + rng.Intn(10)
			for i := 0; i < n; i++ {
				pos := rng.Intn(30)
				l.SetIntegerAt(pos, int32(i))
				set[pos] = int32(i)
				highest = max(highest, pos)
			}

			parts := make([]string, highest+1)
			for i := range parts {
				if v, ok := set[i]; ok {
					parts[i] = fmt.Sprint(v)
				} else {
					parts[i] = "null"
				}
			}
			assert.Equal(t, "["+strings.Join(parts, ", ")+"]", value.Dump(s))
		})
	}
}

func TestThreeLevels(t *testing.T) {
	b := newBackend(t)
	s := value.NewTestSlot(b, newPass(t))

	top := s.ConstructDict()
	top.SetString("level", "one")
	mid := top.SetList("mid")
	mid.SetDoubleAt(0, 2.5)
	leaf := mid.SetDictAt(1)
	leaf.SetBool("deep", true)

	assert.Equal(t, `{"level": "one", "mid": [2.5, {"deep": true}]}`, value.Dump(s))
	assert.Equal(t, `[2.5, {"deep": true}]`, value.DumpValue(mid))
	assert.Equal(t, `{"deep": true}`, value.DumpValue(leaf))
}

func TestOverwriteEveryPairing(t *testing.T) {
	setters := map[string]func(v value.Value){
		"null":   func(v value.Value) { v.SetNull("k") },
		"int":    func(v value.Value) { v.SetInteger("k", 1) },
		"string": func(v value.Value) { v.SetString("k", "s") },
		"dict":   func(v value.Value) { v.SetDict("k").SetNull("inner") },
		"list":   func(v value.Value) { v.SetList("k").SetNullAt(1) },
	}
	want := map[string]string{
		"null":   `{"k": null}`,
		"int":    `{"k": 1}`,
		"string": `{"k": "s"}`,
		"dict":   `{"k": {"inner": null}}`,
		"list":   `{"k": [null, null]}`,
	}
	for first, s1 := range setters {
		for second, s2 := range setters {
			t.Run(first+" then "+second, func(t *testing.T) {
				b := newBackend(t)
				s := value.NewTestSlot(b, newPass(t))
				d := s.ConstructDict()
				s1(d)
				s2(d)
				assert.Equal(t, want[second], value.Dump(s))
			})
		}
	}
}

func TestWrongKindIsLocal(t *testing.T) {
	b := newBackend(t)
	s := value.NewTestSlot(b, newPass(t))
	l := s.ConstructList()
	calls := len(b.Calls())

	requireViolation(t, value.ErrWrongKind, func() { l.SetNull("k") })
	requireViolation(t, value.ErrWrongKind, func() { l.SetDict("k") })

	s2 := value.NewTestSlot(b, newPass(t))
	d := s2.ConstructDict()
	calls += 2
	requireViolation(t, value.ErrWrongKind, func() { d.SetNullAt(0) })
	requireViolation(t, value.ErrWrongKind, func() { d.SetListAt(0) })

	assert.Len(t, b.Calls(), calls)
}

func TestNegativePosition(t *testing.T) {
	b := newBackend(t)
	l := value.NewTestSlot(b, newPass(t)).ConstructList()
	requireViolation(t, value.ErrRange, func() { l.SetBoolAt(-1, true) })
	requireViolation(t, value.ErrRange, func() { l.Reserve(-1) })
}

func TestUnaddressablePositionExhausts(t *testing.T) {
	b := newBackend(t)
	s := value.NewTestSlot(b, newPass(t))
	l := s.ConstructList()
	l.SetStringAt(0, "kept")

	run := func(fn func()) (err error) {
		defer value.RecoverExhaustion(&err)
		fn()
		return nil
	}
	err := run(func() { l.SetNullAt(math.MaxInt) })
	require.ErrorIs(t, err, value.ErrExhausted)
	err = run(func() { l.SetDictAt(math.MaxInt) })
	require.ErrorIs(t, err, value.ErrExhausted)

	assert.Equal(t, `["kept"]`, value.Dump(s))
}

func TestReserveKeepsContents(t *testing.T) {
	b := newBackend(t)
	s := value.NewTestSlot(b, newPass(t))
	d := s.ConstructDict()
	d.SetInteger("a", 1)
	d.Reserve(100)
	d.Reserve(0)
	assert.Equal(t, `{"a": 1}`, value.Dump(s))

	l := d.SetList("l")
	l.Reserve(64)
	assert.Equal(t, `[]`, value.DumpValue(l))
}

func TestPassEnded(t *testing.T) {
	b := newBackend(t)
	p := value.NewPass()
	s := value.NewTestSlot(b, p)
	d := s.ConstructDict()
	p.End()
	assert.False(t, p.Alive())

	requireViolation(t, value.ErrPassEnded, func() { d.SetNull("k") })
	requireViolation(t, value.ErrPassEnded, func() { value.NewTestSlot(b, p) })

	p2 := value.NewPass()
	s3 := value.NewTestSlot(b, p2)
	p2.End()
	requireViolation(t, value.ErrPassEnded, func() { s3.ConstructNull() })
	assert.False(t, s3.Constructed())
}

func TestZeroReferences(t *testing.T) {
	requireViolation(t, value.ErrInvalid, func() { value.Slot{}.ConstructNull() })
	requireViolation(t, value.ErrInvalid, func() { value.Value{}.SetNull("k") })
	requireViolation(t, value.ErrInvalid, func() { value.Lease{}.Borrow(value.NewPass()) })
}

func TestBorrowRejectsScalarKind(t *testing.T) {
	b := newBackend(t)
	requireViolation(t, value.ErrWrongKind, func() {
		value.Borrow(b, value.Handle{}, value.Kind(0), newPass(t))
	})
}

func TestLease(t *testing.T) {
	b := newBackend(t)
	p1 := value.NewPass()
	s := value.NewTestSlot(b, p1)
	d := s.ConstructDict()
	lease := p1.Extend(d)
	p1.End()

	p2 := newPass(t)
	v := lease.Borrow(p2)
	assert.True(t, v.IsDict())
	assert.False(t, v.IsList())
	assert.Equal(t, d.Handle(), v.Handle())
	v.SetInteger("later", 9)
	assert.Equal(t, `{"later": 9}`, value.DumpValue(v))
}

func TestExtendForeignValue(t *testing.T) {
	b := newBackend(t)
	p1 := newPass(t)
	p2 := newPass(t)
	d := value.NewTestSlot(b, p1).ConstructDict()
	requireViolation(t, value.ErrInvalid, func() { p2.Extend(d) })
}

func TestRecoverExhaustion(t *testing.T) {
	run := func(fn func()) (err error) {
		defer value.RecoverExhaustion(&err)
		fn()
		return nil
	}

	assert.NoError(t, run(func() {}))

	err := run(func() { value.Exhaust("reserve", heap.ErrLimit) })
	require.Error(t, err)
	assert.ErrorIs(t, err, value.ErrExhausted)
	assert.ErrorIs(t, err, heap.ErrLimit)
	assert.Contains(t, err.Error(), "reserve")

	assert.PanicsWithError(t, "value: contract violation in set-null: value: wrong kind", func() {
		_ = run(func() { value.Violate("set-null", value.ErrWrongKind) })
	})
	assert.PanicsWithValue(t, "boom", func() {
		_ = run(func() { panic("boom") })
	})
}

func TestNoInspector(t *testing.T) {
	var b value.Backend = struct{ value.Backend }{}
	requireViolation(t, value.ErrNoInspector, func() { value.NewTestSlot(b, newPass(t)) })
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "dict", value.KindDict.String())
	assert.Equal(t, "list", value.KindList.String())
	assert.Equal(t, "invalid", value.Kind(9).String())
}
