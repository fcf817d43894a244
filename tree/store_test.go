package tree

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/valuekit/heap"
	"github.com/joshuapare/valuekit/heap/alloc"
	"github.com/joshuapare/valuekit/internal/format"
)

func newTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	h, err := heap.New(heap.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	s, err := New(h, opts)
	require.NoError(t, err)
	return s
}

func materialize(t *testing.T, s *Store, ref Ref) any {
	t.Helper()
	v, err := s.Materialize(ref.Cell)
	require.NoError(t, err)
	return v
}

func TestConstruct_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   Scalar
		want any
	}{
		{"null", NullValue(), nil},
		{"zero scalar is null", Scalar{}, nil},
		{"true", BoolValue(true), true},
		{"false", BoolValue(false), false},
		{"int min", IntValue(math.MinInt32), int32(math.MinInt32)},
		{"int max", IntValue(math.MaxInt32), int32(math.MaxInt32)},
		{"double", DoubleValue(-2.5), -2.5},
		{"inf", DoubleValue(math.Inf(1)), math.Inf(1)},
		{"empty string", StringValue(""), ""},
		{"unicode", StringValue("héllo, 世界"), "héllo, 世界"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, DefaultOptions())
			slot, err := s.NewSlot()
			require.NoError(t, err)
			require.NoError(t, s.Construct(slot, tt.in))
			assert.Equal(t, tt.want, materialize(t, s, slot))
		})
	}
}

func TestConstruct_NaN(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	slot, err := s.NewSlot()
	require.NoError(t, err)
	require.NoError(t, s.Construct(slot, DoubleValue(math.NaN())))

	info, err := s.Stat(slot.Cell)
	require.NoError(t, err)
	assert.Equal(t, KindDouble, info.Kind)
	assert.True(t, math.IsNaN(info.Value.Double()))
}

func TestConstruct_Once(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	slot, err := s.NewSlot()
	require.NoError(t, err)

	info, err := s.Stat(slot.Cell)
	require.NoError(t, err)
	assert.Equal(t, KindEmpty, info.Kind)
	assert.Equal(t, Empty{}, materialize(t, s, slot))

	require.NoError(t, s.Construct(slot, IntValue(1)))
	require.ErrorIs(t, s.Construct(slot, IntValue(2)), ErrInitialized)
	_, err = s.ConstructComposite(slot, KindDict)
	require.ErrorIs(t, err, ErrInitialized)
	assert.Equal(t, int32(1), materialize(t, s, slot), "failed construct leaves node untouched")
}

func TestConstructComposite_RejectsScalarKind(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	slot, err := s.NewSlot()
	require.NoError(t, err)
	_, err = s.ConstructComposite(slot, KindString)
	require.ErrorIs(t, err, ErrWrongKind)
}

func TestDict_LastWriteWinsKeepsPosition(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	slot, err := s.NewSlot()
	require.NoError(t, err)
	d, err := s.ConstructComposite(slot, KindDict)
	require.NoError(t, err)

	require.NoError(t, s.SetKey(d, "a", IntValue(1)))
	require.NoError(t, s.SetKey(d, "b", IntValue(2)))
	require.NoError(t, s.SetKey(d, "a", StringValue("x")))
	require.NoError(t, s.SetKey(d, "c", NullValue()))
	require.NoError(t, s.SetKey(d, "a", BoolValue(false)))

	want := Dict{{"a", false}, {"b", int32(2)}, {"c", nil}}
	if diff := cmp.Diff(want, materialize(t, s, d)); diff != "" {
		t.Errorf("dict mismatch (-want +got):\n%s", diff)
	}
}

func TestDict_ManyKeysGrowTable(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	slot, err := s.NewSlot()
	require.NoError(t, err)
	d, err := s.ConstructComposite(slot, KindDict)
	require.NoError(t, err)

	var want Dict
	for i := range 100 {
		key := string(rune('a'+i%26)) + string(rune('0'+i/26))
		require.NoError(t, s.SetKey(d, key, IntValue(int32(i))))
		want = append(want, Member{key, int32(i)})
	}
	assert.Equal(t, want, materialize(t, s, d))

	capacity, err := s.Capacity(d.Cell)
	require.NoError(t, err)
	assert.Equal(t, 128, capacity)
}

func TestList_GapsReadAsNull(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	slot, err := s.NewSlot()
	require.NoError(t, err)
	l, err := s.ConstructComposite(slot, KindList)
	require.NoError(t, err)

	require.NoError(t, s.SetElem(l, 3, IntValue(3)))
	require.NoError(t, s.SetElem(l, 1, StringValue("one")))

	assert.Equal(t, []any{nil, "one", nil, int32(3)}, materialize(t, s, l))

	elems, err := s.Elements(l.Cell)
	require.NoError(t, err)
	assert.Equal(t, CellRef(format.InvalidRef), elems[0])
	assert.Equal(t, CellRef(format.InvalidRef), elems[2])
}

func TestList_NegativePosition(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	slot, err := s.NewSlot()
	require.NoError(t, err)
	l, err := s.ConstructComposite(slot, KindList)
	require.NoError(t, err)

	require.ErrorIs(t, s.SetElem(l, -1, NullValue()), ErrRange)
	_, err = s.SetElemComposite(l, -1, KindDict)
	require.ErrorIs(t, err, ErrRange)
	require.ErrorIs(t, s.Reserve(l, -1), ErrRange)
}

func TestList_UnaddressablePosition(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	slot, err := s.NewSlot()
	require.NoError(t, err)
	l, err := s.ConstructComposite(slot, KindList)
	require.NoError(t, err)
	require.NoError(t, s.SetElem(l, 0, IntValue(1)))

	other, err := s.NewSlot()
	require.NoError(t, err)
	require.NoError(t, s.Construct(other, StringValue("neighbour")))
	before := s.Stats()

	for _, pos := range []int{math.MaxInt, math.MaxInt - 1, shapeOf(KindList).maxEntries()} {
		require.ErrorIs(t, s.SetElem(l, pos, NullValue()), alloc.ErrNoSpace, "pos %d", pos)
		_, err := s.SetElemComposite(l, pos, KindList)
		require.ErrorIs(t, err, alloc.ErrNoSpace, "pos %d", pos)
	}

	assert.Equal(t, []any{int32(1)}, materialize(t, s, l))
	assert.Equal(t, "neighbour", materialize(t, s, other))
	assert.Equal(t, before.Nodes, s.Stats().Nodes)
	require.NoError(t, s.Heap().Walk(func(CellRef, format.Cell) error { return nil }))
}

func TestReserve_DoesNotChangeContents(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	slot, err := s.NewSlot()
	require.NoError(t, err)
	l, err := s.ConstructComposite(slot, KindList)
	require.NoError(t, err)

	require.NoError(t, s.Reserve(l, 5))
	assert.Equal(t, []any{}, materialize(t, s, l))
	capacity, err := s.Capacity(l.Cell)
	require.NoError(t, err)
	assert.Equal(t, 5, capacity)

	require.NoError(t, s.SetElem(l, 2, BoolValue(true)))
	assert.Equal(t, []any{nil, nil, true}, materialize(t, s, l))

	require.NoError(t, s.Reserve(l, 2), "smaller reserve is a no-op")
	capacity, err = s.Capacity(l.Cell)
	require.NoError(t, err)
	assert.Equal(t, 5, capacity)
}

func TestWrongKind(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	slot, err := s.NewSlot()
	require.NoError(t, err)
	l, err := s.ConstructComposite(slot, KindList)
	require.NoError(t, err)

	require.ErrorIs(t, s.SetKey(l, "k", NullValue()), ErrWrongKind)
	_, err = s.SetKeyComposite(l, "k", KindList)
	require.ErrorIs(t, err, ErrWrongKind)
	_, err = s.SetElemComposite(l, 0, KindInteger)
	require.ErrorIs(t, err, ErrWrongKind)

	scalar, err := s.NewSlot()
	require.NoError(t, err)
	require.NoError(t, s.Construct(scalar, IntValue(7)))
	require.ErrorIs(t, s.Reserve(scalar, 1), ErrWrongKind)
	require.ErrorIs(t, s.SetElem(scalar, 0, NullValue()), ErrWrongKind)
}

func TestNesting_ThreeLevels(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	slot, err := s.NewSlot()
	require.NoError(t, err)
	root, err := s.ConstructComposite(slot, KindDict)
	require.NoError(t, err)

	require.NoError(t, s.SetKey(root, "level", IntValue(1)))
	l, err := s.SetKeyComposite(root, "items", KindList)
	require.NoError(t, err)
	require.NoError(t, s.SetElem(l, 0, DoubleValue(2.5)))
	d, err := s.SetElemComposite(l, 1, KindDict)
	require.NoError(t, err)
	require.NoError(t, s.SetKey(d, "leaf", StringValue("three")))

	want := Dict{
		{"level", int32(1)},
		{"items", []any{2.5, Dict{{"leaf", "three"}}}},
	}
	if diff := cmp.Diff(want, materialize(t, s, root)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestOverwrite_DiscardsSubtree(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	slot, err := s.NewSlot()
	require.NoError(t, err)
	root, err := s.ConstructComposite(slot, KindDict)
	require.NoError(t, err)

	inner, err := s.SetKeyComposite(root, "x", KindList)
	require.NoError(t, err)
	for i := range 10 {
		require.NoError(t, s.SetElem(inner, i, StringValue("payload")))
	}
	nested, err := s.SetElemComposite(inner, 10, KindDict)
	require.NoError(t, err)
	require.NoError(t, s.SetKey(nested, "deep", IntValue(1)))

	before := s.Stats()
	assert.Equal(t, 14, before.Nodes)

	require.NoError(t, s.SetKey(root, "x", IntValue(0)))

	after := s.Stats()
	assert.Equal(t, 2, after.Nodes, "root and the new integer")
	assert.Equal(t, map[Kind]int{KindDict: 1, KindInteger: 1}, after.ByKind)
	// root node, root table, key "x", integer node
	assert.Equal(t, int64(4), after.Alloc.LiveCells)

	assert.False(t, s.Live(inner))
	assert.False(t, s.Live(nested))
	require.ErrorIs(t, s.SetElem(inner, 0, NullValue()), ErrStale)
	require.ErrorIs(t, s.SetKey(nested, "deep", NullValue()), ErrStale)
}

func TestOverwrite_ListPosition(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	slot, err := s.NewSlot()
	require.NoError(t, err)
	l, err := s.ConstructComposite(slot, KindList)
	require.NoError(t, err)

	d, err := s.SetElemComposite(l, 0, KindDict)
	require.NoError(t, err)
	require.NoError(t, s.SetKey(d, "k", IntValue(1)))

	l2, err := s.SetElemComposite(l, 0, KindList)
	require.NoError(t, err)
	require.NoError(t, s.SetElem(l2, 0, BoolValue(true)))

	assert.Equal(t, []any{[]any{true}}, materialize(t, s, l))
	assert.False(t, s.Live(d))
}

func TestStaleAcrossReuse(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	slot, err := s.NewSlot()
	require.NoError(t, err)
	root, err := s.ConstructComposite(slot, KindDict)
	require.NoError(t, err)

	old, err := s.SetKeyComposite(root, "k", KindDict)
	require.NoError(t, err)
	fresh, err := s.SetKeyComposite(root, "k", KindDict)
	require.NoError(t, err)

	// The freed cell may be handed out again; the generation tells them apart.
	assert.NotEqual(t, old.Gen, fresh.Gen)
	require.ErrorIs(t, s.SetKey(old, "a", NullValue()), ErrStale)
	require.NoError(t, s.SetKey(fresh, "a", NullValue()))
}

func TestDiscard(t *testing.T) {
	s := newTestStore(t, DefaultOptions())
	slot, err := s.NewSlot()
	require.NoError(t, err)
	root, err := s.ConstructComposite(slot, KindList)
	require.NoError(t, err)
	require.NoError(t, s.SetElem(root, 4, StringValue("x")))

	require.NoError(t, s.Discard(root))
	assert.Zero(t, s.Stats().Nodes)
	assert.Zero(t, s.Stats().Alloc.LiveCells)
	require.ErrorIs(t, s.Discard(root), ErrStale)
	_, err = s.Stat(root.Cell)
	require.ErrorIs(t, err, ErrStale)
}

func TestCompactText(t *testing.T) {
	for _, compact := range []bool{true, false} {
		opts := DefaultOptions()
		opts.CompactText = compact
		s := newTestStore(t, opts)
		slot, err := s.NewSlot()
		require.NoError(t, err)
		d, err := s.ConstructComposite(slot, KindDict)
		require.NoError(t, err)
		require.NoError(t, s.SetKey(d, "naïve", StringValue("crème brûlée")))
		require.NoError(t, s.SetKey(d, "wide", StringValue("世界 €")))

		want := Dict{{"naïve", "crème brûlée"}, {"wide", "世界 €"}}
		assert.Equal(t, want, materialize(t, s, d), "compact=%v", compact)
	}
}

func TestAppendStrategy(t *testing.T) {
	opts := DefaultOptions()
	opts.Strategy = StrategyAppend
	s := newTestStore(t, opts)

	slot, err := s.NewSlot()
	require.NoError(t, err)
	d, err := s.ConstructComposite(slot, KindDict)
	require.NoError(t, err)
	require.NoError(t, s.SetKey(d, "a", StringValue("first")))
	require.NoError(t, s.SetKey(d, "a", StringValue("second")))

	assert.Equal(t, Dict{{"a", "second"}}, materialize(t, s, d))
	st := s.Stats()
	assert.Equal(t, int64(5), st.Alloc.LiveCells, "root, table, key, string node, text")
	assert.Equal(t, int64(2), st.Alloc.FreeCalls)
}

func TestExhaustion(t *testing.T) {
	hopts := heap.DefaultOptions()
	hopts.MaxSize = format.PageSize
	h, err := heap.New(hopts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	s, err := New(h, DefaultOptions())
	require.NoError(t, err)

	slot, err := s.NewSlot()
	require.NoError(t, err)
	l, err := s.ConstructComposite(slot, KindList)
	require.NoError(t, err)

	var last error
	for i := 0; last == nil && i < 10000; i++ {
		last = s.SetElem(l, i, StringValue("some text that takes space"))
	}
	require.ErrorIs(t, last, alloc.ErrGrowFail)
	require.ErrorIs(t, last, heap.ErrLimit)

	err = s.Reserve(l, 1<<30)
	require.ErrorIs(t, err, alloc.ErrNoSpace)
}

func TestParseStrategy(t *testing.T) {
	st, ok := ParseStrategy("append")
	require.True(t, ok)
	assert.Equal(t, StrategyAppend, st)
	assert.Equal(t, "append", st.String())

	st, ok = ParseStrategy("")
	require.True(t, ok)
	assert.Equal(t, StrategyReuse, st)

	_, ok = ParseStrategy("bogus")
	assert.False(t, ok)
}
