package tree

import (
	"fmt"
	"math"

	"github.com/joshuapare/valuekit/heap/alloc"
	"github.com/joshuapare/valuekit/internal/format"
)

// NodeInfo describes one node.
type NodeInfo struct {
	Kind  Kind
	Gen   uint32
	Value Scalar // scalar kinds only
	Len   int    // dict and list only
}

// Entry is one dict entry in insertion order.
type Entry struct {
	Key   string
	Child CellRef
}

// Stat describes the node at cell. format.InvalidRef (a list gap) reads as
// Null.
func (s *Store) Stat(cell CellRef) (NodeInfo, error) {
	if cell == format.InvalidRef {
		return NodeInfo{Kind: KindNull, Value: NullValue()}, nil
	}
	p, err := s.livePayload(cell)
	if err != nil {
		return NodeInfo{}, err
	}

	info := NodeInfo{
		Kind: Kind(p[format.NodeKindOffset]),
		Gen:  format.ReadU32(p, format.NodeGenOffset),
	}
	switch info.Kind {
	case KindEmpty:
	case KindNull:
		info.Value = NullValue()
	case KindBool:
		info.Value = BoolValue(p[format.NodeScalarOffset] != 0)
	case KindInteger:
		info.Value = IntValue(format.ReadI32(p, format.NodeScalarOffset))
	case KindDouble:
		info.Value = DoubleValue(math.Float64frombits(format.ReadU64(p, format.NodeScalarOffset)))
	case KindString:
		str, err := s.readText(format.ReadU32(p, format.NodeTextOffset))
		if err != nil {
			return NodeInfo{}, err
		}
		info.Value = StringValue(str)
	case KindDict, KindList:
		info.Len = int(format.ReadU32(p, format.NodeCountOffset))
	default:
		return NodeInfo{}, fmt.Errorf("%w: 0x%X has kind tag %d", ErrCorrupt, cell, info.Kind)
	}
	return info, nil
}

// RefOf returns the current Ref of the live node at cell.
func (s *Store) RefOf(cell CellRef) (Ref, error) {
	gen, ok := s.live[cell]
	if !ok {
		return Ref{}, fmt.Errorf("%w: 0x%X", ErrStale, cell)
	}
	return Ref{Cell: cell, Gen: gen}, nil
}

// Entries returns the entries of the dict at cell in insertion order.
func (s *Store) Entries(cell CellRef) ([]Entry, error) {
	p, err := s.livePayload(cell)
	if err != nil {
		return nil, err
	}
	if k := Kind(p[format.NodeKindOffset]); k != KindDict {
		return nil, fmt.Errorf("%w: entries of %s", ErrWrongKind, k)
	}
	n := int(format.ReadU32(p, format.NodeCountOffset))
	if n == 0 {
		return nil, nil
	}
	tp, err := s.table(p, KindDict)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, n)
	for i := range n {
		e := format.TableEntriesOffset + i*format.DictEntrySize
		key, err := s.readText(format.ReadU32(tp, e+format.DictEntryKeyOffset))
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{Key: key, Child: format.ReadU32(tp, e+format.DictEntryChildOffset)})
	}
	return out, nil
}

// Elements returns the children of the list at cell in index order. Gaps
// are format.InvalidRef.
func (s *Store) Elements(cell CellRef) ([]CellRef, error) {
	p, err := s.livePayload(cell)
	if err != nil {
		return nil, err
	}
	if k := Kind(p[format.NodeKindOffset]); k != KindList {
		return nil, fmt.Errorf("%w: elements of %s", ErrWrongKind, k)
	}
	n := int(format.ReadU32(p, format.NodeCountOffset))
	if n == 0 {
		return nil, nil
	}
	tp, err := s.table(p, KindList)
	if err != nil {
		return nil, err
	}

	out := make([]CellRef, n)
	for i := range out {
		out[i] = format.ReadU32(tp, format.TableEntriesOffset+i*format.ListEntrySize)
	}
	return out, nil
}

// Capacity returns the allocated table capacity of the dict or list at cell.
func (s *Store) Capacity(cell CellRef) (int, error) {
	p, err := s.livePayload(cell)
	if err != nil {
		return 0, err
	}
	k := Kind(p[format.NodeKindOffset])
	if !k.Composite() {
		return 0, fmt.Errorf("%w: capacity of %s", ErrWrongKind, k)
	}
	if format.ReadU32(p, format.NodeTableOffset) == format.InvalidRef {
		return 0, nil
	}
	tp, err := s.table(p, k)
	if err != nil {
		return 0, err
	}
	return int(format.ReadU32(tp, format.TableCapOffset)), nil
}

func (s *Store) livePayload(cell CellRef) ([]byte, error) {
	if _, ok := s.live[cell]; !ok {
		return nil, fmt.Errorf("%w: 0x%X", ErrStale, cell)
	}
	return s.payload(cell)
}

// Member is one dict entry of a materialized tree.
type Member struct {
	Key   string
	Value any
}

// Dict is a materialized dict in insertion order.
type Dict []Member

// Empty is the materialized form of a slot that was never constructed.
type Empty struct{}

// Materialize copies the subtree at cell into plain Go values: nil, bool,
// int32, float64, string, Dict, []any or Empty.
func (s *Store) Materialize(cell CellRef) (any, error) {
	info, err := s.Stat(cell)
	if err != nil {
		return nil, err
	}
	switch info.Kind {
	case KindEmpty:
		return Empty{}, nil
	case KindDict:
		entries, err := s.Entries(cell)
		if err != nil {
			return nil, err
		}
		d := make(Dict, 0, len(entries))
		for _, e := range entries {
			v, err := s.Materialize(e.Child)
			if err != nil {
				return nil, err
			}
			d = append(d, Member{Key: e.Key, Value: v})
		}
		return d, nil
	case KindList:
		elems, err := s.Elements(cell)
		if err != nil {
			return nil, err
		}
		l := make([]any, 0, len(elems))
		for _, c := range elems {
			v, err := s.Materialize(c)
			if err != nil {
				return nil, err
			}
			l = append(l, v)
		}
		return l, nil
	default:
		return info.Value.Interface(), nil
	}
}

// Stats summarizes a store.
type Stats struct {
	Nodes    int
	ByKind   map[Kind]int
	HeapSize int64
	Bins     int
	Alloc    alloc.Stats
}

// Stats counts live nodes by kind and reports heap and allocator usage.
func (s *Store) Stats() Stats {
	st := Stats{
		Nodes:    len(s.live),
		ByKind:   make(map[Kind]int),
		HeapSize: s.h.Size(),
		Bins:     len(s.h.Bins()),
		Alloc:    s.a.Stats(),
	}
	for cell := range s.live {
		p, err := s.payload(cell)
		if err != nil {
			continue
		}
		st.ByKind[Kind(p[format.NodeKindOffset])]++
	}
	return st
}
