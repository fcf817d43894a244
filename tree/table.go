package tree

import (
	"fmt"
	"math"

	"github.com/joshuapare/valuekit/heap/alloc"
	"github.com/joshuapare/valuekit/internal/format"
)

// tableShape describes the child table of a composite kind.
type tableShape struct {
	sig       []byte
	entrySize int
	class     alloc.Class
}

func shapeOf(k Kind) tableShape {
	if k == KindDict {
		return tableShape{format.DictTableSignature, format.DictEntrySize, alloc.ClassDictTable}
	}
	return tableShape{format.ListTableSignature, format.ListEntrySize, alloc.ClassListTable}
}

// maxEntries is the largest table capacity whose cell size fits an int32.
func (ts tableShape) maxEntries() int {
	return (math.MaxInt32 - format.CellHeaderSize - format.TableEntriesOffset - format.CellAlignment) / ts.entrySize
}

// checkListPos rejects positions no list table can address.
func checkListPos(pos int) error {
	if limit := shapeOf(KindList).maxEntries(); pos >= limit {
		return fmt.Errorf("%w: list position %d exceeds %d", alloc.ErrNoSpace, pos, limit-1)
	}
	return nil
}

// table returns the validated table payload of composite node p.
func (s *Store) table(p []byte, k Kind) ([]byte, error) {
	tref := format.ReadU32(p, format.NodeTableOffset)
	if tref == format.InvalidRef {
		return nil, fmt.Errorf("%w: %s has no table", ErrCorrupt, k)
	}
	return s.tablePayload(tref, shapeOf(k))
}

func (s *Store) tablePayload(tref CellRef, ts tableShape) ([]byte, error) {
	tp, err := s.h.Payload(tref)
	if err != nil {
		return nil, fmt.Errorf("%w: table 0x%X: %w", ErrCorrupt, tref, err)
	}
	if err := format.CheckTable(tp, ts.sig, ts.entrySize); err != nil {
		return nil, fmt.Errorf("%w: table 0x%X: %w", ErrCorrupt, tref, err)
	}
	return tp, nil
}

// ensureCapacity returns the table of composite node p, reallocating it so it
// holds at least need entries. Only the table moves; the node stays put.
func (s *Store) ensureCapacity(p []byte, k Kind, need int) ([]byte, error) {
	ts := shapeOf(k)
	tref := format.ReadU32(p, format.NodeTableOffset)

	var (
		cur      []byte
		capacity int
	)
	if tref != format.InvalidRef {
		var err error
		if cur, err = s.tablePayload(tref, ts); err != nil {
			return nil, err
		}
		capacity = int(format.ReadU32(cur, format.TableCapOffset))
	}
	if need < 0 {
		return nil, fmt.Errorf("%w: capacity %d", ErrRange, need)
	}
	if need <= capacity {
		return cur, nil
	}

	limit := ts.maxEntries()
	if need > limit {
		return nil, fmt.Errorf("%w: %s table of %d entries", alloc.ErrNoSpace, k, need)
	}
	newCap := min(max(need, capacity*2, s.opts.MinTableCapacity), limit)

	nref, np, err := s.a.Alloc(format.TableCellSize(newCap, ts.entrySize), ts.class)
	if err != nil {
		return nil, err
	}
	copy(np, ts.sig)
	format.PutU32(np, format.TableCapOffset, uint32(newCap))

	format.PutU32(p, format.NodeTableOffset, nref)

	if cur == nil {
		return np, nil
	}
	used := int(format.ReadU32(p, format.NodeCountOffset)) * ts.entrySize
	copy(np[format.TableEntriesOffset:format.TableEntriesOffset+used],
		cur[format.TableEntriesOffset:format.TableEntriesOffset+used])
	if err := s.a.Free(tref); err != nil {
		return nil, fmt.Errorf("tree: release old table: %w", err)
	}
	return np, nil
}
