package alloc

import (
	"github.com/joshuapare/valuekit/heap"
	"github.com/joshuapare/valuekit/internal/format"
)

// CellRef is the virtual offset of a cell header in the heap.
type CellRef = heap.CellRef

// Class represents the type of cell being allocated.
type Class uint8

const (
	ClassNode      Class = 1 // value node
	ClassDictTable Class = 2 // dict child table
	ClassListTable Class = 3 // list child table
	ClassText      Class = 4 // key or string bytes

	classCount = 5
)

func (c Class) String() string {
	switch c {
	case ClassNode:
		return "node"
	case ClassDictTable:
		return "dict-table"
	case ClassListTable:
		return "list-table"
	case ClassText:
		return "text"
	default:
		return "unknown"
	}
}

// Allocator defines the interface for cell allocation and deallocation.
//
// Implementations:
//   - BumpAllocator: append-only, Free never returns space
//   - FreeListAllocator: segregated free lists with coalescing
type Allocator interface {
	// Alloc allocates a cell of the given size and class.
	// Returns the cell reference, a zeroed slice of the cell payload, and any error.
	Alloc(need int32, cls Class) (CellRef, []byte, error)

	// Free marks a cell as free. Implementations may or may not reuse it.
	Free(ref CellRef) error

	// Stats returns a snapshot of allocation counters.
	Stats() Stats
}

// Stats is a snapshot of allocator activity.
type Stats struct {
	AllocCalls int64
	FreeCalls  int64
	Grows      int64 // bins mapped by this allocator
	Splits     int64 // free cells split on allocation
	Coalesces  int64 // adjacent free cells merged on free

	LiveCells int64 // allocated and not yet freed
	LiveBytes int64 // total size of live cells, headers included

	FreeCells int   // cells on free lists (FreeListAllocator only)
	FreeBytes int64 // bytes on free lists (FreeListAllocator only)

	ByClass [classCount]int64 // allocations per Class
}

// Allocs returns the number of allocations made for class c.
func (s Stats) Allocs(c Class) int64 {
	if int(c) >= len(s.ByClass) {
		return 0
	}
	return s.ByClass[c]
}

// alignNeed validates and aligns an allocation request.
func alignNeed(need int32) (int32, error) {
	if need < format.CellHeaderSize {
		return 0, ErrNeedSmall
	}
	return format.Align8I32(need), nil
}
