package alloc

import (
	"container/heap"
	"fmt"

	vheap "github.com/joshuapare/valuekit/heap"
	"github.com/joshuapare/valuekit/internal/format"
)

// maxClassScan bounds the slow-path scan inside one size class.
const maxClassScan = 32

// FreeListAllocator reuses freed cells. Free cells live in one min-heap per
// size class (plus an overflow class for large cells), so the top of a heap is
// the best fit within its class.
//
// Freed cells are coalesced with free neighbours in the same bin. Cells never
// merge across bins since bins are separate mappings.
type FreeListAllocator struct {
	h     *vheap.Heap
	sizes *sizeClassTable

	// classes has NumClasses()+1 entries; the last is the overflow class.
	classes []freeCellHeap

	// byRef finds the free-list entry of a free cell for coalescing.
	byRef map[CellRef]*freeCell

	// byEnd maps the end of a free cell to its start, for backward coalescing.
	byEnd map[CellRef]CellRef

	stats Stats
}

// freeCell is a free cell tracked in one of the class heaps.
type freeCell struct {
	ref       CellRef
	size      int32
	class     int
	heapIndex int
}

// freeCellHeap implements heap.Interface keyed on cell size.
type freeCellHeap []*freeCell

func (h *freeCellHeap) Len() int { return len(*h) }

func (h *freeCellHeap) Less(i, j int) bool {
	if (*h)[i].size != (*h)[j].size {
		return (*h)[i].size < (*h)[j].size
	}
	return (*h)[i].ref < (*h)[j].ref
}

func (h *freeCellHeap) Swap(i, j int) {
	(*h)[i], (*h)[j] = (*h)[j], (*h)[i]
	(*h)[i].heapIndex = i
	(*h)[j].heapIndex = j
}

func (h *freeCellHeap) Push(x any) {
	cell := x.(*freeCell) //nolint:errcheck // heap.Interface contract guarantees type
	cell.heapIndex = len(*h)
	*h = append(*h, cell)
}

func (h *freeCellHeap) Pop() any {
	old := *h
	n := len(old)
	cell := old[n-1]
	cell.heapIndex = -1
	*h = old[:n-1]
	return cell
}

// NewFreeList creates a FreeListAllocator over h. Free cells already present
// in h are indexed. A nil config selects DefaultConfig.
func NewFreeList(h *vheap.Heap, config *SizeClassConfig) (*FreeListAllocator, error) {
	cfg := DefaultConfig
	if config != nil {
		cfg = *config
	}
	sizes := newSizeClassTable(cfg)
	fa := &FreeListAllocator{
		h:       h,
		sizes:   sizes,
		classes: make([]freeCellHeap, sizes.NumClasses()+1),
		byRef:   make(map[CellRef]*freeCell),
		byEnd:   make(map[CellRef]CellRef),
	}

	err := h.Walk(func(ref CellRef, c format.Cell) error {
		if c.Free {
			fa.insert(ref, int32(c.Size))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("alloc: index free cells: %w", err)
	}
	return fa, nil
}

// Alloc allocates a cell, reusing the best free cell available before
// growing the heap.
func (fa *FreeListAllocator) Alloc(need int32, cls Class) (CellRef, []byte, error) {
	need, err := alignNeed(need)
	if err != nil {
		return 0, nil, err
	}
	fa.stats.AllocCalls++

	cell := fa.take(need)
	if cell == nil {
		if err := fa.grow(need); err != nil {
			return 0, nil, err
		}
		if cell = fa.take(need); cell == nil {
			return 0, nil, fmt.Errorf("%w: need %d after grow", ErrNoSpace, need)
		}
	}

	b, off, err := fa.h.Locate(cell.ref)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrBadRef, err)
	}
	data := b.Bytes()

	size := cell.size
	if rest := size - need; rest >= format.MinCellSize {
		size = need
		format.PutI32(data, off+int(need), rest)
		fa.insert(cell.ref+CellRef(need), rest)
		fa.stats.Splits++
	}
	format.PutI32(data, off, -size)

	payload := data[off+format.CellHeaderSize : off+int(size) : off+int(size)]
	clear(payload)

	fa.stats.LiveCells++
	fa.stats.LiveBytes += int64(size)
	if int(cls) < len(fa.stats.ByClass) {
		fa.stats.ByClass[cls]++
	}
	return cell.ref, payload, nil
}

// Free releases a cell and merges it with free neighbours in the same bin.
func (fa *FreeListAllocator) Free(ref CellRef) error {
	b, off, err := fa.h.Locate(ref)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadRef, err)
	}
	data := b.Bytes()

	raw := format.ReadI32(data, off)
	if raw >= 0 {
		return fmt.Errorf("%w: 0x%X", ErrDoubleFree, ref)
	}
	size := -raw
	fa.stats.FreeCalls++
	fa.stats.LiveCells--
	fa.stats.LiveBytes -= int64(size)

	// Forward: the cell right after us, if it is free and in this bin.
	next := ref + CellRef(size)
	if next < b.End() {
		if nc, ok := fa.byRef[next]; ok {
			fa.remove(nc)
			size += nc.size
			fa.stats.Coalesces++
		}
	}

	// Backward: a free cell ending exactly where we start.
	if prev, ok := fa.byEnd[ref]; ok && prev >= b.Base() {
		if pc, ok := fa.byRef[prev]; ok {
			fa.remove(pc)
			size += pc.size
			off -= int(pc.size)
			ref = prev
			fa.stats.Coalesces++
		}
	}

	format.PutI32(data, off, size)
	fa.insert(ref, size)
	return nil
}

// Stats returns allocation counters.
func (fa *FreeListAllocator) Stats() Stats {
	s := fa.stats
	s.FreeCells = len(fa.byRef)
	var bytes int64
	for _, c := range fa.byRef {
		bytes += int64(c.size)
	}
	s.FreeBytes = bytes
	return s
}

// take removes and returns the best free cell of at least need bytes, or nil.
func (fa *FreeListAllocator) take(need int32) *freeCell {
	for class := fa.sizes.classOf(need); class < len(fa.classes); class++ {
		h := &fa.classes[class]
		if h.Len() == 0 {
			continue
		}

		// heap[0] is the smallest cell in the class; if it fits it is the
		// best fit.
		if (*h)[0].size >= need {
			cell := (*h)[0]
			fa.remove(cell)
			return cell
		}

		// Only the class containing need can hold cells both smaller and
		// larger than need. Scan it (fully for the overflow class).
		limit := h.Len()
		if class < fa.sizes.NumClasses() {
			limit = min(limit, maxClassScan)
		}
		var best *freeCell
		for i := 1; i < limit; i++ {
			c := (*h)[i]
			if c.size >= need && (best == nil || c.size < best.size) {
				best = c
			}
		}
		if best != nil {
			fa.remove(best)
			return best
		}
	}
	return nil
}

func (fa *FreeListAllocator) insert(ref CellRef, size int32) {
	c := &freeCell{ref: ref, size: size, class: fa.sizes.classOf(size)}
	heap.Push(&fa.classes[c.class], c)
	fa.byRef[ref] = c
	fa.byEnd[ref+CellRef(size)] = ref
}

func (fa *FreeListAllocator) remove(c *freeCell) {
	heap.Remove(&fa.classes[c.class], c.heapIndex)
	delete(fa.byRef, c.ref)
	delete(fa.byEnd, c.ref+CellRef(c.size))
}

// grow maps a new bin and indexes its free space.
func (fa *FreeListAllocator) grow(need int32) error {
	b, err := fa.h.Grow(int(need))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGrowFail, err)
	}
	fa.stats.Grows++
	fa.insert(b.Ref(format.BinHeaderSize), int32(b.Size()-format.BinHeaderSize))
	return nil
}

// Compile-time interface check
var _ Allocator = (*FreeListAllocator)(nil)
