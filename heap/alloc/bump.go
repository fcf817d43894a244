package alloc

import (
	"errors"
	"fmt"
	"io"

	"github.com/joshuapare/valuekit/heap"
	"github.com/joshuapare/valuekit/internal/format"
)

// BumpAllocator is an append-only allocator. Cells are carved from the end of
// the last bin; when it runs out a new bin is mapped and the tail of the old
// one stays behind as a free cell.
//
// Free flips the size sign so heap walks see the cell as free, but the bytes
// are never handed out again. Memory comes back only when the heap closes.
type BumpAllocator struct {
	h *heap.Heap

	// bin is the bin currently being bumped; nil until the first allocation
	// when the heap was empty.
	bin *heap.Bin

	// end is the offset within bin where the next allocation goes.
	end int

	stats Stats
}

// NewBump creates a BumpAllocator. If the heap already has bins, allocation
// continues from the trailing free cell of the last bin.
func NewBump(h *heap.Heap) (*BumpAllocator, error) {
	ba := &BumpAllocator{h: h}

	last := h.LastBin()
	if last == nil {
		return ba, nil
	}

	it := last.Cells()
	tail := last.Size()
	for {
		c, err := it.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("alloc: scan last bin: %w", err)
		}
		if c.Free {
			if tail == last.Size() {
				tail = c.Offset
			}
		} else {
			tail = last.Size()
		}
	}
	ba.bin = last
	ba.end = tail
	return ba, nil
}

// Alloc allocates a cell using bump-pointer allocation.
func (ba *BumpAllocator) Alloc(need int32, cls Class) (CellRef, []byte, error) {
	need, err := alignNeed(need)
	if err != nil {
		return 0, nil, err
	}
	ba.stats.AllocCalls++

	if ba.bin == nil || ba.end+int(need) > ba.bin.Size() {
		if err := ba.grow(need); err != nil {
			return 0, nil, err
		}
	}

	data := ba.bin.Bytes()
	off := ba.end
	ba.end += int(need)

	format.PutI32(data, off, -need)

	// Keep the bin walkable: the rest of it is one free cell.
	if remainder := ba.bin.Size() - ba.end; remainder > 0 {
		format.PutI32(data, ba.end, int32(remainder))
	}

	payload := data[off+format.CellHeaderSize : off+int(need) : off+int(need)]
	clear(payload)

	ba.stats.LiveCells++
	ba.stats.LiveBytes += int64(need)
	if int(cls) < len(ba.stats.ByClass) {
		ba.stats.ByClass[cls]++
	}
	return ba.bin.Ref(off), payload, nil
}

// Free marks a cell as free by flipping its size to positive. The space
// becomes dead until the heap is closed.
func (ba *BumpAllocator) Free(ref CellRef) error {
	b, off, err := ba.h.Locate(ref)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadRef, err)
	}
	data := b.Bytes()
	sz := format.ReadI32(data, off)
	if sz >= 0 {
		return fmt.Errorf("%w: 0x%X", ErrDoubleFree, ref)
	}
	format.PutI32(data, off, -sz)

	ba.stats.FreeCalls++
	ba.stats.LiveCells--
	ba.stats.LiveBytes -= int64(-sz)
	return nil
}

// Stats returns allocation counters.
func (ba *BumpAllocator) Stats() Stats { return ba.stats }

// grow maps a new bin large enough for need. The previous bin keeps its
// trailing free cell, written by the last Alloc.
func (ba *BumpAllocator) grow(need int32) error {
	b, err := ba.h.Grow(int(need))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGrowFail, err)
	}
	ba.stats.Grows++
	ba.bin = b
	ba.end = format.BinHeaderSize
	return nil
}

// Compile-time interface check
var _ Allocator = (*BumpAllocator)(nil)
