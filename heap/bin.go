package heap

import (
	"fmt"
	"io"

	"github.com/joshuapare/valuekit/internal/format"
)

// Bin is one pinned mapping of the heap.
type Bin struct {
	data    []byte // full bin bytes (header + cells)
	base    uint32 // virtual offset of data[0]
	release func() error
}

// Bytes returns the whole bin, header included. The slice stays valid until
// the heap is closed.
func (b *Bin) Bytes() []byte { return b.data }

// Base returns the virtual offset of the bin's first byte.
func (b *Bin) Base() uint32 { return b.base }

// Size returns the bin size in bytes.
func (b *Bin) Size() int { return len(b.data) }

// End returns the virtual offset one past the bin's last byte.
func (b *Bin) End() uint32 { return b.base + uint32(len(b.data)) }

// Ref converts an offset within the bin into a CellRef.
func (b *Bin) Ref(off int) CellRef { return b.base + uint32(off) }

// Offset converts a CellRef inside this bin back into a bin offset.
func (b *Bin) Offset(ref CellRef) int { return int(ref - b.base) }

// Contains reports whether ref falls inside this bin's cell area.
func (b *Bin) Contains(ref CellRef) bool {
	return ref >= b.base+format.BinHeaderSize && ref < b.End()
}

// CellIterator walks the cells of one bin in address order.
type CellIterator struct {
	bin  *Bin
	off  int
	done bool
}

// Cells returns an iterator positioned at the bin's first cell.
func (b *Bin) Cells() *CellIterator {
	return &CellIterator{bin: b, off: format.BinHeaderSize}
}

// Next returns the next cell or io.EOF after the last one.
func (it *CellIterator) Next() (format.Cell, error) {
	if it.done || it.off >= len(it.bin.data) {
		it.done = true
		return format.Cell{}, io.EOF
	}
	c, next, err := format.NextCell(it.bin.data, it.off)
	if err != nil {
		it.done = true
		return format.Cell{}, fmt.Errorf("heap: bin 0x%X: %w", it.bin.base, err)
	}
	if c.Size%format.CellAlignment != 0 {
		it.done = true
		return format.Cell{}, fmt.Errorf("heap: bin 0x%X: misaligned cell size %d at %d",
			it.bin.base, c.Size, c.Offset)
	}
	it.off = next
	return c, nil
}
