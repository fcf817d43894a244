package heap

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/joshuapare/valuekit/internal/buf"
	"github.com/joshuapare/valuekit/internal/format"
	"github.com/joshuapare/valuekit/internal/logger"
	"github.com/joshuapare/valuekit/internal/mmfile"
)

// CellRef is the virtual offset of a cell header within the heap.
type CellRef = uint32

// Heap owns the bins that back every node of a value tree.
type Heap struct {
	bins   []*Bin
	size   int64
	opts   Options
	closed bool
}

// New creates an empty heap and maps opts.PreallocBins bins.
func New(opts Options) (*Heap, error) {
	h := &Heap{opts: opts.normalized()}
	for range h.opts.PreallocBins {
		if _, err := h.Grow(0); err != nil {
			_ = h.Close()
			return nil, fmt.Errorf("heap: prealloc: %w", err)
		}
	}
	return h, nil
}

// Options returns the normalized options the heap was created with.
func (h *Heap) Options() Options { return h.opts }

// Grow maps a new bin able to hold a cell of need bytes (header included)
// and returns it. The bin's usable area is initialized as a single free cell.
// Existing bins are untouched.
func (h *Heap) Grow(need int) (*Bin, error) {
	if h.closed {
		return nil, ErrClosed
	}
	if need < 0 {
		return nil, fmt.Errorf("heap: negative grow request %d", need)
	}

	size := max(format.AlignPage(format.BinHeaderSize+need), h.opts.BinPages*format.PageSize)
	if h.size+int64(size) > h.opts.MaxSize {
		return nil, fmt.Errorf("%w: have %d, want %d more, max %d", ErrLimit, h.size, size, h.opts.MaxSize)
	}

	data, release, err := mmfile.MapAnon(size)
	if err != nil {
		return nil, fmt.Errorf("heap: grow: %w", err)
	}

	b := &Bin{data: data, base: uint32(h.size), release: release}
	format.PutBinHeader(data, b.base, uint32(size))
	format.PutI32(data, format.BinHeaderSize, int32(size-format.BinHeaderSize))

	h.bins = append(h.bins, b)
	h.size += int64(size)

	logger.Debug("heap: bin mapped", "base", b.base, "size", size, "bins", len(h.bins))
	return b, nil
}

// Bins returns the mapped bins in address order.
func (h *Heap) Bins() []*Bin { return h.bins }

// LastBin returns the most recently mapped bin, or nil for an empty heap.
func (h *Heap) LastBin() *Bin {
	if len(h.bins) == 0 {
		return nil
	}
	return h.bins[len(h.bins)-1]
}

// Size returns the total mapped size in bytes.
func (h *Heap) Size() int64 { return h.size }

// Locate returns the bin containing ref and the offset of ref inside it.
func (h *Heap) Locate(ref CellRef) (*Bin, int, error) {
	if h.closed {
		return nil, 0, ErrClosed
	}
	i := sort.Search(len(h.bins), func(i int) bool { return h.bins[i].End() > ref })
	if i == len(h.bins) || !h.bins[i].Contains(ref) {
		return nil, 0, fmt.Errorf("%w: 0x%X", ErrBadRef, ref)
	}
	b := h.bins[i]
	off := b.Offset(ref)
	if off%format.CellAlignment != 0 {
		return nil, 0, fmt.Errorf("%w: 0x%X misaligned", ErrBadRef, ref)
	}
	return b, off, nil
}

// Cell returns the bytes of the cell at ref, header included.
func (h *Heap) Cell(ref CellRef) ([]byte, error) {
	b, off, err := h.Locate(ref)
	if err != nil {
		return nil, err
	}
	raw := buf.I32LE(b.data[off:])
	size := int(raw)
	if raw < 0 {
		size = -size
	}
	cell, ok := buf.Slice(b.data, off, size)
	if !ok || size < format.CellHeaderSize {
		return nil, fmt.Errorf("%w: 0x%X has bad size %d", ErrBadRef, ref, raw)
	}
	return cell, nil
}

// Payload returns the payload of the allocated cell at ref.
func (h *Heap) Payload(ref CellRef) ([]byte, error) {
	cell, err := h.Cell(ref)
	if err != nil {
		return nil, err
	}
	if buf.I32LE(cell) > 0 {
		return nil, fmt.Errorf("0x%X: %w", ref, format.ErrFreeCell)
	}
	return cell[format.CellHeaderSize:], nil
}

// Walk calls fn for every cell of every bin in address order. Iteration
// stops at the first error returned by fn.
func (h *Heap) Walk(fn func(ref CellRef, c format.Cell) error) error {
	if h.closed {
		return ErrClosed
	}
	for _, b := range h.bins {
		it := b.Cells()
		for {
			c, err := it.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
			if err := fn(b.Ref(c.Offset), c); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close unmaps every bin. Refs and slices obtained from the heap must not be
// used afterwards.
func (h *Heap) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	var errs []error
	for _, b := range h.bins {
		if err := b.release(); err != nil {
			errs = append(errs, err)
		}
		b.data = nil
	}
	h.bins = nil
	h.size = 0
	return errors.Join(errs...)
}
