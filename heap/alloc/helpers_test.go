package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/valuekit/heap"
	"github.com/joshuapare/valuekit/internal/format"
)

func newTestHeap(t *testing.T, maxPages int) *heap.Heap {
	t.Helper()
	opts := heap.DefaultOptions()
	if maxPages > 0 {
		opts.MaxSize = int64(maxPages * format.PageSize)
	}
	h, err := heap.New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

// cellSize reads the raw signed size header of the cell at ref.
func cellSize(t *testing.T, h *heap.Heap, ref CellRef) int32 {
	t.Helper()
	b, off, err := h.Locate(ref)
	require.NoError(t, err)
	return format.ReadI32(b.Bytes(), off)
}

// walkSizes returns the signed size of every cell in h, in address order.
func walkSizes(t *testing.T, h *heap.Heap) []int32 {
	t.Helper()
	var out []int32
	require.NoError(t, h.Walk(func(ref CellRef, c format.Cell) error {
		if c.Free {
			out = append(out, int32(c.Size))
		} else {
			out = append(out, -int32(c.Size))
		}
		return nil
	}))
	return out
}
