// Package alloc hands out cells from a heap.Heap.
//
// # Allocator Interface
//
// The core abstraction is the Allocator interface:
//
//   - Alloc(need, class): allocate a cell of need bytes (header included)
//   - Free(ref): release a cell
//   - Stats(): counters for instrumentation and tests
//
// Returned payloads are zeroed. Cells never move after allocation, because
// the heap never moves bins; growth maps a new bin instead.
//
// # Implementations
//
// BumpAllocator: append-only
//
//   - O(1) allocation from the end of the last bin
//   - Free only flips the size sign; the space is never reused
//   - Best for build-once trees that are dropped as a whole
//
// FreeListAllocator: segregated free lists
//
//   - Min-heap per size class, best fit inside a class
//   - Splits oversized cells when the remainder is at least format.MinCellSize
//   - Coalesces adjacent free cells inside a bin (never across bins)
//   - Best for trees that are updated and overwritten in place
//
// # Usage Example
//
//	h, err := heap.New(heap.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	fa, err := alloc.NewFreeList(h, nil)
//	if err != nil {
//	    return err
//	}
//
//	ref, payload, err := fa.Alloc(format.NodeCellSize, alloc.ClassNode)
//	if err != nil {
//	    return err
//	}
//	copy(payload, format.NodeSignature)
//
//	err = fa.Free(ref)
//
// # Errors
//
// Failure to grow the heap is reported as ErrGrowFail wrapping the heap's
// own error (for example heap.ErrLimit). Callers treat ErrGrowFail and
// ErrNoSpace as resource exhaustion.
package alloc
