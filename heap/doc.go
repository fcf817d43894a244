// Package heap is the arena that physically owns value storage.
//
// # Overview
//
// A Heap is a list of bins. Every bin is a separate page-aligned mapping
// (anonymous mmap on linux/darwin/freebsd) that is never resized, moved or
// compacted once created. Growing the heap always appends a new bin, so a
// cell, once allocated, keeps the same address for the lifetime of the heap.
// This is what makes references handed across the construction boundary
// pinned.
//
// # Cell References
//
// Bins are laid out back to back in a virtual uint32 address space. The first
// bin starts at virtual offset 0, the next at the end of the first, and so on.
// A CellRef is the virtual offset of a cell header:
//
//	CellRef = bin.Base() + offset-within-bin
//
// Offsets inside the 32-byte bin header are never valid refs, so 0 is never a
// live reference. format.InvalidRef (0xFFFFFFFF) marks absent references.
//
// # Layout
//
//	bin:  [ "vbin" | base | size | reserved ][ cell ][ cell ] ... [ free cell ]
//	cell: [ int32 size (negative = allocated) ][ payload ]
//
// Cells are 8-byte aligned and never cross bins. The heap itself does not hand
// out cells; see package heap/alloc.
//
// # Thread Safety
//
// Heap instances are not thread-safe. A heap belongs to exactly one
// construction pass at a time.
package heap
