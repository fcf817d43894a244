// Package tree is the node runtime that lives inside a heap.Heap.
//
// A Store owns every node of one value tree. Nodes are fixed-size cells
// whose kind is one of Null, Bool, Integer, Double, String, Dict or List,
// plus the Empty state of a slot that has been allocated but not yet
// constructed. Dicts and lists keep their children in a separate table cell
// that is reallocated (doubling) as they grow; node cells themselves never
// move, so a Ref stays valid for as long as its node is alive.
//
// # References
//
// A Ref pairs a cell with the generation stamped into the node when it was
// allocated. Generations are unique per store and never reused, so a Ref to
// a node that has been discarded or overwritten is reported as ErrStale
// instead of silently aliasing whatever now occupies the cell.
//
// # Overwrites
//
// Setting a key or position that already holds a child allocates the new
// child first, then discards the old child's entire subtree. A dict key keeps
// the position of its first insertion.
//
// # Lists
//
// Setting a position beyond the current length extends the list; skipped
// positions are stored as format.InvalidRef and read back as Null.
//
// # Thread Safety
//
// Store is not thread-safe. All calls for one tree must come from a single
// goroutine, or be serialized by the caller.
package tree
