// Package bridge connects the safe-side protocol in package value to the
// node runtime in package tree.
//
// Adapter is the call-marshaling layer: it implements value.Backend by
// turning handles into tree references, checking text arguments are UTF-8,
// and translating storage errors into the protocol's two failure classes.
// Exhaustion errors (alloc.ErrNoSpace, alloc.ErrGrowFail, heap.ErrLimit)
// panic with *value.Exhaustion; anything else panics with *value.Violation.
// The adapter keeps no policy of its own: overwrite, gap fill and
// reservation all happen in the tree.
//
// Recorder wraps any backend and records calls in the order they were
// issued, logging each one at debug level.
//
// Container is the top-level provider. It owns a heap, a store and the root
// slot, runs construction passes, and discards the partial tree when a pass
// runs out of storage.
//
// Example:
//
//	c, err := bridge.NewContainer(bridge.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	err = c.Build(func(root value.Slot) {
//	    d := root.ConstructDict()
//	    d.SetString("name", "valuekit")
//	})
//	fmt.Println(c.String())
package bridge
