// Package document loads JSON and YAML documents into value trees.
//
// Decode parses the input preserving key order, Normalize checks it against
// what the tree can hold, and Build replays it through the construction
// protocol:
//
//	doc, err := document.Decode(data)
//	if err != nil {
//		return err
//	}
//	err = c.Build(func(root value.Slot) {
//		buildErr = document.Build(root, doc, document.DefaultOptions())
//	})
//
// Load does all of this against a bridge.Container.
package document
