package tree

import "errors"

var (
	// ErrWrongKind indicates an operation on a node of the wrong kind (key
	// access on a list, construct of a non-composite kind as composite, ...).
	ErrWrongKind = errors.New("tree: wrong node kind")

	// ErrInitialized indicates a construct on a slot that is already
	// initialized.
	ErrInitialized = errors.New("tree: slot already initialized")

	// ErrStale indicates a reference to a node that no longer exists.
	ErrStale = errors.New("tree: stale reference")

	// ErrRange indicates a negative position or capacity.
	ErrRange = errors.New("tree: position out of range")

	// ErrCorrupt indicates that node or table bytes failed validation.
	ErrCorrupt = errors.New("tree: corrupt node storage")
)
