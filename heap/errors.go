package heap

import "errors"

var (
	// ErrClosed indicates the heap has been closed and its bins unmapped.
	ErrClosed = errors.New("heap: closed")

	// ErrBadRef indicates a reference that does not point at a cell header
	// inside a mapped bin.
	ErrBadRef = errors.New("heap: bad cell reference")

	// ErrLimit indicates that growing the heap would exceed Options.MaxSize.
	ErrLimit = errors.New("heap: size limit reached")
)
