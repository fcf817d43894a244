package alloc

import "errors"

var (
	// ErrNoSpace indicates that no free cell large enough was found and growth failed.
	ErrNoSpace = errors.New("alloc: no free cell large enough")

	// ErrBadRef indicates an invalid or out-of-bounds cell reference.
	ErrBadRef = errors.New("alloc: bad cell reference")

	// ErrGrowFail indicates that mapping a new bin failed.
	ErrGrowFail = errors.New("alloc: grow failed")

	// ErrDoubleFree indicates an attempt to free a cell that is already free.
	ErrDoubleFree = errors.New("alloc: cell already free")

	// ErrNeedSmall indicates the requested size is too small (must include 4-byte header).
	ErrNeedSmall = errors.New("alloc: need must include header and be >= 4 bytes")
)
