package format

import "errors"

var (
	// ErrSignatureMismatch indicates a structure had an unexpected magic.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrFreeCell indicates a free cell was encountered where an allocated one was required.
	ErrFreeCell = errors.New("format: cell not in use")
	// ErrText indicates stored text could not be decoded.
	ErrText = errors.New("format: bad text payload")
)
