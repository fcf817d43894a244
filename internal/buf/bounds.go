package buf

import (
	"errors"
	"fmt"
	"math"
)

// ErrBounds is wrapped by every bounds failure reported by this package.
var ErrBounds = errors.New("buf: out of bounds")

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOverflowSafe multiplies two non-negative ints, returning ok = false on
// overflow or when either operand is negative. Table sizes are always
// count * entrySize with both sides non-negative.
func MulOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// CheckTableBounds validates that count entries of entrySize bytes fit in a
// buffer of bufLen bytes starting at offset, and returns the end offset.
//
//	end, err := buf.CheckTableBounds(len(payload), format.TableEntriesOffset, n, format.DictEntrySize)
//	if err != nil {
//	    return fmt.Errorf("dict table: %w", err)
//	}
func CheckTableBounds(bufLen, offset, count, entrySize int) (int, error) {
	if offset < 0 || count < 0 || entrySize < 0 {
		return 0, fmt.Errorf("%w: negative input (off=%d count=%d size=%d)",
			ErrBounds, offset, count, entrySize)
	}
	total, ok := MulOverflowSafe(count, entrySize)
	if !ok {
		return 0, fmt.Errorf("%w: overflow count=%d * size=%d", ErrBounds, count, entrySize)
	}
	end, ok := AddOverflowSafe(offset, total)
	if !ok {
		return 0, fmt.Errorf("%w: overflow offset=%d + size=%d", ErrBounds, offset, total)
	}
	if end > bufLen {
		return 0, fmt.Errorf("%w: end=%d > len=%d", ErrBounds, end, bufLen)
	}
	return end, nil
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b). The
// result's capacity ends at off+n.
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end:end], true
}
