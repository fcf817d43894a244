package format

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/joshuapare/valuekit/internal/buf"
)

// Cell represents a single allocation (free or in-use) within a bin.
//
// Cell header layout (little-endian):
//
//	Offset  Size  Description
//	0x00    4     Signed size. Negative => allocated, positive => free.
//	              The absolute value includes the 4-byte header.
//	0x04    ...   Payload. First two bytes form the record tag when allocated.
type Cell struct {
	Offset int  // Offset relative to the start of the bin
	Size   int  // Total size including header
	Free   bool // True when the cell is marked as free
	Tag    [SignatureSize]byte
	Data   []byte // Payload bytes (alias of the bin)
}

// NextCell decodes the cell at off within bin (a whole bin including its
// header) and returns the cell plus the offset of the following cell.
func NextCell(bin []byte, off int) (Cell, int, error) {
	if off < BinHeaderSize || off+CellHeaderSize > len(bin) {
		return Cell{}, 0, fmt.Errorf("cell at %d: %w", off, ErrTruncated)
	}
	c, err := ParseCell(bin[off:])
	if err != nil {
		return Cell{}, 0, fmt.Errorf("cell at %d: %w", off, err)
	}
	c.Offset = off
	return c, off + c.Size, nil
}

// ParseCell decodes the cell whose header starts at b[0].
func ParseCell(b []byte) (Cell, error) {
	if len(b) < CellHeaderSize {
		return Cell{}, ErrTruncated
	}
	raw := buf.I32LE(b)
	if raw == 0 {
		return Cell{}, errors.New("cell: zero length")
	}
	allocated := raw < 0
	size := int(raw)
	if allocated {
		size = -size
	}
	if size < CellHeaderSize || size > len(b) {
		return Cell{}, ErrTruncated
	}
	payload := b[CellHeaderSize:size]
	var tag [SignatureSize]byte
	if allocated && len(payload) >= SignatureSize {
		tag[0], tag[1] = payload[0], payload[1]
	}
	return Cell{
		Size: size,
		Free: !allocated,
		Tag:  tag,
		Data: payload,
	}, nil
}

// HasSignature reports whether payload starts with sig.
func HasSignature(payload, sig []byte) bool {
	return len(payload) >= len(sig) && bytes.Equal(payload[:len(sig)], sig)
}
