package format

import (
	"fmt"

	"github.com/joshuapare/valuekit/internal/buf"
)

// NodeCellSize is the aligned cell size (header included) of every node.
const NodeCellSize = int32((CellHeaderSize + NodeFixedPayloadSize + CellAlignmentMask) &^ CellAlignmentMask)

// TableCellSize returns the aligned cell size for a table holding capacity
// entries of entrySize bytes.
func TableCellSize(capacity, entrySize int) int32 {
	return int32(Align8(CellHeaderSize + TableEntriesOffset + capacity*entrySize))
}

// TextCellSize returns the aligned cell size for textLen stored bytes.
func TextCellSize(textLen int) int32 {
	return int32(Align8(CellHeaderSize + TextFixedPayloadSize + textLen))
}

// CheckNode verifies that payload is an allocated node cell payload.
func CheckNode(payload []byte) error {
	if len(payload) < NodeFixedPayloadSize {
		return fmt.Errorf("node: %w", ErrTruncated)
	}
	if !HasSignature(payload, NodeSignature) {
		return fmt.Errorf("node: %w", ErrSignatureMismatch)
	}
	return nil
}

// CheckText verifies that payload is a text cell whose declared length fits.
func CheckText(payload []byte) error {
	if len(payload) < TextFixedPayloadSize {
		return fmt.Errorf("text: %w", ErrTruncated)
	}
	if !HasSignature(payload, TextSignature) {
		return fmt.Errorf("text: %w", ErrSignatureMismatch)
	}
	if n := int(ReadU32(payload, TextLenOffset)); TextDataOffset+n > len(payload) {
		return fmt.Errorf("text: length %d exceeds cell: %w", n, ErrTruncated)
	}
	return nil
}

// CheckTable verifies that payload is a table of the expected signature whose
// declared capacity fits the cell.
func CheckTable(payload, sig []byte, entrySize int) error {
	if len(payload) < TableEntriesOffset {
		return fmt.Errorf("table: %w", ErrTruncated)
	}
	if !HasSignature(payload, sig) {
		return fmt.Errorf("table: %w", ErrSignatureMismatch)
	}
	capacity := int(ReadU32(payload, TableCapOffset))
	if _, err := buf.CheckTableBounds(len(payload), TableEntriesOffset, capacity, entrySize); err != nil {
		return fmt.Errorf("table: capacity %d: %w: %w", capacity, ErrTruncated, err)
	}
	return nil
}
