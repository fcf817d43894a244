package tree

import (
	"fmt"

	"github.com/joshuapare/valuekit/heap/alloc"
	"github.com/joshuapare/valuekit/internal/format"
)

// maxTextLen keeps text cell sizes within an int32.
const maxTextLen = 1<<31 - 1 - format.CellHeaderSize - format.TextFixedPayloadSize - format.CellAlignment

// newText stores str in a text cell.
func (s *Store) newText(str string) (CellRef, error) {
	data, flags := format.EncodeText(str, s.opts.CompactText)
	if len(data) > maxTextLen {
		return 0, fmt.Errorf("%w: text of %d bytes", alloc.ErrNoSpace, len(data))
	}
	cell, p, err := s.a.Alloc(format.TextCellSize(len(data)), alloc.ClassText)
	if err != nil {
		return 0, err
	}
	copy(p, format.TextSignature)
	p[format.TextFlagsOffset] = flags
	format.PutU32(p, format.TextLenOffset, uint32(len(data)))
	copy(p[format.TextDataOffset:], data)
	return cell, nil
}

// readText decodes the text cell at cell back into a string.
func (s *Store) readText(cell CellRef) (string, error) {
	p, err := s.h.Payload(cell)
	if err != nil {
		return "", fmt.Errorf("%w: text 0x%X: %w", ErrCorrupt, cell, err)
	}
	if err := format.CheckText(p); err != nil {
		return "", fmt.Errorf("%w: text 0x%X: %w", ErrCorrupt, cell, err)
	}
	n := int(format.ReadU32(p, format.TextLenOffset))
	str, err := format.DecodeText(p[format.TextDataOffset:format.TextDataOffset+n], p[format.TextFlagsOffset])
	if err != nil {
		return "", fmt.Errorf("%w: text 0x%X: %w", ErrCorrupt, cell, err)
	}
	return str, nil
}
