// Package format houses the low-level cell layouts used by the value arena.
// It knows nothing about construction passes or handles; higher-level
// packages (heap, tree) orchestrate the bytes into nodes.
package format

var (
	// BinSignature is the four-byte signature at the start of every bin.
	// Layout:
	//   0x00  'v' 'b' 'i' 'n'
	BinSignature = []byte{'v', 'b', 'i', 'n'}

	// NodeSignature identifies a node cell payload.
	NodeSignature = []byte{'n', 'd'}

	// DictTableSignature and ListTableSignature identify the child tables
	// hanging off composite nodes. Dict tables hold (key, child) pairs, list
	// tables hold child refs only.
	DictTableSignature = []byte{'d', 't'}
	ListTableSignature = []byte{'l', 't'}

	// TextSignature identifies a text cell: a dict key or the bytes of a
	// string node.
	TextSignature = []byte{'t', 'x'}
)

const (
	// PageSize is the growth unit of the arena. Bins are always a whole
	// number of pages.
	PageSize = 0x1000

	// PageMask is the bitmask used for aligning to PageSize.
	PageMask = PageSize - 1

	// BinHeaderSize is the size of the bin header in bytes. Cells start
	// immediately after it.
	BinHeaderSize = 0x20

	// Bin header field offsets.
	BinSignatureOffset = 0x00
	BinSignatureSize   = 4
	BinBaseOffset      = 0x04 // virtual offset of the bin's first byte
	BinSizeOffset      = 0x08 // total bin size including header

	// CellHeaderSize is the number of bytes used by the signed size header
	// preceding every cell. Negative size => allocated, positive => free.
	CellHeaderSize = 4

	// CellAlignment is the required alignment of cells within bins.
	CellAlignment = 8

	// CellAlignmentMask is CellAlignment - 1.
	CellAlignmentMask = CellAlignment - 1

	// MinCellSize is the smallest cell worth tracking on a free list.
	MinCellSize = 16

	// SignatureSize is the size of the two-byte tag at the start of every
	// allocated payload.
	SignatureSize = 2

	// InvalidRef marks an absent cell reference (no table yet, list gap).
	InvalidRef = 0xFFFFFFFF
)

// Node payload layout. Every node cell has the same size, so an empty slot
// can be constructed into any kind in place.
//
//	Offset  Size  Description
//	0x00    2     "nd"
//	0x02    1     kind tag (NodeKind*)
//	0x03    1     reserved
//	0x04    4     generation
//	0x08    8     scalar: bool (1 byte), int32, or float64 bits
//	0x08    4     composite: child count
//	0x0C    4     composite: table ref (InvalidRef until first child/reserve)
//	0x0C    4     string: text cell ref
const (
	NodeKindOffset       = 0x02
	NodeGenOffset        = 0x04
	NodeScalarOffset     = 0x08
	NodeCountOffset      = 0x08
	NodeTableOffset      = 0x0C
	NodeTextOffset       = 0x0C
	NodeFixedPayloadSize = 0x10
)

// Node kind tags as stored at NodeKindOffset. Zeroed memory reads as
// NodeKindEmpty, which is the state of a freshly allocated slot.
const (
	NodeKindEmpty   uint8 = 0x00
	NodeKindNull    uint8 = 0x01
	NodeKindBool    uint8 = 0x02
	NodeKindInteger uint8 = 0x03
	NodeKindDouble  uint8 = 0x04
	NodeKindString  uint8 = 0x05
	NodeKindDict    uint8 = 0x06
	NodeKindList    uint8 = 0x07
)

// FlagCompactText marks text payloads stored as Windows-1252 rather than
// UTF-8.
const FlagCompactText uint8 = 0x01

// Table payload layout (dict and list).
//
//	Offset  Size  Description
//	0x00    2     "dt" or "lt"
//	0x02    2     reserved
//	0x04    4     capacity in entries
//	0x08    ...   entries
const (
	TableCapOffset     = 0x04
	TableEntriesOffset = 0x08

	// DictEntrySize is one (key ref, child ref) pair.
	DictEntrySize        = 8
	DictEntryKeyOffset   = 0x00
	DictEntryChildOffset = 0x04

	// ListEntrySize is one child ref. InvalidRef entries are implicit nulls.
	ListEntrySize = 4
)

// Text payload layout (dict keys and string node bytes).
//
//	Offset  Size  Description
//	0x00    2     "tx"
//	0x02    1     flags (FlagCompactText)
//	0x03    1     reserved
//	0x04    4     stored byte length
//	0x08    n     text bytes
const (
	TextFlagsOffset      = 0x02
	TextLenOffset        = 0x04
	TextDataOffset       = 0x08
	TextFixedPayloadSize = 0x08
)
