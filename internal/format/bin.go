package format

import "fmt"

// BinHeader is the decoded 32-byte header at the start of every bin.
//
//	Offset  Size  Description
//	0x00    4     "vbin"
//	0x04    4     base: virtual offset of the bin's first byte
//	0x08    4     size: total bin size including the header
//	0x0C    20    reserved
type BinHeader struct {
	Base uint32
	Size uint32
}

// ParseBinHeader validates the signature and returns the header fields.
func ParseBinHeader(b []byte) (BinHeader, error) {
	if len(b) < BinHeaderSize {
		return BinHeader{}, fmt.Errorf("bin header: %w", ErrTruncated)
	}
	if !HasSignature(b, BinSignature) {
		return BinHeader{}, fmt.Errorf("bin header: %w", ErrSignatureMismatch)
	}
	h := BinHeader{
		Base: ReadU32(b, BinBaseOffset),
		Size: ReadU32(b, BinSizeOffset),
	}
	if h.Size < BinHeaderSize || h.Size%PageSize != 0 {
		return BinHeader{}, fmt.Errorf("bin header: bad size 0x%X", h.Size)
	}
	return h, nil
}

// PutBinHeader writes a bin header into b.
func PutBinHeader(b []byte, base, size uint32) {
	copy(b[BinSignatureOffset:BinSignatureOffset+BinSignatureSize], BinSignature)
	PutU32(b, BinBaseOffset, base)
	PutU32(b, BinSizeOffset, size)
}
