package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlign(t *testing.T) {
	require.Equal(t, 8, Align8(1))
	require.Equal(t, 8, Align8(8))
	require.Equal(t, 16, Align8(9))
	require.Equal(t, int32(24), Align8I32(20))
	require.Equal(t, PageSize, AlignPage(1))
	require.Equal(t, 2*PageSize, AlignPage(PageSize+1))
}

func TestParseCell(t *testing.T) {
	b := make([]byte, 32)
	PutI32(b, 0, -24)
	copy(b[CellHeaderSize:], NodeSignature)

	c, err := ParseCell(b)
	require.NoError(t, err)
	require.False(t, c.Free)
	require.Equal(t, 24, c.Size)
	require.Equal(t, [2]byte{'n', 'd'}, c.Tag)
	require.Len(t, c.Data, 20)

	PutI32(b, 0, 24)
	c, err = ParseCell(b)
	require.NoError(t, err)
	require.True(t, c.Free)
	require.Equal(t, [2]byte{}, c.Tag, "free cells carry no tag")

	PutI32(b, 0, -64)
	_, err = ParseCell(b)
	require.ErrorIs(t, err, ErrTruncated)

	PutI32(b, 0, 0)
	_, err = ParseCell(b)
	require.Error(t, err)
}

func TestNextCellWalk(t *testing.T) {
	bin := make([]byte, PageSize)
	PutBinHeader(bin, 0, PageSize)
	PutI32(bin, BinHeaderSize, -32)
	PutI32(bin, BinHeaderSize+32, int32(PageSize-BinHeaderSize-32))

	c, next, err := NextCell(bin, BinHeaderSize)
	require.NoError(t, err)
	require.Equal(t, BinHeaderSize, c.Offset)
	require.Equal(t, BinHeaderSize+32, next)

	c, next, err = NextCell(bin, next)
	require.NoError(t, err)
	require.True(t, c.Free)
	require.Equal(t, PageSize, next)

	_, _, err = NextCell(bin, 4)
	require.ErrorIs(t, err, ErrTruncated, "offsets inside the bin header are rejected")
}

func TestBinHeader(t *testing.T) {
	b := make([]byte, BinHeaderSize)
	PutBinHeader(b, 0x3000, 2*PageSize)

	h, err := ParseBinHeader(b)
	require.NoError(t, err)
	require.Equal(t, uint32(0x3000), h.Base)
	require.Equal(t, uint32(2*PageSize), h.Size)

	b[0] = 'x'
	_, err = ParseBinHeader(b)
	require.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestEncodeText(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		compact   bool
		wantFlags uint8
		wantLen   int
	}{
		{name: "ascii stays utf8", in: "hello", compact: true, wantFlags: 0, wantLen: 5},
		{name: "latin1 compacts", in: "café", compact: true, wantFlags: FlagCompactText, wantLen: 4},
		{name: "euro sign compacts", in: "5€", compact: true, wantFlags: FlagCompactText, wantLen: 2},
		{name: "cjk falls back", in: "日本", compact: true, wantFlags: 0, wantLen: 6},
		{name: "compaction disabled", in: "café", compact: false, wantFlags: 0, wantLen: 5},
		{name: "empty", in: "", compact: true, wantFlags: 0, wantLen: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, flags := EncodeText(tt.in, tt.compact)
			require.Equal(t, tt.wantFlags, flags)
			require.Len(t, data, tt.wantLen)

			out, err := DecodeText(data, flags)
			require.NoError(t, err)
			require.Equal(t, tt.in, out)
		})
	}
}

func TestCheckTable(t *testing.T) {
	payload := make([]byte, TableEntriesOffset+4*DictEntrySize)
	copy(payload, DictTableSignature)
	PutU32(payload, TableCapOffset, 4)
	require.NoError(t, CheckTable(payload, DictTableSignature, DictEntrySize))
	require.ErrorIs(t, CheckTable(payload, ListTableSignature, ListEntrySize), ErrSignatureMismatch)

	PutU32(payload, TableCapOffset, 5)
	require.ErrorIs(t, CheckTable(payload, DictTableSignature, DictEntrySize), ErrTruncated)
}

func TestCellSizes(t *testing.T) {
	require.Equal(t, int32(24), NodeCellSize)
	require.Equal(t, int32(16), TextCellSize(3))
	require.Equal(t, int32(24), TextCellSize(5))
	require.Equal(t, int32(16), TableCellSize(1, ListEntrySize))
	require.Equal(t, int32(48), TableCellSize(4, DictEntrySize))
}

func TestCheckText(t *testing.T) {
	p := make([]byte, TextCellSize(5)-CellHeaderSize)
	copy(p, TextSignature)
	PutU32(p, TextLenOffset, 5)
	require.NoError(t, CheckText(p))

	PutU32(p, TextLenOffset, 64)
	require.ErrorIs(t, CheckText(p), ErrTruncated)

	copy(p, NodeSignature)
	require.ErrorIs(t, CheckText(p), ErrSignatureMismatch)
	require.ErrorIs(t, CheckText(p[:4]), ErrTruncated)
}
