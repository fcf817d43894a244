package format

// Align8 returns n aligned up to the next 8-byte boundary.
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n int) int {
	return (n + CellAlignmentMask) & ^CellAlignmentMask
}

// Align8I32 is Align8 for int32 cell sizes.
func Align8I32(n int32) int32 {
	return (n + CellAlignmentMask) & ^int32(CellAlignmentMask)
}

// AlignPage returns n aligned up to the next page boundary.
//
//	AlignPage(1)    = 4096
//	AlignPage(4096) = 4096
//	AlignPage(4097) = 8192
func AlignPage(n int) int {
	return (n + PageMask) & ^PageMask
}
