// Package mmfile provides platform-specific helpers for mapping arena memory.
//
// On linux, darwin and freebsd, bins are anonymous private mappings obtained
// with mmap(2). Elsewhere they fall back to ordinary byte slices.
package mmfile
