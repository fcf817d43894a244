//go:build !linux && !darwin && !freebsd

package mmfile

import "fmt"

// MapAnon allocates size zeroed bytes when anonymous mmap is not available.
// Go never relocates heap objects, so the slice still keeps a stable address
// for as long as it is referenced.
func MapAnon(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("mmfile: invalid mapping size %d", size)
	}
	data := make([]byte, size)
	return data, func() error { data = nil; return nil }, nil
}

// Anonymous reports whether MapAnon is backed by real anonymous mappings.
const Anonymous = false
