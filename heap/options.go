package heap

import (
	"math"

	"github.com/joshuapare/valuekit/internal/format"
)

const (
	// DefaultMaxSize is the default cap on mapped bytes (1 GiB).
	DefaultMaxSize = 1 << 30

	// maxAddressable is the largest heap whose refs still fit a uint32 while
	// leaving format.InvalidRef unused.
	maxAddressable = math.MaxUint32 - format.PageSize
)

// Options configures a Heap.
type Options struct {
	// BinPages is the minimum number of 4 KiB pages mapped per bin. Larger
	// bins mean fewer mappings for big trees.
	// Default: 1
	BinPages int

	// PreallocBins maps this many bins eagerly in New.
	// Default: 0 (map on first allocation)
	PreallocBins int

	// MaxSize caps the total mapped size in bytes. Growth beyond it fails
	// with ErrLimit, which the construction protocol reports as resource
	// exhaustion.
	// Default: DefaultMaxSize
	MaxSize int64
}

// DefaultOptions returns the recommended heap options.
func DefaultOptions() Options {
	return Options{
		BinPages:     1,
		PreallocBins: 0,
		MaxSize:      DefaultMaxSize,
	}
}

func (o Options) normalized() Options {
	if o.BinPages <= 0 {
		o.BinPages = 1
	}
	if o.PreallocBins < 0 {
		o.PreallocBins = 0
	}
	if o.MaxSize <= 0 {
		o.MaxSize = DefaultMaxSize
	}
	if o.MaxSize > maxAddressable {
		o.MaxSize = maxAddressable
	}
	return o
}
