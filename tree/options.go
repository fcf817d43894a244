package tree

import "github.com/joshuapare/valuekit/heap/alloc"

// Strategy selects the allocator behind a Store.
type Strategy int

const (
	// StrategyReuse recycles the cells of discarded subtrees
	// (alloc.FreeListAllocator). Best for trees that are overwritten.
	StrategyReuse Strategy = iota

	// StrategyAppend never reuses cells (alloc.BumpAllocator). Best for
	// build-once trees.
	StrategyAppend
)

func (s Strategy) String() string {
	switch s {
	case StrategyReuse:
		return "reuse"
	case StrategyAppend:
		return "append"
	default:
		return "unknown"
	}
}

// ParseStrategy converts "reuse" or "append" into a Strategy.
func ParseStrategy(name string) (Strategy, bool) {
	switch name {
	case "reuse", "":
		return StrategyReuse, true
	case "append":
		return StrategyAppend, true
	default:
		return 0, false
	}
}

// Options configures a Store.
type Options struct {
	// Strategy selects the cell allocator.
	// Default: StrategyReuse
	Strategy Strategy

	// SizeClasses configures the free-list allocator. Nil uses
	// alloc.DefaultConfig. Ignored for StrategyAppend.
	SizeClasses *alloc.SizeClassConfig

	// CompactText stores keys and strings as Windows-1252 when that is
	// shorter and lossless.
	// Default: true
	CompactText bool

	// MinTableCapacity is the capacity of the first child table of a dict
	// or list.
	// Default: 4
	MinTableCapacity int
}

// DefaultOptions returns the recommended store options.
func DefaultOptions() Options {
	return Options{
		Strategy:         StrategyReuse,
		CompactText:      true,
		MinTableCapacity: 4,
	}
}

func (o Options) normalized() Options {
	if o.MinTableCapacity <= 0 {
		o.MinTableCapacity = 1
	}
	return o
}
