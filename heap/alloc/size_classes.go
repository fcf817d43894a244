package alloc

import "math"

// SizeClassConfig defines the allocation size class strategy.
type SizeClassConfig struct {
	// Name for this configuration
	Name string

	// Small allocation settings (linear increments)
	SmallMin       int32 // Minimum allocation size
	SmallMax       int32 // Max for linear increments
	SmallIncrement int32 // Increment size for small allocations

	// Medium allocation settings (logarithmic growth). Cells at or above
	// MediumMax share one overflow class.
	MediumMax    int32
	GrowthFactor float64
}

var (
	// ConfigCompact suits trees of small scalars: nodes are 24 bytes and
	// short strings or keys stay under 64.
	ConfigCompact = SizeClassConfig{
		Name:           "Compact",
		SmallMin:       16,
		SmallMax:       256,
		SmallIncrement: 8,
		MediumMax:      16384,
		GrowthFactor:   1.5,
	}

	// ConfigBalanced trades some internal fragmentation for fewer classes.
	ConfigBalanced = SizeClassConfig{
		Name:           "Balanced",
		SmallMin:       16,
		SmallMax:       512,
		SmallIncrement: 16,
		MediumMax:      16384,
		GrowthFactor:   2.0,
	}

	// DefaultConfig is used when NewFreeList receives nil.
	DefaultConfig = ConfigCompact
)

// sizeClassTable holds the computed size class boundaries.
type sizeClassTable struct {
	config     SizeClassConfig
	boundaries []int32 // Upper bound for each size class
}

func newSizeClassTable(config SizeClassConfig) *sizeClassTable {
	t := &sizeClassTable{
		config:     config,
		boundaries: make([]int32, 0, 64),
	}

	for size := config.SmallMin; size < config.SmallMax; size += config.SmallIncrement {
		t.boundaries = append(t.boundaries, size+config.SmallIncrement-1)
	}

	size := config.SmallMax
	for size < config.MediumMax {
		next := int32(math.Ceil(float64(size) * config.GrowthFactor))
		if next <= size {
			next = size + 1
		}
		t.boundaries = append(t.boundaries, next-1)
		size = next
	}
	return t
}

// classOf returns the size class index for size. Sizes above every boundary
// map to the overflow class, NumClasses().
func (t *sizeClassTable) classOf(size int32) int {
	lo, hi := 0, len(t.boundaries)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		if size <= t.boundaries[mid] {
			if mid == 0 || size > t.boundaries[mid-1] {
				return mid
			}
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}
	return len(t.boundaries)
}

// NumClasses returns the number of bounded size classes (the overflow class
// not included).
func (t *sizeClassTable) NumClasses() int { return len(t.boundaries) }

func (t *sizeClassTable) String() string { return t.config.Name }
