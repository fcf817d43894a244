package document

// DefaultMaxDepth bounds nesting so that hostile input cannot exhaust the
// goroutine stack.
const DefaultMaxDepth = 512

// Options controls how documents are checked.
type Options struct {
	// WidenIntegers stores integers outside the int32 range as doubles.
	// When false such integers fail with ErrRange.
	// Default: true
	WidenIntegers bool

	// MaxDepth is the deepest nesting accepted (0 = DefaultMaxDepth).
	MaxDepth int
}

// DefaultOptions returns the recommended options.
func DefaultOptions() Options {
	return Options{WidenIntegers: true, MaxDepth: DefaultMaxDepth}
}
