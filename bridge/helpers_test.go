package bridge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/valuekit/internal/format"
)

func compactOptions() Options {
	opts := DefaultOptions()
	opts.Printer.Compact = true
	return opts
}

func newTestContainer(t *testing.T, opts Options) *Container {
	t.Helper()
	c, err := NewContainer(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// smallOptions caps the heap at one page so exhaustion is easy to reach.
func smallOptions() Options {
	opts := compactOptions()
	opts.Heap.MaxSize = format.PageSize
	return opts
}
