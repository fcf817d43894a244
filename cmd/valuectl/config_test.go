package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/valuekit/heap/alloc"
	"github.com/joshuapare/valuekit/printer"
	"github.com/joshuapare/valuekit/tree"
)

func TestLoadConfig(t *testing.T) {
	path := writeDoc(t, "valuectl.toml", `
[heap]
bin_pages = 4
max_size = 1048576

[store]
strategy = "append"
size_classes = "balanced"
compact_text = false

[printer]
format = "json"
compact = true

[document]
widen_integers = false
`)
	c, err := loadConfig(path)
	require.NoError(t, err)

	def := defaultConfig()
	assert.Equal(t, 4, c.Container.Heap.BinPages)
	assert.Equal(t, int64(1<<20), c.Container.Heap.MaxSize)
	assert.Equal(t, def.Container.Heap.PreallocBins, c.Container.Heap.PreallocBins)
	assert.Equal(t, tree.StrategyAppend, c.Container.Store.Strategy)
	assert.Same(t, &alloc.ConfigBalanced, c.Container.Store.SizeClasses)
	assert.False(t, c.Container.Store.CompactText)
	assert.Equal(t, def.Container.Store.MinTableCapacity, c.Container.Store.MinTableCapacity)
	assert.True(t, c.Container.CheckUTF8)
	assert.Equal(t, printer.FormatJSON, c.Container.Printer.Format)
	assert.True(t, c.Container.Printer.Compact)
	assert.Equal(t, printer.DefaultIndentSize, c.Container.Printer.IndentSize)
	assert.False(t, c.Document.WidenIntegers)
	assert.Equal(t, def.Document.MaxDepth, c.Document.MaxDepth)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[heap\n", "load config"},
		{"unknown key", "[heap]\npages = 1\n", `unknown key "heap.pages"`},
		{"bad strategy", "[store]\nstrategy = \"lifo\"\n", "unknown strategy"},
		{"bad classes", "[store]\nsize_classes = \"huge\"\n", "unknown size classes"},
		{"bad format", "[printer]\nformat = \"xml\"\n", "unknown format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeDoc(t, "bad.toml", tt.content))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestDumpOptions_ConfigThenFlags(t *testing.T) {
	resetGlobals(t)
	cfg.Container.Printer.Format = printer.FormatYAML
	cfg.Container.Printer.IndentSize = 4

	cmd := newDumpCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--indent", "3"}))
	opts, err := dumpOptions(cmd)
	require.NoError(t, err)
	assert.Equal(t, printer.FormatYAML, opts.Format)
	assert.Equal(t, 3, opts.IndentSize)
	assert.False(t, opts.Color)
}
