package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCommand(t *testing.T) {
	resetGlobals(t)
	path := writeDoc(t, "doc.json", sampleJSON)

	out, err := captureOutput(t, func() error { return runStats(path) })
	require.NoError(t, err)
	assertContains(t, out, []string{
		"Nodes:       8",
		"dict:      2",
		"list:      1",
		"string:    3",
		"integer:   1",
		"bool:      1",
		"in 1 bin(s)",
	})
}

func TestStatsCommand_JSONWithCells(t *testing.T) {
	resetGlobals(t)
	statsJSON, statsCells = true, true
	path := writeDoc(t, "doc.json", sampleJSON)

	out, err := captureOutput(t, func() error { return runStats(path) })
	require.NoError(t, err)

	var r statsReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, 8, r.Nodes)
	assert.Equal(t, 2, r.ByKind["dict"])
	require.NotNil(t, r.Cells)
	assert.EqualValues(t, r.LiveCells, r.Cells.Used)
	assert.EqualValues(t, r.LiveBytes, r.Cells.UsedBytes)
	assert.EqualValues(t, r.HeapBytes, r.Cells.UsedBytes+r.Cells.FreeBytes+32*r.Bins)
}
