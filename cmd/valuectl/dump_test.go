package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/valuekit/printer"
	"github.com/joshuapare/valuekit/value"
)

const sampleJSON = `{"name": "demo", "count": 3, "items": ["a", "b"], "meta": {"ok": true}}`

func TestDumpCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{
			name: "text",
			want: "{\n  \"name\": \"demo\",\n  \"count\": 3,\n  \"items\": [\n    \"a\",\n    \"b\"\n  ],\n  \"meta\": {\n    \"ok\": true\n  }\n}\n",
		},
		{
			name: "compact text",
			args: []string{"--compact"},
			want: `{"name": "demo", "count": 3, "items": ["a", "b"], "meta": {"ok": true}}` + "\n",
		},
		{
			name: "compact json",
			args: []string{"--format", "json", "--compact"},
			want: `{"name":"demo","count":3,"items":["a","b"],"meta":{"ok":true}}` + "\n",
		},
		{
			name: "depth limit",
			args: []string{"--compact", "--depth", "1"},
			want: `{"name": "demo", "count": 3, "items": [...], "meta": {...}}` + "\n",
		},
		{
			name:    "bad format",
			args:    []string{"--format", "xml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobals(t)
			path := writeDoc(t, "doc.json", sampleJSON)

			cmd := newDumpCmd()
			require.NoError(t, cmd.ParseFlags(tt.args))
			opts, err := dumpOptions(cmd)
			if tt.wantErr {
				assert.ErrorIs(t, err, printer.ErrFormat)
				return
			}
			require.NoError(t, err)

			out, err := captureOutput(t, func() error { return runDump([]string{path}, opts) })
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestDumpCommand_MultipleFilesInOrder(t *testing.T) {
	resetGlobals(t)
	var paths []string
	for _, doc := range []string{`[1]`, `a: b`, `"three"`, `{"x": null}`} {
		paths = append(paths, writeDoc(t, "doc.yaml", doc))
	}
	dumpJobs = 2

	opts := printer.DefaultOptions()
	opts.Compact = true
	out, err := captureOutput(t, func() error { return runDump(paths, opts) })
	require.NoError(t, err)

	want := "==> " + paths[0] + " <==\n[1]\n\n" +
		"==> " + paths[1] + " <==\n{\"a\": \"b\"}\n\n" +
		"==> " + paths[2] + " <==\n\"three\"\n\n" +
		"==> " + paths[3] + " <==\n{\"x\": null}\n"
	assert.Equal(t, want, out)
}

func TestDumpCommand_Errors(t *testing.T) {
	resetGlobals(t)
	good := writeDoc(t, "good.json", `{}`)
	bad := writeDoc(t, "bad.json", `{"a": `)

	_, err := captureOutput(t, func() error {
		return runDump([]string{good, bad}, printer.DefaultOptions())
	})
	assert.ErrorContains(t, err, "failed to load")

	_, err = captureOutput(t, func() error {
		return runDump([]string{good + ".missing"}, printer.DefaultOptions())
	})
	assert.ErrorContains(t, err, "failed to read")
}

func TestDumpCommand_HeapLimit(t *testing.T) {
	resetGlobals(t)
	cfg.Container.Heap.MaxSize = 4096

	doc := "["
	for i := 0; i < 500; i++ {
		if i > 0 {
			doc += ","
		}
		doc += `"a string that does not fit in one page many times over"`
	}
	doc += "]"
	path := writeDoc(t, "big.json", doc)

	_, err := captureOutput(t, func() error { return runDump([]string{path}, printer.DefaultOptions()) })
	assert.ErrorIs(t, err, value.ErrExhausted)
}
