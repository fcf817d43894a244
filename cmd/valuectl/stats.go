package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/joshuapare/valuekit/bridge"
	"github.com/joshuapare/valuekit/heap/alloc"
)

var (
	statsJSON  bool
	statsCells bool
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Show node and storage statistics for a document",
		Long: `The stats command builds a document and reports how many nodes of each kind
it holds and how much arena storage they use.

Example:
  valuectl stats config.json
  valuectl stats config.json --cells --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args[0])
		},
	}
	cmd.Flags().BoolVar(&statsJSON, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&statsCells, "cells", false, "Walk every bin and count cells")
	return cmd
}

type statsReport struct {
	File       string         `json:"file"`
	Nodes      int            `json:"nodes"`
	ByKind     map[string]int `json:"by_kind"`
	HeapBytes  int64          `json:"heap_bytes"`
	Bins       int            `json:"bins"`
	LiveCells  int64          `json:"live_cells"`
	LiveBytes  int64          `json:"live_bytes"`
	FreeCells  int            `json:"free_cells"`
	FreeBytes  int64          `json:"free_bytes"`
	AllocCalls int64          `json:"alloc_calls"`
	Tables     int64          `json:"table_allocs"`
	Texts      int64          `json:"text_allocs"`
	Cells      *cellCounts    `json:"cells,omitempty"`
}

type cellCounts struct {
	Used      int `json:"used"`
	Free      int `json:"free"`
	UsedBytes int `json:"used_bytes"`
	FreeBytes int `json:"free_bytes"`
}

func runStats(path string) error {
	c, err := loadFile(path)
	if err != nil {
		return err
	}
	defer c.Close()

	st := c.Stats()
	r := statsReport{
		File:       path,
		Nodes:      st.Nodes,
		ByKind:     make(map[string]int, len(st.ByKind)),
		HeapBytes:  st.HeapSize,
		Bins:       st.Bins,
		LiveCells:  st.Alloc.LiveCells,
		LiveBytes:  st.Alloc.LiveBytes,
		FreeCells:  st.Alloc.FreeCells,
		FreeBytes:  st.Alloc.FreeBytes,
		AllocCalls: st.Alloc.AllocCalls,
		Tables:     st.Alloc.Allocs(alloc.ClassDictTable) + st.Alloc.Allocs(alloc.ClassListTable),
		Texts:      st.Alloc.Allocs(alloc.ClassText),
	}
	for k, n := range st.ByKind {
		r.ByKind[k.String()] = n
	}
	if statsCells {
		cc, err := countCells(c)
		if err != nil {
			return err
		}
		r.Cells = &cc
	}

	if statsJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	printInfo("File:        %s\n", r.File)
	printInfo("Nodes:       %d\n", r.Nodes)
	kinds := make([]string, 0, len(r.ByKind))
	for k := range r.ByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		printInfo("  %-9s  %d\n", k+":", r.ByKind[k])
	}
	printInfo("Heap:        %d bytes in %d bin(s)\n", r.HeapBytes, r.Bins)
	printInfo("Live cells:  %d (%d bytes)\n", r.LiveCells, r.LiveBytes)
	printInfo("Free cells:  %d (%d bytes)\n", r.FreeCells, r.FreeBytes)
	printInfo("Allocations: %d (%d tables, %d texts)\n", r.AllocCalls, r.Tables, r.Texts)
	if r.Cells != nil {
		printInfo("Cell walk:   %d used (%d bytes), %d free (%d bytes)\n",
			r.Cells.Used, r.Cells.UsedBytes, r.Cells.Free, r.Cells.FreeBytes)
	}
	return nil
}

// countCells walks every bin of the container's heap.
func countCells(c *bridge.Container) (cellCounts, error) {
	var cc cellCounts
	for _, b := range c.Store().Heap().Bins() {
		it := b.Cells()
		for {
			cell, err := it.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return cc, fmt.Errorf("failed to walk cells: %w", err)
			}
			if cell.Free {
				cc.Free++
				cc.FreeBytes += cell.Size
			} else {
				cc.Used++
				cc.UsedBytes += cell.Size
			}
		}
	}
	return cc, nil
}
