package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/joshuapare/valuekit/bridge"
	"github.com/joshuapare/valuekit/heap/alloc"
	"github.com/joshuapare/valuekit/pkg/document"
	"github.com/joshuapare/valuekit/printer"
	"github.com/joshuapare/valuekit/tree"
)

// valuectl config.toml layout. Every key is optional; unset keys keep the
// library defaults.
type fileConfig struct {
	Heap struct {
		BinPages     int   `toml:"bin_pages"`
		PreallocBins int   `toml:"prealloc_bins"`
		MaxSize      int64 `toml:"max_size"`
	} `toml:"heap"`
	Store struct {
		Strategy         string `toml:"strategy"`
		SizeClasses      string `toml:"size_classes"`
		CompactText      bool   `toml:"compact_text"`
		MinTableCapacity int    `toml:"min_table_capacity"`
		CheckUTF8        bool   `toml:"check_utf8"`
	} `toml:"store"`
	Printer struct {
		Format   string `toml:"format"`
		Indent   int    `toml:"indent"`
		Compact  bool   `toml:"compact"`
		MaxDepth int    `toml:"max_depth"`
		Color    bool   `toml:"color"`
	} `toml:"printer"`
	Document struct {
		WidenIntegers bool `toml:"widen_integers"`
		MaxDepth      int  `toml:"max_depth"`
	} `toml:"document"`
}

type config struct {
	Container bridge.Options
	Document  document.Options
}

func defaultConfig() config {
	return config{
		Container: bridge.DefaultOptions(),
		Document:  document.DefaultOptions(),
	}
}

// loadConfig reads a TOML file and overlays the keys it defines onto the
// defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	h := &cfg.Container.Heap
	if meta.IsDefined("heap", "bin_pages") {
		h.BinPages = raw.Heap.BinPages
	}
	if meta.IsDefined("heap", "prealloc_bins") {
		h.PreallocBins = raw.Heap.PreallocBins
	}
	if meta.IsDefined("heap", "max_size") {
		h.MaxSize = raw.Heap.MaxSize
	}

	st := &cfg.Container.Store
	if meta.IsDefined("store", "strategy") {
		s, ok := tree.ParseStrategy(strings.TrimSpace(raw.Store.Strategy))
		if !ok {
			return config{}, fmt.Errorf("load config: unknown strategy %q", raw.Store.Strategy)
		}
		st.Strategy = s
	}
	if meta.IsDefined("store", "size_classes") {
		switch strings.ToLower(strings.TrimSpace(raw.Store.SizeClasses)) {
		case "compact":
			st.SizeClasses = &alloc.ConfigCompact
		case "balanced":
			st.SizeClasses = &alloc.ConfigBalanced
		default:
			return config{}, fmt.Errorf("load config: unknown size classes %q", raw.Store.SizeClasses)
		}
	}
	if meta.IsDefined("store", "compact_text") {
		st.CompactText = raw.Store.CompactText
	}
	if meta.IsDefined("store", "min_table_capacity") {
		st.MinTableCapacity = raw.Store.MinTableCapacity
	}
	if meta.IsDefined("store", "check_utf8") {
		cfg.Container.CheckUTF8 = raw.Store.CheckUTF8
	}

	p := &cfg.Container.Printer
	if meta.IsDefined("printer", "format") {
		f, err := printer.ParseFormat(strings.TrimSpace(raw.Printer.Format))
		if err != nil {
			return config{}, fmt.Errorf("load config: %w", err)
		}
		p.Format = f
	}
	if meta.IsDefined("printer", "indent") {
		p.IndentSize = raw.Printer.Indent
	}
	if meta.IsDefined("printer", "compact") {
		p.Compact = raw.Printer.Compact
	}
	if meta.IsDefined("printer", "max_depth") {
		p.MaxDepth = raw.Printer.MaxDepth
	}
	if meta.IsDefined("printer", "color") {
		p.Color = raw.Printer.Color
	}

	if meta.IsDefined("document", "widen_integers") {
		cfg.Document.WidenIntegers = raw.Document.WidenIntegers
	}
	if meta.IsDefined("document", "max_depth") {
		cfg.Document.MaxDepth = raw.Document.MaxDepth
	}
	return cfg, nil
}
