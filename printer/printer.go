// Package printer renders value trees stored in a tree.Store.
//
// Three formats are supported: a JSON-like debug text (the default, used by
// dumps and tests), strict JSON, and YAML. Dict entries are always printed in
// insertion order and list elements in index order.
package printer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joshuapare/valuekit/tree"
)

const (
	DefaultIndentSize = 2
	DefaultMaxDepth   = 0
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs the debug text form.
	FormatText Format = "text"

	// FormatJSON outputs strict JSON.
	FormatJSON Format = "json"

	// FormatYAML outputs YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat converts a format name into a Format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrFormat, name)
	}
}

var (
	// ErrFormat indicates an unknown output format.
	ErrFormat = errors.New("printer: unknown format")

	// ErrNonFinite indicates a NaN or infinite double, which JSON cannot
	// represent.
	ErrNonFinite = errors.New("printer: non-finite double")
)

// Options controls printing behavior.
type Options struct {
	// Format specifies the output format.
	// Default: FormatText
	Format Format

	// IndentSize is the number of spaces per indent level.
	// Default: 2
	IndentSize int

	// Compact prints text and JSON on a single line.
	// Default: false
	Compact bool

	// MaxDepth limits recursion depth (0 = unlimited). Deeper composites
	// print as {...} or [...] (text format only).
	// Default: 0
	MaxDepth int

	// Color highlights the text format with ANSI colors.
	// Default: false
	Color bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:     FormatText,
		IndentSize: DefaultIndentSize,
		MaxDepth:   DefaultMaxDepth,
	}
}

// Reader is the read side of a value tree. *tree.Store implements it.
type Reader interface {
	Stat(cell tree.CellRef) (tree.NodeInfo, error)
	Entries(cell tree.CellRef) ([]tree.Entry, error)
	Elements(cell tree.CellRef) ([]tree.CellRef, error)
}

// Printer handles formatted output of value trees.
type Printer struct {
	opts   Options
	writer io.Writer
	reader Reader
	pal    palette
}

// New creates a new Printer.
//
// Example:
//
//	p := printer.New(store, os.Stdout, printer.DefaultOptions())
//	p.Print(root.Cell)
func New(r Reader, w io.Writer, opts Options) *Printer {
	if opts.IndentSize < 0 {
		opts.IndentSize = 0
	}
	return &Printer{
		reader: r,
		writer: w,
		opts:   opts,
		pal:    newPalette(opts.Color),
	}
}

// Print renders the subtree rooted at cell followed by a newline.
func (p *Printer) Print(cell tree.CellRef) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printJSON(cell)
	case FormatYAML:
		return p.printYAML(cell)
	case FormatText, "":
		return p.printText(cell)
	default:
		return fmt.Errorf("%w: %q", ErrFormat, p.opts.Format)
	}
}

// Sprint renders the subtree rooted at cell into a string without the
// trailing newline.
func Sprint(r Reader, cell tree.CellRef, opts Options) (string, error) {
	var sb strings.Builder
	if err := New(r, &sb, opts).Print(cell); err != nil {
		return "", err
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}
