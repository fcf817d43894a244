package printer

import (
	"bufio"
	"math"
	"strconv"
	"strings"

	"github.com/joshuapare/valuekit/tree"
)

// FormatDouble renders f in its canonical text form: the shortest
// representation that round-trips, with ".0" on integral values, and NaN,
// Infinity or -Infinity for non-finite values.
func FormatDouble(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// FormatScalar renders a scalar in its canonical text form.
func FormatScalar(v tree.Scalar) string {
	switch v.Kind() {
	case tree.KindBool:
		return strconv.FormatBool(v.Bool())
	case tree.KindInteger:
		return strconv.FormatInt(int64(v.Int()), 10)
	case tree.KindDouble:
		return FormatDouble(v.Double())
	case tree.KindString:
		return strconv.Quote(v.Text())
	default:
		return "null"
	}
}

func (p *Printer) printText(cell tree.CellRef) error {
	w := bufio.NewWriter(p.writer)
	if err := p.textNode(w, cell, 0); err != nil {
		return err
	}
	w.WriteByte('\n')
	return w.Flush()
}

func (p *Printer) textNode(w *bufio.Writer, cell tree.CellRef, depth int) error {
	info, err := p.reader.Stat(cell)
	if err != nil {
		return err
	}

	switch info.Kind {
	case tree.KindEmpty:
		w.WriteString(p.pal.atom("<empty>"))
	case tree.KindNull, tree.KindBool:
		w.WriteString(p.pal.atom(FormatScalar(info.Value)))
	case tree.KindInteger, tree.KindDouble:
		w.WriteString(p.pal.number(FormatScalar(info.Value)))
	case tree.KindString:
		w.WriteString(p.pal.str(FormatScalar(info.Value)))
	case tree.KindDict:
		return p.textDict(w, cell, info, depth)
	case tree.KindList:
		return p.textList(w, cell, info, depth)
	}
	return nil
}

func (p *Printer) textDict(w *bufio.Writer, cell tree.CellRef, info tree.NodeInfo, depth int) error {
	if info.Len == 0 {
		w.WriteString("{}")
		return nil
	}
	if p.opts.MaxDepth > 0 && depth >= p.opts.MaxDepth {
		w.WriteString("{...}")
		return nil
	}
	entries, err := p.reader.Entries(cell)
	if err != nil {
		return err
	}

	w.WriteByte('{')
	for i, e := range entries {
		p.separator(w, i, depth+1)
		w.WriteString(p.pal.key(strconv.Quote(e.Key)))
		w.WriteString(": ")
		if err := p.textNode(w, e.Child, depth+1); err != nil {
			return err
		}
	}
	p.closing(w, depth)
	w.WriteByte('}')
	return nil
}

func (p *Printer) textList(w *bufio.Writer, cell tree.CellRef, info tree.NodeInfo, depth int) error {
	if info.Len == 0 {
		w.WriteString("[]")
		return nil
	}
	if p.opts.MaxDepth > 0 && depth >= p.opts.MaxDepth {
		w.WriteString("[...]")
		return nil
	}
	elems, err := p.reader.Elements(cell)
	if err != nil {
		return err
	}

	w.WriteByte('[')
	for i, c := range elems {
		p.separator(w, i, depth+1)
		if err := p.textNode(w, c, depth+1); err != nil {
			return err
		}
	}
	p.closing(w, depth)
	w.WriteByte(']')
	return nil
}

// separator starts the i-th child at depth.
func (p *Printer) separator(w *bufio.Writer, i, depth int) {
	if p.opts.Compact {
		if i > 0 {
			w.WriteString(", ")
		}
		return
	}
	if i > 0 {
		w.WriteByte(',')
	}
	w.WriteByte('\n')
	w.WriteString(strings.Repeat(" ", depth*p.opts.IndentSize))
}

// closing positions the closing bracket of a composite at depth.
func (p *Printer) closing(w *bufio.Writer, depth int) {
	if p.opts.Compact {
		return
	}
	w.WriteByte('\n')
	w.WriteString(strings.Repeat(" ", depth*p.opts.IndentSize))
}
