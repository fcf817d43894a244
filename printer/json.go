package printer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/joshuapare/valuekit/tree"
)

// printJSON renders strict JSON. Dict keys keep insertion order, empty slots
// print as null.
func (p *Printer) printJSON(cell tree.CellRef) error {
	var raw bytes.Buffer
	if err := p.jsonNode(&raw, cell); err != nil {
		return err
	}

	out := raw.Bytes()
	if !p.opts.Compact && p.opts.IndentSize > 0 {
		var indented bytes.Buffer
		if err := json.Indent(&indented, out, "", strings.Repeat(" ", p.opts.IndentSize)); err != nil {
			return fmt.Errorf("printer: indent json: %w", err)
		}
		out = indented.Bytes()
	}
	out = append(out, '\n')
	_, err := p.writer.Write(out)
	return err
}

func (p *Printer) jsonNode(buf *bytes.Buffer, cell tree.CellRef) error {
	info, err := p.reader.Stat(cell)
	if err != nil {
		return err
	}

	switch info.Kind {
	case tree.KindEmpty, tree.KindNull:
		buf.WriteString("null")
	case tree.KindBool, tree.KindInteger:
		buf.WriteString(FormatScalar(info.Value))
	case tree.KindDouble:
		f := info.Value.Double()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %s", ErrNonFinite, FormatDouble(f))
		}
		buf.WriteString(FormatDouble(f))
	case tree.KindString:
		writeJSONString(buf, info.Value.Text())
	case tree.KindDict:
		entries, err := p.reader.Entries(cell)
		if err != nil {
			return err
		}
		buf.WriteByte('{')
		for i, e := range entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, e.Key)
			buf.WriteByte(':')
			if err := p.jsonNode(buf, e.Child); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case tree.KindList:
		elems, err := p.reader.Elements(cell)
		if err != nil {
			return err
		}
		buf.WriteByte('[')
		for i, c := range elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := p.jsonNode(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("printer: unexpected kind %s", info.Kind)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	b, err := json.Marshal(s)
	if err != nil {
		// Marshal of a string only fails on invalid UTF-8, which it
		// replaces rather than reports.
		buf.WriteString(strconv.Quote(s))
		return
	}
	buf.Write(b)
}
