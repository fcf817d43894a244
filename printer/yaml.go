package printer

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/joshuapare/valuekit/tree"
)

// printYAML renders the subtree as a YAML document. Dicts become ordered
// mappings.
func (p *Printer) printYAML(cell tree.CellRef) error {
	v, err := p.yamlNode(cell)
	if err != nil {
		return err
	}
	indent := p.opts.IndentSize
	if indent <= 0 {
		indent = DefaultIndentSize
	}
	out, err := yaml.MarshalWithOptions(v, yaml.Indent(indent), yaml.IndentSequence(true))
	if err != nil {
		return fmt.Errorf("printer: encode yaml: %w", err)
	}
	_, err = p.writer.Write(out)
	return err
}

func (p *Printer) yamlNode(cell tree.CellRef) (any, error) {
	info, err := p.reader.Stat(cell)
	if err != nil {
		return nil, err
	}

	switch info.Kind {
	case tree.KindDict:
		entries, err := p.reader.Entries(cell)
		if err != nil {
			return nil, err
		}
		m := make(yaml.MapSlice, 0, len(entries))
		for _, e := range entries {
			v, err := p.yamlNode(e.Child)
			if err != nil {
				return nil, err
			}
			m = append(m, yaml.MapItem{Key: e.Key, Value: v})
		}
		return m, nil
	case tree.KindList:
		elems, err := p.reader.Elements(cell)
		if err != nil {
			return nil, err
		}
		l := make([]any, 0, len(elems))
		for _, c := range elems {
			v, err := p.yamlNode(c)
			if err != nil {
				return nil, err
			}
			l = append(l, v)
		}
		return l, nil
	case tree.KindEmpty:
		return nil, nil
	default:
		return info.Value.Interface(), nil
	}
}
