package document

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/joshuapare/valuekit/bridge"
	"github.com/joshuapare/valuekit/internal/logger"
	"github.com/joshuapare/valuekit/value"
)

// Build normalizes doc and constructs it into s. Documents that fail
// Normalize are rejected before any protocol call is made. Protocol panics
// (violations and exhaustion) propagate to the provider running the pass.
func Build(s value.Slot, doc any, opts Options) error {
	norm, err := Normalize(doc, opts)
	if err != nil {
		return err
	}
	construct(s, norm)
	return nil
}

// Fill sets every member of doc on v: mapping members by key when v is a
// dict, sequence elements by position when v is a list. Existing children
// with the same key or position are overwritten.
func Fill(v value.Value, doc any, opts Options) error {
	norm, err := Normalize(doc, opts)
	if err != nil {
		return err
	}
	switch x := norm.(type) {
	case yaml.MapSlice:
		if !v.IsDict() {
			return fmt.Errorf("%w: mapping into %s", ErrType, v.Kind())
		}
		fillDict(v, x)
	case []any:
		if !v.IsList() {
			return fmt.Errorf("%w: sequence into %s", ErrType, v.Kind())
		}
		fillList(v, x)
	default:
		return fmt.Errorf("%w: %T into %s", ErrType, norm, v.Kind())
	}
	return nil
}

// Load decodes data and builds it as the root of c.
func Load(c *bridge.Container, data []byte, opts Options) error {
	doc, err := Decode(data)
	if err != nil {
		return err
	}
	norm, err := Normalize(doc, opts)
	if err != nil {
		return err
	}
	logger.Debug("document: loading", "bytes", len(data))
	return c.Build(func(root value.Slot) {
		construct(root, norm)
	})
}

func construct(s value.Slot, v any) {
	switch x := v.(type) {
	case nil:
		s.ConstructNull()
	case bool:
		s.ConstructBool(x)
	case int32:
		s.ConstructInteger(x)
	case float64:
		s.ConstructDouble(x)
	case string:
		s.ConstructString(x)
	case yaml.MapSlice:
		fillDict(s.ConstructDict(), x)
	case []any:
		fillList(s.ConstructList(), x)
	}
}

func fillDict(d value.Value, ms yaml.MapSlice) {
	d.Reserve(len(ms))
	for _, item := range ms {
		k := item.Key.(string)
		switch x := item.Value.(type) {
		case nil:
			d.SetNull(k)
		case bool:
			d.SetBool(k, x)
		case int32:
			d.SetInteger(k, x)
		case float64:
			d.SetDouble(k, x)
		case string:
			d.SetString(k, x)
		case yaml.MapSlice:
			fillDict(d.SetDict(k), x)
		case []any:
			fillList(d.SetList(k), x)
		}
	}
}

func fillList(l value.Value, elems []any) {
	l.Reserve(len(elems))
	for i, e := range elems {
		switch x := e.(type) {
		case nil:
			l.SetNullAt(i)
		case bool:
			l.SetBoolAt(i, x)
		case int32:
			l.SetIntegerAt(i, x)
		case float64:
			l.SetDoubleAt(i, x)
		case string:
			l.SetStringAt(i, x)
		case yaml.MapSlice:
			fillDict(l.SetDictAt(i), x)
		case []any:
			fillList(l.SetListAt(i), x)
		}
	}
}
