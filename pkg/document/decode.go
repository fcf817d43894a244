package document

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/goccy/go-yaml"
)

// Decode parses JSON or YAML. Mappings decode to yaml.MapSlice in source
// order, sequences to []any, integers to int64 or uint64 and floats to
// float64. The result still needs Normalize before it can be built.
func Decode(data []byte) (any, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	return v, nil
}

// Normalize converts v into the canonical form Build accepts: nil, bool,
// int32, float64, string, yaml.MapSlice and []any, recursively.
//
// Besides decoded documents it accepts ordinary Go values: every integer and
// float type, map[string]any (keys sorted) and []any.
func Normalize(v any, opts Options) (any, error) {
	n := normalizer{opts: opts}
	if n.opts.MaxDepth <= 0 {
		n.opts.MaxDepth = DefaultMaxDepth
	}
	return n.node(v, "$", 0)
}

type normalizer struct {
	opts Options
}

func (n normalizer) node(v any, at string, depth int) (any, error) {
	if depth > n.opts.MaxDepth {
		return nil, fmt.Errorf("%w: %s", ErrDepth, at)
	}
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return x, nil
	case string:
		if !utf8.ValidString(x) {
			return nil, fmt.Errorf("%w: %s", ErrUTF8, at)
		}
		return x, nil
	case int:
		return n.integer(int64(x), at)
	case int8:
		return int32(x), nil
	case int16:
		return int32(x), nil
	case int32:
		return x, nil
	case int64:
		return n.integer(x, at)
	case uint:
		return n.unsigned(uint64(x), at)
	case uint8:
		return int32(x), nil
	case uint16:
		return int32(x), nil
	case uint32:
		return n.unsigned(uint64(x), at)
	case uint64:
		return n.unsigned(x, at)
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case yaml.MapSlice:
		return n.mapSlice(x, at, depth)
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ms := make(yaml.MapSlice, len(keys))
		for i, k := range keys {
			ms[i] = yaml.MapItem{Key: k, Value: x[k]}
		}
		return n.mapSlice(ms, at, depth)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			c, err := n.node(e, at+"["+strconv.Itoa(i)+"]", depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T at %s", ErrType, v, at)
	}
}

func (n normalizer) mapSlice(ms yaml.MapSlice, at string, depth int) (any, error) {
	out := make(yaml.MapSlice, len(ms))
	for i, item := range ms {
		k, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %T at %s", ErrKeyType, item.Key, at)
		}
		if !utf8.ValidString(k) {
			return nil, fmt.Errorf("%w: key at %s", ErrUTF8, at)
		}
		c, err := n.node(item.Value, at+"."+k, depth+1)
		if err != nil {
			return nil, err
		}
		out[i] = yaml.MapItem{Key: k, Value: c}
	}
	return out, nil
}

func (n normalizer) integer(i int64, at string) (any, error) {
	if i >= math.MinInt32 && i <= math.MaxInt32 {
		return int32(i), nil
	}
	if !n.opts.WidenIntegers {
		return nil, fmt.Errorf("%w: %d at %s", ErrRange, i, at)
	}
	return float64(i), nil
}

func (n normalizer) unsigned(u uint64, at string) (any, error) {
	if u <= math.MaxInt32 {
		return int32(u), nil
	}
	if !n.opts.WidenIntegers {
		return nil, fmt.Errorf("%w: %d at %s", ErrRange, u, at)
	}
	return float64(u), nil
}
