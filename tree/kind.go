package tree

import (
	"math"

	"github.com/joshuapare/valuekit/internal/format"
)

// Kind is the kind tag of a node.
type Kind uint8

const (
	KindEmpty   = Kind(format.NodeKindEmpty)
	KindNull    = Kind(format.NodeKindNull)
	KindBool    = Kind(format.NodeKindBool)
	KindInteger = Kind(format.NodeKindInteger)
	KindDouble  = Kind(format.NodeKindDouble)
	KindString  = Kind(format.NodeKindString)
	KindDict    = Kind(format.NodeKindDict)
	KindList    = Kind(format.NodeKindList)
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindDict:
		return "dict"
	case KindList:
		return "list"
	default:
		return "invalid"
	}
}

// Composite reports whether k is Dict or List.
func (k Kind) Composite() bool { return k == KindDict || k == KindList }

// Scalar reports whether k is a terminal kind.
func (k Kind) Scalar() bool { return k >= KindNull && k <= KindString }

// Scalar is a terminal node value: Null, Bool, Integer, Double or String.
// The zero Scalar is Null.
type Scalar struct {
	kind Kind
	bits uint64
	text string
}

// NullValue returns the Null scalar.
func NullValue() Scalar { return Scalar{kind: KindNull} }

// BoolValue returns a Bool scalar.
func BoolValue(b bool) Scalar {
	s := Scalar{kind: KindBool}
	if b {
		s.bits = 1
	}
	return s
}

// IntValue returns an Integer scalar.
func IntValue(i int32) Scalar { return Scalar{kind: KindInteger, bits: uint64(uint32(i))} }

// DoubleValue returns a Double scalar. NaN and infinities are kept as is.
func DoubleValue(f float64) Scalar { return Scalar{kind: KindDouble, bits: math.Float64bits(f)} }

// StringValue returns a String scalar.
func StringValue(s string) Scalar { return Scalar{kind: KindString, text: s} }

// Kind returns the scalar's kind. The zero Scalar reports KindNull.
func (s Scalar) Kind() Kind {
	if s.kind == KindEmpty {
		return KindNull
	}
	return s.kind
}

func (s Scalar) Bool() bool { return s.bits != 0 }
func (s Scalar) Int() int32 { return int32(uint32(s.bits)) }
func (s Scalar) Double() float64 { return math.Float64frombits(s.bits) }
func (s Scalar) Text() string { return s.text }

// Interface returns the scalar as a plain Go value: nil, bool, int32,
// float64 or string.
func (s Scalar) Interface() any {
	switch s.Kind() {
	case KindBool:
		return s.Bool()
	case KindInteger:
		return s.Int()
	case KindDouble:
		return s.Double()
	case KindString:
		return s.text
	default:
		return nil
	}
}
