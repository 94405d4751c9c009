package shape

import (
	"strings"

	"codec-generator/internal/common"
)

// Kind identifies the variant of a Shape.
type Kind int

const (
	KindIdentifier Kind = iota // scalar or any named type: string, time.Time, Qux
	KindOptional               // *T or Optional[T]
	KindSequence               // []T or Sequence[T]
	KindSet                    // map[T]struct{} or Set[T]
	KindMapping                // map[K]V or Mapping[K, V]
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindIdentifier:
		return "identifier"
	case KindOptional:
		return "optional"
	case KindSequence:
		return "sequence"
	case KindSet:
		return "set"
	case KindMapping:
		return "mapping"
	default:
		return common.UnknownStr
	}
}

// Shape is the classified form of a declared field type.
type Shape struct {
	Kind Kind
	// Name is the canonical type text of an identifier shape.
	Name string
	// Elem is the inner shape of an optional, the element of a sequence or set,
	// or the value of a mapping.
	Elem *Shape
	// Key is the key shape of a mapping.
	Key *Shape
}

// Identifier returns an identifier shape named name.
func Identifier(name string) *Shape {
	return &Shape{Kind: KindIdentifier, Name: name}
}

// Optional wraps inner. Nested optionals collapse to a single level.
func Optional(inner *Shape) *Shape {
	if inner.Kind == KindOptional {
		return inner
	}

	return &Shape{Kind: KindOptional, Elem: inner}
}

// Sequence returns an ordered collection shape of elem.
func Sequence(elem *Shape) *Shape {
	return &Shape{Kind: KindSequence, Elem: elem}
}

// Set returns an unordered unique collection shape of elem.
func Set(elem *Shape) *Shape {
	return &Shape{Kind: KindSet, Elem: elem}
}

// Mapping returns a keyed collection shape.
func Mapping(key, value *Shape) *Shape {
	return &Shape{Kind: KindMapping, Key: key, Elem: value}
}

// IsOptional reports whether the field may be absent.
func (s *Shape) IsOptional() bool {
	return s.Kind == KindOptional
}

// Unwrapped returns the shape without its optional wrapper.
func (s *Shape) Unwrapped() *Shape {
	if s.Kind == KindOptional {
		return s.Elem
	}

	return s
}

// IsCollection reports whether the unwrapped shape is a sequence, set or mapping.
func (s *Shape) IsCollection() bool {
	switch s.Unwrapped().Kind {
	case KindSequence, KindSet, KindMapping:
		return true
	default:
		return false
	}
}

// Equal reports structural equality.
func (s *Shape) Equal(o *Shape) bool {
	if s == nil || o == nil {
		return s == o
	}

	if s.Kind != o.Kind || s.Name != o.Name {
		return false
	}

	return s.Elem.Equal(o.Elem) && s.Key.Equal(o.Key)
}

// String returns the canonical Go type text of the shape.
func (s *Shape) String() string {
	var sb strings.Builder

	s.write(&sb)

	return sb.String()
}

func (s *Shape) write(sb *strings.Builder) {
	switch s.Kind {
	case KindOptional:
		sb.WriteString("*")
		s.Elem.write(sb)
	case KindSequence:
		sb.WriteString("[]")
		s.Elem.write(sb)
	case KindSet:
		sb.WriteString("map[")
		s.Elem.write(sb)
		sb.WriteString("]struct{}")
	case KindMapping:
		sb.WriteString("map[")
		s.Key.write(sb)
		sb.WriteString("]")
		s.Elem.write(sb)
	default:
		sb.WriteString(s.Name)
	}
}
