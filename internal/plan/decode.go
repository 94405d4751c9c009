package plan

import (
	"github.com/cockroachdb/errors"

	"codec-generator/internal/common"
	"codec-generator/internal/descriptor"
	"codec-generator/internal/shape"
	"codec-generator/internal/trie"
)

// ReadKind selects how a field value is read at its terminal key.
type ReadKind int

const (
	// ReadValue reads one value of the exact declared type.
	ReadValue ReadKind = iota
	// ReadSequence reads fallible element slots and keeps the successful ones.
	ReadSequence
	// ReadSet is ReadSequence followed by deduplication.
	ReadSet
	// ReadMapping reads fallible value slots and keeps entries whose value decoded.
	ReadMapping
	// ReadCustom delegates to a user supplied read function.
	ReadCustom
)

// String returns a human-readable representation of the ReadKind.
func (k ReadKind) String() string {
	switch k {
	case ReadValue:
		return "value"
	case ReadSequence:
		return "sequence"
	case ReadSet:
		return "set"
	case ReadMapping:
		return "mapping"
	case ReadCustom:
		return "custom"
	default:
		return common.UnknownStr
	}
}

// Fallback is the recovery applied when a field read fails.
type Fallback int

const (
	// FallbackNone lets the error reach the caller of the whole read.
	FallbackNone Fallback = iota
	// FallbackDefault assigns the field's default expression.
	FallbackDefault
	// FallbackAbsent assigns nil to an optional field.
	FallbackAbsent
	// FallbackEmpty assigns an empty collection.
	FallbackEmpty
	// FallbackPropagate rethrows: a namespace on the way may be missing,
	// which is a structural failure rather than an absent field.
	FallbackPropagate
)

// String returns a human-readable representation of the Fallback.
func (f Fallback) String() string {
	switch f {
	case FallbackNone:
		return "none"
	case FallbackDefault:
		return "default"
	case FallbackAbsent:
		return "absent"
	case FallbackEmpty:
		return "empty"
	case FallbackPropagate:
		return "propagate"
	default:
		return common.UnknownStr
	}
}

// Recovers reports whether the fallback swallows the read error.
func (f Fallback) Recovers() bool {
	switch f {
	case FallbackDefault, FallbackAbsent, FallbackEmpty:
		return true
	default:
		return false
	}
}

// DecodeStep is the read procedure of one field. Scopes are opened per field,
// so siblings under one namespace each open it again; a failure in one field
// never leaks into another.
type DecodeStep struct {
	Field *descriptor.Field
	// Scopes lists the namespaces to open, outermost first. Empty for custom reads.
	Scopes []*trie.Node
	// Key is the terminal key read inside the innermost scope.
	Key      string
	Read     ReadKind
	Fallback Fallback
}

// ErrNotInTrie is returned when a field's path does not resolve in the trie.
var ErrNotInTrie = errors.New("field path not found in trie")

// Decode plans the read of field against root.
func Decode(field *descriptor.Field, root *trie.Node) (DecodeStep, error) {
	step := DecodeStep{Field: field, Key: field.Key()}

	if field.CustomRead {
		step.Read = ReadCustom
		step.Fallback = FallbackNone

		return step, nil
	}

	if root == nil {
		return DecodeStep{}, errors.Wrapf(ErrNotInTrie, "%s", field.PathString())
	}

	chain, ok := root.Chain(field.Path)
	if !ok {
		return DecodeStep{}, errors.Wrapf(ErrNotInTrie, "%s", field.PathString())
	}

	step.Scopes = chain
	step.Read = readKind(field.Shape)
	step.Fallback = fallback(field, len(chain) > 0)

	return step, nil
}

func readKind(s *shape.Shape) ReadKind {
	switch s.Unwrapped().Kind {
	case shape.KindSequence:
		return ReadSequence
	case shape.KindSet:
		return ReadSet
	case shape.KindMapping:
		return ReadMapping
	default:
		return ReadValue
	}
}

// fallback applies the recovery priority: default, then absent for optionals,
// then an empty collection for required collections, then propagation when a
// nested scope is involved.
func fallback(field *descriptor.Field, nested bool) Fallback {
	switch {
	case field.HasDefault():
		return FallbackDefault
	case field.Shape.IsOptional():
		return FallbackAbsent
	case field.Shape.IsCollection():
		return FallbackEmpty
	case nested:
		return FallbackPropagate
	default:
		return FallbackNone
	}
}
