package codable

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"codec-generator/internal/common"
)

// Kind classifies a read failure.
type Kind int

const (
	// KindStructural: a nested namespace could not be opened.
	KindStructural Kind = iota
	// KindLeaf: a terminal value failed to decode its declared shape.
	KindLeaf
	// KindElement: one collection element failed. Always dropped, never returned by a read.
	KindElement
	// KindValidation: the record's IsValid predicate returned false.
	KindValidation
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindLeaf:
		return "leaf"
	case KindElement:
		return "element"
	case KindValidation:
		return "validation"
	default:
		return common.UnknownStr
	}
}

// Sentinels matched by errors.Is against a *ReadError of the same kind.
var (
	ErrStructural = errors.New("structural read failure")
	ErrLeaf       = errors.New("leaf read failure")
	ErrElement    = errors.New("element read failure")
	ErrValidation = errors.New("validation failed")
)

// Causes carried by read and write errors.
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrNull        = errors.New("value is null")
	ErrNotObject   = errors.New("value is not an object")
	// ErrKeyConflict is returned when a value and a namespace are written under one key.
	ErrKeyConflict = errors.New("key already holds a namespace")
)

// ReadError is the single typed failure surfaced by a read procedure.
type ReadError struct {
	Kind Kind
	// Path is the dotted position of the failure; empty at the root.
	Path string
	Err  error
}

func newReadError(kind Kind, path []string, err error) error {
	return &ReadError{Kind: kind, Path: strings.Join(path, "."), Err: err}
}

func (e *ReadError) Error() string {
	at := e.Path
	if at == "" {
		at = "<root>"
	}

	return fmt.Sprintf("%s read failure at %s: %v", e.Kind, at, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *ReadError) Is(target error) bool {
	switch target {
	case ErrStructural:
		return e.Kind == KindStructural
	case ErrLeaf:
		return e.Kind == KindLeaf
	case ErrElement:
		return e.Kind == KindElement
	case ErrValidation:
		return e.Kind == KindValidation
	default:
		return false
	}
}

// WrapLeafError marks err as a leaf failure at path. A *ReadError passes
// through unchanged, as does nil.
func WrapLeafError(err error, path ...string) error {
	if err == nil {
		return nil
	}

	if _, ok := AsReadError(err); ok {
		return err
	}

	return newReadError(KindLeaf, path, err)
}

// NewValidationError reports a failed IsValid check at the scope's position.
func NewValidationError(s *Scope) error {
	var path []string
	if s != nil {
		path = s.path
	}

	return newReadError(KindValidation, path, errors.New("record is not valid"))
}

// AsReadError unwraps err to a *ReadError.
func AsReadError(err error) (*ReadError, bool) {
	var re *ReadError
	if errors.As(err, &re) {
		return re, true
	}

	return nil, false
}
