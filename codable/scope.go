package codable

import (
	"bytes"
	"slices"

	"github.com/goccy/go-json"
)

// Scope is a read cursor positioned at one object of the representation.
// Scopes are cheap views: opening one never mutates its parent.
type Scope struct {
	path   []string
	fields map[string]json.RawMessage
}

// NewScope opens the root scope of data.
func NewScope(data []byte) (*Scope, error) {
	fields, err := object(data)
	if err != nil {
		return nil, newReadError(KindStructural, nil, err)
	}

	return &Scope{fields: fields}, nil
}

// Nested opens the namespace stored under key.
func (s *Scope) Nested(key string) (*Scope, error) {
	path := s.child(key)

	raw, ok := s.fields[key]
	if !ok {
		return nil, newReadError(KindStructural, path, ErrKeyNotFound)
	}

	fields, err := object(raw)
	if err != nil {
		return nil, newReadError(KindStructural, path, err)
	}

	return &Scope{path: path, fields: fields}, nil
}

// Raw returns the undecoded value under key. A missing or null value is a
// leaf failure: presence is decided by the caller's fallback, not here.
func (s *Scope) Raw(key string) (json.RawMessage, error) {
	raw, ok := s.fields[key]
	if !ok {
		return nil, newReadError(KindLeaf, s.child(key), ErrKeyNotFound)
	}

	if isNull(raw) {
		return nil, newReadError(KindLeaf, s.child(key), ErrNull)
	}

	return raw, nil
}

// Contains reports whether key is present, even if null.
func (s *Scope) Contains(key string) bool {
	_, ok := s.fields[key]
	return ok
}

// Keys returns the scope's keys in sorted order.
func (s *Scope) Keys() []string {
	keys := make([]string, 0, len(s.fields))
	for k := range s.fields {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// Path returns the scope position as path segments; nil at the root.
func (s *Scope) Path() []string {
	return slices.Clone(s.path)
}

func (s *Scope) child(key string) []string {
	return append(slices.Clone(s.path), key)
}

func object(data []byte) (map[string]json.RawMessage, error) {
	if isNull(data) {
		return nil, ErrNull
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrNotObject
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, err
	}

	return fields, nil
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}
