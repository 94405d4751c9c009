package codable

import (
	"bytes"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
)

// WriteScope is a write cursor for one object. Keys are emitted in the order
// they were first written so output is reproducible.
type WriteScope struct {
	path   []string
	keys   []string
	values map[string]any // json.RawMessage or *WriteScope
}

// NewWriteScope returns an empty root scope.
func NewWriteScope() *WriteScope {
	return &WriteScope{values: make(map[string]any)}
}

// Nested returns the namespace under key, creating it on first use.
func (w *WriteScope) Nested(key string) (*WriteScope, error) {
	if v, ok := w.values[key]; ok {
		if ns, ok := v.(*WriteScope); ok {
			return ns, nil
		}

		return nil, w.conflict(key)
	}

	ns := &WriteScope{path: append(slices.Clone(w.path), key), values: make(map[string]any)}
	w.set(key, ns)

	return ns, nil
}

// Put stores an already encoded value under key.
func (w *WriteScope) Put(key string, raw json.RawMessage) error {
	if v, ok := w.values[key]; ok {
		if _, isScope := v.(*WriteScope); isScope {
			return w.conflict(key)
		}
	}

	w.set(key, raw)

	return nil
}

// MarshalJSON renders the scope and its namespaces.
func (w *WriteScope) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, k := range w.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		name, err := json.Marshal(k)
		if err != nil {
			return nil, errors.Wrapf(err, "encode key %q", k)
		}

		buf.Write(name)
		buf.WriteByte(':')

		switch v := w.values[k].(type) {
		case *WriteScope:
			nested, err := v.MarshalJSON()
			if err != nil {
				return nil, err
			}

			buf.Write(nested)
		case json.RawMessage:
			buf.Write(v)
		}
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (w *WriteScope) set(key string, v any) {
	if _, ok := w.values[key]; !ok {
		w.keys = append(w.keys, key)
	}

	w.values[key] = v
}

func (w *WriteScope) conflict(key string) error {
	at := strings.Join(append(slices.Clone(w.path), key), ".")
	return errors.Wrapf(ErrKeyConflict, "write %s", at)
}

// Encode writes v under key.
func Encode[T any](w *WriteScope, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}

	return w.Put(key, raw)
}

// EncodeSet writes a set as an array sorted by encoded element.
func EncodeSet[T comparable](w *WriteScope, key string, set map[T]struct{}) error {
	elems := make([]json.RawMessage, 0, len(set))

	for v := range set {
		raw, err := json.Marshal(v)
		if err != nil {
			return errors.Wrapf(err, "encode %s", key)
		}

		elems = append(elems, raw)
	}

	return w.Put(key, joinSorted(elems))
}

func joinSorted(elems []json.RawMessage) json.RawMessage {
	slices.SortFunc(elems, func(a, b json.RawMessage) int { return bytes.Compare(a, b) })

	var buf bytes.Buffer

	buf.WriteByte('[')

	for i, e := range elems {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.Write(e)
	}

	buf.WriteByte(']')

	return buf.Bytes()
}

// EncodeSequence writes s under key. A nil slice is written as [].
func EncodeSequence[T any](w *WriteScope, key string, s []T) error {
	if s == nil {
		s = []T{}
	}

	return Encode(w, key, s)
}

// EncodeMapping writes m under key. A nil map is written as {}.
func EncodeMapping[K comparable, V any](w *WriteScope, key string, m map[K]V) error {
	if m == nil {
		m = map[K]V{}
	}

	return Encode(w, key, m)
}
