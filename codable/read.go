package codable

import (
	"github.com/goccy/go-json"
)

// Slot is a fallible collection element: decoding it never fails. A value
// that does not decode as T, or is null, leaves the slot empty.
type Slot[T any] struct {
	Value T
	OK    bool
	Err   error
}

// UnmarshalJSON implements json.Unmarshaler and always returns nil.
func (s *Slot[T]) UnmarshalJSON(data []byte) error {
	*s = Slot[T]{}

	if err := fill(data, &s.Value); err != nil {
		var zero T
		s.Value, s.Err = zero, err

		return nil
	}

	s.OK = true

	return nil
}

// fill decodes one collection element into dst. Null counts as a failure.
func fill(data []byte, dst any) error {
	if isNull(data) {
		return ErrNull
	}

	return json.Unmarshal(data, dst)
}

// Decode reads the value under key as exactly T.
func Decode[T any](s *Scope, key string) (T, error) {
	var v T

	raw, err := s.Raw(key)
	if err != nil {
		return v, err
	}

	if err := json.Unmarshal(raw, &v); err != nil {
		return v, newReadError(KindLeaf, s.child(key), err)
	}

	return v, nil
}

// DecodeSequence reads an array under key, dropping elements that fail to decode.
func DecodeSequence[T any](s *Scope, key string) ([]T, error) {
	slots, err := Decode[[]Slot[T]](s, key)
	if err != nil {
		return nil, err
	}

	return Compact(slots), nil
}

// DecodeSet reads an array under key into a set, dropping elements that fail
// to decode. Duplicates collapse.
func DecodeSet[T comparable](s *Scope, key string) (map[T]struct{}, error) {
	slots, err := Decode[[]Slot[T]](s, key)
	if err != nil {
		return nil, err
	}

	return CompactSet(slots), nil
}

// DecodeMapping reads an object under key, dropping entries whose value fails
// to decode. Keys come from the representation and are assumed well-formed.
func DecodeMapping[K comparable, V any](s *Scope, key string) (map[K]V, error) {
	slots, err := Decode[map[K]Slot[V]](s, key)
	if err != nil {
		return nil, err
	}

	return CompactValues(slots), nil
}

// Compact keeps the decoded slot values in order.
func Compact[T any](slots []Slot[T]) []T {
	out := make([]T, 0, len(slots))

	for _, sl := range slots {
		if sl.OK {
			out = append(out, sl.Value)
		}
	}

	return out
}

// CompactSet keeps the decoded slot values as a set.
func CompactSet[T comparable](slots []Slot[T]) map[T]struct{} {
	out := make(map[T]struct{}, len(slots))

	for _, sl := range slots {
		if sl.OK {
			out[sl.Value] = struct{}{}
		}
	}

	return out
}

// CompactValues keeps the entries whose value decoded.
func CompactValues[K comparable, V any](slots map[K]Slot[V]) map[K]V {
	out := make(map[K]V, len(slots))

	for k, sl := range slots {
		if sl.OK {
			out[k] = sl.Value
		}
	}

	return out
}
