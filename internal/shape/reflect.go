package shape

import (
	"reflect"

	"github.com/cockroachdb/errors"
)

// FromType classifies a runtime type with the same rules as Classify.
func FromType(t reflect.Type) (*Shape, error) {
	if t == nil {
		return nil, ErrNoType
	}

	switch t.Kind() {
	case reflect.Pointer:
		inner, err := FromType(t.Elem())
		if err != nil {
			return nil, err
		}

		return Optional(inner), nil

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return Identifier(t.String()), nil
		}

		elem, err := FromType(t.Elem())
		if err != nil {
			return nil, err
		}

		return Sequence(elem), nil

	case reflect.Map:
		key, err := FromType(t.Key())
		if err != nil {
			return nil, err
		}

		if v := t.Elem(); v.Kind() == reflect.Struct && v.NumField() == 0 {
			return Set(key), nil
		}

		value, err := FromType(t.Elem())
		if err != nil {
			return nil, err
		}

		return Mapping(key, value), nil

	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return nil, errors.Wrapf(ErrUnsupportedType, "%s", t)

	default:
		return Identifier(t.String()), nil
	}
}
