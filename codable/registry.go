package codable

import (
	"reflect"
	"sync"

	"github.com/cockroachdb/errors"
)

var (
	ErrAlreadyRegistered = errors.New("codec already registered")
	ErrNotRegistered     = errors.New("no codec registered")
)

// registry maps a record's reflect.Type to its lazily compiled codec.
// Entries are inserted once and never replaced or evicted.
var registry sync.Map

type entry struct {
	once  sync.Once
	build func() (any, error)
	codec any
	err   error
}

// Register declares the fields of T. Compilation is deferred to the first For.
func Register[T any](fields []Field, opts ...Option) error {
	typ := reflect.TypeFor[T]()

	e := &entry{build: func() (any, error) { return Compile[T](fields, opts...) }}
	if _, loaded := registry.LoadOrStore(typ, e); loaded {
		return errors.Wrapf(ErrAlreadyRegistered, "%s", typ)
	}

	return nil
}

// MustRegister is Register for package initialization.
func MustRegister[T any](fields []Field, opts ...Option) {
	if err := Register[T](fields, opts...); err != nil {
		panic(err)
	}
}

// For returns the codec of T, compiling it on first use. Concurrent callers
// share one compilation; its result, error included, is final.
func For[T any]() (*Codec[T], error) {
	typ := reflect.TypeFor[T]()

	v, ok := registry.Load(typ)
	if !ok {
		return nil, errors.Wrapf(ErrNotRegistered, "%s", typ)
	}

	e := v.(*entry)
	e.once.Do(func() { e.codec, e.err = e.build() })

	if e.err != nil {
		return nil, e.err
	}

	return e.codec.(*Codec[T]), nil
}

// Unmarshal decodes data with the registered codec of T.
func Unmarshal[T any](data []byte) (T, error) {
	c, err := For[T]()
	if err != nil {
		var zero T
		return zero, err
	}

	return c.Decode(data)
}

// Marshal encodes v with the registered codec of T.
func Marshal[T any](v T) ([]byte, error) {
	c, err := For[T]()
	if err != nil {
		return nil, err
	}

	return c.Encode(v)
}
