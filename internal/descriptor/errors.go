package descriptor

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel causes of a descriptor Error.
var (
	ErrCustomReadExcluded = errors.New("custom read cannot be combined with exclusion or a fixed immutable value")
	ErrDuplicateName      = errors.New("duplicate field name")
	ErrDuplicatePath      = errors.New("duplicate key path")
	ErrEmptyPath          = errors.New("key path has no segments")
	ErrNoName             = errors.New("field has no name")
)

// Error is a generation-time failure tied to one field. It is never recovered:
// the record it belongs to gets no codec.
type Error struct {
	Field string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fieldError(field string, err error) error {
	return errors.WithStack(&Error{Field: field, Err: err})
}
