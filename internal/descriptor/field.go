package descriptor

import (
	"strings"

	"github.com/cockroachdb/errors"

	"codec-generator/internal/shape"
)

// Input is one field as handed over by a front-end: a schema file entry or an
// explicit runtime declaration. Nothing here has been validated yet.
type Input struct {
	// Name is the record member name.
	Name string
	// Type is the declared Go type text. Ignored when Shape is set.
	Type string
	// Shape is a pre-classified shape, used by front-ends holding runtime types.
	Shape *shape.Shape
	// Key is the dotted external key path; empty means the field name.
	Key string
	// Default is the default expression text, nil when the field has none.
	Default *string
	// Immutable marks a value bound once at declaration.
	Immutable bool
	// Ignore opts the field out of the codec.
	Ignore bool
	// Custom delegates the read to a user supplied function.
	Custom bool
	// Static marks type-level members that are never record data.
	Static bool
}

// Field is the normalized, validated descriptor of one record field.
// Fields are immutable once built and shared by every planner.
type Field struct {
	Name       string
	Shape      *shape.Shape
	Path       []string
	Default    *string
	Immutable  bool
	Excluded   bool
	CustomRead bool
	// Index is the declaration position among non-static fields.
	Index int
}

// IsImmutableFixed reports whether the field value is fixed at declaration.
// Such a field is outside the codec and the constructor.
func (f *Field) IsImmutableFixed() bool {
	return f.Immutable && f.Default != nil
}

// IsCodable reports whether the field takes part in reading and writing.
func (f *Field) IsCodable() bool {
	return !f.Excluded && !f.IsImmutableFixed()
}

// Key returns the last path segment: the key under which the value is stored.
func (f *Field) Key() string {
	return f.Path[len(f.Path)-1]
}

// PathString returns the dotted key path.
func (f *Field) PathString() string {
	return strings.Join(f.Path, ".")
}

// HasDefault reports whether a default expression exists.
func (f *Field) HasDefault() bool {
	return f.Default != nil
}

// SplitKey splits dotted key text into path segments, dropping empty ones.
func SplitKey(key string) []string {
	var segments []string

	for part := range strings.SplitSeq(key, ".") {
		if part = strings.TrimSpace(part); part != "" {
			segments = append(segments, part)
		}
	}

	return segments
}

// Build validates inputs and returns descriptors in declaration order.
// Static inputs are dropped. The first invalid field aborts the build.
func Build(inputs []Input) ([]*Field, error) {
	fields := make([]*Field, 0, len(inputs))
	names := make(map[string]struct{}, len(inputs))
	paths := make(map[string]string, len(inputs))

	for _, in := range inputs {
		if in.Static {
			continue
		}

		f, err := buildField(in, len(fields))
		if err != nil {
			return nil, err
		}

		if _, ok := names[f.Name]; ok {
			return nil, fieldError(f.Name, ErrDuplicateName)
		}

		names[f.Name] = struct{}{}

		if f.IsCodable() {
			p := f.PathString()
			if other, ok := paths[p]; ok {
				return nil, errors.WithHintf(
					fieldError(f.Name, errors.Wrapf(ErrDuplicatePath, "%q also used by %q", p, other)),
					"give one of the fields a distinct key",
				)
			}

			paths[p] = f.Name
		}

		fields = append(fields, f)
	}

	return fields, nil
}

func buildField(in Input, index int) (*Field, error) {
	if in.Name == "" {
		return nil, fieldError("", ErrNoName)
	}

	sh := in.Shape
	if sh == nil {
		var err error

		sh, err = shape.Classify(in.Type)
		if err != nil {
			return nil, fieldError(in.Name, err)
		}
	}

	path := []string{in.Name}
	if in.Key != "" {
		path = SplitKey(in.Key)
		if len(path) == 0 {
			return nil, fieldError(in.Name, errors.Wrapf(ErrEmptyPath, "key %q", in.Key))
		}
	}

	f := &Field{
		Name:       in.Name,
		Shape:      sh,
		Path:       path,
		Default:    in.Default,
		Immutable:  in.Immutable,
		Excluded:   in.Ignore,
		CustomRead: in.Custom,
		Index:      index,
	}

	if f.CustomRead && (f.Excluded || f.IsImmutableFixed()) {
		return nil, fieldError(in.Name, ErrCustomReadExcluded)
	}

	return f, nil
}

// Codable returns the fields taking part in the codec, in declaration order.
func Codable(fields []*Field) []*Field {
	out := make([]*Field, 0, len(fields))

	for _, f := range fields {
		if f.IsCodable() {
			out = append(out, f)
		}
	}

	return out
}
