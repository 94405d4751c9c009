package schema

import (
	"codec-generator/internal/descriptor"
	"codec-generator/internal/naming"
)

// CurrentVersion is the only schema version understood.
const CurrentVersion = "1"

// File represents the root of a codec schema file.
type File struct {
	// Version of the schema format.
	Version string `yaml:"version,omitempty" toml:"version,omitempty"`

	// Package is the Go package name of the generated files.
	Package string `yaml:"package,omitempty" toml:"package,omitempty"`

	// Imports lists extra import paths the field types refer to.
	Imports []string `yaml:"imports,omitempty" toml:"imports,omitempty"`

	// Records are generated in file order.
	Records []Record `yaml:"records" toml:"records"`
}

// Record describes one generated struct.
type Record struct {
	// Name is the Go type name.
	Name string `yaml:"name" toml:"name"`

	// Doc is copied onto the struct as its doc comment.
	Doc string `yaml:"doc,omitempty" toml:"doc,omitempty"`

	// Access is the record visibility: private, internal, package, public or open.
	Access string `yaml:"access,omitempty" toml:"access,omitempty"`

	// InitAccess overrides the constructor visibility.
	InitAccess string `yaml:"init_access,omitempty" toml:"init_access,omitempty"`

	// Mode is codable (default), decodable or encodable.
	Mode string `yaml:"mode,omitempty" toml:"mode,omitempty"`

	// Init disables the constructor when false.
	Init *bool `yaml:"init,omitempty" toml:"init,omitempty"`

	// Validate calls the record's IsValid method after every read.
	Validate bool `yaml:"validate,omitempty" toml:"validate,omitempty"`

	// Fields in declaration order.
	Fields []Field `yaml:"fields" toml:"fields"`
}

// Field describes one record member.
type Field struct {
	// Name is the member name; the Go field is Name with its first letter upper-cased.
	Name string `yaml:"name" toml:"name"`

	// Type is a Go type expression.
	Type string `yaml:"type" toml:"type"`

	// Key is the dotted external key path, e.g. "beer.doo". Defaults to Name.
	Key string `yaml:"key,omitempty" toml:"key,omitempty"`

	// Default is a Go expression used when the value cannot be read.
	Default *Expr `yaml:"default,omitempty" toml:"default,omitempty"`

	// Immutable with a Default fixes the value at declaration.
	Immutable bool `yaml:"immutable,omitempty" toml:"immutable,omitempty"`

	// Ignore keeps the field out of reads and writes.
	Ignore bool `yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// Custom reads the field through a decode<Name> method on the record.
	Custom bool `yaml:"custom,omitempty" toml:"custom,omitempty"`

	// Static members are skipped entirely.
	Static bool `yaml:"static,omitempty" toml:"static,omitempty"`

	// Doc is copied onto the struct field.
	Doc string `yaml:"doc,omitempty" toml:"doc,omitempty"`
}

// GoName returns the struct field name.
func (f *Field) GoName() string {
	return naming.Field(f.Name)
}

// Input converts the field into a descriptor input.
func (f *Field) Input() descriptor.Input {
	in := descriptor.Input{
		Name:      f.Name,
		Type:      f.Type,
		Key:       f.Key,
		Immutable: f.Immutable,
		Ignore:    f.Ignore,
		Custom:    f.Custom,
		Static:    f.Static,
	}

	if f.Default != nil {
		s := f.Default.String()
		in.Default = &s
	}

	return in
}

// Inputs converts all fields of the record.
func (r *Record) Inputs() []descriptor.Input {
	out := make([]descriptor.Input, 0, len(r.Fields))
	for i := range r.Fields {
		out = append(out, r.Fields[i].Input())
	}

	return out
}

// WantsInit reports whether a constructor is generated.
func (r *Record) WantsInit() bool {
	return r.Init == nil || *r.Init
}
