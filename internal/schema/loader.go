package schema

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a schema file encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

// FormatOf picks the format from a file extension. Anything but .toml is YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}

	return FormatYAML
}

// LoadFile loads and parses a schema file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read schema file %s", path)
	}

	f, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, errors.Wrapf(err, "schema file %s", path)
	}

	return f, nil
}

// Parse decodes schema data. Unknown keys are rejected so typos surface early.
func Parse(data []byte, format Format) (*File, error) {
	var f File

	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()

		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrap(err, "parse schema TOML")
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)

		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrap(err, "parse schema YAML")
		}
	}

	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional settings.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = CurrentVersion
	}
}

// Marshal serializes a schema in the given format.
func Marshal(f *File, format Format) ([]byte, error) {
	if format == FormatTOML {
		return toml.Marshal(f)
	}

	return yaml.Marshal(f)
}

// WriteFile writes a schema to path, choosing the format from its extension.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f, FormatOf(path))
	if err != nil {
		return errors.Wrap(err, "marshal schema")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write schema file %s", path)
	}

	return nil
}
