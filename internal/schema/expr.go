package schema

import (
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Expr is Go expression text. In YAML any scalar is accepted verbatim, so
// `default: 0` and `default: '"text"'` both work; TOML needs a string.
type Expr string

// UnmarshalYAML keeps the scalar source text, whatever its YAML type.
func (e *Expr) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Newf("line %d: default must be a scalar expression, got %v", node.Line, node.Kind)
	}

	*e = Expr(node.Value)

	return nil
}

// MarshalYAML writes the expression as a plain string.
func (e Expr) MarshalYAML() (any, error) {
	return string(e), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML.
func (e *Expr) UnmarshalText(text []byte) error {
	*e = Expr(text)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (e Expr) MarshalText() ([]byte, error) {
	return []byte(e), nil
}

func (e Expr) String() string {
	return string(e)
}
