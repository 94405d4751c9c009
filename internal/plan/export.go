package plan

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"codec-generator/internal/trie"
)

// RecordDump is the human-readable form of a compiled record.
type RecordDump struct {
	Name   string       `yaml:"name"`
	Mode   string       `yaml:"mode"`
	Trie   *NodeDump    `yaml:"trie,omitempty"`
	Decode []DecodeDump `yaml:"decode,omitempty"`
	Encode EncodeDump   `yaml:"encode"`
	Init   InitDump     `yaml:"init"`
}

// NodeDump mirrors a trie node.
type NodeDump struct {
	Segment   string      `yaml:"segment,omitempty"`
	Terminals []string    `yaml:"terminals,omitempty"`
	Children  []*NodeDump `yaml:"children,omitempty"`
}

// DecodeDump mirrors a DecodeStep.
type DecodeDump struct {
	Field    string   `yaml:"field"`
	Scopes   []string `yaml:"scopes,omitempty"`
	Key      string   `yaml:"key"`
	Read     string   `yaml:"read"`
	Fallback string   `yaml:"fallback"`
}

// EncodeDump mirrors an EncodePlan.
type EncodeDump struct {
	Scopes []string `yaml:"scopes,omitempty"`
	Writes []string `yaml:"writes,omitempty"`
}

// InitDump mirrors an Initializer.
type InitDump struct {
	Access string   `yaml:"access"`
	Params []string `yaml:"params,omitempty"`
	Fixed  []string `yaml:"fixed,omitempty"`
}

// Export converts a record into its dump form.
func Export(r *Record) RecordDump {
	d := RecordDump{
		Name: r.Name,
		Mode: r.Mode.String(),
		Trie: exportNode(r.Trie),
		Init: InitDump{Access: r.Init.Access.String()},
	}

	for _, s := range r.Decode {
		dd := DecodeDump{
			Field:    s.Field.Name,
			Key:      s.Key,
			Read:     s.Read.String(),
			Fallback: s.Fallback.String(),
		}

		for _, n := range s.Scopes {
			dd.Scopes = append(dd.Scopes, scopeName(n))
		}

		d.Decode = append(d.Decode, dd)
	}

	for _, n := range r.Encode.Scopes {
		d.Encode.Scopes = append(d.Encode.Scopes, scopeName(n))
	}

	for _, w := range r.Encode.Writes {
		line := fmt.Sprintf("%s[%s] <- %s", scopeName(w.Scope), w.Key, w.Field.Name)
		if w.Conditional {
			line += " (if present)"
		}

		d.Encode.Writes = append(d.Encode.Writes, line)
	}

	for _, p := range r.Init.Params {
		line := p.Field.Name + ": " + p.Requirement.String()
		if p.Requirement == Defaulted {
			line += " = " + p.Default
		}

		d.Init.Params = append(d.Init.Params, line)
	}

	for _, f := range r.Init.Fixed {
		d.Init.Fixed = append(d.Init.Fixed, f.Name+" = "+*f.Default)
	}

	return d
}

// ExportYAML renders records as a YAML document list.
func ExportYAML(records []*Record) ([]byte, error) {
	dumps := make([]RecordDump, 0, len(records))
	for _, r := range records {
		dumps = append(dumps, Export(r))
	}

	out, err := yaml.Marshal(dumps)
	if err != nil {
		return nil, errors.Wrap(err, "marshal plan dump")
	}

	return out, nil
}

func exportNode(n *trie.Node) *NodeDump {
	if n == nil {
		return nil
	}

	d := &NodeDump{Segment: n.Segment}
	for _, t := range n.Terminals {
		d.Terminals = append(d.Terminals, t.Key+" -> "+t.Field.Name)
	}

	for _, c := range n.Children {
		d.Children = append(d.Children, exportNode(c))
	}

	return d
}

func scopeName(n *trie.Node) string {
	if n.IsRoot() {
		return "$"
	}

	return "$." + strings.Join(n.Path(), ".")
}
