package plan

import (
	"codec-generator/internal/descriptor"
	"codec-generator/internal/trie"
)

// WriteStep writes one field into the scope of its owning namespace.
type WriteStep struct {
	Scope *trie.Node
	Key   string
	Field *descriptor.Field
	// Conditional writes only when the optional value is present.
	Conditional bool
}

// EncodePlan is the write procedure of a record. Unlike decoding, every
// namespace is opened exactly once up front and shared by all its writes.
type EncodePlan struct {
	// Scopes are the namespaces to open, in pre-order, starting at the root.
	Scopes []*trie.Node
	// Writes follow trie order: a scope's terminals before its children's.
	Writes []WriteStep
}

// Encode plans the write procedure for the trie rooted at root.
// A nil root yields an empty plan.
func Encode(root *trie.Node) EncodePlan {
	var p EncodePlan

	if root == nil {
		return p
	}

	root.Walk(func(n *trie.Node) {
		p.Scopes = append(p.Scopes, n)

		for _, t := range n.Terminals {
			p.Writes = append(p.Writes, WriteStep{
				Scope:       n,
				Key:         t.Key,
				Field:       t.Field,
				Conditional: t.Field.Shape.IsOptional(),
			})
		}
	})

	return p
}
