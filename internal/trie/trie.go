package trie

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"codec-generator/internal/descriptor"
)

// Terminal is a field whose path ends in a node's scope, stored under Key.
type Terminal struct {
	Key   string
	Field *descriptor.Field
}

// Node is one namespace of the external representation.
// The root has an empty Segment and no Parent. A node's children and its
// terminals may share a key: a field value and a nested namespace are
// distinct members of the scope and are never merged.
type Node struct {
	Segment   string
	Terminals []Terminal
	Children  []*Node
	Parent    *Node
}

type entry struct {
	rest  []string
	field *descriptor.Field
}

// Build groups fields into a namespace tree keyed by their path segments.
// It returns nil when fields is empty: a record without codable fields has no codec.
// Children are ordered by segment and terminals by key then field name.
func Build(fields []*descriptor.Field) *Node {
	if len(fields) == 0 {
		return nil
	}

	entries := make([]entry, 0, len(fields))
	for _, f := range fields {
		entries = append(entries, entry{rest: f.Path, field: f})
	}

	return build("", nil, entries)
}

func build(segment string, parent *Node, entries []entry) *Node {
	n := &Node{Segment: segment, Parent: parent}
	groups := make(map[string][]entry)

	for _, e := range entries {
		if len(e.rest) == 1 {
			n.Terminals = append(n.Terminals, Terminal{Key: e.rest[0], Field: e.field})
			continue
		}

		head := e.rest[0]
		groups[head] = append(groups[head], entry{rest: e.rest[1:], field: e.field})
	}

	slices.SortFunc(n.Terminals, func(a, b Terminal) int {
		return cmp.Or(strings.Compare(a.Key, b.Key), strings.Compare(a.Field.Name, b.Field.Name))
	})

	for _, seg := range slices.Sorted(maps.Keys(groups)) {
		if child := build(seg, n, groups[seg]); !child.isEmpty() {
			n.Children = append(n.Children, child)
		}
	}

	return n
}

func (n *Node) isEmpty() bool {
	return len(n.Terminals) == 0 && len(n.Children) == 0
}

// IsRoot reports whether n is the record's top-level scope.
func (n *Node) IsRoot() bool {
	return n.Parent == nil
}

// Child returns the child namespace named seg, or nil.
func (n *Node) Child(seg string) *Node {
	i, ok := slices.BinarySearchFunc(n.Children, seg, func(c *Node, s string) int {
		return strings.Compare(c.Segment, s)
	})
	if !ok {
		return nil
	}

	return n.Children[i]
}

// Terminal returns the terminal stored under key, if any.
func (n *Node) Terminal(key string) (Terminal, bool) {
	for _, t := range n.Terminals {
		if t.Key == key {
			return t, true
		}
	}

	return Terminal{}, false
}

// Path returns the segments from the root down to n.
func (n *Node) Path() []string {
	if n.IsRoot() {
		return nil
	}

	return append(n.Parent.Path(), n.Segment)
}

// Depth is the number of namespaces between the root and n; zero at the root.
func (n *Node) Depth() int {
	d := 0
	for p := n; !p.IsRoot(); p = p.Parent {
		d++
	}

	return d
}

// Chain returns the namespaces a field at path must open, outermost first.
// The root is not part of the chain. ok is false when a segment is missing.
func (n *Node) Chain(path []string) (chain []*Node, ok bool) {
	cur := n
	for _, seg := range path[:len(path)-1] {
		cur = cur.Child(seg)
		if cur == nil {
			return nil, false
		}

		chain = append(chain, cur)
	}

	return chain, true
}

// Walk visits n and its descendants in pre-order, children in sorted order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)

	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of terminals in the subtree rooted at n.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(x *Node) { total += len(x.Terminals) })

	return total
}
