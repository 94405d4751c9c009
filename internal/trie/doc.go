// Package trie turns dotted key paths into a tree of nested namespaces.
//
// The path [a, b, c] reuses or creates namespaces a and a.b and places the
// field as a terminal of a.b under key c. Ordering is total and stable so
// generated code is reproducible: children sort by segment, terminals by key.
package trie
