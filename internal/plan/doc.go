// Package plan compiles field descriptors into read, write and constructor plans.
//
// Pipeline per record:
//  1. descriptor.Build validates fields and classifies their types
//  2. trie.Build groups codable fields into nested namespaces
//  3. Decode plans each field independently: scopes to open, read kind, fallback
//  4. Encode hoists every namespace once and orders writes by trie
//  5. Synthesize derives the constructor from declaration order
//
// Fallback priority on a failed read:
//  1. default expression
//  2. nil for optional fields
//  3. empty collection for required sequences, sets and mappings
//  4. propagate when a nested namespace was opened
//  5. none: the error reaches the caller
package plan
