// Package gen renders compiled records as Go source: one file per record
// holding the struct, its constructor and options, UnmarshalJSON and
// MarshalJSON built on the codable runtime.
//
// Generation uses text/template, then golang.org/x/tools/imports for
// formatting. Output is deterministic for a given schema.
//
// Per record:
//   - struct fields in declaration order, static members omitted
//   - constructor with required parameters and functional options
//   - fallible element helper, only when a collection is decoded
//   - one closure per decoded field so a failure stays local to it
//   - namespaces opened once on write, optional values written when present
//
// A custom read calls a hand-written method on the record:
//
//	func (r *Foo) decodeBar(root *codable.Scope) (int, error)
//
// and a validated record must implement IsValid() bool.
package gen
