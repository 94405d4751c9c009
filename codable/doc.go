// Package codable is the runtime half of codec-generator.
//
// Generated UnmarshalJSON and MarshalJSON methods are thin sequences of calls
// into this package, and the same plans can be executed directly by a
// reflection-driven Codec compiled from explicit Field declarations.
//
// # Reading
//
// A Scope is a cursor over one JSON object. Nested opens a namespace; failing
// to do so is a structural error. Decode reads a terminal key as exactly T.
//
// A malformed or null collection element is dropped instead of failing the
// field. Slot holds one such element; Codec decodes its collection members
// with the same rule. DecodeSequence, DecodeSet and DecodeMapping build on
// Slot for hand-written custom reads. Generated code declares its own element
// type per record.
//
// # Writing
//
// A WriteScope collects encoded values and namespaces in insertion order.
// Writing a value under a key that already holds a namespace fails with
// ErrKeyConflict.
//
// # Errors
//
// Every read failure is a *ReadError whose Kind matches one of ErrStructural,
// ErrLeaf or ErrValidation through errors.Is.
//
// # Registry
//
// Register declares a record once per process; For compiles its codec on
// first use and shares it afterwards.
package codable
