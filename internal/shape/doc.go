// Package shape classifies declared field types.
//
// Every field type is reduced to one of five shapes that drive codec
// planning: identifier, optional, sequence, set and mapping. Classification
// works on Go type expression text (Classify) or on runtime types (FromType).
//
// Recognized forms:
//
//	*T, Optional[T]                  optional (nested optionals collapse)
//	[]T, Sequence[T]                 sequence ([]byte and arrays are identifiers)
//	map[T]struct{}, Set[T]           set
//	map[K]V, Mapping[K, V]           mapping
package shape
