// Package descriptor builds the normalized field model every planner consumes.
//
// A front-end hands over raw Inputs (name, type text, dotted key, default
// expression, flags). Build classifies each type, splits keys into paths and
// rejects invalid combinations:
//   - a field without a type
//   - custom read combined with ignore or a fixed immutable value
//   - two fields with the same name, or two codable fields with the same path
//
// A field that is immutable and has a default is "fixed": its value can never
// come from outside, so it is excluded from the codec and the constructor.
package descriptor
