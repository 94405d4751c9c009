// Package naming allocates collision-free Go identifiers for generated code.
//
// Key capabilities:
//   - Stem: numbered name allocation inside a Namespace
//   - ScopeVar: scope variable names derived from key paths ("roDuhContainer")
//   - Param: constructor parameter names that never shadow Go keywords
package naming
