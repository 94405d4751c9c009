// Package match provides key normalization and fuzzy name suggestions.
//
// Key functions:
//   - NormalizeKey: folds case and separators ("first_name" == "firstName")
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks "did you mean" candidates for a misspelled name
package match
