// Package diagnostic provides structured errors, warnings and notes produced
// while checking codec schemas.
//
// Key capabilities:
//   - Per-record, per-field findings with stable codes
//   - "Did you mean" suggestions for misspelled names
//   - Near-duplicate key warnings
//   - Conversion of error findings into a single marked error
package diagnostic
