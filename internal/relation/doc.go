// Package relation provides the panel relation type shared by the whole
// pipeline.
//
// A Relation is a set of Records unique by (code, year). Uniqueness is a
// structural invariant: Append refuses a duplicate key, so any stage that
// rebuilds a relation (recode, swap, copy-forward) surfaces key collisions
// at the point they are introduced rather than at join time.
//
// This package contains the data types and pure queries only. It imports
// nothing internal; every other internal package imports it.
//
// Key design constraints:
//   - Measurement fields are map[string]float64; a missing value is an
//     absent key, never NaN or a sentinel.
//   - All iteration that leaves the package is sorted by (code, year) so
//     downstream output is deterministic.
//   - Country names are diagnostic only and are dropped before the final
//     join.
package relation
