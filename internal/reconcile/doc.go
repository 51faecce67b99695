// Package reconcile implements the country-code reconciliation engine.
//
// The engine resolves identity conflicts between the two coding schemes
// before the join: overlapping codes, splits and merges across historical
// transitions, and one simultaneous code swap. It has two parts:
//
//   - The conflict detector (detector.go): pure diagnostic queries over
//     (code, year) key spaces. CodesOnlyIn enumerates codes with no
//     counterpart in the sibling scheme; Overlap computes the years where
//     two rival codes both report records.
//
//   - The applicator (applicator.go): executes an ordered rule sequence
//     against the regime relation. Rules run strictly in program order;
//     each rule's output is computed from one consistent snapshot of the
//     pre-rule code column, never from partially updated state.
//
// The whole pipeline is a deterministic, single-threaded batch transform
// and is idempotent: re-applying the sequence to its own output changes
// nothing.
//
// Failure taxonomy:
//
//   - Uniqueness violation (fatal): a rule left duplicate (code, year)
//     keys behind. Indicates a missed overlap drop; the run aborts before
//     the join.
//   - Unknown conflict year (warning): a rule declares a conflict year
//     where no overlap exists. Data is not corrupted, but the catalogue is
//     stale against the inputs; surfaced in the result, never silently
//     ignored.
package reconcile
