// Package rules defines the typed reconciliation rule records and the
// built-in historical catalogue.
//
// Rules are static data, not logic: one generic applicator routine per mode
// (internal/reconcile) consumes them. The built-in catalogue reproduces a
// fixed, historically researched set of code-identity events between the
// capability and regime coding schemes; its values are a golden contract
// and must not be derived or generalized.
//
// Ordering matters. Later rules may depend on the code space left by
// earlier ones; each Rule can declare the rule IDs that must precede it,
// and CheckOrder verifies the declaration against a concrete sequence
// before anything is applied.
package rules
