// Package harness provides conformance testing for the merge pipeline.
//
// The harness loads YAML scenarios describing the two input panels,
// executes the reconciliation and join stages, evaluates assertions, and
// compares the final state-year table against golden snapshots.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	capability:
//	  - {code: 100, year: 1832, fields: {milex: 5}}
//	regime:
//	  - {code: 99, year: 1832}
//	  - {code: 100, year: 1832, country: Colombia, fields: {polity: 5}}
//	rules: [gran-colombia-merge]   # omit for the full catalogue
//	assertions:
//	  - {type: row_count, count: 1}
//	  - {type: has_row, code: 100, year: 1832, fields: {polity: 5}}
//	  - {type: absent_code, code: 99}
//	  - {type: warning_count, count: 0}
//
// # Assertion Types
//
//   - row_count: the merged table has exactly N rows
//   - has_row: a (code, year) row exists and carries the given field values
//   - absent_row: no row exists at (code, year)
//   - absent_code: the code appears nowhere in the merged table
//   - warning_count: reconciliation produced exactly N warnings
//
// # Deterministic Testing
//
// The pipeline is a pure function of the scenario's relations, and the
// table renderer sorts rows and field names, so snapshots are identical
// across runs and suitable for golden comparison via goldie.
package harness
