// Package store provides SQLite-backed storage for the two source panels
// and the merged state-year table.
//
// Tables:
//   - capability: national material capability records, keyed (ccode, year)
//   - regime: regime-type records, keyed (ccode, year), with country name
//   - state_year: the merged output, keyed (ccode, year)
//   - merge_runs: one row per merge run (UUIDv7 run id, counts, timestamps)
//   - recode_log: one row per row mutation the applicator performed,
//     attributed to a run and a rule
//
// Missing measurements are SQL NULL. All reads order by (ccode, year) so
// relations come back in the same order every time.
//
// Database configuration:
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: recode_log rows must reference a run
package store
