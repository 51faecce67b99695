package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunIDGenerator produces run identifiers for merge runs.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run ids.
//
// UUIDv7 embeds a timestamp in the most significant bits, so run ids sort
// by creation time, which keeps merge_runs browsable without a join.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined run ids for testing, enabling
// deterministic provenance rows and golden comparison.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
// Generate panics once all ids are consumed; exhausting the sequence is a
// test bug, not a condition to limp past.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined id.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all run ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// MergeRun is an open provenance record for one merge run. It implements
// the applicator's Journal interface: every row mutation lands in
// recode_log attributed to this run.
type MergeRun struct {
	ID  string
	s   *Store
	ctx context.Context
}

// BeginRun inserts a merge_runs row and returns the open run.
// Counts are zero until Finish updates them.
func (s *Store) BeginRun(ctx context.Context, gen RunIDGenerator) (*MergeRun, error) {
	id := gen.Generate()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO merge_runs (run_id, created_at, base_rows, output_rows, warnings)
		VALUES (?, ?, 0, 0, 0)
	`, id, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("begin run: %w", err)
	}
	return &MergeRun{ID: id, s: s, ctx: ctx}, nil
}

// RecordAction journals one applicator mutation under this run.
func (r *MergeRun) RecordAction(ruleID, action string, code, year int) error {
	_, err := r.s.db.ExecContext(r.ctx, `
		INSERT INTO recode_log (run_id, rule_id, action, ccode, year)
		VALUES (?, ?, ?, ?, ?)
	`, r.ID, ruleID, action, code, year)
	if err != nil {
		return fmt.Errorf("record action: %w", err)
	}
	return nil
}

// Finish stores the run's final counts.
func (r *MergeRun) Finish(baseRows, outputRows, warnings int) error {
	_, err := r.s.db.ExecContext(r.ctx, `
		UPDATE merge_runs
		SET base_rows = ?, output_rows = ?, warnings = ?
		WHERE run_id = ?
	`, baseRows, outputRows, warnings, r.ID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecodeLogEntry is one journaled applicator mutation.
type RecodeLogEntry struct {
	RuleID string `json:"rule_id"`
	Action string `json:"action"`
	Code   int    `json:"code"`
	Year   int    `json:"year"`
}

// ReadRecodeLog returns the journaled mutations for a run, in insertion
// order.
func (s *Store) ReadRecodeLog(ctx context.Context, runID string) ([]RecodeLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rule_id, action, ccode, year
		FROM recode_log
		WHERE run_id = ?
		ORDER BY id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query recode_log: %w", err)
	}
	defer rows.Close()

	var entries []RecodeLogEntry
	for rows.Next() {
		var e RecodeLogEntry
		if err := rows.Scan(&e.RuleID, &e.Action, &e.Code, &e.Year); err != nil {
			return nil, fmt.Errorf("scan recode_log: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recode_log: %w", err)
	}
	return entries, nil
}
