package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/cdwalton/stateyear/internal/join"
	"github.com/cdwalton/stateyear/internal/reconcile"
	"github.com/cdwalton/stateyear/internal/relation"
)

// Result holds the outcome of executing a scenario.
type Result struct {
	// Table is the merged state-year table.
	Table *relation.Relation

	// Reconciled is the regime relation after rule application.
	Reconciled *relation.Relation

	Warnings []reconcile.Warning
	Stats    reconcile.Stats
}

// Run executes a scenario: builds the two relations, applies the rule
// sequence, and joins. Logging is discarded; scenario output is the
// Result, not the log.
func Run(s *Scenario) (*Result, error) {
	capability, err := buildRelation("capability", s.Capability)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	regime, err := buildRelation("regime", s.Regime)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := reconcile.New(s.ruleSequence(), reconcile.WithLogger(quiet))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	res, err := app.Apply(regime, capability)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	table, err := join.LeftJoin(capability, res.Relation)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	return &Result{
		Table:      table,
		Reconciled: res.Relation,
		Warnings:   res.Warnings,
		Stats:      res.Stats,
	}, nil
}
