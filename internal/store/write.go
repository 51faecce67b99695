package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/cdwalton/stateyear/internal/relation"
)

// ImportCapability replaces the capability panel with rel's records.
func (s *Store) ImportCapability(ctx context.Context, rel *relation.Relation) error {
	return s.replacePanel(ctx, "capability", CapabilityColumns, false, rel)
}

// ImportRegime replaces the regime panel with rel's records.
func (s *Store) ImportRegime(ctx context.Context, rel *relation.Relation) error {
	return s.replacePanel(ctx, "regime", RegimeColumns, true, rel)
}

// SaveStateYear replaces the merged output with rel's records.
func (s *Store) SaveStateYear(ctx context.Context, rel *relation.Relation) error {
	return s.replacePanel(ctx, "state_year", StateYearColumns, false, rel)
}

// replacePanel rewrites one table from a relation inside a transaction, so
// a failed write never leaves a half-replaced panel behind.
func (s *Store) replacePanel(ctx context.Context, table string, columns []string, withCountry bool, rel *relation.Relation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s import: %w", table, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	cols := []string{"ccode", "year"}
	if withCountry {
		cols = append(cols, "country")
	}
	cols = append(cols, columns...)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), placeholders,
	))
	if err != nil {
		return fmt.Errorf("prepare %s insert: %w", table, err)
	}
	defer stmt.Close()

	for _, rec := range rel.Records() {
		args := []any{rec.Code, rec.Year}
		if withCountry {
			args = append(args, nullString(rec.Country))
		}
		for _, col := range columns {
			args = append(args, nullField(rec, col))
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert %s row %s: %w", table, rec.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s import: %w", table, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullField(rec relation.Record, name string) sql.NullFloat64 {
	v, ok := rec.Fields[name]
	return sql.NullFloat64{Float64: v, Valid: ok}
}
