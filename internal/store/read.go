package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/cdwalton/stateyear/internal/relation"
)

// LoadCapability reads the capability panel into a relation.
// Rows come back ordered by (ccode, year); NULL measurements become
// missing fields.
func (s *Store) LoadCapability(ctx context.Context) (*relation.Relation, error) {
	return s.loadPanel(ctx, "capability", CapabilityColumns, false)
}

// LoadRegime reads the regime panel into a relation, including the
// diagnostic country name.
func (s *Store) LoadRegime(ctx context.Context) (*relation.Relation, error) {
	return s.loadPanel(ctx, "regime", RegimeColumns, true)
}

// LoadStateYear reads the merged output back into a relation.
func (s *Store) LoadStateYear(ctx context.Context) (*relation.Relation, error) {
	return s.loadPanel(ctx, "state_year", StateYearColumns, false)
}

func (s *Store) loadPanel(ctx context.Context, table string, columns []string, withCountry bool) (*relation.Relation, error) {
	cols := "ccode, year"
	if withCountry {
		cols += ", country"
	}
	if len(columns) > 0 {
		cols += ", " + strings.Join(columns, ", ")
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY ccode ASC, year ASC
	`, cols, table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	rel := relation.New(table)
	for rows.Next() {
		rec, err := scanRecord(rows, columns, withCountry)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		if err := rel.Append(rec); err != nil {
			// The primary key makes this unreachable; surface it anyway.
			return nil, fmt.Errorf("load %s: %w", table, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return rel, nil
}

func scanRecord(rows *sql.Rows, columns []string, withCountry bool) (relation.Record, error) {
	var rec relation.Record
	var country sql.NullString
	values := make([]sql.NullFloat64, len(columns))

	dest := []any{&rec.Code, &rec.Year}
	if withCountry {
		dest = append(dest, &country)
	}
	for i := range values {
		dest = append(dest, &values[i])
	}
	if err := rows.Scan(dest...); err != nil {
		return relation.Record{}, err
	}

	if country.Valid {
		rec.Country = country.String
	}
	for i, v := range values {
		if !v.Valid {
			continue
		}
		if rec.Fields == nil {
			rec.Fields = make(map[string]float64, len(columns))
		}
		rec.Fields[columns[i]] = v.Float64
	}
	return rec, nil
}
