// Package testutil provides shared helpers for pipeline tests: relation
// builders, store seeding, and CSV fixtures.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cdwalton/stateyear/internal/relation"
	"github.com/cdwalton/stateyear/internal/store"
)

// MustRelation builds a relation from records, failing the test on
// duplicate keys.
func MustRelation(t *testing.T, name string, recs ...relation.Record) *relation.Relation {
	t.Helper()
	rel, err := relation.FromRecords(name, recs)
	require.NoError(t, err)
	return rel
}

// OpenStore opens an in-memory store that closes with the test.
func OpenStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// SeedStore imports both panels into a store.
func SeedStore(t *testing.T, s *store.Store, capability, regime *relation.Relation) {
	t.Helper()
	ctx := t.Context()
	require.NoError(t, s.ImportCapability(ctx, capability))
	require.NoError(t, s.ImportRegime(ctx, regime))
}

// WriteCSV writes a CSV fixture file and returns its path.
// Each row is joined with commas; no quoting, so values must be plain.
func WriteCSV(t *testing.T, dir, name string, rows ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
